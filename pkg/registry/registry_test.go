package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ajxudir/turboncu/pkg/check"
	"github.com/ajxudir/turboncu/pkg/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRegistry serves abbreviated metadata for a fixed set of packages and
// counts the requests it receives.
type fakeRegistry struct {
	packages map[string][]string
	requests atomic.Int32
	server   *httptest.Server
}

func newFakeRegistry(t *testing.T, packages map[string][]string) *fakeRegistry {
	t.Helper()
	r := &fakeRegistry{packages: packages}
	r.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.requests.Add(1)
		name := strings.TrimPrefix(req.URL.Path, "/")
		versions, ok := r.packages[name]
		if !ok {
			http.NotFound(w, req)
			return
		}
		doc := map[string]interface{}{"name": name, "versions": map[string]interface{}{}}
		for _, v := range versions {
			doc["versions"].(map[string]interface{})[v] = map[string]string{"version": v}
		}
		w.Header().Set("Content-Type", abbreviatedMetadata)
		_ = json.NewEncoder(w).Encode(doc)
	}))
	t.Cleanup(r.server.Close)
	return r
}

// TestPackageURL tests registry URL construction.
func TestPackageURL(t *testing.T) {
	assert.Equal(t, "https://registry.npmjs.org/lodash", PackageURL("", "lodash"))
	assert.Equal(t, "https://registry.npmjs.org/@types%2fnode", PackageURL("https://registry.npmjs.org/", "@types/node"))
	assert.Equal(t, "http://localhost:4873/react", PackageURL("http://localhost:4873", "react"))
}

// TestClientVersions tests fetching and decoding of version lists.
//
// It verifies:
//   - All published versions are returned
//   - The abbreviated metadata Accept header is sent
//   - Scoped names keep an encoded separator on the wire
func TestClientVersions(t *testing.T) {
	var accept, escaped string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
		escaped = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"name":"@types/node","versions":{"20.0.0":{},"20.1.0":{}}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, 0)
	versions, err := c.Versions(context.Background(), "@types/node")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"20.0.0", "20.1.0"}, versions)
	assert.Equal(t, abbreviatedMetadata, accept)
	assert.Equal(t, "/@types%2fnode", escaped)
}

// TestClientRetries tests the retry policy of the client.
//
// It verifies:
//   - 5xx and 429 responses are retried until success
//   - 404 fails immediately
//   - Retries bounds the number of attempts
func TestClientRetries(t *testing.T) {
	t.Run("transient then success", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch calls.Add(1) {
			case 1:
				w.WriteHeader(http.StatusServiceUnavailable)
			case 2:
				w.WriteHeader(http.StatusTooManyRequests)
			default:
				_, _ = w.Write([]byte(`{"versions":{"1.0.0":{}}}`))
			}
		}))
		defer srv.Close()

		versions, err := NewClient(srv.URL, time.Second, 3).Versions(context.Background(), "pkg")
		require.NoError(t, err)
		assert.Equal(t, []string{"1.0.0"}, versions)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("not found is not retried", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.NotFound(w, r)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, time.Second, 3).Versions(context.Background(), "missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("gives up after retries", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, time.Second, 1).Versions(context.Background(), "flaky")
		require.Error(t, err)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("bad body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, time.Second, 0).Versions(context.Background(), "pkg")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode")
	})
}

// TestRetryStopsOnCancel tests that a cancelled context ends the backoff wait.
func TestRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, 5, time.Hour, func() error {
		calls++
		cancel()
		return &RetryableError{Err: assert.AnError}
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

// TestCache tests the JSON file cache.
//
// It verifies:
//   - Saved entries survive a reload
//   - Entries older than the TTL are misses and are pruned
//   - Corrupt files load as empty
//   - Clear deletes the file
func TestCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.json")

	c := LoadCache(path, 10*time.Minute)
	assert.Equal(t, 0, c.Len())
	c.Set("lodash", []string{"4.17.21"})
	require.NoError(t, c.Save())
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	reloaded := LoadCache(path, 10*time.Minute)
	versions, ok := reloaded.Get("lodash")
	require.True(t, ok)
	assert.Equal(t, []string{"4.17.21"}, versions)

	t.Run("expiry", func(t *testing.T) {
		c := LoadCache(path, time.Minute)
		c.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
		_, ok := c.Get("lodash")
		assert.False(t, ok)
		c.Prune()
		assert.Equal(t, 0, c.Len())
	})

	t.Run("corrupt file", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("{oops"), 0o644))
		assert.Equal(t, 0, LoadCache(bad, time.Minute).Len())
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, LoadCache(path, time.Minute).Clear())
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
		require.NoError(t, LoadCache(path, time.Minute).Clear())
	})
}

// TestParseBaseVersion tests extraction of the anchor version of a range.
func TestParseBaseVersion(t *testing.T) {
	tests := []struct {
		input  string
		expect string
		ok     bool
	}{
		{"^1.2.3", "1.2.3", true},
		{"~1.2", "1.2.0", true},
		{"1.x", "1.0.0", true},
		{"2.*.*", "2.0.0", true},
		{">=2.0.0 <3", "2.0.0", true},
		{">= 2.0.0", "2.0.0", true},
		{"1.2.3 || 2.0.0", "1.2.3", true},
		{"v1.2.3", "1.2.3", true},
		{"=1.0.0", "1.0.0", true},
		{"1.0.0-beta.1", "1.0.0-beta.1", true},
		{"*", "", false},
		{"x", "", false},
		{"latest", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseBaseVersion(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expect, got)
		})
	}
}

// TestPolicyPick tests version selection for every target.
func TestPolicyPick(t *testing.T) {
	published := []string{"1.0.0", "1.2.0", "1.2.5", "1.3.0", "2.0.0", "2.1.0-beta.1", "not-a-version"}

	tests := []struct {
		name     string
		policy   Policy
		current  string
		declared string
		expect   string
		ok       bool
	}{
		{"latest", Policy{Target: "latest"}, "1.2.0", "^1.2.0", "2.0.0", true},
		{"latest with prerelease", Policy{Target: "latest", IncludePrerelease: true}, "1.2.0", "^1.2.0", "2.1.0-beta.1", true},
		{"minor", Policy{Target: "minor"}, "1.2.0", "^1.2.0", "1.3.0", true},
		{"patch", Policy{Target: "patch"}, "1.2.0", "~1.2.0", "1.2.5", true},
		{"patch none newer", Policy{Target: "patch"}, "1.0.0", "1.0.0", "", false},
		{"semver caret", Policy{Target: "semver"}, "1.2.0", "^1.2.0", "1.3.0", true},
		{"semver tilde", Policy{Target: "semver"}, "1.2.0", "~1.2.0", "1.2.5", true},
		{"semver open", Policy{Target: "semver"}, "1.0.0", ">=1.0.0", "2.0.0", true},
		{"semver bad range", Policy{Target: "semver"}, "1.0.0", "not a range!", "", false},
		{"already newest", Policy{Target: "latest"}, "2.0.0", "^2.0.0", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.policy.Pick(tt.current, tt.declared, published)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expect, got)
		})
	}
}

// TestClassify tests update type classification.
func TestClassify(t *testing.T) {
	assert.Equal(t, check.UpdateMajor, Classify("1.0.0", "2.0.0"))
	assert.Equal(t, check.UpdateMinor, Classify("1.0.0", "1.1.0"))
	assert.Equal(t, check.UpdatePatch, Classify("1.0.0", "1.0.1"))
	assert.Equal(t, check.UpdatePrerelease, Classify("1.0.0-beta.1", "1.0.0"))
}

// TestNewRange tests that the declared operator survives a rewrite.
func TestNewRange(t *testing.T) {
	assert.Equal(t, "^2.0.0", NewRange("^1.0.0", "2.0.0"))
	assert.Equal(t, "~1.2.5", NewRange("~1.2.0", "1.2.5"))
	assert.Equal(t, ">=2.0.0", NewRange(">=1.0.0", "2.0.0"))
	assert.Equal(t, "2.0.0", NewRange("1.0.0", "2.0.0"))
}

// TestCheckerCheck tests a full engine call against a fake registry.
//
// It verifies:
//   - Updates come back in input order with the declared prefix kept
//   - A name declared twice is fetched once
//   - Unfetchable packages and anchorless ranges are skipped
//   - A second call is served from the cache
//   - ClearCache removes the cache file
func TestCheckerCheck(t *testing.T) {
	reg := newFakeRegistry(t, map[string][]string{
		"lodash":     {"4.17.0", "4.17.21"},
		"react":      {"17.0.2", "18.2.0"},
		"typescript": {"5.4.0"},
		"left-pad":   {"1.3.0"},
	})
	cacheFile := filepath.Join(t.TempDir(), "cache.json")

	deps := []manifest.Dependency{
		{Name: "lodash", VersionRange: "^4.17.0", DepType: manifest.DepProd},
		{Name: "react", VersionRange: "~17.0.2", DepType: manifest.DepDev},
		{Name: "typescript", VersionRange: "latest", DepType: manifest.DepDev},
		{Name: "ghost", VersionRange: "^1.0.0", DepType: manifest.DepProd},
		{Name: "left-pad", VersionRange: "1.3.0", DepType: manifest.DepProd},
		{Name: "lodash", VersionRange: "4.17.0", DepType: manifest.DepPeer},
	}
	opts := check.Options{
		Target:      "latest",
		Concurrency: 4,
		Timeout:     5 * time.Second,
		CacheFile:   cacheFile,
		CacheTTL:    10 * time.Minute,
		Registry:    reg.server.URL,
	}

	c := NewChecker()
	res, err := c.Check(context.Background(), deps, opts)
	require.NoError(t, err)

	require.Len(t, res.Updates, 3)
	assert.Equal(t, check.Update{
		Name: "lodash", Current: "^4.17.0", CurrentVersion: "4.17.0", Latest: "4.17.21",
		NewRange: "^4.17.21", UpdateType: check.UpdatePatch, DepType: manifest.DepProd,
	}, res.Updates[0])
	assert.Equal(t, "react", res.Updates[1].Name)
	assert.Equal(t, "~18.2.0", res.Updates[1].NewRange)
	assert.Equal(t, check.UpdateMajor, res.Updates[1].UpdateType)
	assert.Equal(t, "lodash", res.Updates[2].Name)
	assert.Equal(t, "4.17.21", res.Updates[2].NewRange)
	assert.Equal(t, manifest.DepPeer, res.Updates[2].DepType)

	assert.Equal(t, 0, res.CacheHits)
	assert.Equal(t, 5, res.CacheMisses)
	assert.Equal(t, int32(5), reg.requests.Load())

	again, err := c.Check(context.Background(), deps, opts)
	require.NoError(t, err)
	assert.Equal(t, res.Updates, again.Updates)
	assert.Equal(t, 4, again.CacheHits)
	assert.Equal(t, 1, again.CacheMisses)
	assert.Equal(t, int32(6), reg.requests.Load())

	require.NoError(t, c.ClearCache(cacheFile))
	_, err = os.Stat(cacheFile)
	assert.True(t, os.IsNotExist(err))
}

// TestCheckerEmpty tests that no dependencies means no requests.
func TestCheckerEmpty(t *testing.T) {
	reg := newFakeRegistry(t, nil)
	res, err := NewChecker().Check(context.Background(), nil, check.Options{
		Target:    "latest",
		CacheFile: filepath.Join(t.TempDir(), "cache.json"),
		Registry:  reg.server.URL,
	})
	require.NoError(t, err)
	assert.NotNil(t, res.Updates)
	assert.Empty(t, res.Updates)
	assert.Equal(t, int32(0), reg.requests.Load())
}

// slowSource records how many lookups run at once.
type slowSource struct {
	mu       sync.Mutex
	inFlight int
	peak     int
}

func (s *slowSource) Versions(ctx context.Context, name string) ([]string, error) {
	s.mu.Lock()
	s.inFlight++
	s.peak = max(s.peak, s.inFlight)
	s.mu.Unlock()

	time.Sleep(20 * time.Millisecond)

	s.mu.Lock()
	s.inFlight--
	s.mu.Unlock()
	return []string{"1.0.0", "2.0.0"}, nil
}

// TestCheckerConcurrencyLimit tests that fetches respect the concurrency bound.
func TestCheckerConcurrencyLimit(t *testing.T) {
	src := &slowSource{}
	c := &Checker{Source: src}

	var deps []manifest.Dependency
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		deps = append(deps, manifest.Dependency{Name: name, VersionRange: "^1.0.0", DepType: manifest.DepProd})
	}

	res, err := c.Check(context.Background(), deps, check.Options{
		Target:      "latest",
		Concurrency: 2,
		CacheFile:   filepath.Join(t.TempDir(), "cache.json"),
	})
	require.NoError(t, err)
	assert.Len(t, res.Updates, 8)
	assert.LessOrEqual(t, src.peak, 2)
	assert.GreaterOrEqual(t, src.peak, 1)
}

// TestCheckerCancelled tests that a cancelled context aborts the call.
func TestCheckerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &Checker{Source: &slowSource{}}
	_, err := c.Check(ctx, []manifest.Dependency{
		{Name: "a", VersionRange: "^1.0.0", DepType: manifest.DepProd},
	}, check.Options{Target: "latest", CacheFile: filepath.Join(t.TempDir(), "cache.json")})
	assert.ErrorIs(t, err, context.Canceled)
}

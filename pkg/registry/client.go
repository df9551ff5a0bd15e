package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultRegistry is used when no registry URL is configured.
	DefaultRegistry = "https://registry.npmjs.org"

	// abbreviatedMetadata asks the registry for the install-time document,
	// which is much smaller than the full packument.
	abbreviatedMetadata = "application/vnd.npm.install-v1+json"

	baseRetryDelay = 100 * time.Millisecond
)

// Client fetches published version lists from an npm-compatible registry.
//
// Fields:
//   - BaseURL: Registry root, DefaultRegistry when empty
//   - HTTP: Client used for requests; its Timeout bounds each attempt
//   - Retries: Extra attempts for transient failures
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Retries int
}

// NewClient creates a Client with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration, retries int) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
		Retries: retries,
	}
}

type packument struct {
	Versions map[string]json.RawMessage `json:"versions"`
}

// PackageURL returns the metadata URL for a package. Scoped names keep the
// leading "@" and encode the separator, as the npm registry expects.
//
// Parameters:
//   - baseURL: Registry root
//   - name: Package name (e.g., "lodash", "@types/node")
//
// Returns:
//   - string: URL such as "https://registry.npmjs.org/@types%2fnode"
func PackageURL(baseURL, name string) string {
	if baseURL == "" {
		baseURL = DefaultRegistry
	}
	escaped := name
	if strings.HasPrefix(name, "@") {
		escaped = strings.Replace(name, "/", "%2f", 1)
	}
	return strings.TrimRight(baseURL, "/") + "/" + escaped
}

// Versions returns every version string published for name.
//
// Parameters:
//   - ctx: Context for cancellation
//   - name: Package name
//
// Returns:
//   - []string: Published versions, unordered
//   - error: Request, status or decode failure after all retries
func (c *Client) Versions(ctx context.Context, name string) ([]string, error) {
	url := PackageURL(c.BaseURL, name)
	var versions []string

	err := Retry(ctx, c.Retries+1, baseRetryDelay, func() error {
		v, err := c.fetch(ctx, url)
		if err != nil {
			return err
		}
		versions = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return versions, nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", abbreviatedMetadata)

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Err: fmt.Errorf("GET %s: %w", url, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, &RetryableError{Err: fmt.Errorf("GET %s: status %d", url, resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}

	var doc packument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}

	versions := make([]string, 0, len(doc.Versions))
	for v := range doc.Versions {
		versions = append(versions, v)
	}
	return versions, nil
}

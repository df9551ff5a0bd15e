package target

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"testing"

	"github.com/ajxudir/turboncu/pkg/errors"
	"github.com/ajxudir/turboncu/pkg/manifest"
	"github.com/ajxudir/turboncu/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInventory struct {
	deps  []manifest.Dependency
	calls int
}

func (f *fakeInventory) List(context.Context) []manifest.Dependency {
	f.calls++
	return f.deps
}

func labels(targets []Target) []string {
	out := make([]string, 0, len(targets))
	for _, tg := range targets {
		out = append(out, tg.Label)
	}
	return out
}

// monorepo writes a root manifest with two members and returns its directory.
func monorepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	testutil.NewManifest("mono").
		WithField("workspaces", []string{"packages/*"}).
		WithDependency("devDependencies", "turbo", "^1.0.0").
		WriteTo(t, root)
	testutil.NewManifest("a").WithDependency("dependencies", "react", "^18.0.0").WriteTo(t, filepath.Join(root, "packages", "a"))
	testutil.NewManifest("b").WithDependency("dependencies", "vue", "^3.0.0").WriteTo(t, filepath.Join(root, "packages", "b"))
	return root
}

// TestResolveGlobal tests that global mode ignores manifests entirely.
func TestResolveGlobal(t *testing.T) {
	inv := &fakeInventory{deps: []manifest.Dependency{{Name: "npm", VersionRange: "^10.0.0", DepType: manifest.DepProd}}}
	r := &Resolver{Dir: t.TempDir(), Inventory: inv}

	targets, err := r.Resolve(context.Background(), Options{Global: true, Workspaces: true})
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, GlobalLabel, targets[0].Label)
	assert.True(t, targets[0].ReadOnly())
	assert.Equal(t, inv.deps, targets[0].Dependencies)
	assert.Equal(t, 1, inv.calls)
}

// TestResolveGlobalEmptyInventory tests that a failed inventory still yields one target.
func TestResolveGlobalEmptyInventory(t *testing.T) {
	r := &Resolver{Inventory: &fakeInventory{deps: []manifest.Dependency{}}}
	targets, err := r.Resolve(context.Background(), Options{Global: true})
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Empty(t, targets[0].Dependencies)
}

// TestResolveSingle tests single-project resolution.
//
// It verifies:
//   - package.json in Dir is used by default
//   - An explicit relative PackageFile resolves against Dir
//   - Dependency types restrict extraction
//   - A missing manifest is ErrManifestNotFound
func TestResolveSingle(t *testing.T) {
	dir := t.TempDir()
	path := testutil.NewManifest("app").
		WithDependency("dependencies", "lodash", "^4.0.0").
		WithDependency("devDependencies", "typescript", "^4.0.0").
		WriteTo(t, dir)
	abs, _ := filepath.Abs(path)

	r := NewResolver(dir)

	t.Run("default manifest", func(t *testing.T) {
		targets, err := r.Resolve(context.Background(), Options{})
		require.NoError(t, err)
		require.Len(t, targets, 1)
		assert.Equal(t, abs, targets[0].ManifestPath)
		assert.Equal(t, abs, targets[0].Label)
		assert.False(t, targets[0].ReadOnly())
		assert.Len(t, targets[0].Dependencies, 2)
	})

	t.Run("prod only", func(t *testing.T) {
		targets, err := r.Resolve(context.Background(), Options{DepTypes: []manifest.DepType{manifest.DepProd}})
		require.NoError(t, err)
		assert.Equal(t, []manifest.Dependency{{Name: "lodash", VersionRange: "^4.0.0", DepType: manifest.DepProd}},
			targets[0].Dependencies)
	})

	t.Run("explicit package file", func(t *testing.T) {
		other := testutil.NewManifest("other").WriteTo(t, filepath.Join(dir, "nested"))
		targets, err := r.Resolve(context.Background(), Options{PackageFile: filepath.Join("nested", "package.json")})
		require.NoError(t, err)
		otherAbs, _ := filepath.Abs(other)
		assert.Equal(t, otherAbs, targets[0].ManifestPath)
	})

	t.Run("missing manifest", func(t *testing.T) {
		_, err := NewResolver(t.TempDir()).Resolve(context.Background(), Options{})
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, errors.ErrManifestNotFound))
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := r.Resolve(context.Background(), Options{PackageFile: "nope.json"})
		assert.Error(t, err)
	})
}

// TestResolveWorkspaces tests root inclusion rules in workspace mode.
//
// It verifies:
//   - --workspaces alone checks members only
//   - --workspaces --root puts the root first
//   - --workspace NAME includes the root and the named member
func TestResolveWorkspaces(t *testing.T) {
	root := monorepo(t)
	r := NewResolver(root)

	targets, err := r.Resolve(context.Background(), Options{Workspaces: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, labels(targets))

	targets, err = r.Resolve(context.Background(), Options{Workspaces: true, Root: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"mono", "a", "b"}, labels(targets))
	assert.Equal(t, "turbo", targets[0].Dependencies[0].Name)

	targets, err = r.Resolve(context.Background(), Options{Workspace: "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"mono", "b"}, labels(targets))
	assert.Equal(t, "vue", targets[1].Dependencies[0].Name)
}

// TestResolveWorkspacesRootFallbacks tests degraded root handling.
func TestResolveWorkspacesRootFallbacks(t *testing.T) {
	t.Run("unnamed root", func(t *testing.T) {
		root := t.TempDir()
		testutil.NewManifest("").WithField("workspaces", []string{"packages/*"}).WriteTo(t, root)
		targets, err := NewResolver(root).Resolve(context.Background(), Options{Workspaces: true, Root: true})
		require.NoError(t, err)
		assert.Equal(t, []string{RootLabel}, labels(targets))
	})

	t.Run("unparseable root omitted", func(t *testing.T) {
		root := t.TempDir()
		testutil.WriteFile(t, filepath.Join(root, "package.json"), "{")
		testutil.WriteFile(t, filepath.Join(root, "pnpm-workspace.yaml"), "packages: [apps/*]\n")
		testutil.NewManifest("web").WriteTo(t, filepath.Join(root, "apps", "web"))

		targets, err := NewResolver(root).Resolve(context.Background(), Options{Workspaces: true, Root: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"web"}, labels(targets))
	})

	t.Run("no root and no members", func(t *testing.T) {
		targets, err := NewResolver(t.TempDir()).Resolve(context.Background(), Options{Workspace: "x"})
		require.NoError(t, err)
		assert.Empty(t, targets)
	})

	t.Run("broken member propagates", func(t *testing.T) {
		root := t.TempDir()
		testutil.NewManifest("r").WithField("workspaces", []string{"packages/*"}).WriteTo(t, root)
		testutil.WriteFile(t, filepath.Join(root, "packages", "x", "package.json"), "nope")
		_, err := NewResolver(root).Resolve(context.Background(), Options{Workspaces: true})
		assert.Error(t, err)
	})
}

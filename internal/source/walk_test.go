// internal/source/walk_test.go
package source_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/flotsam/internal/source"
	"github.com/xkilldash9x/flotsam/internal/syntax"
)

func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func baseNames(paths []string) []string {
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	return names
}

func defaultOptions() source.Options {
	return source.Options{Extensions: syntax.LintableExtensions}
}

func TestDiscoverFiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"src/app.ts":   "f();",
		"src/util.js":  "g();",
		"src/view.tsx": "h();",
		"README.md":    "# readme",
		"style.css":    "body {}",
	})

	files, err := source.Discover([]string{dir}, defaultOptions(), zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"app.ts", "util.js", "view.tsx"}, baseNames(files))
}

func TestDiscoverSkipsExcludedDirs(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"src/keep.js":          "a();",
		"node_modules/dep.js":  "b();",
		"dist/bundle.js":       "c();",
		"build/out.js":         "d();",
		"vendor/lib.js":        "e();",
		"coverage/cov.js":      "f();",
		"src/generated/gen.js": "g();",
	})

	opts := defaultOptions()
	opts.Excludes = []string{"generated"}

	files, err := source.Discover([]string{dir}, opts, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.js"}, baseNames(files))
}

func TestDiscoverSizeCap(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"small.js": "f();",
		"big.js":   string(make([]byte, 64)),
	})

	opts := defaultOptions()
	opts.MaxFileSize = 32

	files, err := source.Discover([]string{dir}, opts, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"small.js"}, baseNames(files))
}

func TestDiscoverExplicitFileRoot(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"script.weird": "f();",
		"huge.ts":      string(make([]byte, 64)),
	})

	opts := defaultOptions()
	opts.MaxFileSize = 32

	// An explicit file root skips the extension filter but not the size cap.
	files, err := source.Discover([]string{filepath.Join(dir, "script.weird")}, opts, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"script.weird"}, baseNames(files))

	files, err = source.Discover([]string{filepath.Join(dir, "huge.ts")}, opts, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDiscoverChangedFilter(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"touched.ts":   "f();",
		"untouched.ts": "g();",
	})

	abs, err := filepath.Abs(filepath.Join(dir, "touched.ts"))
	require.NoError(t, err)

	opts := defaultOptions()
	opts.Changed = map[string]struct{}{abs: {}}

	files, err := source.Discover([]string{dir}, opts, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"touched.ts"}, baseNames(files))
}

func TestDiscoverIncludeHTML(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"page.html": "<script>f();</script>",
		"other.htm": "<script>g();</script>",
		"app.ts":    "h();",
	})

	files, err := source.Discover([]string{dir}, defaultOptions(), zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"app.ts"}, baseNames(files))

	opts := defaultOptions()
	opts.IncludeHTML = true
	files, err = source.Discover([]string{dir}, opts, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"app.ts", "page.html", "other.htm"}, baseNames(files))
}

func TestDiscoverDedupesOverlappingRoots(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"sub/a.js": "f();"})

	files, err := source.Discover(
		[]string{dir, filepath.Join(dir, "sub"), dir},
		defaultOptions(),
		zaptest.NewLogger(t),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.js"}, baseNames(files))
}

func TestDiscoverMissingRoot(t *testing.T) {
	_, err := source.Discover(
		[]string{filepath.Join(t.TempDir(), "nope")},
		defaultOptions(),
		zaptest.NewLogger(t),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stat")
}

func TestIsHTMLPath(t *testing.T) {
	assert.True(t, source.IsHTMLPath("docs/page.html"))
	assert.True(t, source.IsHTMLPath("docs/PAGE.HTM"))
	assert.False(t, source.IsHTMLPath("src/app.ts"))
	assert.False(t, source.IsHTMLPath("README"))
}

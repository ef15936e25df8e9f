// internal/source/walk.go
// File discovery for lint runs: walks the requested roots, keeps lintable
// extensions, and drops ignored directories and oversized files before any
// parsing happens.
package source

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// DefaultMaxFileSize caps how large a file the walker hands to the parser.
// Minified bundles routinely exceed this; linting them is noise.
const DefaultMaxFileSize = 2 << 20

// defaultExcludes are directory names skipped at any depth.
var defaultExcludes = []string{"node_modules", ".git", "dist", "build", "vendor", "coverage"}

// Options control discovery.
type Options struct {
	// Extensions filters files; entries include the leading dot.
	Extensions []string
	// Excludes adds directory names to the default skip list.
	Excludes []string
	// MaxFileSize in bytes; 0 means DefaultMaxFileSize.
	MaxFileSize int64
	// IncludeHTML also keeps .html/.htm documents so inline scripts lint.
	IncludeHTML bool
	// Changed, when non-nil, keeps only files whose absolute path is in
	// the set (the --since filter).
	Changed map[string]struct{}
}

// Discover resolves the roots to the list of files a run should lint.
// Roots may be files or directories; explicit file roots bypass the
// extension filter but not the size cap.
func Discover(roots []string, opts Options, logger *zap.Logger) ([]string, error) {
	log := logger.Named("discovery")

	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	skipDirs := make(map[string]bool, len(defaultExcludes)+len(opts.Excludes))
	for _, name := range defaultExcludes {
		skipDirs[name] = true
	}
	for _, name := range opts.Excludes {
		skipDirs[name] = true
	}

	var files []string
	seen := make(map[string]struct{})
	keep := func(path string, size int64, explicit bool) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if _, dup := seen[abs]; dup {
			return
		}
		if size > maxSize {
			log.Debug("Skipping oversized file", zap.String("path", path), zap.Int64("size_bytes", size))
			return
		}
		if !explicit && !wantExtension(path, opts) {
			return
		}
		if opts.Changed != nil {
			if _, ok := opts.Changed[abs]; !ok {
				return
			}
		}
		seen[abs] = struct{}{}
		files = append(files, path)
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}

		if !info.IsDir() {
			keep(root, info.Size(), true)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && skipDirs[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			fi, err := d.Info()
			if err != nil {
				return err
			}
			keep(path, fi.Size(), false)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", root, err)
		}
	}

	log.Debug("Discovery complete", zap.Int("files", len(files)))
	return files, nil
}

func wantExtension(path string, opts Options) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if opts.IncludeHTML && (ext == ".html" || ext == ".htm") {
		return true
	}
	for _, want := range opts.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// IsHTMLPath reports whether the engine should treat the file as a document
// with embedded scripts rather than a script itself.
func IsHTMLPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".html" || ext == ".htm"
}

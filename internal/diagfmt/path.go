package diagfmt

import (
	"path/filepath"
	"strings"

	"mznlint/internal/source"
)

func filePath(fs *source.FileSet, id source.FileID, mode PathMode, base string) string {
	if fs == nil {
		return "?"
	}
	f := fs.Get(id)
	if f == nil {
		return "?"
	}
	return formatPath(f.Path, mode, base)
}

func formatPath(path string, mode PathMode, base string) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.ToSlash(abs)
		}
		return path
	case PathModeBasename:
		return filepath.Base(path)
	case PathModeRelative:
		if base == "" {
			return path
		}
		if rel, err := filepath.Rel(base, path); err == nil {
			return filepath.ToSlash(rel)
		}
		return path
	default:
		if base == "" || !filepath.IsAbs(path) {
			return path
		}
		rel, err := filepath.Rel(base, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return path
		}
		return filepath.ToSlash(rel)
	}
}

package source

import (
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// Classifier decides whether a file is user-authored or belongs to a library.
// A file is user-authored iff it is not beneath any include path, does not
// match any library pattern and is neither introduced nor stdlib-flagged.
type Classifier struct {
	includePaths []string
	patterns     *ignore.GitIgnore
}

// NewClassifier builds a Classifier from include directories and optional
// gitignore-style library patterns (e.g. "vendor/**", "*.std.mzn").
func NewClassifier(includePaths, patterns []string) *Classifier {
	c := &Classifier{
		includePaths: make([]string, 0, len(includePaths)),
	}
	for _, p := range includePaths {
		p = NormalizePath(p)
		if p == "" || p == "." {
			continue
		}
		c.includePaths = append(c.includePaths, strings.TrimSuffix(p, "/"))
	}
	if len(patterns) > 0 {
		c.patterns = ignore.CompileIgnoreLines(patterns...)
	}
	return c
}

// IncludePaths returns the normalized include directories.
func (c *Classifier) IncludePaths() []string {
	if c == nil {
		return nil
	}
	return c.includePaths
}

// IsUserPath reports whether a path lies outside every library location.
func (c *Classifier) IsUserPath(path string) bool {
	if c == nil {
		return true
	}
	path = NormalizePath(path)
	for _, inc := range c.includePaths {
		if path == inc || strings.HasPrefix(path, inc+"/") {
			return false
		}
	}
	if c.patterns != nil && c.patterns.MatchesPath(path) {
		return false
	}
	return true
}

// IsUserFile reports whether the file is user-authored.
// Unknown files are treated as library code.
func (c *Classifier) IsUserFile(fs *FileSet, id FileID) bool {
	f := fs.Get(id)
	if f == nil {
		return false
	}
	if f.Flags&(FileIntroduced|FileStdlib) != 0 {
		return false
	}
	return c.IsUserPath(f.Path)
}

// IsUserSpan is IsUserFile for the span's file.
func (c *Classifier) IsUserSpan(fs *FileSet, sp Span) bool {
	return c.IsUserFile(fs, sp.File)
}

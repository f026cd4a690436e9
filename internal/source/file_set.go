package source

import (
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"
)

// FileSet manages the collection of files the front end reported locations in.
type FileSet struct {
	files []File
	index map[string]FileID // path -> id
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// Add registers a file and returns its FileID.
// It always creates a new FileID even if a file with the same path already exists.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	normalizedPath := NormalizePath(path)

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		Flags:   flags,
	})
	// индекс всегда указывает на последнюю версию файла
	fileSet.index[normalizedPath] = id
	return id
}

// AddVirtual adds an in-memory file with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// AddIntroduced registers a pseudo file for front-end synthesized code.
func (fileSet *FileSet) AddIntroduced(name string) FileID {
	return fileSet.Add(name, nil, FileIntroduced)
}

// LoadContent reads file content from disk for an already registered file.
// Missing files are not an error: content is only used for previews.
func (fileSet *FileSet) LoadContent(id FileID) error {
	f := fileSet.Get(id)
	if f == nil || f.Content != nil {
		return nil
	}
	// #nosec G304 -- path comes from the model snapshot
	content, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", f.Path, err)
	}
	f.Content = content
	return nil
}

// Get returns the file metadata for the given ID, or nil when out of range.
func (fileSet *FileSet) Get(id FileID) *File {
	if int(id) >= len(fileSet.files) {
		return nil
	}
	return &fileSet.files[id]
}

// GetByPath returns the latest file registered under path.
func (fileSet *FileSet) GetByPath(path string) (*File, bool) {
	if id, ok := fileSet.index[NormalizePath(path)]; ok {
		return &fileSet.files[id], true
	}
	return nil, false
}

// Files returns the registered files. Callers must not modify the slice.
func (fileSet *FileSet) Files() []File {
	return fileSet.files
}

func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// GetLine returns the 1-based line lineNum, or "" when content is unavailable.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 || len(f.Content) == 0 {
		return ""
	}
	line := uint32(1)
	start := 0
	for i, b := range f.Content {
		if b != '\n' {
			continue
		}
		if line == lineNum {
			return string(f.Content[start:i])
		}
		line++
		start = i + 1
	}
	if line == lineNum {
		return string(f.Content[start:])
	}
	return ""
}

// NormalizePath cleans p, uses forward slashes and NFC so that paths coming
// from different front ends compare equal.
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}
	return norm.NFC.String(filepath.ToSlash(filepath.Clean(p)))
}

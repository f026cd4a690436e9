package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota
	// FileIntroduced marks code synthesized by the front end (enum helpers, _objective, ...).
	FileIntroduced
	// FileStdlib marks files the front end loaded from its own standard library.
	FileStdlib
)

// File captures metadata and optional content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}

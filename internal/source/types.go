package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32 // просто ID источника
	// FileFlags encodes metadata about a source file.
	FileFlags uint8 // метаданные
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска (тест, stdin)
	// FileHadBOM marks files that start with a UTF-8 byte order mark.
	FileHadBOM
	// FileHasCRLF marks files using \r\n line endings.
	FileHasCRLF
)

// File captures metadata and content for a single source file.
// Content is kept byte-for-byte as read so that fixes can be written back
// without touching line endings.
type File struct {
	ID      FileID
	Path    string // slash-separated, relative to the FileSet base when possible
	Abs     string // absolute path on disk, empty for virtual files
	Content []byte
	LineIdx []uint32 // byte offset of the first byte of every line
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in bytes
}

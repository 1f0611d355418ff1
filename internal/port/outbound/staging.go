package outbound

import "io"

// StagedFile is a scratch copy of one payload handed to a storage provider.
type StagedFile interface {
	Path() string
	Filename() string
	SizeBytes() int64
	MimeType() string
	Reader() io.Reader
	// Release closes the reader and removes the file. Idempotent.
	Release() error
}

// FileStagerPort writes payloads to scratch files.
type FileStagerPort interface {
	Stage(data []byte, filename string) (StagedFile, error)
}

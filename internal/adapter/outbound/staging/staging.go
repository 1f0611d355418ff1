package staging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/uniedit/seeder/internal/port/outbound"
	"github.com/uniedit/seeder/internal/utils/mediatype"
)

// ErrInvalidFilename is returned for names that are empty or contain a path.
var ErrInvalidFilename = errors.New("invalid staging filename")

// Stager writes payloads to a scratch directory so storage providers can
// consume them as files.
type Stager struct {
	fs       billy.Filesystem
	detector mediatype.Detector
}

// NewStager creates a stager over an existing filesystem.
func NewStager(fs billy.Filesystem, detector mediatype.Detector) *Stager {
	if detector == nil {
		detector = mediatype.ExtensionDetector{}
	}
	return &Stager{
		fs:       fs,
		detector: detector,
	}
}

// NewOSStager creates a stager rooted at dir on the local disk.
// An empty dir selects the process temp directory.
func NewOSStager(dir string, detector mediatype.Detector) (*Stager, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	return NewStager(osfs.New(dir), detector), nil
}

// StagedFile is a scratch copy of one payload. It must be released by the
// caller on every path.
type StagedFile struct {
	path      string
	filename  string
	sizeBytes int64
	mimeType  string

	fs       billy.Filesystem
	reader   billy.File
	released bool
}

// Path returns the staged file's location under the filesystem root.
func (f *StagedFile) Path() string { return f.path }

// Filename returns the caller-supplied base name.
func (f *StagedFile) Filename() string { return f.filename }

// SizeBytes returns the size observed on disk after writing.
func (f *StagedFile) SizeBytes() int64 { return f.sizeBytes }

// MimeType returns the detected media type.
func (f *StagedFile) MimeType() string { return f.mimeType }

// Reader returns the readable handle on the staged file.
func (f *StagedFile) Reader() io.Reader {
	return f.reader
}

// Release closes the handle and deletes the file. It is safe to call more
// than once; a file that is already gone is not an error.
func (f *StagedFile) Release() error {
	if f.released {
		return nil
	}
	f.released = true

	var errs []error
	if f.reader != nil {
		if err := f.reader.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			errs = append(errs, fmt.Errorf("close staged file: %w", err))
		}
	}
	if err := f.fs.Remove(f.filename); err != nil && !os.IsNotExist(err) {
		errs = append(errs, fmt.Errorf("remove staged file: %w", err))
	}
	return errors.Join(errs...)
}

// Stage writes data under filename and reopens it for reading. On error no
// file is left behind.
func (s *Stager) Stage(data []byte, filename string) (_ outbound.StagedFile, retErr error) {
	if filename == "" || filename != filepath.Base(filename) || filename == "." || filename == ".." {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}

	staged := &StagedFile{
		path:     s.fs.Join(s.fs.Root(), filename),
		filename: filename,
		fs:       s.fs,
	}
	defer func() {
		if retErr != nil {
			retErr = errors.Join(retErr, staged.Release())
		}
	}()

	if err := s.write(filename, data); err != nil {
		return nil, err
	}

	info, err := s.fs.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("stat staged file: %w", err)
	}
	staged.sizeBytes = info.Size()
	staged.mimeType = s.detector.Detect(filename, data)

	reader, err := s.fs.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open staged file: %w", err)
	}
	staged.reader = reader

	return staged, nil
}

func (s *Stager) write(filename string, data []byte) (retErr error) {
	file, err := s.fs.Create(filename)
	if err != nil {
		return fmt.Errorf("create staged file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			retErr = errors.Join(retErr, fmt.Errorf("close staged file: %w", closeErr))
		}
	}()

	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("write staged file: %w", err)
	}
	return nil
}

var (
	_ outbound.FileStagerPort = (*Stager)(nil)
	_ outbound.StagedFile     = (*StagedFile)(nil)
)

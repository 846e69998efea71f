// Package download writes attachment responses to disk.
package download

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// ErrInvalidFilename indicates a filename with no usable base name
var ErrInvalidFilename = errors.New("invalid attachment filename")

// DirSink saves attachments into a single directory
type DirSink struct {
	dir    string
	logger zerolog.Logger
}

// NewDirSink creates a sink writing into dir. The directory is created on
// the first save.
func NewDirSink(dir string, logger zerolog.Logger) *DirSink {
	if dir == "" {
		dir = "."
	}
	return &DirSink{dir: dir, logger: logger}
}

// Dir returns the target directory
func (s *DirSink) Dir() string {
	return s.dir
}

// Path returns where a file with the given server-supplied name would be
// written. Only the base name is used, so a name cannot escape the directory.
func (s *DirSink) Path(filename string) (string, error) {
	base := filepath.Base(filepath.Clean("/" + filename))
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}
	return filepath.Join(s.dir, base), nil
}

// Save implements requests.FileSink
func (s *DirSink) Save(filename string, r io.Reader) error {
	path, err := s.Path(filename)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	n, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		// no partial files in the download directory
		_ = os.Remove(path)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	s.logger.Info().
		Str("file", path).
		Int64("bytes", n).
		Msg("Saved attachment")
	return nil
}

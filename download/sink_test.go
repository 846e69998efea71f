package download

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/fetchr/requests"
)

var _ requests.FileSink = (*DirSink)(nil)

func TestDirSinkSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")
	sink := NewDirSink(dir, zerolog.Nop())

	require.NoError(t, sink.Save("report.csv", strings.NewReader("name\nLuke\n")))

	data, err := os.ReadFile(filepath.Join(dir, "report.csv"))
	require.NoError(t, err)
	assert.Equal(t, "name\nLuke\n", string(data))
}

// failingReader returns some data and then an error
type failingReader struct {
	sent bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.sent {
		return 0, errors.New("connection reset")
	}
	r.sent = true
	return copy(p, "partial"), nil
}

var _ io.Reader = (*failingReader)(nil)

func TestDirSinkSaveRemovesPartialFile(t *testing.T) {
	dir := t.TempDir()
	sink := NewDirSink(dir, zerolog.Nop())

	err := sink.Save("report.csv", &failingReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")

	_, statErr := os.Stat(filepath.Join(dir, "report.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDirSinkPath(t *testing.T) {
	sink := NewDirSink("/tmp/out", zerolog.Nop())

	tests := []struct {
		name     string
		filename string
		expected string
		wantErr  bool
	}{
		{name: "plain", filename: "report.csv", expected: "/tmp/out/report.csv"},
		{name: "traversal", filename: "../../etc/passwd", expected: "/tmp/out/passwd"},
		{name: "nested", filename: "a/b/c.txt", expected: "/tmp/out/c.txt"},
		{name: "dot dot", filename: "..", wantErr: true},
		{name: "empty", filename: "", wantErr: true},
		{name: "slash", filename: "/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sink.Path(tt.filename)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidFilename)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNewDirSinkDefaultsToWorkingDir(t *testing.T) {
	assert.Equal(t, ".", NewDirSink("", zerolog.Nop()).Dir())
}

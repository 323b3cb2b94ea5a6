package widget

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// File is a file chosen by the user: display name, byte size and a way
// to read its content when the upload starts.
type File struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// FileFromPath describes a file on the local filesystem.
func FileFromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}
	return File{
		Name: filepath.Base(path),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// FileFromBytes wraps in-memory content.
func FileFromBytes(name string, data []byte) File {
	return File{
		Name: name,
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

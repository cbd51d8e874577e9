package filesystem

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/opencontainers/go-digest"

	"ocm.software/datapackage/blob"
)

// Blob is a file in a fs.FS. Every method goes back to the file system,
// so a Blob always reflects the current state of the file.
type Blob struct {
	fileSystem fs.FS
	path       string
}

var (
	_ blob.ReadOnlyBlob   = (*Blob)(nil)
	_ blob.SizeAware      = (*Blob)(nil)
	_ blob.DigestAware    = (*Blob)(nil)
	_ blob.MediaTypeAware = (*Blob)(nil)
)

// NewFileBlob creates a new Blob from an underlying fs.FS.
func NewFileBlob(fsys fs.FS, path string) *Blob {
	return &Blob{
		path:       path,
		fileSystem: fsys,
	}
}

// GetBlobFromOSPath returns a blob that reads from the operating system file system.
// The directory of path becomes the root of the blob's file system.
// It fails if path does not name an existing regular file.
func GetBlobFromOSPath(path string) (*Blob, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to determine absolute path of %q: %w", path, err)
	}
	if !IsRegularFile(abs) {
		return nil, fmt.Errorf("%q is not a regular file: %w", path, fs.ErrNotExist)
	}
	return NewFileBlob(os.DirFS(filepath.Dir(abs)), filepath.Base(abs)), nil
}

// IsRegularFile reports whether path names an existing regular file.
// Symbolic links are followed.
func IsRegularFile(path string) bool {
	if path == "" {
		return false
	}
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fi.Mode().IsRegular()
}

func (f *Blob) ReadCloser() (io.ReadCloser, error) {
	file, err := f.fileSystem.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("unable to open file %q: %w", f.path, err)
	}
	return file, nil
}

func (f *Blob) Size() int64 {
	fi, err := fs.Stat(f.fileSystem, f.path)
	if err != nil {
		return blob.SizeUnknown
	}
	return fi.Size()
}

// Digest computes the canonical digest of the file by reading it completely.
func (f *Blob) Digest() (string, bool) {
	file, err := f.ReadCloser()
	if err != nil {
		return "", false
	}
	defer func() {
		_ = file.Close()
	}()
	d, err := digest.FromReader(file)
	if err != nil {
		return "", false
	}
	return d.String(), true
}

// MediaType sniffs the media type from the leading bytes of the file.
func (f *Blob) MediaType() (string, bool) {
	file, err := f.ReadCloser()
	if err != nil {
		return "", false
	}
	defer func() {
		_ = file.Close()
	}()
	// see https://github.com/gabriel-vasile/mimetype/blob/master/supported_mimes.md for supported types
	mt, err := mimetype.DetectReader(file)
	if err != nil {
		return "", false
	}
	return mt.String(), true
}

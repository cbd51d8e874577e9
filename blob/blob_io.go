package blob

import (
	"bytes"
	"errors"
	"io"
	"unicode/utf8"
)

// ErrInvalidUTF8 is returned by ReadText if the content of a blob is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("content is not valid UTF-8")

// ReadAll reads the complete content of src into memory.
// If src is SizeAware, the buffer is preallocated to its size.
func ReadAll(src ReadOnlyBlob) (data []byte, err error) {
	size := SizeUnknown
	if sized, ok := src.(SizeAware); ok {
		size = sized.Size()
	}

	rc, err := src.ReadCloser()
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, rc.Close())
	}()

	var buf bytes.Buffer
	if size > 0 {
		buf.Grow(int(size))
	}
	if _, err := io.Copy(&buf, rc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadText reads the complete content of src and decodes it as UTF-8 text.
// Content is returned verbatim, a leading byte order mark is not stripped.
func ReadText(src ReadOnlyBlob) (string, error) {
	data, err := ReadAll(src)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", ErrInvalidUTF8
	}
	return string(data), nil
}

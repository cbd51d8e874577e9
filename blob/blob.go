package blob

import (
	"io"
)

// ReadOnlyBlob is content that can be opened for reading any number of times.
type ReadOnlyBlob interface {
	// ReadCloser opens a new reader positioned at the start of the content.
	// The caller closes it.
	ReadCloser() (io.ReadCloser, error)
}

// SizeUnknown is reported by SizeAware content whose size cannot be determined.
const SizeUnknown int64 = -1

// SizeAware content knows its size in bytes, or reports SizeUnknown.
// ReadAll uses it to preallocate.
type SizeAware interface {
	Size() (size int64)
}

// DigestAware content can name the digest of its bytes.
// The fetcher reports it as the digest of the loaded resource content.
type DigestAware interface {
	Digest() (digest string, known bool)
}

// MediaTypeAware content can name its media type, e.g. from a Content-Type header
// or from sniffing. A declared media type on the descriptor still wins over it.
type MediaTypeAware interface {
	MediaType() (mediaType string, known bool)
}

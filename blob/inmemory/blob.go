package inmemory

import (
	"bytes"
	"io"
	"sync"

	"github.com/opencontainers/go-digest"

	"ocm.software/datapackage/blob"
)

var (
	_ blob.ReadOnlyBlob   = (*Blob)(nil)
	_ blob.SizeAware      = (*Blob)(nil)
	_ blob.DigestAware    = (*Blob)(nil)
	_ blob.MediaTypeAware = (*Blob)(nil)
)

// New wraps r as a blob. r is drained on first access.
func New(r io.Reader, opts ...Option) *Blob {
	b := &Blob{source: r}
	for _, opt := range opts {
		opt.applyToBlob(b)
	}
	return b
}

// Blob buffers a one-shot reader and serves every later read from memory.
type Blob struct {
	mu        sync.RWMutex
	source    io.Reader
	mediaType string

	loaded bool
	data   []byte
	digest digest.Digest
	err    error // sticky result of the first load
}

func (b *Blob) ReadCloser() (io.ReadCloser, error) {
	if err := b.load(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return io.NopCloser(bytes.NewReader(b.data)), nil
}

func (b *Blob) load() error {
	b.mu.RLock()
	if b.loaded {
		defer b.mu.RUnlock()
		return b.err
	}
	b.mu.RUnlock()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.loaded {
		return b.err
	}
	b.loaded = true

	var buf bytes.Buffer
	digester := digest.Canonical.Digester()
	if _, err := io.Copy(&buf, io.TeeReader(b.source, digester.Hash())); err != nil {
		b.err = err
		return err
	}
	b.data = buf.Bytes()
	b.digest = digester.Digest()
	return nil
}

// Size returns the number of buffered bytes, or blob.SizeUnknown if draining the source failed.
func (b *Blob) Size() int64 {
	if b.load() != nil {
		return blob.SizeUnknown
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return int64(len(b.data))
}

// Digest returns the canonical digest of the buffered bytes.
func (b *Blob) Digest() (string, bool) {
	if b.load() != nil {
		return "", false
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.digest.String(), true
}

// MediaType returns the media type given via WithMediaType.
func (b *Blob) MediaType() (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.mediaType, b.mediaType != ""
}

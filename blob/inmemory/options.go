package inmemory

// Option configures a Blob created by New.
type Option interface {
	applyToBlob(*Blob)
}

// WithMediaType records the media type reported by the source, typically a Content-Type header.
// An empty value leaves the media type unknown.
type WithMediaType string

func (w WithMediaType) applyToBlob(b *Blob) {
	b.mediaType = string(w)
}

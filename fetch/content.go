package fetch

import (
	"github.com/opencontainers/go-digest"
)

// Source identifies where content was loaded from.
type Source string

const (
	SourceInline Source = "inline"
	SourceFile   Source = "file"
	SourceURL    Source = "url"
)

func (s Source) String() string {
	return string(s)
}

// Content is the result of a successful Fetch.
type Content struct {
	// Source is the source the content was loaded from.
	Source Source
	// Location is the resolved file path or URL. It is empty for inline content.
	Location string
	// Value is the loaded value: the decoded text for file and URL content,
	// the verbatim inline value for inline content.
	Value any
	// MediaType is the declared or detected media type of the content.
	MediaType string
	// Digest is the digest of the content bytes, or of the canonical JSON form for inline content.
	// It is empty if it could not be computed.
	Digest digest.Digest
}

// Text returns the content as text, if it is textual.
// Inline values are textual only if they are strings.
func (c *Content) Text() (string, bool) {
	if c == nil {
		return "", false
	}
	text, ok := c.Value.(string)
	return text, ok
}

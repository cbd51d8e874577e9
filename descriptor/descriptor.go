package descriptor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Descriptor describes a single resource of a data package.
// Only Data, Path, URL and Base influence where content is loaded from,
// the remaining fields are informational metadata.
type Descriptor struct {
	// Name is the identifier of the resource within its package.
	Name string `json:"name,omitempty"`
	// Title is a human readable title of the resource.
	Title string `json:"title,omitempty"`
	// Description describes the resource.
	Description string `json:"description,omitempty"`
	// Format is the format of the data, often used as file extension, e.g. "csv".
	Format string `json:"format,omitempty"`
	// MediaType is the media type of the data, e.g. "text/csv".
	// If set, it takes precedence over any detected media type.
	MediaType string `json:"mediatype,omitempty"`
	// Encoding is the declared character encoding. Content is always decoded as UTF-8.
	Encoding string `json:"encoding,omitempty"`

	// Data is inline data. It takes precedence over Path and URL.
	Data *Inline `json:"data,omitempty"`
	// Path is a local path, relative to the base path, or a URL.
	Path *string `json:"path,omitempty"`
	// URL is an absolute remote URL.
	URL *string `json:"url,omitempty"`
	// Base overrides the default base path that relative paths are resolved against.
	Base *string `json:"base,omitempty"`
}

// Inline holds inline data of arbitrary structure, as decoded from JSON.
type Inline struct {
	Value any
}

var _ interface {
	json.Marshaler
	json.Unmarshaler
} = (*Inline)(nil)

// NewInline returns a new handle for the given inline value.
func NewInline(v any) *Inline {
	return &Inline{Value: v}
}

// String returns a new handle for the given string.
func String(s string) *string {
	return &s
}

func (i *Inline) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.Value)
}

func (i *Inline) UnmarshalJSON(data []byte) error {
	v, err := UnmarshalValue(data)
	if err != nil {
		return fmt.Errorf("could not unmarshal inline data: %w", err)
	}
	i.Value = v
	return nil
}

// UnmarshalValue decodes exactly one JSON value from data.
// Numbers are kept as json.Number so that large integers stay exact.
func UnmarshalValue(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}
	return v, nil
}

// InlineData returns the inline data and whether it is present.
// A handle holding a nil value counts as absent.
func (d *Descriptor) InlineData() (any, bool) {
	if d.Data == nil || d.Data.Value == nil {
		return nil, false
	}
	return d.Data.Value, true
}

// PathValue returns the path and whether it is set to a non-empty value.
func (d *Descriptor) PathValue() (string, bool) {
	return deref(d.Path)
}

// URLValue returns the URL and whether it is set to a non-empty value.
func (d *Descriptor) URLValue() (string, bool) {
	return deref(d.URL)
}

// BasePath returns the base path of the descriptor if it is set, and defaultBase otherwise.
// An explicitly set empty base wins over defaultBase.
func (d *Descriptor) BasePath(defaultBase string) string {
	if d.Base != nil {
		return *d.Base
	}
	return defaultBase
}

// String returns a short human readable identification of the descriptor, mainly for logging.
func (d *Descriptor) String() string {
	switch {
	case d.Name != "":
		return d.Name
	case d.Path != nil:
		return *d.Path
	case d.URL != nil:
		return *d.URL
	case d.Data != nil:
		return "<inline>"
	default:
		return "<empty>"
	}
}

func deref(s *string) (string, bool) {
	if s == nil || *s == "" {
		return "", false
	}
	return *s, true
}

package resource

import (
	"context"
	"log/slog"

	"github.com/opencontainers/go-digest"
	slogcontext "github.com/veqryn/slog-context"

	"ocm.software/datapackage/descriptor"
	"ocm.software/datapackage/fetch"
)

// ReadOnlyResource is implemented by Resource and TabularResource.
type ReadOnlyResource interface {
	// Descriptor returns the descriptor the resource was loaded from.
	// Changes to it are observed by the resource.
	Descriptor() *descriptor.Descriptor
	// BasePath returns the path relative paths are resolved against.
	BasePath() string
	// Data returns the content of the resource, fetching it again if the descriptor
	// points at different data than when it was last fetched.
	Data(ctx context.Context) (any, error)
	// LocalDataPath returns the resolved path of the data if it is an existing local file.
	LocalDataPath() (string, bool)
	// MediaType returns the media type of the last fetched content.
	MediaType() string
	// Digest returns the digest of the last fetched content.
	Digest() digest.Digest
	// IsTabular reports whether the content is interpreted as rows.
	IsTabular() bool
}

var (
	_ ReadOnlyResource = (*Resource)(nil)
	_ ReadOnlyResource = (*TabularResource)(nil)
)

// Options configure the construction of resources.
type Options struct {
	Fetcher *fetch.Fetcher
}

// Option configures Options.
type Option func(*Options)

// WithFetcher sets the fetcher used to load content. Defaults to fetch.New().
func WithFetcher(f *fetch.Fetcher) Option {
	return func(o *Options) {
		o.Fetcher = f
	}
}

// parseFunc turns fetched content into the value served by Data.
// content is nil if the descriptor names no source.
type parseFunc func(content *fetch.Content) (any, error)

// cacheKey identifies the data handles of a descriptor.
type cacheKey struct {
	data *descriptor.Inline
	path *string
	url  *string
}

func keyOf(d *descriptor.Descriptor) cacheKey {
	return cacheKey{data: d.Data, path: d.Path, url: d.URL}
}

// Resource is a resource whose content is served as loaded.
type Resource struct {
	descriptor *descriptor.Descriptor
	basePath   string
	fetcher    *fetch.Fetcher
	kind       string
	parse      parseFunc

	// content is valid as long as keyOf(descriptor) equals key.
	content   any
	key       cacheKey
	mediaType string
	digest    digest.Digest
}

// New loads a plain Resource for d. If d does not declare a base path, defaultBasePath is used.
// The content is fetched once during construction, so an unusable descriptor fails here.
func New(ctx context.Context, d *descriptor.Descriptor, defaultBasePath string, opts ...Option) (*Resource, error) {
	r := newResource(d, defaultBasePath, kindPlain, parsePlain, opts)
	if err := r.refresh(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func newResource(d *descriptor.Descriptor, defaultBasePath, kind string, parse parseFunc, opts []Option) *Resource {
	options := Options{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Fetcher == nil {
		options.Fetcher = fetch.New()
	}
	return &Resource{
		descriptor: d,
		basePath:   d.BasePath(defaultBasePath),
		fetcher:    options.Fetcher,
		kind:       kind,
		parse:      parse,
	}
}

func parsePlain(content *fetch.Content) (any, error) {
	if content == nil {
		return nil, nil
	}
	return content.Value, nil
}

func (r *Resource) Descriptor() *descriptor.Descriptor {
	return r.descriptor
}

func (r *Resource) BasePath() string {
	return r.basePath
}

// Data returns the content of the resource.
//
// As long as the data, path and url handles of the descriptor are the ones the content was fetched
// for, the cached content is returned and Data cannot fail. Otherwise the content is fetched again;
// if that fails, the error is returned, the previous content is kept and the next call tries again.
func (r *Resource) Data(ctx context.Context) (any, error) {
	if keyOf(r.descriptor) == r.key {
		hitCount.WithLabelValues(r.kind).Inc()
		return r.content, nil
	}
	missCount.WithLabelValues(r.kind).Inc()
	slogcontext.FromCtx(ctx).With(slog.String("realm", "resource")).Log(ctx, slog.LevelDebug,
		"descriptor changed, reloading data", slog.String("resource", r.descriptor.String()))
	if err := r.refresh(ctx); err != nil {
		return nil, err
	}
	return r.content, nil
}

// LocalDataPath returns the path of the descriptor resolved against the base path,
// if it currently names an existing regular file.
func (r *Resource) LocalDataPath() (string, bool) {
	p, ok := r.descriptor.PathValue()
	if !ok {
		return "", false
	}
	return fetch.LocalPath(r.basePath, p)
}

func (r *Resource) MediaType() string {
	return r.mediaType
}

func (r *Resource) Digest() digest.Digest {
	return r.digest
}

func (r *Resource) IsTabular() bool {
	return r.kind == kindTabular
}

// refresh fetches and parses the content for the current descriptor handles.
func (r *Resource) refresh(ctx context.Context) error {
	key := keyOf(r.descriptor)
	content, err := r.fetcher.Fetch(ctx, r.descriptor, r.basePath)
	if err != nil {
		return err
	}
	return r.apply(key, content)
}

// apply parses content and, on success, makes it the cached content for key.
func (r *Resource) apply(key cacheKey, content *fetch.Content) error {
	value, err := r.parse(content)
	if err != nil {
		return err
	}
	r.content = value
	r.key = key
	r.mediaType, r.digest = "", ""
	if content != nil {
		r.mediaType, r.digest = content.MediaType, content.Digest
	}
	return nil
}

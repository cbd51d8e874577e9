package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	"github.com/gabriel-vasile/mimetype"
	"github.com/opencontainers/go-digest"
	"github.com/prometheus/client_golang/prometheus"
	slogcontext "github.com/veqryn/slog-context"

	"ocm.software/datapackage/blob"
	"ocm.software/datapackage/blob/filesystem"
	"ocm.software/datapackage/blob/inmemory"
	"ocm.software/datapackage/descriptor"
)

// inlineMediaType is reported for inline data if the descriptor does not declare a media type.
const inlineMediaType = "application/json"

// Fetcher loads the content described by a resource descriptor.
// A Fetcher holds no per-descriptor state and may be shared.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets the client used for remote locations. Defaults to http.DefaultClient.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithUserAgent sets the User-Agent header sent with remote requests.
func WithUserAgent(userAgent string) Option {
	return func(f *Fetcher) {
		f.userAgent = userAgent
	}
}

// New creates a Fetcher.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{client: http.DefaultClient}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch loads the content of d. Relative paths are resolved against basePath.
//
// Fetch returns (nil, nil) if d names no source at all.
// If all attempted sources fail, the returned error is the *Error of the first attempt.
func (f *Fetcher) Fetch(ctx context.Context, d *descriptor.Descriptor, basePath string) (*Content, error) {
	logger := slogcontext.FromCtx(ctx).With(slog.String("realm", "fetch"), slog.String("resource", d.String()))

	if value, ok := d.InlineData(); ok {
		observe(SourceInline, nil)
		return f.fromInline(ctx, logger, d, value), nil
	}

	var firstErr error

	if p, ok := d.PathValue(); ok {
		content, err := f.fromPath(ctx, logger, d, basePath, p)
		if err == nil {
			return content, nil
		}
		logger.Log(ctx, slog.LevelDebug, "loading data from path failed", slog.String("error", err.Error()))
		firstErr = err
	}

	if u, ok := d.URLValue(); ok {
		content, err := f.fromURL(ctx, logger, d, u)
		if err == nil {
			return content, nil
		}
		logger.Log(ctx, slog.LevelDebug, "loading data from url failed", slog.String("error", err.Error()))
		if firstErr == nil {
			firstErr = err
		}
	}

	return nil, firstErr
}

func (f *Fetcher) fromInline(ctx context.Context, logger *slog.Logger, d *descriptor.Descriptor, value any) *Content {
	mediaType := d.MediaType
	if mediaType == "" {
		mediaType = inlineMediaType
	}
	dig, err := canonicalDigest(value)
	if err != nil {
		logger.Log(ctx, slog.LevelDebug, "could not digest inline data", slog.String("error", err.Error()))
	}
	return &Content{
		Source:    SourceInline,
		Value:     value,
		MediaType: mediaType,
		Digest:    dig,
	}
}

// fromPath reads the resolved path from local disk if it is a regular file,
// and requests it as URL otherwise.
func (f *Fetcher) fromPath(ctx context.Context, logger *slog.Logger, d *descriptor.Descriptor, basePath, p string) (*Content, error) {
	resolved := ResolvePath(basePath, p)
	if !filesystem.IsRegularFile(resolved) {
		return f.fromURL(ctx, logger, d, resolved)
	}

	timer := prometheus.NewTimer(fetchDuration.WithLabelValues(SourceFile.String()))
	defer timer.ObserveDuration()

	logger.Log(ctx, slog.LevelDebug, "loading data from local file", slog.String("path", resolved))
	content, err := readFile(d, resolved)
	observe(SourceFile, err)
	if err != nil {
		return nil, &Error{Source: SourceFile, Location: resolved, Err: err}
	}
	return content, nil
}

func readFile(d *descriptor.Descriptor, path string) (*Content, error) {
	b, err := filesystem.GetBlobFromOSPath(path)
	if err != nil {
		return nil, err
	}
	return contentOf(d, SourceFile, path, b)
}

// contentOf reads b as text and takes the media type and digest from what b knows about itself.
func contentOf(d *descriptor.Descriptor, source Source, location string, b blob.ReadOnlyBlob) (*Content, error) {
	text, err := blob.ReadText(b)
	if err != nil {
		return nil, err
	}
	var reported string
	if aware, ok := b.(blob.MediaTypeAware); ok {
		reported, _ = aware.MediaType()
	}
	var dig digest.Digest
	if aware, ok := b.(blob.DigestAware); ok {
		if raw, known := aware.Digest(); known {
			dig = digest.Digest(raw)
		}
	}
	return &Content{
		Source:    source,
		Location:  location,
		Value:     text,
		MediaType: mediaType(d.MediaType, reported, text),
		Digest:    dig,
	}, nil
}

func (f *Fetcher) fromURL(ctx context.Context, logger *slog.Logger, d *descriptor.Descriptor, url string) (_ *Content, err error) {
	timer := prometheus.NewTimer(fetchDuration.WithLabelValues(SourceURL.String()))
	defer timer.ObserveDuration()
	defer func() {
		observe(SourceURL, err)
		if err != nil {
			err = &Error{Source: SourceURL, Location: url, Err: err}
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	logger.Log(ctx, slog.LevelDebug, "loading data from url", slog.String("url", url))
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			if err != nil {
				err = errors.Join(err, cerr)
				return
			}
			logger.Log(ctx, slog.LevelDebug, "closing response body failed", slog.String("url", url), slog.String("error", cerr.Error()))
		}
	}()
	logger.Log(ctx, slog.LevelDebug, "received response", slog.String("url", url), slog.String("status", resp.Status))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body := inmemory.New(resp.Body, inmemory.WithMediaType(resp.Header.Get("Content-Type")))
	content, err := contentOf(d, SourceURL, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return content, nil
}

// mediaType prefers the declared media type, then the one reported by the source,
// and falls back to detection from the content.
func mediaType(declared, reported, text string) string {
	if declared != "" {
		return declared
	}
	if reported != "" {
		return reported
	}
	// see https://github.com/gabriel-vasile/mimetype/blob/master/supported_mimes.md for supported types
	return mimetype.Detect([]byte(text)).String()
}

// canonicalDigest digests the RFC 8785 canonical JSON form of value,
// so equal inline data yields equal digests regardless of key order.
func canonicalDigest(value any) (digest.Digest, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("cannot marshal inline data: %w", err)
	}
	canonical, err := jsoncanonicalizer.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("cannot canonicalize inline data: %w", err)
	}
	return digest.FromBytes(canonical), nil
}

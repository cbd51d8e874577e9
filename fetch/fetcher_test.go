package fetch_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocm.software/datapackage/blob"
	"ocm.software/datapackage/descriptor"
	"ocm.software/datapackage/fetch"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// newServer serves the given paths and answers 404 for everything else.
func newServer(t *testing.T, files map[string]string) (*httptest.Server, func() []string) {
	t.Helper()
	var (
		mu        sync.Mutex
		requested []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requested = append(requested, r.URL.Path)
		mu.Unlock()
		content, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(content))
	}))
	t.Cleanup(srv.Close)
	return srv, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return slices.Clone(requested)
	}
}

func TestFetch_InlineDataIsReturnedVerbatim(t *testing.T) {
	r := require.New(t)
	srv, requested := newServer(t, nil)

	value := []any{map[string]any{"a": "1"}}
	d := &descriptor.Descriptor{
		Data: descriptor.NewInline(value),
		Path: descriptor.String("does-not-exist.csv"),
		URL:  descriptor.String(srv.URL + "/data.csv"),
	}

	content, err := fetch.New().Fetch(t.Context(), d, t.TempDir())
	r.NoError(err)
	r.Equal(fetch.SourceInline, content.Source)
	r.Equal(value, content.Value)
	r.Empty(content.Location)
	r.Equal("application/json", content.MediaType)
	r.NotEmpty(content.Digest)
	_, isText := content.Text()
	r.False(isText)
	r.Empty(requested(), "inline data must not cause any request")
}

func TestFetch_InlineStringIsText(t *testing.T) {
	r := require.New(t)
	d := &descriptor.Descriptor{Data: descriptor.NewInline("a,b\n1,2\n"), MediaType: "text/csv"}
	content, err := fetch.New().Fetch(t.Context(), d, "")
	r.NoError(err)
	text, ok := content.Text()
	r.True(ok)
	r.Equal("a,b\n1,2\n", text)
	r.Equal("text/csv", content.MediaType)
}

func TestFetch_InlineDigestIsCanonical(t *testing.T) {
	r := require.New(t)
	f := fetch.New()
	first, err := f.Fetch(t.Context(), &descriptor.Descriptor{
		Data: descriptor.NewInline(map[string]any{"b": 1, "a": 2}),
	}, "")
	r.NoError(err)
	second, err := f.Fetch(t.Context(), &descriptor.Descriptor{
		Data: descriptor.NewInline(map[string]any{"a": 2, "b": 1}),
	}, "")
	r.NoError(err)
	r.Equal(first.Digest, second.Digest)
	r.Equal(digest.FromString(`{"a":2,"b":1}`), first.Digest)
}

func TestFetch_LocalFile(t *testing.T) {
	r := require.New(t)
	base := t.TempDir()
	path := writeFile(t, base, "data/cities.csv", "a,b\n1,2\n")

	d := &descriptor.Descriptor{Path: descriptor.String("data/cities.csv")}
	content, err := fetch.New().Fetch(t.Context(), d, base)
	r.NoError(err)
	r.Equal(fetch.SourceFile, content.Source)
	r.Equal(path, content.Location)
	text, ok := content.Text()
	r.True(ok)
	r.Equal("a,b\n1,2\n", text)
	r.Equal(digest.FromString("a,b\n1,2\n"), content.Digest)
}

func TestFetch_AbsolutePathIgnoresBase(t *testing.T) {
	r := require.New(t)
	path := writeFile(t, t.TempDir(), "data.json", "[1,2,3]")

	d := &descriptor.Descriptor{Path: descriptor.String(path)}
	content, err := fetch.New().Fetch(t.Context(), d, t.TempDir())
	r.NoError(err)
	r.Equal(path, content.Location)
	r.Equal("[1,2,3]", content.Value)
	r.Equal("application/json", content.MediaType, "media type should be detected from the content")
}

func TestFetch_DeclaredMediaTypeWins(t *testing.T) {
	r := require.New(t)
	base := t.TempDir()
	writeFile(t, base, "data.json", "[1,2,3]")
	srv, _ := newServer(t, map[string]string{"/data.json": "[1]"})

	d := &descriptor.Descriptor{Path: descriptor.String("data.json"), MediaType: "application/vnd.custom+json"}
	content, err := fetch.New().Fetch(t.Context(), d, base)
	r.NoError(err)
	r.Equal("application/vnd.custom+json", content.MediaType)

	d = &descriptor.Descriptor{URL: descriptor.String(srv.URL + "/data.json"), MediaType: "application/vnd.custom+json"}
	content, err = fetch.New().Fetch(t.Context(), d, base)
	r.NoError(err)
	r.Equal("application/vnd.custom+json", content.MediaType)
}

func TestFetch_PathFallsBackToURL(t *testing.T) {
	r := require.New(t)
	srv, requested := newServer(t, map[string]string{"/pkg/data.csv": "x\n1\n"})

	d := &descriptor.Descriptor{Path: descriptor.String("data.csv")}
	content, err := fetch.New().Fetch(t.Context(), d, srv.URL+"/pkg")
	r.NoError(err)
	r.Equal(fetch.SourceURL, content.Source)
	r.Equal(srv.URL+"/pkg/data.csv", content.Location)
	r.Equal("x\n1\n", content.Value)
	r.Equal([]string{"/pkg/data.csv"}, requested())
	r.True(strings.HasPrefix(content.MediaType, "text/plain"), "reported content type should be used: %s", content.MediaType)
}

func TestFetch_URL(t *testing.T) {
	r := require.New(t)
	srv, _ := newServer(t, map[string]string{"/data.json": `[{"a": 1}]`})

	d := &descriptor.Descriptor{URL: descriptor.String(srv.URL + "/data.json")}
	content, err := fetch.New().Fetch(t.Context(), d, "")
	r.NoError(err)
	r.Equal(fetch.SourceURL, content.Source)
	r.Equal(`[{"a": 1}]`, content.Value)
	r.Equal(digest.FromString(`[{"a": 1}]`), content.Digest)
}

func TestFetch_URLAfterFailedPath(t *testing.T) {
	r := require.New(t)
	srv, requested := newServer(t, map[string]string{"/remote.csv": "a\n1\n"})

	d := &descriptor.Descriptor{
		Path: descriptor.String("missing.csv"),
		URL:  descriptor.String(srv.URL + "/remote.csv"),
	}
	content, err := fetch.New().Fetch(t.Context(), d, srv.URL)
	r.NoError(err)
	r.Equal(srv.URL+"/remote.csv", content.Location)
	r.Equal([]string{"/missing.csv", "/remote.csv"}, requested())
}

func TestFetch_FirstErrorWins(t *testing.T) {
	r := require.New(t)
	srv, _ := newServer(t, nil)

	d := &descriptor.Descriptor{
		Path: descriptor.String("missing.csv"),
		URL:  descriptor.String(srv.URL + "/also-missing.csv"),
	}
	_, err := fetch.New().Fetch(t.Context(), d, srv.URL+"/pkg")
	r.Error(err)

	var fetchErr *fetch.Error
	r.ErrorAs(err, &fetchErr)
	r.Equal(srv.URL+"/pkg/missing.csv", fetchErr.Location)

	var statusErr *fetch.StatusError
	r.ErrorAs(err, &statusErr)
	r.Equal(http.StatusNotFound, statusErr.StatusCode)
}

func TestFetch_LocalPathErrorWinsOverURLError(t *testing.T) {
	r := require.New(t)
	base := t.TempDir()

	d := &descriptor.Descriptor{
		Path: descriptor.String("missing.csv"),
		URL:  descriptor.String("unsupported://example.com/data.csv"),
	}
	_, err := fetch.New().Fetch(t.Context(), d, base)
	var fetchErr *fetch.Error
	r.ErrorAs(err, &fetchErr)
	r.Equal(base+"/missing.csv", fetchErr.Location)
}

func TestFetch_OnlyURLFails(t *testing.T) {
	r := require.New(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	d := &descriptor.Descriptor{URL: descriptor.String(srv.URL)}
	_, err := fetch.New().Fetch(t.Context(), d, "")
	var statusErr *fetch.StatusError
	r.ErrorAs(err, &statusErr)
	r.Equal(http.StatusInternalServerError, statusErr.StatusCode)
	r.Contains(err.Error(), srv.URL)
}

func TestFetch_NoSource(t *testing.T) {
	r := require.New(t)
	content, err := fetch.New().Fetch(t.Context(), &descriptor.Descriptor{Name: "empty"}, t.TempDir())
	r.NoError(err)
	r.Nil(content)

	content, err = fetch.New().Fetch(t.Context(), &descriptor.Descriptor{
		Path: descriptor.String(""),
		URL:  descriptor.String(""),
		Data: descriptor.NewInline(nil),
	}, t.TempDir())
	r.NoError(err)
	r.Nil(content, "empty values count as unset")
}

func TestFetch_InvalidUTF8(t *testing.T) {
	r := require.New(t)
	base := t.TempDir()
	writeFile(t, base, "latin1.csv", "name\n\xe9t\xe9\n")

	_, err := fetch.New().Fetch(t.Context(), &descriptor.Descriptor{Path: descriptor.String("latin1.csv")}, base)
	r.ErrorIs(err, blob.ErrInvalidUTF8)
	var fetchErr *fetch.Error
	r.ErrorAs(err, &fetchErr)
	r.Equal(fetch.SourceFile, fetchErr.Source)
}

func TestFetch_UserAgentAndClient(t *testing.T) {
	r := require.New(t)
	var userAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		userAgent = req.UserAgent()
		_, _ = w.Write([]byte("[]"))
	}))
	t.Cleanup(srv.Close)

	f := fetch.New(fetch.WithHTTPClient(srv.Client()), fetch.WithUserAgent("datapackage-test"))
	_, err := f.Fetch(t.Context(), &descriptor.Descriptor{URL: descriptor.String(srv.URL)}, "")
	r.NoError(err)
	r.Equal("datapackage-test", userAgent)
}

func TestFetch_ContextCancellation(t *testing.T) {
	r := require.New(t)
	srv, requested := newServer(t, map[string]string{"/data.csv": "a\n1\n"})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := fetch.New().Fetch(ctx, &descriptor.Descriptor{URL: descriptor.String(srv.URL + "/data.csv")}, "")
	r.Error(err)
	r.True(errors.Is(err, context.Canceled))
	r.Empty(requested())
}

func TestLocalPath(t *testing.T) {
	r := require.New(t)
	base := t.TempDir()
	path := writeFile(t, base, "data.csv", "a\n")

	local, ok := fetch.LocalPath(base, "data.csv")
	r.True(ok)
	r.Equal(path, local)

	_, ok = fetch.LocalPath(base, "missing.csv")
	r.False(ok)
	_, ok = fetch.LocalPath(base, "")
	r.False(ok)
	_, ok = fetch.LocalPath(filepath.Dir(base), filepath.Base(base))
	r.False(ok, "directories are not local data")
}

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name string
		base string
		path string
		want string
	}{
		{name: "no base", base: "", path: "data.csv", want: "data.csv"},
		{name: "relative", base: "/srv/pkg", path: "data/a.csv", want: "/srv/pkg/data/a.csv"},
		{name: "base with trailing slash", base: "/srv/pkg/", path: "a.csv", want: "/srv/pkg/a.csv"},
		{name: "absolute path ignores base", base: "/srv/pkg", path: "/tmp/a.csv", want: "/tmp/a.csv"},
		{name: "url base is not cleaned", base: "https://example.com/pkg", path: "a.csv", want: "https://example.com/pkg/a.csv"},
		{name: "dot segments are kept", base: "/srv/pkg", path: "../a.csv", want: "/srv/pkg/../a.csv"},
		{name: "empty path", base: "/srv/pkg", path: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fetch.ResolvePath(tt.base, tt.path))
		})
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

type closeErrBody struct {
	io.Reader
}

func (closeErrBody) Close() error {
	return errors.New("connection reset on close")
}

func respondWith(status int, header http.Header, body io.ReadCloser) *http.Client {
	return &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Status:     http.StatusText(status),
			Header:     header,
			Body:       body,
			Request:    req,
		}, nil
	})}
}

func TestFetch_MediaTypeFromBlob(t *testing.T) {
	const csv = "id,name\n1,Berlin\n2,Paris\n"

	t.Run("local file is sniffed", func(t *testing.T) {
		r := require.New(t)
		base := t.TempDir()
		writeFile(t, base, "cities", csv)
		content, err := fetch.New().Fetch(t.Context(), &descriptor.Descriptor{Path: descriptor.String("cities")}, base)
		r.NoError(err)
		r.Equal("text/csv", content.MediaType)
		r.Equal(digest.FromString(csv), content.Digest)
	})

	t.Run("content type header is reported", func(t *testing.T) {
		r := require.New(t)
		client := respondWith(http.StatusOK, http.Header{"Content-Type": {"application/csv"}}, io.NopCloser(strings.NewReader(csv)))
		content, err := fetch.New(fetch.WithHTTPClient(client)).Fetch(t.Context(), &descriptor.Descriptor{URL: descriptor.String("https://example.com/cities")}, "")
		r.NoError(err)
		r.Equal("application/csv", content.MediaType)
	})

	t.Run("missing content type header is sniffed", func(t *testing.T) {
		r := require.New(t)
		client := respondWith(http.StatusOK, http.Header{}, io.NopCloser(strings.NewReader(csv)))
		content, err := fetch.New(fetch.WithHTTPClient(client)).Fetch(t.Context(), &descriptor.Descriptor{URL: descriptor.String("https://example.com/cities")}, "")
		r.NoError(err)
		r.Equal("text/csv", content.MediaType)
		r.Equal(digest.FromString(csv), content.Digest)
	})
}

func TestFetch_BodyCloseError(t *testing.T) {
	t.Run("after a complete read the content is kept", func(t *testing.T) {
		r := require.New(t)
		client := respondWith(http.StatusOK, http.Header{}, closeErrBody{strings.NewReader("[1]")})
		content, err := fetch.New(fetch.WithHTTPClient(client)).Fetch(t.Context(), &descriptor.Descriptor{URL: descriptor.String("https://example.com/data.json")}, "")
		r.NoError(err)
		r.Equal("[1]", content.Value)
	})

	t.Run("joined into a failed request", func(t *testing.T) {
		r := require.New(t)
		client := respondWith(http.StatusNotFound, http.Header{}, closeErrBody{strings.NewReader("")})
		_, err := fetch.New(fetch.WithHTTPClient(client)).Fetch(t.Context(), &descriptor.Descriptor{URL: descriptor.String("https://example.com/data.json")}, "")
		var statusErr *fetch.StatusError
		r.ErrorAs(err, &statusErr)
		r.ErrorContains(err, "connection reset on close")
	})
}

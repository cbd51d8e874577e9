package resource

import (
	"context"
	"errors"
	"log/slog"

	slogcontext "github.com/veqryn/slog-context"

	"ocm.software/datapackage/descriptor"
	"ocm.software/datapackage/fetch"
)

type outcome int

const (
	// outcomeFailed means the content could not be obtained.
	outcomeFailed outcome = iota
	// outcomeTabular means the content is tabular.
	outcomeTabular
	// outcomeNotTabular means the content was obtained but is not tabular.
	outcomeNotTabular
)

// tabularAttempt is the result of loading a descriptor as tabular resource.
type tabularAttempt struct {
	outcome  outcome
	resource *TabularResource
	// content and key hold what was fetched if the content is not tabular.
	content *fetch.Content
	key     cacheKey
	err     error
}

func tryTabular(ctx context.Context, d *descriptor.Descriptor, defaultBasePath string, opts []Option) tabularAttempt {
	r := newResource(d, defaultBasePath, kindTabular, parseTabular, opts)
	key := keyOf(d)
	content, err := r.fetcher.Fetch(ctx, d, r.basePath)
	if err != nil {
		return tabularAttempt{outcome: outcomeFailed, err: err}
	}
	if err := r.apply(key, content); err != nil {
		if typeErr := (*TypeError)(nil); errors.As(err, &typeErr) {
			return tabularAttempt{outcome: outcomeNotTabular, content: content, key: key, err: err}
		}
		return tabularAttempt{outcome: outcomeFailed, err: err}
	}
	return tabularAttempt{outcome: outcomeTabular, resource: &TabularResource{Resource: r}}
}

// Load returns a TabularResource if the content of d is tabular and a plain Resource otherwise.
// Content is fetched only once; errors from fetching are returned as is.
func Load(ctx context.Context, d *descriptor.Descriptor, defaultBasePath string, opts ...Option) (ReadOnlyResource, error) {
	attempt := tryTabular(ctx, d, defaultBasePath, opts)
	switch attempt.outcome {
	case outcomeTabular:
		return attempt.resource, nil
	case outcomeNotTabular:
		slogcontext.FromCtx(ctx).With(slog.String("realm", "resource")).Log(ctx, slog.LevelDebug,
			"content is not tabular, loading as plain resource",
			slog.String("resource", d.String()), slog.String("reason", attempt.err.Error()))
		r := newResource(d, defaultBasePath, kindPlain, parsePlain, opts)
		if err := r.apply(attempt.key, attempt.content); err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, attempt.err
	}
}

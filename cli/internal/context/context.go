package context

import (
	"context"
	"sync"

	"github.com/spf13/cobra"

	v1 "ocm.software/datapackage/cli/configuration/v1"
	"ocm.software/datapackage/fetch"
)

type ctxKey string

const key ctxKey = "ocm.software/datapackage/cli/internal/context"

// Context is the datapackage command line context.
// It carries the centrally managed structures that are created once in the root command
// and shared by all sub-commands.
type Context struct {
	mu sync.RWMutex

	// configuration is the merged configuration of the CLI.
	// In case it is not set, default values should be used.
	configuration *v1.Config

	// fetcher loads resource content and is configured from the configuration and flags.
	fetcher *fetch.Fetcher
}

// WithConfiguration returns a context carrying cfg, retrievable with [FromContext] and [Context.Configuration].
func WithConfiguration(ctx context.Context, cfg *v1.Config) context.Context {
	ctx, cliCtx := retrieveOrCreate(ctx)
	cliCtx.mu.Lock()
	defer cliCtx.mu.Unlock()
	cliCtx.configuration = cfg
	return ctx
}

// WithFetcher returns a context carrying f, retrievable with [FromContext] and [Context.Fetcher].
func WithFetcher(ctx context.Context, f *fetch.Fetcher) context.Context {
	ctx, cliCtx := retrieveOrCreate(ctx)
	cliCtx.mu.Lock()
	defer cliCtx.mu.Unlock()
	cliCtx.fetcher = f
	return ctx
}

// Register makes sure the context of cmd carries a Context.
func Register(cmd *cobra.Command) {
	ctx, _ := retrieveOrCreate(cmd.Context())
	cmd.SetContext(ctx)
}

func (ctx *Context) Configuration() *v1.Config {
	if ctx == nil {
		return nil
	}
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	return ctx.configuration
}

func (ctx *Context) Fetcher() *fetch.Fetcher {
	if ctx == nil {
		return nil
	}
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	return ctx.fetcher
}

// FromContext retrieves the Context from ctx, or nil if there is none.
func FromContext(ctx context.Context) *Context {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(key).(*Context); ok {
		return v
	}
	return nil
}

// WithContext returns a context carrying c.
func WithContext(ctx context.Context, c *Context) context.Context {
	if c == nil {
		return ctx
	}
	return context.WithValue(ctx, key, c)
}

func retrieveOrCreate(ctx context.Context) (context.Context, *Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	cliCtx := FromContext(ctx)
	if cliCtx == nil {
		cliCtx = &Context{}
		ctx = WithContext(ctx, cliCtx)
	}
	return ctx, cliCtx
}

package hooks

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	slogcontext "github.com/veqryn/slog-context"

	"ocm.software/datapackage/cli/cmd/setup"
	clictx "ocm.software/datapackage/cli/internal/context"
	"ocm.software/datapackage/cli/internal/flags/log"
)

// Option is the single interface all options implement.
type Option interface {
	Apply(b *Builder) error
}

// optionFunc lets simple functions satisfy Option.
type optionFunc func(*Builder) error

func (f optionFunc) Apply(b *Builder) error { return f(b) }

// Builder accumulates the state applied to the command before it runs.
type Builder struct {
	cmd         *cobra.Command
	fetcherOpts []setup.FetcherOption
}

func newBuilder(cmd *cobra.Command) *Builder {
	return &Builder{cmd: cmd}
}

// WithFetcherOptions configures the fetcher shared by all commands.
// Flags set on the command line take precedence.
func WithFetcherOptions(opts ...setup.FetcherOption) Option {
	return optionFunc(func(b *Builder) error {
		b.fetcherOpts = append(b.fetcherOpts, opts...)
		return nil
	})
}

// PreRunE sets up the command with defaults (no extra options).
func PreRunE(cmd *cobra.Command, args []string) error {
	return PreRunEWithOptions(cmd, args)
}

// PreRunEWithOptions applies options, then overrides with CLI flags.
func PreRunEWithOptions(cmd *cobra.Command, _ []string, opts ...Option) error {
	logger, err := log.GetBaseLogger(cmd)
	if err != nil {
		return fmt.Errorf("could not retrieve logger: %w", err)
	}
	slog.SetDefault(logger)
	cmd.SetContext(slogcontext.NewCtx(cmd.Context(), logger))

	clictx.Register(cmd)
	setup.Config(cmd)

	b := newBuilder(cmd)
	for _, opt := range opts {
		if err := opt.Apply(b); err != nil {
			return fmt.Errorf("apply option: %w", err)
		}
	}

	// CLI flags take precedence over options and configuration.
	setup.Fetcher(cmd, append(b.fetcherOpts, setup.FlagOverrides(cmd)...)...)

	// inherit IO from parent if exists
	if parent := cmd.Parent(); parent != nil {
		cmd.SetOut(parent.OutOrStdout())
		cmd.SetErr(parent.ErrOrStderr())
	}

	return nil
}

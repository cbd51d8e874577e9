package setup

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"ocm.software/datapackage/cli/cmd/configuration"
	clicmd "ocm.software/datapackage/cli/cmd/internal/cmd"
	v1 "ocm.software/datapackage/cli/configuration/v1"
	clictx "ocm.software/datapackage/cli/internal/context"
	"ocm.software/datapackage/fetch"
)

// Config loads the configuration of the command into its context.
// A configuration that cannot be loaded is replaced by defaults.
func Config(cmd *cobra.Command) {
	cfg, err := configuration.GetConfigForCommand(cmd)
	if err != nil {
		slog.WarnContext(cmd.Context(), "could not get configuration, using defaults", slog.String("error", err.Error()))
		cfg = v1.Merge()
	}
	cmd.SetContext(clictx.WithConfiguration(cmd.Context(), cfg))
}

// FetcherOptions configure the fetcher created by Fetcher.
type FetcherOptions struct {
	// Transport is used for remote requests instead of http.DefaultTransport.
	Transport http.RoundTripper
	Timeout   time.Duration
	UserAgent string
}

type FetcherOption func(*FetcherOptions)

func WithTransport(transport http.RoundTripper) FetcherOption {
	return func(o *FetcherOptions) {
		o.Transport = transport
	}
}

func WithTimeout(timeout time.Duration) FetcherOption {
	return func(o *FetcherOptions) {
		o.Timeout = timeout
	}
}

func WithUserAgent(userAgent string) FetcherOption {
	return func(o *FetcherOptions) {
		o.UserAgent = userAgent
	}
}

// Fetcher creates the fetcher shared by all commands from the configuration in the context
// of cmd, overridden by the given options.
func Fetcher(cmd *cobra.Command, opts ...FetcherOption) {
	options := FetcherOptions{}
	if cfg := clictx.FromContext(cmd.Context()).Configuration(); cfg != nil {
		options.Timeout = time.Duration(cfg.HTTP.Timeout)
		options.UserAgent = cfg.HTTP.UserAgent
	}
	for _, opt := range opts {
		opt(&options)
	}

	client := &http.Client{
		Transport: options.Transport,
		Timeout:   options.Timeout,
	}
	f := fetch.New(fetch.WithHTTPClient(client), fetch.WithUserAgent(options.UserAgent))
	slog.DebugContext(cmd.Context(), "configured fetcher",
		slog.Duration("timeout", options.Timeout),
		slog.String("userAgent", options.UserAgent),
	)
	cmd.SetContext(clictx.WithFetcher(cmd.Context(), f))
}

// timeoutFromFlag returns the timeout flag value if it was set explicitly.
func timeoutFromFlag(cmd *cobra.Command) (time.Duration, bool) {
	flag := cmd.Flags().Lookup(clicmd.TimeoutFlag)
	if flag == nil || !flag.Changed {
		return 0, false
	}
	timeout, err := cmd.Flags().GetDuration(clicmd.TimeoutFlag)
	if err != nil {
		slog.DebugContext(cmd.Context(), "could not read timeout flag value", slog.String("error", err.Error()))
		return 0, false
	}
	return timeout, true
}

// userAgentFromFlag returns the user agent flag value if it was set explicitly.
func userAgentFromFlag(cmd *cobra.Command) (string, bool) {
	flag := cmd.Flags().Lookup(clicmd.UserAgentFlag)
	if flag == nil || !flag.Changed {
		return "", false
	}
	return flag.Value.String(), true
}

// FlagOverrides returns fetcher options for all fetcher flags set explicitly on cmd.
func FlagOverrides(cmd *cobra.Command) []FetcherOption {
	var opts []FetcherOption
	if timeout, ok := timeoutFromFlag(cmd); ok {
		opts = append(opts, WithTimeout(timeout))
	}
	if userAgent, ok := userAgentFromFlag(cmd); ok {
		opts = append(opts, WithUserAgent(userAgent))
	}
	return opts
}

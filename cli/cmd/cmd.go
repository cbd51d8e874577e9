package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"ocm.software/datapackage/cli/cmd/configuration"
	"ocm.software/datapackage/cli/cmd/get"
	clicmd "ocm.software/datapackage/cli/cmd/internal/cmd"
	"ocm.software/datapackage/cli/cmd/setup/hooks"
	"ocm.software/datapackage/cli/cmd/version"
	"ocm.software/datapackage/cli/internal/flags/log"
)

// Execute runs the root command. This is called by main.main().
func Execute() {
	err := New().Execute()
	if err != nil {
		os.Exit(1)
	}
}

// New returns the root command with all sub-commands.
// The pre-run hook can be customized with hook options, for example to inject a transport in tests.
func New(opts ...hooks.Option) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datapackage [sub-command]",
		Short: "Load data package resources from inline data, local files and remote locations",
		Long: `The datapackage command line client loads the resources described by data resource descriptors.

A descriptor names its content inline ("data"), as a path relative to a base path ("path") or as a url ("url").
Tabular content (JSON arrays or CSV with a header row) is rendered as rows, any other content as is.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return hooks.PreRunEWithOptions(cmd, args, opts...)
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	configuration.RegisterConfigFlag(cmd)
	cmd.PersistentFlags().Duration(clicmd.TimeoutFlag, 0, `timeout for every remote request made while loading resources (0 disables the timeout).
Overrides http.timeout of the configuration.`)
	cmd.PersistentFlags().String(clicmd.UserAgentFlag, "", `User-Agent header sent with remote requests. Overrides http.userAgent of the configuration.`)
	log.RegisterLoggingFlags(cmd.PersistentFlags())

	cmd.AddCommand(get.New())
	cmd.AddCommand(version.New())
	return cmd
}

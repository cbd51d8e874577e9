// Package log turns the logging flags of the datapackage CLI into a slog.Logger.
//
// Fetch attempts and cache reloads are logged at debug level, every loaded
// resource at info level. Records go to stderr by default so that they never
// mix with resource output.
package log

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"ocm.software/datapackage/cli/internal/flags/enum"
)

const (
	FormatFlagName = "logformat"
	LevelFlagName  = "loglevel"
	OutputFlagName = "logoutput"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

const (
	LevelWarn  = "warn"
	LevelInfo  = "info"
	LevelDebug = "debug"
	LevelError = "error"
)

const (
	OutputStderr = "stderr"
	OutputStdout = "stdout"
)

var levels = map[string]slog.Level{
	LevelDebug: slog.LevelDebug,
	LevelInfo:  slog.LevelInfo,
	LevelWarn:  slog.LevelWarn,
	LevelError: slog.LevelError,
}

// RegisterLoggingFlags registers FormatFlagName, LevelFlagName and OutputFlagName on flagset.
// The first option of each flag is its default.
func RegisterLoggingFlags(flagset *pflag.FlagSet) {
	enum.Var(flagset, FormatFlagName, []string{FormatText, FormatJSON},
		"format of log records, text for terminals or json with one object per line")
	enum.Var(flagset, LevelFlagName, []string{LevelWarn, LevelInfo, LevelDebug, LevelError}, `minimum level of log records
   debug: every fetch attempt and cache reload
   info:  every loaded resource
   warn:  problems that do not fail the command
   error: failures only`)
	enum.Var(flagset, OutputFlagName, []string{OutputStderr, OutputStdout},
		"destination of log records")
}

// GetBaseLogger builds the logger selected by the logging flags of cmd.
// Output is written to the command's out or err stream.
func GetBaseLogger(cmd *cobra.Command) (*slog.Logger, error) {
	flags := cmd.Flags()

	level, err := Level(flags)
	if err != nil {
		return nil, fmt.Errorf("failed to get log level: %w", err)
	}
	w, err := writer(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to get log output: %w", err)
	}
	format, err := enum.Get(flags, FormatFlagName)
	if err != nil {
		return nil, fmt.Errorf("failed to get log format: %w", err)
	}

	opts := &slog.HandlerOptions{Level: level}
	switch format {
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case FormatText:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
}

// Level returns the slog.Level named by LevelFlagName in flags.
func Level(flags *pflag.FlagSet) (slog.Level, error) {
	name, err := enum.Get(flags, LevelFlagName)
	if err != nil {
		return slog.LevelWarn, err
	}
	level, ok := levels[name]
	if !ok {
		return slog.LevelWarn, fmt.Errorf("invalid log level: %s", name)
	}
	return level, nil
}

func writer(cmd *cobra.Command) (io.Writer, error) {
	output, err := enum.Get(cmd.Flags(), OutputFlagName)
	if err != nil {
		return nil, err
	}
	switch output {
	case OutputStderr:
		return cmd.ErrOrStderr(), nil
	case OutputStdout:
		return cmd.OutOrStdout(), nil
	default:
		return nil, fmt.Errorf("invalid log output: %s", output)
	}
}

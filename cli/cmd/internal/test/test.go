// Package test runs the datapackage CLI in-process for command tests.
package test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"github.com/spf13/cobra"

	"ocm.software/datapackage/cli/cmd"
	"ocm.software/datapackage/cli/cmd/setup/hooks"
	"ocm.software/datapackage/cli/internal/flags/log"
)

type options struct {
	args     []string
	out      io.Writer
	logs     io.Writer
	hookOpts []hooks.Option
}

type Option func(*options)

// WithArgs sets the arguments of the run. Without arguments, help is shown.
func WithArgs(args ...string) Option {
	return func(o *options) {
		o.args = args
	}
}

// WithOutput captures the command output, i.e. the printed resources.
func WithOutput(out io.Writer) Option {
	return func(o *options) {
		o.out = out
	}
}

// WithLogs captures the log records, which are discarded otherwise.
func WithLogs(logs io.Writer) Option {
	return func(o *options) {
		o.logs = logs
	}
}

// WithHookOptions passes options to the pre-run hook, e.g. a fake HTTP transport for the fetcher.
func WithHookOptions(opts ...hooks.Option) Option {
	return func(o *options) {
		o.hookOpts = append(o.hookOpts, opts...)
	}
}

// DataPackage runs the datapackage root command with the context of tb.
// Logs are always written as JSON so that Logs can parse them.
func DataPackage(tb testing.TB, opts ...Option) (*cobra.Command, error) {
	tb.Helper()

	o := options{args: []string{"help"}, logs: io.Discard}
	for _, opt := range opts {
		opt(&o)
	}

	root := cmd.New(o.hookOpts...)
	if o.out != nil {
		root.SetOut(o.out)
	}
	root.SetErr(o.logs)
	if err := root.PersistentFlags().Set(log.FormatFlagName, log.FormatJSON); err != nil {
		return nil, fmt.Errorf("failed to select json logs: %w", err)
	}
	root.SetArgs(o.args)
	return root.ExecuteContextC(tb.Context())
}

// Logs collects the output of a run. Lines that are not JSON log records,
// such as usage text printed on errors, are kept apart as skipped.
type Logs struct {
	bytes.Buffer
	skipped []string
}

// LogEntry is a single JSON log record.
type LogEntry struct {
	Level string
	Msg   string
	// Attrs holds all attributes besides time, level and msg.
	Attrs map[string]any
}

// Entries parses all records written so far.
func (l *Logs) Entries() []LogEntry {
	var entries []LogEntry
	scanner := bufio.NewScanner(bytes.NewReader(l.Bytes()))
	l.skipped = nil
	for scanner.Scan() {
		var attrs map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &attrs); err != nil {
			l.skipped = append(l.skipped, scanner.Text())
			continue
		}
		level, _ := attrs["level"].(string)
		msg, _ := attrs["msg"].(string)
		delete(attrs, "time")
		delete(attrs, "level")
		delete(attrs, "msg")
		entries = append(entries, LogEntry{Level: level, Msg: msg, Attrs: attrs})
	}
	return entries
}

// Find returns the records with the given message.
func (l *Logs) Find(msg string) []LogEntry {
	var found []LogEntry
	for _, entry := range l.Entries() {
		if entry.Msg == msg {
			found = append(found, entry)
		}
	}
	return found
}

// Skipped returns the lines the last call to Entries could not parse.
func (l *Logs) Skipped() []string {
	return l.skipped
}

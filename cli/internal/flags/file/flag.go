// Package file provides a pflag.Value for a file path, such as the configuration file of the CLI.
// The path is stat'ed when the flag is set, so a missing file is reported where it is opened.
package file

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/pflag"
)

const Type = "path"

// Flag holds a file path and, if the path existed when it was set, its fs.FileInfo.
type Flag struct {
	path string
	fs.FileInfo
}

var _ pflag.Value = (*Flag)(nil)

func (f *Flag) String() string {
	return f.path
}

func (f *Flag) Type() string {
	return Type
}

// Set records s and stats it. A missing path is accepted, any other stat failure is not.
func (f *Flag) Set(s string) error {
	f.path, f.FileInfo = s, nil
	if s == "" {
		return nil
	}
	info, err := os.Stat(s)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return fmt.Errorf("unable to stat path %q: %w", s, err)
	}
	f.FileInfo = info
	return nil
}

// Exists reports whether the path existed when it was set.
func (f *Flag) Exists() bool {
	return f.FileInfo != nil
}

// Open opens the file for reading.
// It fails with fs.ErrNotExist if the path did not exist when it was set, and for directories.
func (f *Flag) Open() (io.ReadCloser, error) {
	if !f.Exists() {
		return nil, fmt.Errorf("file %q does not exist: %w", f.path, fs.ErrNotExist)
	}
	if f.IsDir() {
		return nil, fmt.Errorf("%q is a directory, not a file", f.path)
	}
	return os.Open(f.path)
}

// Var defines a path flag with the given default value.
func Var(flags *pflag.FlagSet, name, value, usage string) {
	flag := &Flag{}
	_ = flag.Set(value)
	flags.Var(flag, name, usage)
}

// Get returns the path flag with the given name.
func Get(flags *pflag.FlagSet, name string) (*Flag, error) {
	flag := flags.Lookup(name)
	if flag == nil {
		return nil, fmt.Errorf("flag accessed but not defined: %s", name)
	}
	val, ok := flag.Value.(*Flag)
	if !ok {
		return nil, fmt.Errorf("trying to get %s value of flag of type %s", Type, flag.Value.Type())
	}
	return val, nil
}

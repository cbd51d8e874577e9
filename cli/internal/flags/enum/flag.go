// Package enum provides a pflag.Value that only accepts one value out of a fixed set of options.
package enum

import (
	"fmt"
	"slices"

	"github.com/spf13/pflag"
)

const Type = "enum"

// Flag is a flag.Value implementation for parsing flags with a one-of-a-set value
// from the provided options. The first option is used as the default value.
type Flag struct {
	target  *string
	options []string
}

func (f *Flag) Type() string {
	return Type
}

// New returns a Flag for the given options. The first option is used as the default value.
// New panics if no options are given.
func New(options ...string) *Flag {
	if len(options) == 0 {
		panic("options must not be empty")
	}
	value := options[0]
	return &Flag{target: &value, options: options}
}

func (f *Flag) String() string {
	return *f.target
}

func (f *Flag) Set(value string) error {
	if !slices.Contains(f.options, value) {
		return fmt.Errorf("expected one of %q", f.options)
	}
	*f.target = value
	return nil
}

// Var defines an enum flag with the given name, options and usage.
func Var(f *pflag.FlagSet, name string, options []string, usage string) {
	f.Var(New(options...), name, describe(options, usage))
}

// VarP is like Var, but accepts a shorthand letter.
func VarP(f *pflag.FlagSet, name, shorthand string, options []string, usage string) {
	f.VarP(New(options...), name, shorthand, describe(options, usage))
}

// Get returns the current value of the enum flag with the given name.
func Get(f *pflag.FlagSet, name string) (string, error) {
	flag := f.Lookup(name)
	if flag == nil {
		return "", fmt.Errorf("flag accessed but not defined: %s", name)
	}
	if flag.Value.Type() != Type {
		return "", fmt.Errorf("trying to get %s value of flag of type %s", Type, flag.Value.Type())
	}
	return flag.Value.String(), nil
}

func describe(options []string, usage string) string {
	sorted := slices.Clone(options)
	slices.Sort(sorted)
	return fmt.Sprintf("%s\n(must be one of %v)", usage, sorted)
}

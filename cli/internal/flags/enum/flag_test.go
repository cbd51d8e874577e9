package enum

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var outputFormats = []string{"table", "yaml", "json"}

func TestNew(t *testing.T) {
	assert.Panics(t, func() { New() })

	flag := New(outputFormats...)
	assert.Equal(t, "table", flag.String(), "the first option is the default")
	assert.Equal(t, Type, flag.Type())
}

func TestFlag_Set(t *testing.T) {
	tests := []struct {
		value   string
		want    string
		wantErr bool
	}{
		{value: "json", want: "json"},
		{value: "yaml", want: "yaml"},
		{value: "xml", want: "table", wantErr: true},
		{value: "JSON", want: "table", wantErr: true},
		{value: "", want: "table", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			flag := New(outputFormats...)
			err := flag.Set(tt.value)
			if tt.wantErr {
				assert.ErrorContains(t, err, `expected one of ["table" "yaml" "json"]`)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, flag.String())
		})
	}
}

func TestVarP(t *testing.T) {
	r := require.New(t)
	flags := pflag.NewFlagSet("get resource", pflag.ContinueOnError)
	VarP(flags, "output", "o", outputFormats, "output format of the resources")

	flag := flags.Lookup("output")
	r.NotNil(flag)
	r.Equal("o", flag.Shorthand)
	r.Equal("table", flag.DefValue)
	r.Contains(flag.Usage, "(must be one of [json table yaml])")

	r.NoError(flags.Parse([]string{"-o", "yaml"}))
	value, err := Get(flags, "output")
	r.NoError(err)
	r.Equal("yaml", value)

	r.ErrorContains(flags.Parse([]string{"--output", "csv"}), "expected one of")
}

func TestGet(t *testing.T) {
	flags := pflag.NewFlagSet("datapackage", pflag.ContinueOnError)
	Var(flags, "logformat", []string{"text", "json"}, "log format")
	flags.String("base", "", "base path")

	value, err := Get(flags, "logformat")
	require.NoError(t, err)
	assert.Equal(t, "text", value)

	_, err = Get(flags, "base")
	assert.ErrorContains(t, err, "trying to get enum value of flag of type string")
	_, err = Get(flags, "columns")
	assert.ErrorContains(t, err, "flag accessed but not defined: columns")
}

func TestNew_DoesNotModifyOptions(t *testing.T) {
	options := []string{"table", "json"}
	flag := New(options...)
	assert.NoError(t, flag.Set("json"))
	assert.Equal(t, []string{"table", "json"}, options)
}

package v1_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	v1 "ocm.software/datapackage/cli/configuration/v1"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *v1.Config
		wantErr string
	}{
		{
			name: "yaml",
			input: `
type: datapackage.config.ocm.software/v1
http:
  timeout: 30s
  userAgent: test/1.0
`,
			want: &v1.Config{
				Type: v1.VersionedConfigType,
				HTTP: v1.HTTP{Timeout: v1.Duration(30 * time.Second), UserAgent: "test/1.0"},
			},
		},
		{
			name:  "json with unversioned type",
			input: `{"type": "datapackage.config.ocm.software", "http": {"timeout": 1000000000}}`,
			want: &v1.Config{
				Type: v1.VersionedConfigType,
				HTTP: v1.HTTP{Timeout: v1.Duration(time.Second)},
			},
		},
		{
			name:    "unknown type",
			input:   "type: generic.config.ocm.software/v1",
			wantErr: "unsupported configuration type",
		},
		{
			name:    "unknown field",
			input:   "type: datapackage.config.ocm.software/v1\nproxy: localhost",
			wantErr: "could not decode configuration",
		},
		{
			name:    "invalid duration",
			input:   "type: datapackage.config.ocm.software/v1\nhttp:\n  timeout: soon",
			wantErr: "could not decode configuration",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := require.New(t)
			cfg, err := v1.Decode(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				r.ErrorContains(err, tt.wantErr)
				return
			}
			r.NoError(err)
			r.Equal(tt.want, cfg)
		})
	}
}

func TestMerge(t *testing.T) {
	r := require.New(t)
	merged := v1.Merge(
		&v1.Config{HTTP: v1.HTTP{Timeout: v1.Duration(time.Second), UserAgent: "first"}},
		nil,
		&v1.Config{HTTP: v1.HTTP{Timeout: v1.Duration(time.Minute)}},
	)
	r.Equal(v1.VersionedConfigType, merged.Type)
	r.Equal(v1.Duration(time.Minute), merged.HTTP.Timeout)
	r.Equal("first", merged.HTTP.UserAgent)

	r.Equal(&v1.Config{Type: v1.VersionedConfigType}, v1.Merge())
}

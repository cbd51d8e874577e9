package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"sigs.k8s.io/yaml"
)

const (
	ConfigType   = "datapackage.config.ocm.software"
	ConfigTypeV1 = "v1"
)

// VersionedConfigType is the type written into new configuration files.
var VersionedConfigType = ConfigType + "/" + ConfigTypeV1

// Config holds the settings loaded from a configuration file.
type Config struct {
	Type string `json:"type"`
	HTTP HTTP   `json:"http,omitempty"`
}

// HTTP configures how remote resource content is requested.
type HTTP struct {
	// Timeout bounds a single request including reading the body. Zero means no timeout.
	Timeout Duration `json:"timeout,omitempty"`
	// UserAgent is sent with every request if set.
	UserAgent string `json:"userAgent,omitempty"`
}

type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return errors.New("invalid duration")
	}
}

// Decode reads a configuration from YAML or JSON. Unknown fields and types are rejected.
func Decode(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read configuration: %w", err)
	}
	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("could not decode configuration: %w", err)
	}
	switch cfg.Type {
	case ConfigType, VersionedConfigType:
		cfg.Type = VersionedConfigType
	default:
		return nil, fmt.Errorf("unsupported configuration type %q, expected %q", cfg.Type, VersionedConfigType)
	}
	return &cfg, nil
}

// Merge merges the provided configs into a single config.
// Settings of later configs take precedence over earlier ones; nil configs are skipped.
func Merge(configs ...*Config) *Config {
	merged := &Config{Type: VersionedConfigType}
	for _, config := range configs {
		if config == nil {
			continue
		}
		if config.HTTP.Timeout != 0 {
			merged.HTTP.Timeout = config.HTTP.Timeout
		}
		if config.HTTP.UserAgent != "" {
			merged.HTTP.UserAgent = config.HTTP.UserAgent
		}
	}
	return merged
}

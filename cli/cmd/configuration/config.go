package configuration

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	v1 "ocm.software/datapackage/cli/configuration/v1"
	"ocm.software/datapackage/cli/internal/flags/file"
)

// Configuration file and directory constants
const (
	ConfigDirectoryName   = "datapackage"
	ConfigFileName        = ConfigDirectoryName + "/config"
	NestedConfigFileName  = ".datapackageconfig"
	ConfigEnvironmentKey  = "DATAPACKAGE_CONFIG"
	ConfigCommandArgument = "config"
)

func RegisterConfigFlag(cmd *cobra.Command) {
	file.Var(cmd.PersistentFlags(), ConfigCommandArgument, "", `supply configuration by a given configuration file.
By default (without specifying custom locations with this flag), configuration is merged from the well known locations,
later locations taking precedence:
1. The XDG_CONFIG_HOME directory (if set), or the default XDG home ($HOME/.config), or the user's home directory
- $XDG_CONFIG_HOME/datapackage/config
- $XDG_CONFIG_HOME/.datapackageconfig
- $HOME/.config/datapackage/config
- $HOME/.config/.datapackageconfig
- $HOME/datapackage/config
- $HOME/.datapackageconfig
2. The current working directory:
- $PWD/datapackage/config
- $PWD/.datapackageconfig
3. The path specified in the DATAPACKAGE_CONFIG environment variable
Using the option, this configuration file is used instead of the lookup above.`)
}

// GetConfigForCommand returns the configuration given by the config flag of cmd,
// or the merged configuration of all well known locations if the flag is not set.
func GetConfigForCommand(cmd *cobra.Command) (*v1.Config, error) {
	flag, err := file.Get(cmd.Flags(), ConfigCommandArgument)
	if err != nil {
		return nil, err
	}
	if flag.String() != "" {
		rc, err := flag.Open()
		if err != nil {
			return nil, err
		}
		cfg, err := decode(rc)
		if err != nil {
			return nil, fmt.Errorf("could not load configuration from %q: %w", flag.String(), err)
		}
		return v1.Merge(cfg), nil
	}
	return GetConfig()
}

// GetConfig merges the configuration files found in the well known locations.
// Files that cannot be loaded are skipped and logged.
func GetConfig(additional ...string) (*v1.Config, error) {
	paths := append(GetConfigPaths(), additional...)
	cfgs := make([]*v1.Config, 0, len(paths))
	for _, path := range paths {
		cfg, err := GetConfigFromPath(path)
		if err != nil {
			slog.Error("datapackage config path was skipped due to an error loading it",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			continue
		}
		slog.Debug("datapackage config was loaded successfully", slog.String("path", path))
		cfgs = append(cfgs, cfg)
	}
	return v1.Merge(cfgs...), nil
}

// GetConfigFromPath reads and decodes the configuration file at path.
func GetConfigFromPath(path string) (*v1.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return decode(f)
}

func decode(rc io.ReadCloser) (_ *v1.Config, err error) {
	defer func() {
		err = errors.Join(err, rc.Close())
	}()
	return v1.Decode(rc)
}

// GetConfigPaths returns the existing configuration files in ascending order of precedence.
func GetConfigPaths() []string {
	var paths []string
	if path := getFromXDGOrHomeDir(); path != "" {
		paths = append(paths, path)
	}
	if path := getFromWorkingDir(); path != "" {
		paths = append(paths, path)
	}
	if path := getFromEnvironment(); path != "" {
		paths = append(paths, path)
	}
	return paths
}

func getFromEnvironment() string {
	if env := os.Getenv(ConfigEnvironmentKey); env != "" {
		if _, err := os.Stat(env); err == nil {
			return env
		}
	}
	return ""
}

// getFromXDGOrHomeDir checks XDG_CONFIG_HOME first, then the default XDG home ($HOME/.config)
// and finally the home directory itself.
func getFromXDGOrHomeDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		if path := checkConfigPaths(xdg); path != "" {
			return path
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		if path := checkConfigPaths(filepath.Join(home, ".config")); path != "" {
			return path
		}
		if path := checkConfigPaths(home); path != "" {
			return path
		}
	}
	return ""
}

func getFromWorkingDir() string {
	if wd, err := os.Getwd(); err == nil {
		return checkConfigPaths(wd)
	}
	return ""
}

// checkConfigPaths returns the first config file variation found in base.
func checkConfigPaths(base string) string {
	for _, name := range []string{ConfigFileName, NestedConfigFileName} {
		path := filepath.Join(base, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

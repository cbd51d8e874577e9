package version

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"ocm.software/datapackage/cli/internal/flags/enum"
)

const (
	FlagFormat                = "format"
	FlagFormatShortHand       = "f"
	FlagFormatVersion         = "version"
	FlagFormatGoBuildInfo     = "gobuildinfo"
	FlagFormatGoBuildInfoJSON = "gobuildinfojson"
)

// BuildVersion overrides the module version of the Go build info if set. It can be adjusted at build time with
//
//	-ldflags "-X ocm.software/datapackage/cli/cmd/version.BuildVersion=1.2.3"
var BuildVersion = "n/a"

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Retrieve the build version of the datapackage CLI",
		Long: fmt.Sprintf(`The version command retrieves the build version of the datapackage CLI.

With the %[1]s format only the version is printed.
With the %[2]q format the Go build information is printed in the format shared by all Go applications,
with %[3]q the same information is printed as JSON.`, FlagFormatVersion, FlagFormatGoBuildInfo, FlagFormatGoBuildInfoJSON),
		Example: fmt.Sprintf(`datapackage version --format %s`, FlagFormatGoBuildInfoJSON),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := enum.Get(cmd.Flags(), FlagFormat)
			if err != nil {
				return err
			}
			info, ok := debug.ReadBuildInfo()
			if !ok {
				return fmt.Errorf("no build info available")
			}
			if BuildVersion != "n/a" {
				info.Main.Version = BuildVersion
			}
			return write(cmd.OutOrStdout(), format, info)
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	enum.VarP(cmd.Flags(), FlagFormat, FlagFormatShortHand,
		[]string{FlagFormatVersion, FlagFormatGoBuildInfo, FlagFormatGoBuildInfoJSON}, "format of the version information")
	return cmd
}

func write(w io.Writer, format string, info *debug.BuildInfo) error {
	switch format {
	case FlagFormatVersion:
		_, err := fmt.Fprintln(w, info.Main.Version)
		return err
	case FlagFormatGoBuildInfo:
		_, err := io.Copy(w, strings.NewReader(info.String()))
		return err
	case FlagFormatGoBuildInfoJSON:
		return json.NewEncoder(w).Encode(info)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

package get

import (
	"github.com/spf13/cobra"

	"ocm.software/datapackage/cli/cmd/get/resource"
)

// New represents any command that is related to retrieving ( "get"ting ) objects
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get {resource|resources|res}",
		Short: "Get anything described by data package descriptors",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(resource.New())
	return cmd
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/workledger/pkg/workledger"
)

const modulePath = "github.com/mesh-intelligence/workledger"

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the workledger version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "workledger v%s\nmodule: %s\n", workledger.Version, modulePath)
			return nil
		},
	}
}

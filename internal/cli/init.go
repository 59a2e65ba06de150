package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the config file and database, migrating any legacy records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			if !l.Ready() {
				return sysError(fmt.Errorf("database %s could not be opened (run with --log-level debug for details)", l.Path()))
			}

			if a.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"database": l.Path(),
					"migrated": l.Migrated,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "workledger initialized: %s\n", l.Path())
			if l.Migrated > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Migrated %d legacy record(s)\n", l.Migrated)
			}
			return nil
		},
	}
}

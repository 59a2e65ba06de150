package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/workledger/internal/legacy"
	"github.com/mesh-intelligence/workledger/pkg/workledger"
)

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [export.json]",
		Short: "Move legacy cached records into the database",
		Long: `Migrate drains the legacy record cache into the database and clears it.

With a file argument, the JSON array in the file (the mobile app's cached
workRecords export) is appended to the cache first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cache, err := legacy.New(a.cfg)
			if err != nil {
				return sysError(err)
			}
			imported := 0
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return userError(err)
				}
				imported, err = legacy.Import(ctx, cache, f)
				f.Close()
				if err != nil {
					return userError(fmt.Errorf("import %s: %w", args[0], err))
				}
			}

			l, err := a.open(ctx, workledger.WithCache(cache))
			if err != nil {
				return err
			}
			if !l.Ready() {
				return sysError(fmt.Errorf("database %s could not be opened; legacy cache left untouched", l.Path()))
			}

			if a.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"imported": imported,
					"migrated": l.Migrated,
				})
			}
			if imported > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d legacy entries\n", imported)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migrated %d legacy record(s)\n", l.Migrated)
			return nil
		},
	}
}

package cli

import (
	"fmt"

	"github.com/alexanderramin/daybook/internal/app"
	"github.com/alexanderramin/daybook/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newImportCmd(a *App) *cobra.Command {
	var req app.ImportRequest

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a key/value backup from the mobile app",
		Long: "Import day logs, habit documents, activity names and the last stop " +
			"from a JSON backup of the mobile app's storage. Sessions already " +
			"stored are skipped, so the same file can be imported again.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.importUseCase().ImportBackup(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatImportResult(res))
			return nil
		},
	}

	cmd.Flags().BoolVar(&req.Overwrite, "overwrite", false, "Replace habit days that already have data")
	cmd.Flags().BoolVar(&req.DryRun, "dry-run", false, "Validate and count without writing")

	return cmd
}

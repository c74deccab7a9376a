package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/wikigames/internal/sqlite"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir>",
		Short: "Write the catalog to dir as games.jsonl and consoles.jsonl",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.backend()
			if err != nil {
				return err
			}
			res, err := b.Export(cmd.Context(), args[0])
			if err != nil {
				return sysError(err)
			}
			return reportTransfer(a, cmd, "exported", res)
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir>",
		Short: "Load games.jsonl and consoles.jsonl from dir, keeping their ids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.backend()
			if err != nil {
				return err
			}
			res, err := b.Import(cmd.Context(), args[0])
			if err != nil {
				return sysError(err)
			}
			return reportTransfer(a, cmd, "imported", res)
		},
	}
}

func reportTransfer(a *app, cmd *cobra.Command, verb string, res sqlite.ExportResult) error {
	if a.flags.jsonMode {
		return writeJSON(cmd.OutOrStdout(), res)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d games and %d consoles\n", verb, res.Games, res.Consoles)
	return nil
}

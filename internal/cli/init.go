package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration file and the catalog store",
		Long:  "Write a default config.yaml if none exists, then create the data directory and the catalog schema.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if a.flags.dataDir != "" {
				cfg.DataDir = a.flags.dataDir
			}
			wrote, err := writeConfigIfMissing(a.configDir, cfg)
			if err != nil {
				return sysError(err)
			}

			b, err := a.backend()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if wrote {
				fmt.Fprintf(out, "wrote %s/%s\n", a.configDir, configFileExt)
			}
			fmt.Fprintf(out, "catalog ready in %s\n", b.DataDir())
			return nil
		},
	}
}

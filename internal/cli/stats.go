package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// catalogStats is the summary shown by "wikigames stats".
type catalogStats struct {
	Games    int `json:"games"`
	Consoles int `json:"consoles"`
	Total    int `json:"total"`
}

func newStatsCmd(a *app) *cobra.Command {
	var showMetrics bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show how many games and consoles are cataloged",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := a.controller(cmd)
			if err != nil {
				return err
			}
			s := catalogStats{
				Games:    ctrl.Games().Len(),
				Consoles: ctrl.Consoles().Len(),
				Total:    ctrl.Total(),
			}

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				if err := writeJSON(out, s); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(out, "games:    %d\nconsoles: %d\ntotal:    %d\n", s.Games, s.Consoles, s.Total)
			}

			if showMetrics {
				if a.metrics == nil {
					return userError(fmt.Errorf("metrics are disabled; set metrics.enabled in %s", configFileExt))
				}
				return a.metrics.WriteText(out)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "also print collected metrics in Prometheus text format")
	return cmd
}

package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newMapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Inspect the galaxy map",
	}
	cmd.AddCommand(newMapShowCmd(), newMapLeaderboardCmd())
	return cmd
}

func newMapShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List every territory on the map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := cliContext(cmd)
			if err != nil {
				return err
			}
			territories, err := cliCtx.Client.Planets().Map(cmd.Context())
			if err != nil {
				return err
			}
			if strings.EqualFold(cliCtx.OutputFormat, "json") {
				return printResult(cmd, territories)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TEAM\tLABEL\tAREA\tCOLOR\tMINE")
			for _, t := range territories {
				mine := ""
				if t.IsMyTeam {
					mine = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%.0f\t%s\t%s\n", t.ID, t.DisplayName, t.Area, t.Color, mine)
			}
			return w.Flush()
		},
	}
}

func newMapLeaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show teams ordered by planet points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := cliContext(cmd)
			if err != nil {
				return err
			}
			rows, err := cliCtx.Client.Planets().Leaderboard(cmd.Context())
			if err != nil {
				return err
			}
			if strings.EqualFold(cliCtx.OutputFormat, "json") {
				return printResult(cmd, rows)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RANK\tTEAM\tLAND\tPOINTS")
			for i, r := range rows {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", i+1, r.TeamID, r.Name, r.Points)
			}
			return w.Flush()
		},
	}
}

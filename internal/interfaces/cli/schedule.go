package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nebulahq/hacknebula/pkg/client"
)

func newScheduleCmd() *cobra.Command {
	var upcoming bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show the event schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := cliContext(cmd)
			if err != nil {
				return err
			}

			var sessions []client.Session
			if upcoming {
				sessions, err = cliCtx.Client.Schedule().Upcoming(cmd.Context())
			} else {
				sessions, err = cliCtx.Client.Schedule().List(cmd.Context())
			}
			if err != nil {
				return err
			}
			if strings.EqualFold(cliCtx.OutputFormat, "json") {
				return printResult(cmd, sessions)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STARTS\tKIND\tTITLE\tLOCATION")
			for _, s := range sessions {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					s.StartsAt.Local().Format(time.RFC822), s.Kind, s.Title, s.Location)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&upcoming, "upcoming", false, "only sessions that have not started")
	return cmd
}

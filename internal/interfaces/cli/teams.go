package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nebulahq/hacknebula/pkg/client"
)

func newTeamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teams",
		Short: "Manage hackathon teams",
	}
	cmd.AddCommand(
		newTeamsListCmd(),
		newTeamsGetCmd(),
		newTeamsCreateCmd(),
		newTeamsJoinCmd(),
		newTeamsLeaveCmd(),
	)
	return cmd
}

func newTeamsListCmd() *cobra.Command {
	var track, query string
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List teams",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := cliContext(cmd)
			if err != nil {
				return err
			}
			list, err := cliCtx.Client.Teams().List(cmd.Context(), client.ListTeamsOptions{
				Track:    track,
				Query:    query,
				Page:     page,
				PageSize: pageSize,
			})
			if err != nil {
				return err
			}
			if strings.EqualFold(cliCtx.OutputFormat, "json") {
				return printResult(cmd, list)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTRACK\tMEMBERS\tLOCKED")
			for _, t := range list.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%v\n", t.ID, t.Name, t.Track, len(t.Members), t.Locked)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d teams (page %d)\n",
				len(list.Items), list.Meta.Total, list.Meta.Page)
			return nil
		},
	}

	cmd.Flags().StringVar(&track, "track", "", "filter by track")
	cmd.Flags().StringVarP(&query, "query", "q", "", "filter by name substring")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "page size")
	return cmd
}

func newTeamsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <team-id>",
		Short: "Show one team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := cliContext(cmd)
			if err != nil {
				return err
			}
			t, err := cliCtx.Client.Teams().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, t)
		},
	}
}

func newTeamsCreateCmd() *cobra.Command {
	var description, track string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a team with yourself as leader",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := cliContext(cmd)
			if err != nil {
				return err
			}
			t, err := cliCtx.Client.Teams().Create(cmd.Context(), client.CreateTeamRequest{
				Name:        args[0],
				Description: description,
				Track:       track,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "team %s created, invite code: %s\n", t.ID, t.InviteCode)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "team description")
	cmd.Flags().StringVar(&track, "track", "", "competition track")
	return cmd
}

func newTeamsJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <invite-code>",
		Short: "Join a team by invite code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := cliContext(cmd)
			if err != nil {
				return err
			}
			t, err := cliCtx.Client.Teams().Join(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "joined team %s (%d members)\n", t.Name, len(t.Members))
			return nil
		},
	}
}

func newTeamsLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave",
		Short: "Leave your current team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := cliContext(cmd)
			if err != nil {
				return err
			}
			if err := cliCtx.Client.Teams().Leave(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "left team")
			return nil
		},
	}
}

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newFeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Read and write the activity feed",
	}
	cmd.AddCommand(newFeedListCmd(), newFeedPostCmd())
	return cmd
}

func newFeedListCmd() *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the feed, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := cliContext(cmd)
			if err != nil {
				return err
			}
			list, err := cliCtx.Client.Feed().List(cmd.Context(), page, pageSize)
			if err != nil {
				return err
			}
			if strings.EqualFold(cliCtx.OutputFormat, "json") {
				return printResult(cmd, list)
			}

			for _, p := range list.Items {
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s (%s)\n  %s\n",
					p.CreatedAt.Local().Format(time.Stamp), p.AuthorName, p.Kind, p.Content)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "page size")
	return cmd
}

func newFeedPostCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "post <content>",
		Short: "Publish a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := cliContext(cmd)
			if err != nil {
				return err
			}
			p, err := cliCtx.Client.Feed().Publish(cmd.Context(), kind, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "posted %s\n", p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "update", "post kind (update, announcement)")
	return cmd
}

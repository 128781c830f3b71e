package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List archived conversations, busiest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, archive, err := openArchive()
			if err != nil {
				return err
			}
			defer db.Close()

			infos, err := archive.ListConversations(cmd.Context())
			if err != nil {
				return err
			}
			if limit > 0 && len(infos) > limit {
				infos = infos[:limit]
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}

			if len(infos) == 0 {
				fmt.Fprintln(out, "No conversations in archive.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tNAME\tID\tMESSAGES\tREACTIONS")
			for i, info := range infos {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1,
					displayName(info.Name, "(unnamed)"), info.ID,
					humanize.Comma(int64(info.MessageCount)), humanize.Comma(int64(info.ReactionCount)))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most N conversations (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}

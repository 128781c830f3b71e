package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	var (
		contact string
		limit   int
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search over message bodies",
		Long: `Search message bodies across the archive using SQLite FTS5 query syntax,
for example: search 'dinner AND friday' or search 'birth*'.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, archive, err := openArchive()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			var convID string
			if contact != "" {
				ids, err := resolveConversations(ctx, archive, []string{contact})
				if err != nil {
					return err
				}
				convID = ids[0]
			}

			loc, err := cfg.Export.Location()
			if err != nil {
				return err
			}

			hits, err := archive.Search(ctx, convID, strings.Join(args, " "), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(hits)
			}
			if len(hits) == 0 {
				fmt.Fprintln(out, "No matches.")
				return nil
			}
			for _, h := range hits {
				fmt.Fprintf(out, "[%s] %s: %s\n",
					h.Timestamp.In(loc).Format("2006-01-02 15:04"),
					displayName(h.ConversationName, h.ConversationID),
					oneLine(h.Body))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&contact, "contact", "c", "", "restrict to one conversation (name or id)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of matches")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}

// oneLine collapses line breaks so each hit prints on a single row.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

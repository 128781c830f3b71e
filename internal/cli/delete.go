package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name|id>...",
		Short: "Remove conversations from the archive",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, archive, err := openArchive()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			ids, err := resolveConversations(ctx, archive, args)
			if err != nil {
				return err
			}
			for _, id := range ids {
				if err := archive.DeleteConversation(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			}
			return nil
		},
	}
}

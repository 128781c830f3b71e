package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/soyeahso/chatexport/internal/config"
	"github.com/soyeahso/chatexport/internal/version"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration and archive status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, version.Info())
			fmt.Fprintln(out)

			if _, err := os.Stat(paths.Config); err == nil {
				fmt.Fprintf(out, "Config:  %s\n", paths.Config)
			} else {
				fmt.Fprintf(out, "Config:  %s (not found, using defaults)\n", paths.Config)
			}

			archivePath := paths.ArchivePath(cfg)
			if fi, err := os.Stat(archivePath); err == nil {
				fmt.Fprintf(out, "Archive: %s (%s)\n", archivePath, humanize.IBytes(uint64(fi.Size())))

				db, archive, err := openArchive()
				if err != nil {
					return err
				}
				defer db.Close()

				infos, err := archive.ListConversations(cmd.Context())
				if err != nil {
					return err
				}
				var msgs, reactions int64
				for _, info := range infos {
					msgs += int64(info.MessageCount)
					reactions += int64(info.ReactionCount)
				}
				fmt.Fprintf(out, "         %s conversations, %s messages, %s reactions\n",
					humanize.Comma(int64(len(infos))), humanize.Comma(msgs), humanize.Comma(reactions))
			} else {
				fmt.Fprintf(out, "Archive: %s (not created yet)\n", archivePath)
			}

			e := cfg.Export
			fmt.Fprintf(out, "Export:  style=%s recent=%v limit=%d workers=%d timezone=%s dir=%s\n",
				e.Style, e.Recent, e.Limit, e.Workers, e.Timezone, e.OutputDir)
			fmt.Fprintf(out, "Logging: level=%s style=%s\n", cfg.Logging.Level, cfg.Logging.ConsoleStyle)

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				fmt.Fprintf(out, "\nValidation issues (%d):\n", len(issues))
				for _, issue := range issues {
					fmt.Fprintf(out, "  - %s: %s\n", issue.Path, issue.Message)
				}
			}

			return nil
		},
	}
}

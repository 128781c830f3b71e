package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/soyeahso/chatexport/internal/config"
	"github.com/soyeahso/chatexport/internal/exporter"
	"github.com/soyeahso/chatexport/internal/timeline"
	"github.com/soyeahso/chatexport/internal/transcript"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var (
		all       bool
		toStdout  bool
		style     string
		limit     int
		recent    bool
		timezone  string
		outputDir string
		workers   int
	)

	cmd := &cobra.Command{
		Use:   "export [name|id...]",
		Short: "Export conversations as transcripts",
		Long: `Export one or more conversations from the archive. Each argument is matched
against conversation ids and names (exact match first, then substring).
With --all every conversation in the archive is exported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) > 0) {
				return errors.New("specify conversations to export or --all, not both")
			}

			ec := cfg.Export
			flags := cmd.Flags()
			if flags.Changed("style") {
				ec.Style = style
			}
			if flags.Changed("limit") {
				ec.Limit = limit
			}
			if flags.Changed("recent") {
				ec.Recent = recent
			}
			if flags.Changed("timezone") {
				ec.Timezone = timezone
			}
			if flags.Changed("output-dir") {
				ec.OutputDir = outputDir
			}
			if flags.Changed("workers") {
				ec.Workers = workers
			}

			opts, err := exportOptions(ec, time.Now())
			if err != nil {
				return err
			}

			db, archive, err := openArchive()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			var ids []string
			if !all {
				if ids, err = resolveConversations(ctx, archive, args); err != nil {
					return err
				}
			}

			exp := exporter.New(archive, log, opts, ec.Workers)
			results, err := exp.ExportAll(ctx, ids)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintln(out, "No conversations in archive.")
				return nil
			}

			if toStdout {
				for i, res := range results {
					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprint(out, res.Document)
				}
				return nil
			}

			if err := exp.WriteAll(results, ec.OutputDir); err != nil {
				return err
			}
			for _, res := range results {
				fmt.Fprintf(out, "Exported %s (%s messages) to %s\n",
					displayName(res.Name, res.ConversationID), humanize.Comma(int64(res.Summary.Total)), res.Path)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&all, "all", false, "export every conversation in the archive")
	f.BoolVar(&toStdout, "stdout", false, "print transcripts instead of writing files")
	f.StringVar(&style, "style", "", "transcript style (text, markdown)")
	f.IntVar(&limit, "limit", 0, "export at most N messages (0 for all)")
	f.BoolVar(&recent, "recent", false, "keep the newest messages and list them newest first")
	f.StringVar(&timezone, "timezone", "", "IANA time zone for dates and times (default Local)")
	f.StringVarP(&outputDir, "output-dir", "o", "", "directory for exported files")
	f.IntVar(&workers, "workers", 0, "conversations rendered in parallel")

	return cmd
}

// exportOptions turns export settings into pipeline options stamped with now.
func exportOptions(ec config.ExportConfig, now time.Time) (exporter.Options, error) {
	style, err := transcript.ParseStyle(ec.Style)
	if err != nil {
		return exporter.Options{}, err
	}
	if ec.Limit < 0 {
		return exporter.Options{}, fmt.Errorf("limit must be >= 0, got %d", ec.Limit)
	}
	loc, err := ec.Location()
	if err != nil {
		return exporter.Options{}, err
	}

	return exporter.Options{
		Timeline: timeline.Options{Limit: ec.Limit, Recent: ec.Recent},
		Transcript: transcript.Options{
			Style:      style,
			Location:   loc,
			ExportedAt: now.In(loc),
		},
	}, nil
}

func displayName(name, id string) string {
	if name != "" {
		return name
	}
	return id
}

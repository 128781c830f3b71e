package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/soyeahso/chatexport/internal/store"
	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <dump.json>...",
		Short: "Load conversation dumps into the archive",
		Long: `Load JSON dumps of normalized conversation records into the archive.
A dump holds {"conversations": [...]} or a single conversation object.
Conversations already in the archive with the same id are replaced.
Use "-" to read from stdin.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, archive, err := openArchive()
			if err != nil {
				return err
			}
			defer db.Close()

			out := cmd.OutOrStdout()
			var convs, msgs int
			for _, name := range args {
				d, err := readDumpFile(name, cmd.InOrStdin())
				if err != nil {
					return err
				}
				ids, err := archive.Import(cmd.Context(), d)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				for i, id := range ids {
					c := d.Conversations[i]
					fmt.Fprintf(out, "Imported %s (%s messages)\n",
						displayName(c.Name, id), humanize.Comma(int64(len(c.Messages))))
					msgs += len(c.Messages)
				}
				convs += len(ids)
			}

			fmt.Fprintf(out, "%s conversations, %s messages imported\n",
				humanize.Comma(int64(convs)), humanize.Comma(int64(msgs)))
			return nil
		},
	}
}

func readDumpFile(name string, stdin io.Reader) (*store.Dump, error) {
	if name == "-" {
		return store.ReadDump(stdin)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := store.ReadDump(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

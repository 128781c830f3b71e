package cli

import (
	"context"
	"fmt"

	"github.com/soyeahso/chatexport/internal/config"
	"github.com/soyeahso/chatexport/internal/logging"
	"github.com/soyeahso/chatexport/internal/store"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string

	// loaded at init time
	paths config.Paths
	cfg   config.Config
	log   *logging.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chatexport",
		Short: "Export chat conversations as readable transcripts",
		Long:  "chatexport keeps an archive of chat conversations and renders them as readable text or markdown transcripts.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			paths, err = config.ResolvePaths()
			if err != nil {
				return err
			}
			if cfgFile != "" {
				paths.Config = cfgFile
			}

			cfg, err = config.Load(paths.Config)
			if err != nil {
				return err
			}

			level := logLevel
			if level == "" {
				level = cfg.Logging.Level
			}
			log = logging.NewWithStyle(cmd.ErrOrStderr(), level, cfg.Logging.ConsoleStyle)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.chatexport/config.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error, fatal, silent)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newDeleteCmd())

	return cmd
}

// openArchive opens the configured archive database. Callers close the
// returned DB.
func openArchive() (*store.DB, *store.Archive, error) {
	if err := paths.EnsureDirs(); err != nil {
		return nil, nil, fmt.Errorf("creating data directory: %w", err)
	}
	db, err := store.Open(paths.ArchivePath(cfg), log)
	if err != nil {
		return nil, nil, err
	}
	return db, store.NewArchive(db), nil
}

// resolveConversations maps each name-or-id argument to a conversation id.
func resolveConversations(ctx context.Context, archive *store.Archive, queries []string) ([]string, error) {
	ids := make([]string, 0, len(queries))
	for _, q := range queries {
		info, err := archive.FindConversation(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("conversation %q: %w", q, err)
		}
		ids = append(ids, info.ID)
	}
	return ids, nil
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

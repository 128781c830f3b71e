// Package exporter drives the pipeline for whole conversations: it loads the
// records from a Source, assembles and renders them, and writes the
// resulting documents to disk.
package exporter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/soyeahso/chatexport/internal/domain"
	"github.com/soyeahso/chatexport/internal/logging"
	"github.com/soyeahso/chatexport/internal/timeline"
	"github.com/soyeahso/chatexport/internal/transcript"
)

// Source supplies conversation records. *store.Archive implements it.
type Source interface {
	Conversation(ctx context.Context, id string) (*domain.Conversation, error)
	ListConversations(ctx context.Context) ([]domain.ConversationInfo, error)
}

// Options select and format the exported messages.
type Options struct {
	Timeline   timeline.Options
	Transcript transcript.Options
}

// Result is one rendered conversation.
type Result struct {
	ConversationID string
	Name           string
	Document       string
	Summary        timeline.Summary
	Path           string // set once written
}

// Build runs the in-memory pipeline for a single conversation.
func Build(conv domain.Conversation, opts Options) Result {
	tl := timeline.Assemble(conv, opts.Timeline)
	return Result{
		ConversationID: conv.ID,
		Name:           conv.Name,
		Document:       transcript.Render(tl, opts.Transcript),
		Summary:        tl.Summary(),
	}
}

// Exporter loads, renders and writes conversations.
type Exporter struct {
	src     Source
	log     *logging.Logger
	opts    Options
	workers int
}

// New creates an exporter. workers bounds ExportAll's parallelism; values
// below 1 mean one.
func New(src Source, log *logging.Logger, opts Options, workers int) *Exporter {
	if workers < 1 {
		workers = 1
	}
	return &Exporter{src: src, log: log.Sub("exporter"), opts: opts, workers: workers}
}

// Export renders one conversation.
func (e *Exporter) Export(ctx context.Context, id string) (Result, error) {
	conv, err := e.src.Conversation(ctx, id)
	if err != nil {
		return Result{}, fmt.Errorf("loading %s: %w", id, err)
	}
	res := Build(*conv, e.opts)
	e.log.Debug().
		Str("conversation", id).
		Int("messages", res.Summary.Total).
		Int("citations", res.Summary.WithCitations).
		Int("reactions", res.Summary.WithReactions).
		Msg("conversation rendered")
	return res, nil
}

// ExportAll renders the given conversations in parallel, or every
// conversation in the source when ids is empty. Results keep the order of
// ids. The first failure cancels the remaining work.
func (e *Exporter) ExportAll(ctx context.Context, ids []string) ([]Result, error) {
	if len(ids) == 0 {
		infos, err := e.src.ListConversations(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing conversations: %w", err)
		}
		for _, info := range infos {
			ids = append(ids, info.ID)
		}
	}

	run := uuid.New().String()
	log := e.log.With("run", run)
	log.Info().Int("conversations", len(ids)).Int("workers", e.workers).Msg("export started")

	results := make([]Result, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := e.Export(gctx, id)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("export failed")
		return nil, err
	}
	log.Info().Int("conversations", len(results)).Msg("export finished")
	return results, nil
}

// Write stores res.Document under dir and records the path on res.
func (e *Exporter) Write(res *Result, dir string) error {
	return e.write(res, dir, FileName(*res, e.opts))
}

func (e *Exporter) write(res *Result, dir, name string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(res.Document), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	res.Path = path

	e.log.Info().
		Str("conversation", res.ConversationID).
		Str("path", path).
		Str("size", humanize.IBytes(uint64(len(res.Document)))).
		Msg("transcript written")
	return nil
}

// WriteAll writes every result under dir. Results whose file names collide
// get a numeric suffix.
func (e *Exporter) WriteAll(results []Result, dir string) error {
	used := make(map[string]int)
	for i := range results {
		name := FileName(results[i], e.opts)
		used[name]++
		if n := used[name]; n > 1 {
			ext := filepath.Ext(name)
			name = fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), n, ext)
		}
		if err := e.write(&results[i], dir, name); err != nil {
			return err
		}
	}
	return nil
}

// FileName builds "conversation_<name>[_recent]_<YYYYMMDD_HHMMSS><ext>" from
// the export timestamp.
func FileName(res Result, opts Options) string {
	name := SafeName(res.Name)
	if name == "" {
		name = SafeName(res.ConversationID)
	}
	if name == "" {
		name = "unknown"
	}

	var b strings.Builder
	b.WriteString("conversation_")
	b.WriteString(name)
	if opts.Timeline.Recent {
		b.WriteString("_recent")
	}
	b.WriteString("_")
	b.WriteString(opts.Transcript.ExportedAt.Format("20060102_150405"))
	b.WriteString(opts.Transcript.Style.Ext())
	return b.String()
}

// SafeName keeps letters, digits, '-' and '_' and turns spaces into '_'.
func SafeName(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	return b.String()
}

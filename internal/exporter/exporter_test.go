package exporter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/soyeahso/chatexport/internal/domain"
	"github.com/soyeahso/chatexport/internal/logging"
	"github.com/soyeahso/chatexport/internal/store"
	"github.com/soyeahso/chatexport/internal/timeline"
	"github.com/soyeahso/chatexport/internal/transcript"
)

var exportedAt = time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)

func testOpts() Options {
	return Options{Transcript: transcript.Options{Style: transcript.StyleText, Location: time.UTC, ExportedAt: exportedAt}}
}

func testLog() *logging.Logger { return logging.New(nil, "silent") }

// fakeSource serves conversations from memory and counts concurrent loads.
type fakeSource struct {
	convs    map[string]domain.Conversation
	order    []string
	fail     string
	inFlight atomic.Int32
	peak     atomic.Int32
}

func newFakeSource(convs ...domain.Conversation) *fakeSource {
	s := &fakeSource{convs: map[string]domain.Conversation{}}
	for _, c := range convs {
		s.convs[c.ID] = c
		s.order = append(s.order, c.ID)
	}
	return s
}

func (s *fakeSource) Conversation(ctx context.Context, id string) (*domain.Conversation, error) {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(2 * time.Millisecond)

	if id == s.fail {
		return nil, errors.New("disk on fire")
	}
	c, ok := s.convs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (s *fakeSource) ListConversations(ctx context.Context) ([]domain.ConversationInfo, error) {
	var out []domain.ConversationInfo
	for _, id := range s.order {
		c := s.convs[id]
		out = append(out, domain.ConversationInfo{ID: c.ID, Name: c.Name, MessageCount: len(c.Messages)})
	}
	return out, nil
}

func conv(id, name string, n int) domain.Conversation {
	c := domain.Conversation{ID: id, Name: name}
	for i := 0; i < n; i++ {
		c.Messages = append(c.Messages, domain.Message{
			ID:        int64(i + 1),
			Timestamp: time.Date(2024, 1, 15, 10, i, 0, 0, time.UTC),
			Body:      fmt.Sprintf("%s message %d", name, i+1),
		})
	}
	return c
}

func TestBuild(t *testing.T) {
	c := conv("a", "Alice", 3)
	blob := protowire.AppendTag(nil, 1, protowire.BytesType)
	c.Messages[2].CitationBlob = protowire.AppendString(blob, "Alice message 1 quoted")
	c.Reactions = []domain.Reaction{{MessageID: 1, Emoji: "👍", Actor: "x"}}

	res := Build(c, testOpts())

	assert.Equal(t, "a", res.ConversationID)
	assert.Equal(t, "Alice", res.Name)
	assert.Equal(t, 3, res.Summary.Total)
	assert.Equal(t, 1, res.Summary.WithCitations)
	assert.Equal(t, 1, res.Summary.WithReactions)
	assert.Contains(t, res.Document, "Contact: Alice")
	assert.Contains(t, res.Document, "↳ Alice message 1 quoted")
	assert.Empty(t, res.Path)
}

func TestBuild_AppliesTimelineOptions(t *testing.T) {
	opts := testOpts()
	opts.Timeline = timeline.Options{Limit: 2, Recent: true}

	res := Build(conv("a", "Alice", 5), opts)

	assert.Equal(t, 2, res.Summary.Total)
	assert.Less(t, strings.Index(res.Document, "message 5"), strings.Index(res.Document, "message 4"))
	assert.NotContains(t, res.Document, "message 3")
}

func TestExport_NotFound(t *testing.T) {
	e := New(newFakeSource(), testLog(), testOpts(), 1)
	_, err := e.Export(context.Background(), "ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestExportAll_KeepsOrder(t *testing.T) {
	var convs []domain.Conversation
	var ids []string
	for i := 0; i < 12; i++ {
		c := conv(fmt.Sprintf("id-%02d", i), fmt.Sprintf("Contact %d", i), i%4+1)
		convs = append(convs, c)
		ids = append(ids, c.ID)
	}
	src := newFakeSource(convs...)
	e := New(src, testLog(), testOpts(), 3)

	// reverse the request order so results cannot simply mirror the source
	req := make([]string, len(ids))
	for i := range ids {
		req[i] = ids[len(ids)-1-i]
	}

	results, err := e.ExportAll(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, results, len(req))
	for i, res := range results {
		assert.Equal(t, req[i], res.ConversationID)
	}
	assert.LessOrEqual(t, src.peak.Load(), int32(3))
}

func TestExportAll_EmptyIDsExportsEverything(t *testing.T) {
	src := newFakeSource(conv("a", "Alice", 1), conv("b", "Bob", 2))
	results, err := New(src, testLog(), testOpts(), 4).ExportAll(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].ConversationID)
	assert.Equal(t, "b", results[1].ConversationID)
}

func TestExportAll_FirstErrorWins(t *testing.T) {
	src := newFakeSource(conv("a", "Alice", 1), conv("b", "Bob", 1), conv("c", "Carol", 1))
	src.fail = "b"

	results, err := New(src, testLog(), testOpts(), 2).ExportAll(context.Background(), []string{"a", "b", "c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
	assert.Nil(t, results)
}

func TestExportAll_CanceledContext(t *testing.T) {
	src := newFakeSource(conv("a", "Alice", 1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(src, testLog(), testOpts(), 1).ExportAll(ctx, []string{"a"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_ClampsWorkers(t *testing.T) {
	e := New(newFakeSource(), testLog(), testOpts(), 0)
	assert.Equal(t, 1, e.workers)
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	e := New(newFakeSource(), testLog(), testOpts(), 1)
	res := Build(conv("a", "Alice Smith", 2), testOpts())

	require.NoError(t, e.Write(&res, dir))
	assert.Equal(t, filepath.Join(dir, "conversation_Alice_Smith_20240201_093000.txt"), res.Path)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, res.Document, string(data))
}

func TestWriteAll_SuffixesCollisions(t *testing.T) {
	dir := t.TempDir()
	opts := testOpts()
	opts.Transcript.Style = transcript.StyleMarkdown
	e := New(newFakeSource(), testLog(), opts, 1)

	results := []Result{
		Build(conv("a", "Sam", 1), opts),
		Build(conv("b", "Sam", 1), opts),
		Build(conv("c", "Other", 1), opts),
	}
	require.NoError(t, e.WriteAll(results, dir))

	assert.Equal(t, "conversation_Sam_20240201_093000.md", filepath.Base(results[0].Path))
	assert.Equal(t, "conversation_Sam_20240201_093000_2.md", filepath.Base(results[1].Path))
	assert.Equal(t, "conversation_Other_20240201_093000.md", filepath.Base(results[2].Path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name   string
		res    Result
		recent bool
		style  transcript.Style
		want   string
	}{
		{"plain", Result{Name: "Alice"}, false, transcript.StyleText, "conversation_Alice_20240201_093000.txt"},
		{"recent markdown", Result{Name: "Alice"}, true, transcript.StyleMarkdown, "conversation_Alice_recent_20240201_093000.md"},
		{"falls back to id", Result{ConversationID: "33611111111@s.whatsapp.net"}, false, transcript.StyleText, "conversation_33611111111swhatsappnet_20240201_093000.txt"},
		{"nothing usable", Result{Name: "🙂", ConversationID: "@@"}, false, transcript.StyleText, "conversation_unknown_20240201_093000.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOpts()
			opts.Timeline.Recent = tt.recent
			opts.Transcript.Style = tt.style
			assert.Equal(t, tt.want, FileName(tt.res, opts))
		})
	}
}

func TestSafeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Alice", "Alice"},
		{"  Mom & Dad  ", "Mom__Dad"},
		{"Équipe Été", "Équipe_Été"},
		{"../../etc/passwd", "etcpasswd"},
		{"a-b_c", "a-b_c"},
		{"😂😂", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SafeName(tt.in), "input %q", tt.in)
	}
}

func TestExportAll_FromArchive(t *testing.T) {
	db, err := store.Open(":memory:", testLog())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	archive := store.NewArchive(db)

	ctx := context.Background()
	for _, c := range []domain.Conversation{conv("a", "Alice", 3), conv("b", "Bob", 5)} {
		_, err := archive.SaveConversation(ctx, c)
		require.NoError(t, err)
	}

	results, err := New(archive, testLog(), testOpts(), 2).ExportAll(ctx, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Bob", results[0].Name, "busiest conversation listed first")
	assert.Equal(t, 5, results[0].Summary.Total)
	assert.Contains(t, results[1].Document, "Alice message 3")
}

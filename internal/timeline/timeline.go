// Package timeline joins messages with their decoded citations, aggregated
// reactions and resolved media, and lays them out as ordered transcript lines.
package timeline

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/soyeahso/chatexport/internal/citation"
	"github.com/soyeahso/chatexport/internal/domain"
	"github.com/soyeahso/chatexport/internal/media"
	"github.com/soyeahso/chatexport/internal/reaction"
)

// Options select which messages are laid out and in what order.
type Options struct {
	Limit  int  // keep at most Limit messages; 0 keeps all
	Recent bool // keep the newest messages and list them newest first
}

// Timeline is the assembled transcript of one conversation.
type Timeline struct {
	ConversationID string
	Name           string
	Recent         bool
	Participants   []string // "Me" first, then the other parties by name
	Lines          []domain.TranscriptLine
}

const (
	quoteArrow   = "↳"
	commentGlyph = "💬"
	forwardTag   = "(forward)"
	selfName     = "Me"
)

// Assemble builds the timeline for conv. Messages are stable-sorted by
// timestamp so equal timestamps keep their record order; Limit is applied to
// the sorted sequence and Recent reverses it. Every selected message yields
// exactly one line.
func Assemble(conv domain.Conversation, opts Options) Timeline {
	msgs := slices.Clone(conv.Messages)
	slices.SortStableFunc(msgs, func(a, b domain.Message) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	if opts.Limit > 0 && len(msgs) > opts.Limit {
		if opts.Recent {
			msgs = msgs[len(msgs)-opts.Limit:]
		} else {
			msgs = msgs[:opts.Limit]
		}
	}
	if opts.Recent {
		slices.Reverse(msgs)
	}

	reactions := reaction.Aggregate(conv.Reactions)
	mediaByID := make(map[int64]*domain.MediaRecord, len(conv.Media))
	for i := range conv.Media {
		if _, ok := mediaByID[conv.Media[i].ID]; !ok {
			mediaByID[conv.Media[i].ID] = &conv.Media[i]
		}
	}

	tl := Timeline{
		ConversationID: conv.ID,
		Name:           conv.Name,
		Recent:         opts.Recent,
		Participants:   participants(conv),
		Lines:          make([]domain.TranscriptLine, 0, len(msgs)),
	}
	for _, m := range msgs {
		var rec *domain.MediaRecord
		if m.MediaID != 0 {
			rec = mediaByID[m.MediaID]
		}
		tl.Lines = append(tl.Lines, buildLine(m, reactions.For(m.ID), media.Resolve(rec)))
	}
	return tl
}

func buildLine(m domain.Message, rs []domain.Reaction, att *domain.MediaAttachment) domain.TranscriptLine {
	line := domain.TranscriptLine{
		MessageID: m.ID,
		Timestamp: m.Timestamp,
		Direction: m.Direction,
		Reactions: rs,
		Media:     att,
	}
	if c, ok := citation.Decode(m.CitationBlob); ok {
		if m.Forwarded {
			c.ForwardID, _ = citation.ForwardID(c.Text)
		}
		line.Citation = &c
	}

	marker := m.Direction.Marker()
	suffix := reaction.Suffix(rs)
	who := ""
	if m.Direction == domain.Inbound && m.Sender != "" {
		who = m.Sender + ": "
	}

	body := strings.TrimSpace(m.Body)
	if m.Forwarded {
		body = strings.TrimSpace(forwardTag + " " + body)
	}
	bodyLines := splitLines(body)
	hasBody := body != ""

	var rows []domain.Row
	switch {
	case line.Citation != nil:
		lead := marker + "   " + quoteArrow + " "
		quote := splitLines(line.Citation.Text)
		if id := line.Citation.ForwardID; id != "" {
			quote = []string{"(forwarded id " + id + ")"}
		}
		rows = append(rows, domain.Row{Kind: domain.RowQuote, Text: lead + quote[0]})
		rows = appendContinued(rows, domain.RowQuoteMore, quote[1:], pad(lead))
		if att != nil {
			rows = append(rows, domain.Row{Kind: domain.RowMedia, Text: join(marker, mediaText(att))})
		}
		reply := ""
		if hasBody {
			reply = who + bodyLines[0]
		}
		rows = append(rows, domain.Row{Kind: domain.RowReply, Text: join(marker, reply, suffix)})
		if hasBody {
			rows = appendContinued(rows, domain.RowBodyMore, bodyLines[1:], pad(marker+" "))
		}

	case att != nil:
		rows = append(rows, domain.Row{Kind: domain.RowMedia, Text: join(marker, who+mediaText(att), suffix)})
		if hasBody {
			rows = append(rows, domain.Row{Kind: domain.RowComment, Text: "  " + commentGlyph + " " + bodyLines[0]})
			rows = appendContinued(rows, domain.RowBodyMore, bodyLines[1:], "     ")
		}

	default:
		text := ""
		if hasBody {
			text = who + bodyLines[0]
		}
		rows = append(rows, domain.Row{Kind: domain.RowBody, Text: join(marker, text, suffix)})
		if hasBody {
			rows = appendContinued(rows, domain.RowBodyMore, bodyLines[1:], pad(marker+" "))
		}
	}

	line.Rows = rows
	return line
}

// participants lists who took part in conv: the owner when any message was
// sent, then the named senders of a group sorted by name, or the contact
// itself for a one-to-one chat.
func participants(conv domain.Conversation) []string {
	var out, senders []string
	self, inbound := false, false
	seen := make(map[string]bool)
	for _, m := range conv.Messages {
		if m.Direction == domain.Outbound {
			self = true
			continue
		}
		inbound = true
		if name := strings.TrimSpace(m.Sender); name != "" && !seen[name] {
			seen[name] = true
			senders = append(senders, name)
		}
	}

	if self {
		out = append(out, selfName)
	}
	if len(senders) > 0 {
		slices.SortStableFunc(senders, func(a, b string) int {
			return strings.Compare(strings.ToLower(a), strings.ToLower(b))
		})
		return append(out, senders...)
	}
	if inbound {
		name := conv.Name
		if name == "" {
			name = conv.ID
		}
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

// mediaText renders "<glyph> <Type>: [name](./path) (<size>) - <caption>".
func mediaText(att *domain.MediaAttachment) string {
	var b strings.Builder
	b.WriteString(att.Type.Glyph())
	b.WriteString(" ")
	b.WriteString(att.Type.Title())
	b.WriteString(": ")
	if att.RelPath != "" {
		b.WriteString("[" + att.Name + "](./" + strings.TrimPrefix(att.RelPath, "./") + ")")
	} else {
		b.WriteString("[" + att.Name + "] (not copied)")
	}
	if att.Size > 0 {
		b.WriteString(" (" + att.SizeText + ")")
	}
	if att.Caption != "" {
		b.WriteString(" - " + att.Caption)
	}
	return b.String()
}

func appendContinued(rows []domain.Row, kind domain.RowKind, lines []string, indent string) []domain.Row {
	for _, l := range lines {
		rows = append(rows, domain.Row{Kind: kind, Text: indent + l})
	}
	return rows
}

func splitLines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}

func pad(s string) string {
	return strings.Repeat(" ", utf8.RuneCountInString(s))
}

// join concatenates the non-empty parts with single spaces.
func join(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

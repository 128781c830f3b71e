// Package transcript renders an assembled timeline into the exported
// document: a header block, day separators, one time-stamped entry per line
// and a reaction footer.
package transcript

import (
	"fmt"
	"strings"
	"time"

	"github.com/soyeahso/chatexport/internal/timeline"
)

// Style selects the document flavour.
type Style string

const (
	StyleText     Style = "text"
	StyleMarkdown Style = "markdown"
)

// ParseStyle accepts "text", "markdown" or "md". Empty means text.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return StyleText, nil
	case "markdown", "md":
		return StyleMarkdown, nil
	default:
		return "", fmt.Errorf("unknown transcript style %q", s)
	}
}

// Ext is the file extension used for documents of this style.
func (s Style) Ext() string {
	if s == StyleMarkdown {
		return ".md"
	}
	return ".txt"
}

// Options control rendering.
type Options struct {
	Style      Style
	Location   *time.Location // calendar for day separators and clock times; nil means time.Local
	ExportedAt time.Time
}

const (
	rule       = "================================================================================"
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
	stampWidth = len("[15:04:05] ")
)

// Render produces the full document for tl. All header and footer counters
// come from tl.Summary so they always agree with the rendered lines.
func Render(tl timeline.Timeline, opts Options) string {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	sum := tl.Summary()

	var b strings.Builder
	if opts.Style == StyleMarkdown {
		writeMarkdownHeader(&b, tl, sum, loc, opts.ExportedAt)
	} else {
		writeTextHeader(&b, tl, sum, loc, opts.ExportedAt)
	}

	if len(tl.Lines) == 0 {
		b.WriteString("No messages found.\n")
	}
	writeBody(&b, tl, loc, opts.Style)
	writeFooter(&b, sum, opts.Style)
	return b.String()
}

func writeTextHeader(b *strings.Builder, tl timeline.Timeline, sum timeline.Summary, loc *time.Location, exported time.Time) {
	b.WriteString(rule + "\n")
	b.WriteString("Conversation Export\n")
	fmt.Fprintf(b, "Contact: %s\n", contactName(tl))
	if len(tl.Participants) > 0 {
		fmt.Fprintf(b, "Participants: %s\n", strings.Join(tl.Participants, ", "))
	}
	fmt.Fprintf(b, "Messages: %d\n", sum.Total)
	fmt.Fprintf(b, "With reactions: %d\n", sum.WithReactions)
	fmt.Fprintf(b, "With citations: %d\n", sum.WithCitations)
	if tl.Recent {
		b.WriteString("Order: most recent first\n")
	}
	fmt.Fprintf(b, "Exported: %s\n", exported.In(loc).Format("2006-01-02 15:04:05"))
	b.WriteString(rule + "\n\n")
}

func writeMarkdownHeader(b *strings.Builder, tl timeline.Timeline, sum timeline.Summary, loc *time.Location, exported time.Time) {
	fmt.Fprintf(b, "# Conversation with %s\n\n", contactName(tl))
	fmt.Fprintf(b, "- **Messages:** %d\n", sum.Total)
	if sum.Total > 0 {
		fmt.Fprintf(b, "- **Date range:** %s to %s\n",
			sum.First.In(loc).Format(dateLayout), sum.Last.In(loc).Format(dateLayout))
	}
	if len(tl.Participants) > 0 {
		fmt.Fprintf(b, "- **Participants:** %s\n", strings.Join(tl.Participants, ", "))
	}
	if tl.Recent {
		b.WriteString("- **Order:** most recent first\n")
	}
	fmt.Fprintf(b, "- **Exported:** %s\n\n", exported.In(loc).Format("2006-01-02 15:04:05"))
}

// writeBody emits one entry per line. A separator is written whenever the
// calendar date differs from the previous line's, in exported order. Markdown
// rows end in a hard line break so media links stay clickable.
func writeBody(b *strings.Builder, tl timeline.Timeline, loc *time.Location, style Style) {
	md := style == StyleMarkdown
	eol := "\n"
	if md {
		eol = "  \n"
	}

	current := ""
	indent := strings.Repeat(" ", stampWidth)
	for _, l := range tl.Lines {
		ts := l.Timestamp.In(loc)
		if day := ts.Format(dateLayout); day != current {
			if current != "" {
				b.WriteString("\n")
			}
			if md {
				fmt.Fprintf(b, "## %s\n\n", day)
			} else {
				fmt.Fprintf(b, "--- %s ---\n\n", day)
			}
			current = day
		}

		stamp := "[" + ts.Format(timeLayout) + "] "
		for i, r := range l.Rows {
			if i == 0 {
				b.WriteString(stamp + r.Text + eol)
				continue
			}
			b.WriteString(indent + r.Text + eol)
		}
	}
	if len(tl.Lines) > 0 {
		b.WriteString("\n")
	}
}

func writeFooter(b *strings.Builder, sum timeline.Summary, style Style) {
	md := style == StyleMarkdown
	if md {
		b.WriteString("---\n\n")
	} else {
		b.WriteString(rule + "\n")
	}

	item := func(format string, args ...any) {
		if md {
			b.WriteString("- ")
		}
		fmt.Fprintf(b, format+"\n", args...)
	}
	item("Total messages: %d", sum.Total)
	item("Messages with reactions: %d", sum.WithReactions)

	if sum.Reactions > 0 {
		item("Unique emoji types: %d", len(sum.Emoji))
		b.WriteString("\nReaction breakdown:\n")
		for _, e := range sum.Emoji {
			pct := float64(e.Count) / float64(sum.Reactions) * 100
			fmt.Fprintf(b, "  %s: %d times (%.1f%%)\n", e.Emoji, e.Count, pct)
		}
	}

	if !md {
		b.WriteString(rule + "\n")
	}
}

func contactName(tl timeline.Timeline) string {
	if tl.Name != "" {
		return tl.Name
	}
	if tl.ConversationID != "" {
		return tl.ConversationID
	}
	return "Unknown"
}

// Package reaction groups raw reaction records by the message they annotate.
package reaction

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/soyeahso/chatexport/internal/domain"
)

type dedupeKey struct {
	messageID int64
	actor     string
	emoji     string
}

// Index holds the aggregated reactions of one conversation. The zero value
// and a nil *Index are both empty.
type Index struct {
	order []int64
	byMsg map[int64][]domain.Reaction
}

// Aggregate groups records by message id in first-seen order. Within a
// message, a repeated (actor, emoji) pair is dropped; distinct emojis from one
// actor and the same emoji from distinct actors are all kept. Emoji text is
// compared whole, so "👍🔥" and "👍" are different reactions.
func Aggregate(records []domain.Reaction) *Index {
	idx := &Index{byMsg: make(map[int64][]domain.Reaction)}
	seen := make(map[dedupeKey]struct{}, len(records))

	for _, r := range records {
		tok := Emoji(r.Emoji)
		if tok == "" {
			continue
		}
		k := dedupeKey{messageID: r.MessageID, actor: r.Actor, emoji: tok}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}

		if _, ok := idx.byMsg[r.MessageID]; !ok {
			idx.order = append(idx.order, r.MessageID)
		}
		r.Emoji = tok
		idx.byMsg[r.MessageID] = append(idx.byMsg[r.MessageID], r)
	}
	return idx
}

// For returns the kept reactions of a message in record order.
func (i *Index) For(messageID int64) []domain.Reaction {
	if i == nil {
		return nil
	}
	return i.byMsg[messageID]
}

// Messages returns the ids of reacted-to messages in first-seen order.
func (i *Index) Messages() []int64 {
	if i == nil {
		return nil
	}
	return i.order
}

// Len reports how many messages carry at least one reaction.
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.order)
}

// Emoji returns the display token for raw reaction text: the text with
// surrounding whitespace removed and otherwise untouched. Skin-tone, ZWJ and
// flag sequences and multi-emoji reactions all stay one token. Text without a
// single grapheme cluster yields "".
func Emoji(s string) string {
	s = strings.TrimSpace(s)
	if uniseg.GraphemeClusterCount(s) == 0 {
		return ""
	}
	return s
}

// Suffix renders reactions as a bracketed, space separated list, or "" when
// there are none.
func Suffix(rs []domain.Reaction) string {
	if len(rs) == 0 {
		return ""
	}
	tokens := make([]string, len(rs))
	for i, r := range rs {
		tokens[i] = r.Token()
	}
	return "[" + strings.Join(tokens, " ") + "]"
}

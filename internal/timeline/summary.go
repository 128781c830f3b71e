package timeline

import (
	"slices"
	"time"
)

// EmojiCount is one entry of the reaction breakdown.
type EmojiCount struct {
	Emoji string
	Count int
}

// Summary holds counters derived from the assembled lines only.
type Summary struct {
	Total         int
	WithReactions int
	WithCitations int
	WithMedia     int
	Reactions     int          // individual reaction entries across all lines
	Emoji         []EmojiCount // by count desc, ties in first-seen order
	First         time.Time    // earliest timestamp
	Last          time.Time    // latest timestamp
}

// Summary counts the timeline's lines.
func (t Timeline) Summary() Summary {
	s := Summary{Total: len(t.Lines)}
	pos := make(map[string]int)

	for i, l := range t.Lines {
		if i == 0 || l.Timestamp.Before(s.First) {
			s.First = l.Timestamp
		}
		if i == 0 || l.Timestamp.After(s.Last) {
			s.Last = l.Timestamp
		}
		if l.Citation != nil {
			s.WithCitations++
		}
		if l.Media != nil {
			s.WithMedia++
		}
		if len(l.Reactions) == 0 {
			continue
		}
		s.WithReactions++
		for _, r := range l.Reactions {
			s.Reactions++
			if p, ok := pos[r.Emoji]; ok {
				s.Emoji[p].Count++
				continue
			}
			pos[r.Emoji] = len(s.Emoji)
			s.Emoji = append(s.Emoji, EmojiCount{Emoji: r.Emoji, Count: 1})
		}
	}

	slices.SortStableFunc(s.Emoji, func(a, b EmojiCount) int {
		return b.Count - a.Count
	})
	return s
}

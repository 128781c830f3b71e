package domain

import "time"

// Conversation bundles every normalized record of one chat. Adapters for the
// different data origins all produce this shape.
type Conversation struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Messages  []Message     `json:"messages"`
	Reactions []Reaction    `json:"reactions,omitempty"`
	Media     []MediaRecord `json:"media,omitempty"`
}

// ConversationInfo is a lightweight listing entry.
type ConversationInfo struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	MessageCount  int    `json:"messageCount"`
	ReactionCount int    `json:"reactionCount"`
}

// RowKind tags a rendered row of a transcript line.
type RowKind string

const (
	RowBody      RowKind = "body"    // plain message text
	RowBodyMore  RowKind = "body+"   // additional lines of a multi-line body
	RowQuote     RowKind = "quote"   // first line of a citation
	RowQuoteMore RowKind = "quote+"  // additional citation lines
	RowReply     RowKind = "reply"   // the reply under a citation
	RowMedia     RowKind = "media"   // attachment reference
	RowComment   RowKind = "comment" // text sent alongside an attachment
)

// Row is one physical output row. Text already carries the direction marker
// and indentation; the formatter only adds the time column.
type Row struct {
	Kind RowKind `json:"kind"`
	Text string  `json:"text"`
}

// TranscriptLine is the render unit for exactly one message.
type TranscriptLine struct {
	MessageID int64            `json:"messageId"`
	Timestamp time.Time        `json:"timestamp"`
	Direction Direction        `json:"direction"`
	Rows      []Row            `json:"rows"`
	Reactions []Reaction       `json:"reactions,omitempty"`
	Citation  *Citation        `json:"citation,omitempty"`
	Media     *MediaAttachment `json:"media,omitempty"`
}

package store

import (
	"context"
	"fmt"
	"time"
)

// SearchHit is a message whose body matched a full-text query.
type SearchHit struct {
	ConversationID   string    `json:"conversationId"`
	ConversationName string    `json:"conversationName"`
	MessageID        int64     `json:"messageId"`
	Timestamp        time.Time `json:"timestamp"`
	Body             string    `json:"body"`
	Rank             float64   `json:"rank"` // FTS5 rank, lower is better
}

// Search finds messages whose body matches query (FTS5 syntax), best match
// first. An empty conversationID searches the whole archive. Limit of 0
// defaults to 20.
func (a *Archive) Search(ctx context.Context, conversationID, query string, limit int) ([]SearchHit, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := a.db.sql.QueryContext(ctx,
		`SELECT m.conversation_id, c.name, m.id, m.timestamp, m.body, rank
		 FROM messages_fts
		 JOIN messages m ON m.seq = messages_fts.rowid
		 JOIN conversations c ON c.id = m.conversation_id
		 WHERE messages_fts MATCH ?
		   AND (? = '' OR m.conversation_id = ?)
		 ORDER BY rank
		 LIMIT ?`,
		query, conversationID, conversationID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("searching messages: %w", err)
	}
	defer rows.Close()

	var hits []SearchHit
	for rows.Next() {
		var h SearchHit
		var ts string
		if err := rows.Scan(&h.ConversationID, &h.ConversationName, &h.MessageID, &ts, &h.Body, &h.Rank); err != nil {
			return nil, fmt.Errorf("scanning hit: %w", err)
		}
		if h.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			a.db.log.Warn().Err(err).
				Str("conversation", h.ConversationID).
				Int64("message", h.MessageID).
				Msg("unparseable timestamp")
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

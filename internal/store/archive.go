package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soyeahso/chatexport/internal/domain"
)

// ErrNotFound is returned when no conversation matches a lookup.
var ErrNotFound = errors.New("conversation not found")

// Archive reads and writes normalized conversation records.
type Archive struct {
	db *DB
}

// NewArchive creates an archive using the given database.
func NewArchive(db *DB) *Archive {
	return &Archive{db: db}
}

// SaveConversation stores conv, replacing any records previously saved under
// the same id. Record order is kept so that equal timestamps sort the same
// way after a round trip. An empty id is assigned a new UUID, which is
// returned.
func (a *Archive) SaveConversation(ctx context.Context, conv domain.Conversation) (string, error) {
	if conv.ID == "" {
		conv.ID = uuid.New().String()
	}

	tx, err := a.db.sql.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin save %s: %w", conv.ID, err)
	}
	defer tx.Rollback()

	for _, table := range []string{"reactions", "media", "messages"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE conversation_id = ?`, conv.ID); err != nil {
			return "", fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO conversations (id, name) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, imported_at = datetime('now')`,
		conv.ID, conv.Name,
	); err != nil {
		return "", fmt.Errorf("saving conversation: %w", err)
	}

	msgStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO messages (conversation_id, id, direction, timestamp, body, sender, citation_blob, media_id, forwarded)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing message insert: %w", err)
	}
	defer msgStmt.Close()

	for _, m := range conv.Messages {
		if _, err := msgStmt.ExecContext(ctx,
			conv.ID, m.ID, int(m.Direction), m.Timestamp.UTC().Format(time.RFC3339Nano),
			m.Body, m.Sender, m.CitationBlob, m.MediaID, m.Forwarded,
		); err != nil {
			return "", fmt.Errorf("saving message %d: %w", m.ID, err)
		}
	}

	for _, r := range conv.Reactions {
		actor := r.Actor
		if actor == "" {
			actor = domain.ActorSelf
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO reactions (conversation_id, message_id, emoji, actor, label) VALUES (?, ?, ?, ?, ?)`,
			conv.ID, r.MessageID, r.Emoji, actor, r.Label,
		); err != nil {
			return "", fmt.Errorf("saving reaction on %d: %w", r.MessageID, err)
		}
	}

	for _, md := range conv.Media {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO media (conversation_id, id, type_code, filename, size, caption, rel_path)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(conversation_id, id) DO NOTHING`,
			conv.ID, md.ID, md.TypeCode, md.Filename, md.Size, md.Caption, md.RelPath,
		); err != nil {
			return "", fmt.Errorf("saving media %d: %w", md.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit save %s: %w", conv.ID, err)
	}

	a.db.log.Debug().
		Str("conversation", conv.ID).
		Int("messages", len(conv.Messages)).
		Int("reactions", len(conv.Reactions)).
		Int("media", len(conv.Media)).
		Msg("conversation saved")
	return conv.ID, nil
}

// Conversation loads every record of a conversation in stored order.
func (a *Archive) Conversation(ctx context.Context, id string) (*domain.Conversation, error) {
	conv := domain.Conversation{ID: id}
	err := a.db.sql.QueryRowContext(ctx, `SELECT name FROM conversations WHERE id = ?`, id).Scan(&conv.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading conversation %s: %w", id, err)
	}

	if conv.Messages, err = a.messages(ctx, id); err != nil {
		return nil, err
	}
	if conv.Reactions, err = a.reactions(ctx, id); err != nil {
		return nil, err
	}
	if conv.Media, err = a.media(ctx, id); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (a *Archive) messages(ctx context.Context, convID string) ([]domain.Message, error) {
	rows, err := a.db.sql.QueryContext(ctx,
		`SELECT id, direction, timestamp, body, sender, citation_blob, media_id, forwarded
		 FROM messages WHERE conversation_id = ? ORDER BY seq`, convID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		m := domain.Message{ConversationID: convID}
		var dir int
		var ts string
		if err := rows.Scan(&m.ID, &dir, &ts, &m.Body, &m.Sender, &m.CitationBlob, &m.MediaID, &m.Forwarded); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		m.Direction = domain.Direction(dir)
		m.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			a.db.log.Warn().Err(err).Int64("message", m.ID).Msg("unparseable timestamp")
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (a *Archive) reactions(ctx context.Context, convID string) ([]domain.Reaction, error) {
	rows, err := a.db.sql.QueryContext(ctx,
		`SELECT message_id, emoji, actor, label FROM reactions
		 WHERE conversation_id = ? ORDER BY seq`, convID)
	if err != nil {
		return nil, fmt.Errorf("querying reactions: %w", err)
	}
	defer rows.Close()

	var out []domain.Reaction
	for rows.Next() {
		var r domain.Reaction
		if err := rows.Scan(&r.MessageID, &r.Emoji, &r.Actor, &r.Label); err != nil {
			return nil, fmt.Errorf("scanning reaction: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (a *Archive) media(ctx context.Context, convID string) ([]domain.MediaRecord, error) {
	rows, err := a.db.sql.QueryContext(ctx,
		`SELECT id, type_code, filename, size, caption, rel_path FROM media
		 WHERE conversation_id = ? ORDER BY id`, convID)
	if err != nil {
		return nil, fmt.Errorf("querying media: %w", err)
	}
	defer rows.Close()

	var out []domain.MediaRecord
	for rows.Next() {
		var md domain.MediaRecord
		if err := rows.Scan(&md.ID, &md.TypeCode, &md.Filename, &md.Size, &md.Caption, &md.RelPath); err != nil {
			return nil, fmt.Errorf("scanning media: %w", err)
		}
		out = append(out, md)
	}
	return out, rows.Err()
}

const listQuery = `
	SELECT c.id, c.name,
	       (SELECT COUNT(*) FROM messages m WHERE m.conversation_id = c.id) AS msg_count,
	       (SELECT COUNT(*) FROM reactions r WHERE r.conversation_id = c.id) AS reaction_count
	FROM conversations c`

// ListConversations returns every conversation, busiest first.
func (a *Archive) ListConversations(ctx context.Context) ([]domain.ConversationInfo, error) {
	rows, err := a.db.sql.QueryContext(ctx, listQuery+` ORDER BY msg_count DESC, c.name, c.id`)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()
	return scanInfos(rows)
}

// FindConversation resolves a user supplied id or name. An exact id or
// case-insensitive name match wins; otherwise the busiest conversation whose
// id or name contains query is returned.
func (a *Archive) FindConversation(ctx context.Context, query string) (*domain.ConversationInfo, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrNotFound
	}

	rows, err := a.db.sql.QueryContext(ctx,
		`SELECT * FROM (`+listQuery+`) c
		 WHERE c.id = ? OR c.name = ? COLLATE NOCASE
		 ORDER BY c.id = ? DESC, msg_count DESC LIMIT 1`,
		query, query, query)
	if err != nil {
		return nil, fmt.Errorf("finding conversation: %w", err)
	}
	infos, err := scanInfos(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}
	if len(infos) > 0 {
		return &infos[0], nil
	}

	like := "%" + escapeLike(query) + "%"
	rows, err = a.db.sql.QueryContext(ctx,
		`SELECT * FROM (`+listQuery+`) c
		 WHERE c.id LIKE ? ESCAPE '\' OR c.name LIKE ? ESCAPE '\'
		 ORDER BY msg_count DESC LIMIT 1`,
		like, like)
	if err != nil {
		return nil, fmt.Errorf("finding conversation: %w", err)
	}
	defer rows.Close()

	infos, err = scanInfos(rows)
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, ErrNotFound
	}
	return &infos[0], nil
}

// DeleteConversation removes a conversation and all its records.
func (a *Archive) DeleteConversation(ctx context.Context, id string) error {
	tx, err := a.db.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete %s: %w", id, err)
	}
	defer tx.Rollback()

	for _, table := range []string{"reactions", "media", "messages"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE conversation_id = ?`, id); err != nil {
			return fmt.Errorf("deleting %s: %w", table, err)
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func scanInfos(rows *sql.Rows) ([]domain.ConversationInfo, error) {
	var out []domain.ConversationInfo
	for rows.Next() {
		var info domain.ConversationInfo
		if err := rows.Scan(&info.ID, &info.Name, &info.MessageCount, &info.ReactionCount); err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

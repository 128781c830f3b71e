package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create conversations, messages, reactions and media",
		SQL: `
			CREATE TABLE conversations (
				id          TEXT PRIMARY KEY,
				name        TEXT NOT NULL DEFAULT '',
				imported_at TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_conversations_name ON conversations (name);

			CREATE TABLE messages (
				seq             INTEGER PRIMARY KEY AUTOINCREMENT,
				conversation_id TEXT NOT NULL,
				id              INTEGER NOT NULL,
				direction       INTEGER NOT NULL DEFAULT 0,
				timestamp       TEXT NOT NULL,
				body            TEXT NOT NULL DEFAULT '',
				sender          TEXT NOT NULL DEFAULT '',
				citation_blob   BLOB,
				media_id        INTEGER NOT NULL DEFAULT 0,
				FOREIGN KEY (conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
			);

			CREATE UNIQUE INDEX idx_messages_conversation ON messages (conversation_id, id);

			CREATE TABLE reactions (
				seq             INTEGER PRIMARY KEY AUTOINCREMENT,
				conversation_id TEXT NOT NULL,
				message_id      INTEGER NOT NULL,
				emoji           TEXT NOT NULL,
				actor           TEXT NOT NULL DEFAULT 'self',
				label           TEXT NOT NULL DEFAULT '',
				FOREIGN KEY (conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
			);

			CREATE INDEX idx_reactions_conversation ON reactions (conversation_id, seq);

			CREATE TABLE media (
				conversation_id TEXT NOT NULL,
				id              INTEGER NOT NULL,
				type_code       INTEGER NOT NULL DEFAULT 0,
				filename        TEXT NOT NULL DEFAULT '',
				size            INTEGER NOT NULL DEFAULT 0,
				caption         TEXT NOT NULL DEFAULT '',
				rel_path        TEXT NOT NULL DEFAULT '',
				PRIMARY KEY (conversation_id, id),
				FOREIGN KEY (conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
			);
		`,
	},
	{
		Version: 2,
		Name:    "create message body index with FTS5",
		SQL: `
			CREATE VIRTUAL TABLE messages_fts USING fts5(
				body,
				content='messages',
				content_rowid='seq'
			);

			CREATE TRIGGER messages_ai AFTER INSERT ON messages BEGIN
				INSERT INTO messages_fts(rowid, body) VALUES (new.seq, new.body);
			END;

			CREATE TRIGGER messages_ad AFTER DELETE ON messages BEGIN
				INSERT INTO messages_fts(messages_fts, rowid, body) VALUES ('delete', old.seq, old.body);
			END;

			CREATE TRIGGER messages_au AFTER UPDATE ON messages BEGIN
				INSERT INTO messages_fts(messages_fts, rowid, body) VALUES ('delete', old.seq, old.body);
				INSERT INTO messages_fts(rowid, body) VALUES (new.seq, new.body);
			END;
		`,
	},	{
		Version: 3,
		Name:    "add forwarded flag to messages",
		SQL: `
			ALTER TABLE messages ADD COLUMN forwarded INTEGER NOT NULL DEFAULT 0;
		`,
	},
}

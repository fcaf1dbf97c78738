package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database.
// Bills are stored as one JSON document per row; the extracted columns
// (owner_id, status, share_key, updated_at) exist only for lookups and
// ordering, the document is the source of truth.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS bills (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    status TEXT NOT NULL,
    share_key TEXT,
    updated_at INTEGER NOT NULL,
    doc TEXT NOT NULL,
    FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS participants (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    name TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS notes (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    pinned INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS vocabulary (
    id TEXT PRIMARY KEY,
    word TEXT NOT NULL,
    meaning TEXT NOT NULL,
    pronunciation TEXT NOT NULL DEFAULT '',
    example TEXT NOT NULL DEFAULT '',
    level TEXT NOT NULL,
    category TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS learned_words (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    vocabulary_id TEXT NOT NULL,
    learned_at INTEGER NOT NULL,
    review_count INTEGER NOT NULL DEFAULT 0,
    last_reviewed_at INTEGER,
    proficiency TEXT NOT NULL,
    UNIQUE (owner_id, vocabulary_id),
    FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE,
    FOREIGN KEY (vocabulary_id) REFERENCES vocabulary(id) ON DELETE CASCADE
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_bills_share_key ON bills(share_key) WHERE share_key IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_bills_owner_id ON bills(owner_id, updated_at DESC);
CREATE INDEX IF NOT EXISTS idx_participants_owner_id ON participants(owner_id);
CREATE INDEX IF NOT EXISTS idx_notes_owner_id ON notes(owner_id);
CREATE INDEX IF NOT EXISTS idx_vocabulary_word ON vocabulary(word);
CREATE INDEX IF NOT EXISTS idx_vocabulary_level ON vocabulary(level);
CREATE INDEX IF NOT EXISTS idx_learned_words_owner_id ON learned_words(owner_id, learned_at DESC);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}

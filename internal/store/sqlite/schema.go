package sqlite

import (
	"context"
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS lanes (
    lane_id       TEXT PRIMARY KEY,
    title         TEXT NOT NULL,
    description   TEXT,
    is_public     INTEGER NOT NULL DEFAULT 0,
    creation_time TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS memories (
    memory_id   TEXT PRIMARY KEY,
    lane_id     TEXT NOT NULL REFERENCES lanes(lane_id),
    title       TEXT NOT NULL,
    description TEXT,
    ts          TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS memory_images (
    image_id  TEXT PRIMARY KEY,
    memory_id TEXT NOT NULL REFERENCES memories(memory_id),
    blob_url  TEXT NOT NULL,
    blob_path TEXT NOT NULL,
    ord       INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_memories_lane ON memories(lane_id, ts);
CREATE INDEX IF NOT EXISTS idx_images_memory ON memory_images(memory_id, ord);
`

// EnsureSchema creates the tables if they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id        INTEGER PRIMARY KEY,
	position  INTEGER NOT NULL,
	subject   TEXT NOT NULL DEFAULT '',
	body      TEXT NOT NULL DEFAULT '',
	read      INTEGER NOT NULL DEFAULT 0 CHECK(read IN (0, 1)),
	starred   INTEGER NOT NULL DEFAULT 0 CHECK(starred IN (0, 1)),
	labels    TEXT NOT NULL DEFAULT '[]',
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_messages_position ON messages(position);

CREATE TABLE IF NOT EXISTS activities (
	id          TEXT PRIMARY KEY,
	command     TEXT NOT NULL,
	message_ids TEXT NOT NULL DEFAULT '[]',
	detail      TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL CHECK(status IN ('ok', 'failed')),
	error       TEXT NOT NULL DEFAULT '',
	seen        INTEGER NOT NULL DEFAULT 0 CHECK(seen IN (0, 1)),
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_activities_created ON activities(created_at);
CREATE INDEX IF NOT EXISTS idx_activities_status_seen ON activities(status, seen);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}

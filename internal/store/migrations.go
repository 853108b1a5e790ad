package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// schemaVersionTable is created before any migration runs.
const schemaVersionTable = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
)`

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
// The SQL must run unchanged on both SQLite and PostgreSQL.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS users (
	user_id              TEXT PRIMARY KEY,
	username             TEXT NOT NULL,
	email                TEXT UNIQUE,
	auto_location_filter BOOLEAN NOT NULL DEFAULT TRUE,
	created_at           TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS priorities (
	priority_level TEXT PRIMARY KEY
);

INSERT INTO priorities (priority_level) VALUES ('LOW'), ('MEDIUM'), ('HIGH')
	ON CONFLICT DO NOTHING;

CREATE TABLE IF NOT EXISTS projects (
	project_id          TEXT PRIMARY KEY,
	user_id             TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
	project_name        TEXT NOT NULL,
	project_description TEXT,
	created_at          TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (user_id, project_name)
);

CREATE TABLE IF NOT EXISTS locations (
	location_id   TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
	location_name TEXT NOT NULL,
	latitude      DOUBLE PRECISION NOT NULL,
	longitude     DOUBLE PRECISION NOT NULL,
	radius        INTEGER NOT NULL DEFAULT 100,
	created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS task_notes (
	task_note_id      TEXT PRIMARY KEY,
	task_note_content TEXT NOT NULL DEFAULT '',
	updated_at        TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tasks (
	task_id          TEXT PRIMARY KEY,
	task_description TEXT NOT NULL,
	project_id       TEXT NOT NULL REFERENCES projects(project_id) ON DELETE CASCADE,
	location_id      TEXT REFERENCES locations(location_id) ON DELETE SET NULL,
	due_date         DATE,
	priority_level   TEXT REFERENCES priorities(priority_level),
	is_completed     BOOLEAN NOT NULL DEFAULT FALSE,
	task_note_id     TEXT UNIQUE REFERENCES task_notes(task_note_id) ON DELETE SET NULL,
	created_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_projects_user_id ON projects(user_id);
CREATE INDEX IF NOT EXISTS idx_locations_user_id ON locations(user_id);
CREATE INDEX IF NOT EXISTS idx_locations_coords ON locations(user_id, latitude, longitude);
CREATE INDEX IF NOT EXISTS idx_tasks_project_id ON tasks(project_id);
CREATE INDEX IF NOT EXISTS idx_tasks_location_id ON tasks(location_id);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS view_versions (
	user_id   TEXT NOT NULL,
	view_name TEXT NOT NULL,
	tag       TEXT NOT NULL,
	PRIMARY KEY (user_id, view_name)
);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}

package database

// Schema for the companion database: the user's settings and the active
// route with its progress, so a restart resumes mid-route.
const schema = `
	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS route_entries (
		position    INTEGER PRIMARY KEY,
		system_name TEXT NOT NULL,
		note        TEXT NOT NULL DEFAULT '',
		x           REAL,
		y           REAL,
		z           REAL
	);

	CREATE TABLE IF NOT EXISTS route_state (
		id       INTEGER PRIMARY KEY CHECK (id = 1),
		source   TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER NOT NULL
	);
`

const schemaVersion = 1

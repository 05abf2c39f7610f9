package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"edroute/internal/log"
	"edroute/internal/route"
)

// Database persists settings and the active route across runs.
type Database interface {
	Open(filename string) error
	Close() error

	// Settings
	GetSetting(key string) (string, bool, error)
	SetSetting(key, value string) error

	// Active route. SaveRoute replaces everything in one transaction;
	// a failed save leaves the stored route untouched.
	SaveRoute(r route.Route, source string, position int) error
	SavePosition(position int) error
	LoadRoute() (route.Route, string, int, error)
	ClearRoute() error

	// Internal access for advanced operations
	GetDB() *sql.DB
}

// SQLiteDatabase implements Database using SQLite
type SQLiteDatabase struct {
	db       *sql.DB
	dbOpen   bool
	filename string

	// Prepared statements for the hot paths
	getSettingStmt   *sql.Stmt
	setSettingStmt   *sql.Stmt
	savePositionStmt *sql.Stmt
}

// NewDatabase creates a new SQLite database instance
func NewDatabase() *SQLiteDatabase {
	return &SQLiteDatabase{}
}

// Open opens the database, creating the schema when it does not exist yet.
func (d *SQLiteDatabase) Open(filename string) error {
	if d.dbOpen {
		return fmt.Errorf("database already open")
	}

	log.Debug("Opening database", "filename", filename)

	var err error
	d.db, err = sql.Open("sqlite", filename+"?_pragma=foreign_keys(1)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err = d.db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err = d.migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err = d.prepareStatements(); err != nil {
		return fmt.Errorf("failed to prepare statements: %w", err)
	}

	d.filename = filename
	d.dbOpen = true

	log.Info("Database opened", "filename", filename)
	return nil
}

// Close closes the database connection.
func (d *SQLiteDatabase) Close() error {
	if !d.dbOpen {
		return nil
	}

	for _, stmt := range []*sql.Stmt{d.getSettingStmt, d.setSettingStmt, d.savePositionStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}

	if d.db != nil {
		if err := d.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	d.dbOpen = false
	d.filename = ""
	return nil
}

func (d *SQLiteDatabase) migrate() error {
	if _, err := d.db.Exec(schema); err != nil {
		return err
	}

	var version int
	err := d.db.QueryRow(`SELECT version FROM schema_version`).Scan(&version)
	if err == sql.ErrNoRows {
		_, err = d.db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, schemaVersion)
		return err
	}
	if err != nil {
		return err
	}
	if version > schemaVersion {
		return fmt.Errorf("database schema version %d is newer than this build supports (%d)", version, schemaVersion)
	}
	return nil
}

func (d *SQLiteDatabase) prepareStatements() error {
	var err error
	if d.getSettingStmt, err = d.db.Prepare(`SELECT value FROM settings WHERE key = ?`); err != nil {
		return err
	}
	if d.setSettingStmt, err = d.db.Prepare(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`); err != nil {
		return err
	}
	if d.savePositionStmt, err = d.db.Prepare(`UPDATE route_state SET position = ? WHERE id = 1`); err != nil {
		return err
	}
	return nil
}

// GetSetting returns the stored value for key; ok is false when unset.
func (d *SQLiteDatabase) GetSetting(key string) (string, bool, error) {
	if !d.dbOpen {
		return "", false, fmt.Errorf("database not open")
	}
	var value string
	err := d.getSettingStmt.QueryRow(key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetSetting stores value under key, replacing any previous value.
func (d *SQLiteDatabase) SetSetting(key, value string) error {
	if !d.dbOpen {
		return fmt.Errorf("database not open")
	}
	_, err := d.setSettingStmt.Exec(key, value)
	return err
}

// SaveRoute atomically replaces the stored route and progress.
func (d *SQLiteDatabase) SaveRoute(r route.Route, source string, position int) error {
	if !d.dbOpen {
		return fmt.Errorf("database not open")
	}

	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM route_entries`); err != nil {
		return err
	}
	insert, err := tx.Prepare(
		`INSERT INTO route_entries (position, system_name, note, x, y, z) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insert.Close()

	for i, entry := range r {
		var x, y, z any
		if entry.Coords != nil {
			x, y, z = entry.Coords.X, entry.Coords.Y, entry.Coords.Z
		}
		if _, err := insert.Exec(i, entry.System, entry.Note, x, y, z); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(
		`INSERT INTO route_state (id, source, position) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET source = excluded.source, position = excluded.position`,
		source, position); err != nil {
		return err
	}

	return tx.Commit()
}

// SavePosition records route progress without rewriting the entries.
func (d *SQLiteDatabase) SavePosition(position int) error {
	if !d.dbOpen {
		return fmt.Errorf("database not open")
	}
	_, err := d.savePositionStmt.Exec(position)
	return err
}

// LoadRoute returns the stored route, its source and progress. An empty
// route with position 0 means nothing is stored.
func (d *SQLiteDatabase) LoadRoute() (route.Route, string, int, error) {
	if !d.dbOpen {
		return nil, "", 0, fmt.Errorf("database not open")
	}

	rows, err := d.db.Query(
		`SELECT system_name, note, x, y, z FROM route_entries ORDER BY position`)
	if err != nil {
		return nil, "", 0, err
	}
	defer rows.Close()

	var r route.Route
	for rows.Next() {
		var entry route.Entry
		var x, y, z sql.NullFloat64
		if err := rows.Scan(&entry.System, &entry.Note, &x, &y, &z); err != nil {
			return nil, "", 0, err
		}
		if x.Valid && y.Valid && z.Valid {
			entry.Coords = &route.Coords{X: x.Float64, Y: y.Float64, Z: z.Float64}
		}
		r = append(r, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, "", 0, err
	}

	var source string
	var position int
	err = d.db.QueryRow(`SELECT source, position FROM route_state WHERE id = 1`).Scan(&source, &position)
	if err == sql.ErrNoRows {
		return r, "", 0, nil
	}
	if err != nil {
		return nil, "", 0, err
	}
	return r, source, position, nil
}

// ClearRoute drops the stored route and progress.
func (d *SQLiteDatabase) ClearRoute() error {
	if !d.dbOpen {
		return fmt.Errorf("database not open")
	}

	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM route_entries`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM route_state`); err != nil {
		return err
	}
	return tx.Commit()
}

// GetDB returns the underlying connection.
func (d *SQLiteDatabase) GetDB() *sql.DB {
	return d.db
}

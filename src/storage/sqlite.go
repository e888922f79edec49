package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"market-fetcher/src/logger"
	"market-fetcher/src/models"

	_ "modernc.org/sqlite"
)

// SQLite batch constants
const (
	sqliteMaxVars = 999 // SQLITE_MAX_VARIABLE_NUMBER default
)

// -----------------------------------------------------------------------------

// SQLiteStore is the embedded dedup store. Inserts go through INSERT OR
// IGNORE so a duplicate natural key is a silent no-op, never an error.
type SQLiteStore struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewSQLiteStore(cfg *models.MConfig, log *logger.Logger) (*SQLiteStore, error) {
	return &SQLiteStore{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) Initialize() error {
	dsn := d.Config.Storage.DBPath

	// Open DB
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return err
	}

	d.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		d.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	return d.createTables()
}

// -----------------------------------------------------------------------------

func sqliteType(kind string) string {
	switch kind {
	case KindInt:
		return "INTEGER"
	case KindReal:
		return "REAL"
	default:
		return "TEXT"
	}
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) createTables() error {
	for name, schema := range Tables {
		if _, err := d.DB.Exec(schema.CreateDDL(sqliteType)); err != nil {
			return fmt.Errorf("failed to create %s: %w", name, err)
		}
		if _, err := d.DB.Exec(schema.IndexDDL()); err != nil {
			return fmt.Errorf("failed to index %s: %w", name, err)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

// GetLastDate returns MAX(date) for the table, or the epoch sentinel when
// the table is empty or missing. Always a fresh read; multiple sources may
// write the same table within one run.
func (d *SQLiteStore) GetLastDate(table string) (string, error) {
	var last sql.NullString
	err := d.DB.QueryRow(fmt.Sprintf("SELECT MAX(date) FROM %s", table)).Scan(&last)
	if err != nil {
		if strings.Contains(err.Error(), "no such table") {
			return models.EpochDate, nil
		}
		return "", err
	}
	if !last.Valid || last.String == "" {
		return models.EpochDate, nil
	}
	return last.String, nil
}

// -----------------------------------------------------------------------------

// Insert appends records in chunks sized under the parameter limit, inside
// a single transaction. Returns the number of rows actually persisted,
// which is lower than len(records) when natural keys already exist.
func (d *SQLiteStore) Insert(records []models.MRecord, table string) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	schema, err := GetSchema(table)
	if err != nil {
		return 0, err
	}
	cols := schema.ColumnNames()
	chunkSize := sqliteMaxVars / len(cols)

	tx, err := d.DB.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	inserted := 0
	for start := 0; start < len(records); start += chunkSize {
		end := start + chunkSize
		if end > len(records) {
			end = len(records)
		}
		chunk := records[start:end]

		query := fmt.Sprintf(
			"INSERT OR IGNORE INTO %s (%s) VALUES %s",
			schema.Name,
			strings.Join(cols, ", "),
			sqlitePlaceholders(len(chunk), len(cols)),
		)
		res, err := tx.Exec(query, flattenArgs(schema, chunk)...)
		if err != nil {
			return 0, fmt.Errorf("insert into %s failed: %w", table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	d.Logger.Debug("%s: inserted %d rows (attempted %d)", table, inserted, len(records))
	return inserted, nil
}

// -----------------------------------------------------------------------------

func sqlitePlaceholders(nRows, nCols int) string {
	row := "(" + strings.TrimSuffix(strings.Repeat("?, ", nCols), ", ") + ")"
	rows := make([]string, nRows)
	for i := range rows {
		rows[i] = row
	}
	return strings.Join(rows, ", ")
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}

package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"market-fetcher/src/logger"
	"market-fetcher/src/models"

	_ "github.com/lib/pq"
)

// Postgres caps a statement at 65535 bind parameters.
const postgresMaxVars = 65535

// -----------------------------------------------------------------------------

// PostgresStore implements the same dedup contract as SQLiteStore for
// deployments that point the pipeline at a shared server instead of the
// embedded file.
type PostgresStore struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewPostgresStore(cfg *models.MConfig, log *logger.Logger) (*PostgresStore, error) {
	return &PostgresStore{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresStore) Initialize() error {
	dsn := d.Config.Storage.DBConnectionString
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return err
	}

	d.DB = db

	for name, schema := range Tables {
		if _, err := d.DB.Exec(schema.CreateDDL(postgresType)); err != nil {
			return fmt.Errorf("failed to create %s: %w", name, err)
		}
		if _, err := d.DB.Exec(schema.IndexDDL()); err != nil {
			return fmt.Errorf("failed to index %s: %w", name, err)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

func postgresType(kind string) string {
	switch kind {
	case KindInt:
		return "BIGINT"
	case KindReal:
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}

// -----------------------------------------------------------------------------

func (d *PostgresStore) GetLastDate(table string) (string, error) {
	var last sql.NullString
	err := d.DB.QueryRow(fmt.Sprintf("SELECT MAX(date) FROM %s", table)).Scan(&last)
	if err != nil {
		if strings.Contains(err.Error(), "does not exist") {
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

func (d *PostgresStore) Insert(records []models.MRecord, table string) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	schema, err := GetSchema(table)
	if err != nil {
		return 0, err
	}
	cols := schema.ColumnNames()
	chunkSize := postgresMaxVars / len(cols)

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
			"INSERT INTO %s (%s) VALUES %s ON CONFLICT (%s) DO NOTHING",
			schema.Name,
			strings.Join(cols, ", "),
			postgresPlaceholders(len(chunk), len(cols)),
			strings.Join(schema.NaturalKey, ", "),
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

func postgresPlaceholders(nRows, nCols int) string {
	rows := make([]string, nRows)
	arg := 1
	for i := 0; i < nRows; i++ {
		ps := make([]string, nCols)
		for j := 0; j < nCols; j++ {
			ps[j] = fmt.Sprintf("$%d", arg)
			arg++
		}
		rows[i] = "(" + strings.Join(ps, ", ") + ")"
	}
	return strings.Join(rows, ", ")
}

// -----------------------------------------------------------------------------

func (d *PostgresStore) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}

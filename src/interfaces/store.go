package interfaces

import "market-fetcher/src/models"

// -----------------------------------------------------------------------------
// IDedupStore is the storage contract the pipeline writes through. Inserts
// are idempotent under each table's declared natural key.
// -----------------------------------------------------------------------------

type IDedupStore interface {

	// Initialize opens the connection and creates all registered tables.
	Initialize() error

	// -----------------------------------------------------------------------------

	// GetLastDate returns the maximum date stored for the table, or the
	// epoch sentinel when the table is empty or does not exist yet. The
	// value is read fresh on every call, never cached.
	GetLastDate(table string) (string, error)

	// -----------------------------------------------------------------------------

	// Insert appends records to the table, silently dropping rows whose
	// natural key already exists. Returns the number of rows actually
	// persisted. On any storage error the whole call rolls back and 0 is
	// returned alongside the error.
	Insert(records []models.MRecord, table string) (int, error)

	// -----------------------------------------------------------------------------

	// Close the database connection
	Close() error
}

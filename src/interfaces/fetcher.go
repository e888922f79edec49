package interfaces

import "market-fetcher/src/models"

// -----------------------------------------------------------------------------
// IFetcher is the capability one data vendor exposes to the pipeline.
// -----------------------------------------------------------------------------

type IFetcher interface {

	// Name returns the fetcher kind identifier (registry key).
	Name() string

	// -----------------------------------------------------------------------------

	// Fetch retrieves raw vendor rows for the given parameters. An empty
	// slice means "no data available" and is not an error; transient
	// network failures are retried internally and also degrade to an empty
	// result. A non-nil error is reserved for configuration problems
	// (missing parameter, unusable endpoint).
	Fetch(params map[string]string) ([]models.MRecord, error)

	// -----------------------------------------------------------------------------

	// Normalize stamps every row with a canonical date string (defaulting
	// to today when the vendor supplied none), the configured source name
	// and the current ingest timestamp.
	Normalize(records []models.MRecord, sourceName string) []models.MRecord
}

package fetchers

import (
	"time"

	"market-fetcher/src/models"
)

// -----------------------------------------------------------------------------

// NormalizeRecords applies the shared normalization contract: every row gets
// a canonical date string (today when the vendor supplied none), the
// configured source name and the current ingest timestamp. Vendor-supplied
// source values are always overwritten.
func NormalizeRecords(records []models.MRecord, sourceName string) []models.MRecord {
	now := time.Now().UTC()
	today := now.Format("2006-01-02")
	stamp := now.Format(time.RFC3339)

	for i := range records {
		if records[i].Date == "" {
			records[i].Date = today
		}
		records[i].Source = sourceName
		records[i].IngestTimestamp = stamp
	}
	return records
}

package models

// EpochDate is the checkpoint sentinel for tables that hold no rows yet.
const EpochDate = "1900-01-01"

// -----------------------------------------------------------------------------

// MRecord represents one normalized row of vendor data. Core fields are
// shared by every table; table-specific columns live in Fields keyed by
// column name.
type MRecord struct {
	Date            string         `json:"date"`
	Ticker          string         `json:"ticker"`
	Source          string         `json:"source"`
	IngestTimestamp string         `json:"ingest_timestamp"`
	Fields          map[string]any `json:"fields,omitempty"`
}

// -----------------------------------------------------------------------------

// Column resolves a column name against the core fields first, then Fields.
// Unknown columns resolve to nil so the store writes SQL NULL.
func (r *MRecord) Column(name string) any {
	switch name {
	case "date":
		return r.Date
	case "ticker":
		return r.Ticker
	case "source":
		return r.Source
	case "ingest_timestamp":
		return r.IngestTimestamp
	}
	if r.Fields == nil {
		return nil
	}
	return r.Fields[name]
}

// -----------------------------------------------------------------------------

// MaxDate returns the lexicographic maximum of the records' date strings.
// ISO dates compare correctly as strings; empty input yields EpochDate.
func MaxDate(records []MRecord) string {
	max := EpochDate
	for i := range records {
		if records[i].Date > max {
			max = records[i].Date
		}
	}
	return max
}

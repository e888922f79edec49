package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// -----------------------------------------------------------------------------

func TestColumnResolvesCoreFields(t *testing.T) {
	r := MRecord{
		Date:            "2025-08-20",
		Ticker:          "GME",
		Source:          "occ",
		IngestTimestamp: "2025-08-20T21:00:00Z",
		Fields:          map[string]any{"volume": int64(42)},
	}

	assert.Equal(t, "2025-08-20", r.Column("date"))
	assert.Equal(t, "GME", r.Column("ticker"))
	assert.Equal(t, "occ", r.Column("source"))
	assert.Equal(t, "2025-08-20T21:00:00Z", r.Column("ingest_timestamp"))
	assert.Equal(t, int64(42), r.Column("volume"))
}

// -----------------------------------------------------------------------------

func TestColumnUnknownIsNil(t *testing.T) {
	r := MRecord{Date: "2025-08-20"}

	assert.Nil(t, r.Column("strike_price"))
	assert.Nil(t, r.Column("not_a_column"))
}

// -----------------------------------------------------------------------------

func TestMaxDate(t *testing.T) {
	records := []MRecord{
		{Date: "2025-08-19"},
		{Date: "2025-08-22"},
		{Date: "2025-08-20"},
	}
	assert.Equal(t, "2025-08-22", MaxDate(records))

	assert.Equal(t, EpochDate, MaxDate(nil))
	assert.Equal(t, EpochDate, MaxDate([]MRecord{{Date: ""}}))
}

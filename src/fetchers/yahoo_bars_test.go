package fetchers

import (
	"testing"

	"market-fetcher/src/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Two good bars, one with a null close. Timestamps are 2025-08-20 and
// 2025-08-21 midnight UTC, plus the broken 2025-08-22.
const yahooChartSample = `{
  "chart": {
    "result": [{
      "meta": {"symbol": "GME", "timezone": "America/New_York"},
      "timestamp": [1755648000, 1755734400, 1755820800],
      "indicators": {
        "quote": [{
          "open":   [22.1, 22.6, 23.0],
          "high":   [23.0, 23.2, null],
          "low":    [21.8, 22.3, 22.9],
          "close":  [22.5, 22.9, null],
          "volume": [3500000, 4100000, 100]
        }],
        "adjclose": [{"adjclose": [22.5, 22.9, null]}]
      }
    }],
    "error": null
  }
}`

const yahooChartError = `{"chart": {"result": null, "error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}}}`

// -----------------------------------------------------------------------------

func TestYahooParseChartResponse(t *testing.T) {
	f := NewYahooBarsFetcher(&fakeNetwork{}, logger.NewLogger("test"))

	records, err := f.parseChartResponse("GME", []byte(yahooChartSample))
	require.NoError(t, err)
	require.Len(t, records, 2) // null close row dropped

	first := records[0]
	assert.Equal(t, "2025-08-20", first.Date)
	assert.Equal(t, "GME", first.Ticker)
	assert.Equal(t, 22.1, first.Fields["open"])
	assert.Equal(t, 22.5, first.Fields["close"])
	assert.Equal(t, 22.5, first.Fields["adj_close"])
	assert.Equal(t, int64(3500000), first.Fields["volume"])

	assert.True(t, records[0].Date < records[1].Date)
}

// -----------------------------------------------------------------------------

func TestYahooAPIErrorDegradesToEmpty(t *testing.T) {
	net := &fakeNetwork{responses: map[string][]byte{
		"/chart/GME": []byte(yahooChartError),
	}}
	f := NewYahooBarsFetcher(net, logger.NewLogger("test"))

	records, err := f.Fetch(map[string]string{"symbol": "GME"})
	require.NoError(t, err)
	assert.Empty(t, records)
}

// -----------------------------------------------------------------------------

func TestYahooMisalignedArraysRejected(t *testing.T) {
	f := NewYahooBarsFetcher(&fakeNetwork{}, logger.NewLogger("test"))

	broken := `{"chart": {"result": [{
		"timestamp": [1755648000, 1755734400],
		"indicators": {"quote": [{"open": [22.1], "high": [23.0], "low": [21.8], "close": [22.5], "volume": [100]}]}
	}], "error": null}}`

	_, err := f.parseChartResponse("GME", []byte(broken))
	assert.Error(t, err)
}

// -----------------------------------------------------------------------------

func TestYahooRequiresSymbol(t *testing.T) {
	f := NewYahooBarsFetcher(&fakeNetwork{}, logger.NewLogger("test"))

	_, err := f.Fetch(map[string]string{})
	assert.Error(t, err)
}

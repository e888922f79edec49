package fetchers

import (
	"testing"

	"market-fetcher/src/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const occSampleExport = `OCCSymbol|Underlying|PutCall|Strike|Expiry|OI|Volume
GME250919C00025000|GME|C|25.00|2025-09-19|1,234|567
GME250919P00020000|GME|P|20.00|2025-09-19|890|12
short|row
GME251017C00030000|GME|C|30.00|10/17/2025|45|0
`

// -----------------------------------------------------------------------------

func TestOCCParseSeriesText(t *testing.T) {
	f := NewOCCSeriesFetcher(&fakeNetwork{}, logger.NewLogger("test"))

	records := f.parseSeriesText(occSampleExport)
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, "GME250919C00025000", first.Fields["contract_symbol"])
	assert.Equal(t, "C", first.Fields["put_call"])
	assert.Equal(t, 25.0, first.Fields["strike_price"])
	assert.Equal(t, "2025-09-19", first.Fields["expiration_date"])
	assert.Equal(t, int64(1234), first.Fields["open_interest"])
	assert.Equal(t, int64(567), first.Fields["volume"])

	// Slash-format expiry normalizes to ISO.
	assert.Equal(t, "2025-10-17", records[2].Fields["expiration_date"])
}

// -----------------------------------------------------------------------------

func TestOCCFetchParsesResponse(t *testing.T) {
	net := &fakeNetwork{responses: map[string][]byte{
		"series-search": []byte(occSampleExport),
	}}
	f := NewOCCSeriesFetcher(net, logger.NewLogger("test"))

	records, err := f.Fetch(map[string]string{"symbol": "GME"})
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

// -----------------------------------------------------------------------------

func TestOCCFetchHTMLResponseIsEmpty(t *testing.T) {
	net := &fakeNetwork{responses: map[string][]byte{
		"series-search": []byte("<html><body>Please enable JavaScript</body></html>"),
	}}
	f := NewOCCSeriesFetcher(net, logger.NewLogger("test"))

	records, err := f.Fetch(map[string]string{"symbol": "GME"})
	require.NoError(t, err)
	assert.Empty(t, records)
}

// -----------------------------------------------------------------------------

func TestOCCFetchNetworkFailureIsEmpty(t *testing.T) {
	net := &fakeNetwork{err: assert.AnError}
	f := NewOCCSeriesFetcher(net, logger.NewLogger("test"))

	records, err := f.Fetch(map[string]string{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

// -----------------------------------------------------------------------------

func TestOCCExpiryLayouts(t *testing.T) {
	assert.Equal(t, "2025-09-19", parseOCCExpiry("2025-09-19"))
	assert.Equal(t, "2025-09-19", parseOCCExpiry("09/19/2025"))
	assert.Equal(t, "2025-09-19", parseOCCExpiry("20250919"))
	assert.Equal(t, "", parseOCCExpiry("someday"))
}

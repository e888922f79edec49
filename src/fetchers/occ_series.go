package fetchers

import (
	"strconv"
	"strings"
	"time"

	"market-fetcher/src/interfaces"
	"market-fetcher/src/logger"
	"market-fetcher/src/models"
)

const (
	KindOCCSeries = "occ_series"

	defaultOCCSeriesURL = "https://marketdata.theocc.com/series-search"
)

// Expiry layouts the OCC feed has been seen using.
var occExpiryLayouts = []string{"2006-01-02", "01/02/2006", "20060102"}

// -----------------------------------------------------------------------------

// OCCSeriesFetcher pulls the OCC series-search export: a pipe-delimited TXT
// table of option series for one underlying symbol, snapshot-dated to the
// day of the pull.
type OCCSeriesFetcher struct {
	Network interfaces.INetworkManager
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func NewOCCSeriesFetcher(netMgr interfaces.INetworkManager, log *logger.Logger) *OCCSeriesFetcher {
	return &OCCSeriesFetcher{
		Network: netMgr,
		Logger:  log,
	}
}

// -----------------------------------------------------------------------------

func (f *OCCSeriesFetcher) Name() string {
	return KindOCCSeries
}

// -----------------------------------------------------------------------------

func (f *OCCSeriesFetcher) Fetch(params map[string]string) ([]models.MRecord, error) {
	symbol := params["symbol"]
	if symbol == "" {
		symbol = "GME"
	}
	url := params["base_url"]
	if url == "" {
		url = defaultOCCSeriesURL
	}

	body, err := f.Network.Get(url, map[string]string{
		"symbolType": "U",
		"symbol":     symbol,
	})
	if err != nil {
		f.Logger.Warning("OCC fetch failed for %s: %v", symbol, err)
		return nil, nil
	}

	text := string(body)
	if strings.Contains(strings.ToLower(text[:min(len(text), 512)]), "<html") {
		f.Logger.Warning("OCC response for %s is not TXT; possible redirect/HTML.", symbol)
		return nil, nil
	}

	records := f.parseSeriesText(text)
	f.Logger.Info("Fetched %d series for %s.", len(records), symbol)
	return records, nil
}

// -----------------------------------------------------------------------------

// parseSeriesText parses the pipe-delimited export. Expected columns:
// OCCSymbol|Underlying|PutCall|Strike|Expiry|OI|Volume, header row first.
func (f *OCCSeriesFetcher) parseSeriesText(text string) []models.MRecord {
	var records []models.MRecord

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || i == 0 {
			continue // header
		}

		parts := strings.Split(line, "|")
		if len(parts) < 7 {
			continue
		}
		for j := range parts {
			parts[j] = strings.TrimSpace(parts[j])
		}

		contract := parts[0]
		if contract == "" {
			continue
		}

		rec := models.MRecord{
			Fields: map[string]any{
				"contract_symbol": contract,
				"put_call":        parts[2],
				"strike_price":    parseFloat(parts[3]),
				"expiration_date": parseOCCExpiry(parts[4]),
				"open_interest":   parseInt(parts[5]),
				"volume":          parseInt(parts[6]),
			},
		}
		records = append(records, rec)
	}

	return records
}

// -----------------------------------------------------------------------------

func (f *OCCSeriesFetcher) Normalize(records []models.MRecord, sourceName string) []models.MRecord {
	return NormalizeRecords(records, sourceName)
}

// -----------------------------------------------------------------------------

func parseOCCExpiry(raw string) string {
	for _, layout := range occExpiryLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// -----------------------------------------------------------------------------

func parseFloat(raw string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(raw string) int64 {
	v, err := strconv.ParseInt(strings.ReplaceAll(raw, ",", ""), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

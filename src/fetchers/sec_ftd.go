package fetchers

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"market-fetcher/src/interfaces"
	"market-fetcher/src/logger"
	"market-fetcher/src/models"
)

const (
	KindSECFTD = "sec_ftd"

	defaultSECFTDBaseURL = "https://www.sec.gov/files/data/fails-deliver-data"

	// Half-month file naming starts July 2009; earlier periods use a
	// different format and are not fetched.
	secFTDMinStart = "2009-07-01"
)

// -----------------------------------------------------------------------------

// SECFTDFetcher pulls SEC fails-to-deliver data, published as half-month
// ZIP archives (cnsfails{YYYYMM}{a|b}.zip) of pipe-delimited rows. The
// params control how far back to reach; the dedup store drops overlap.
type SECFTDFetcher struct {
	Network interfaces.INetworkManager
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func NewSECFTDFetcher(netMgr interfaces.INetworkManager, log *logger.Logger) *SECFTDFetcher {
	return &SECFTDFetcher{
		Network: netMgr,
		Logger:  log,
	}
}

// -----------------------------------------------------------------------------

func (f *SECFTDFetcher) Name() string {
	return KindSECFTD
}

// -----------------------------------------------------------------------------

func (f *SECFTDFetcher) Fetch(params map[string]string) ([]models.MRecord, error) {
	baseURL := params["base_url"]
	if baseURL == "" {
		baseURL = defaultSECFTDBaseURL
	}

	monthsBack := 1
	if raw := params["months_back"]; raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid months_back parameter '%s'", raw)
		}
		monthsBack = n
	}

	now := time.Now().UTC()
	start := now.AddDate(0, -monthsBack, 0)
	halfMonths := HalfMonths(start, now)

	var records []models.MRecord
	for _, hm := range halfMonths {
		rows, err := f.fetchHalfMonth(baseURL, hm)
		if err != nil {
			// One missing/unpublished file must not sink the rest.
			f.Logger.Warning("Failed to fetch/parse %s: %v", hm, err)
			continue
		}
		records = append(records, rows...)
	}

	f.Logger.Info("SEC FTD: parsed %d rows from %d half-month files.", len(records), len(halfMonths))
	return records, nil
}

// -----------------------------------------------------------------------------

func (f *SECFTDFetcher) fetchHalfMonth(baseURL, halfMonth string) ([]models.MRecord, error) {
	url := fmt.Sprintf("%s/cnsfails%s.zip", baseURL, halfMonth)
	body, err := f.Network.GetWithHeaders(url, nil, map[string]string{
		"Accept": "application/zip,application/octet-stream,*/*;q=0.8",
	})
	if err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("bad zip archive: %w", err)
	}
	if len(zr.File) == 0 {
		return nil, fmt.Errorf("empty zip archive")
	}

	rc, err := zr.File[0].Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	return f.parseFTDText(string(data)), nil
}

// -----------------------------------------------------------------------------

// parseFTDText parses pipe-delimited rows:
// SETTLEMENT DATE|CUSIP|SYMBOL|QUANTITY (FAILS)|DESCRIPTION|PRICE
// Header and trailer lines fail date parsing and are skipped.
func (f *SECFTDFetcher) parseFTDText(text string) []models.MRecord {
	var records []models.MRecord
	seen := make(map[string]bool)

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Split(line, "|")
		if len(parts) < 6 {
			continue
		}
		for j := range parts {
			parts[j] = strings.TrimSpace(parts[j])
		}

		settlement, err := time.Parse("20060102", parts[0])
		if err != nil {
			continue
		}
		symbol := parts[2]
		if symbol == "" {
			continue
		}

		date := settlement.Format("2006-01-02")

		// Dedup within the file on the natural key.
		key := date + "|" + symbol
		if seen[key] {
			continue
		}
		seen[key] = true

		records = append(records, models.MRecord{
			Date:   date,
			Ticker: symbol,
			Fields: map[string]any{
				"cusip":       parts[1],
				"quantity":    parseInt(parts[3]),
				"description": parts[4],
				"price":       parseFloat(parts[5]),
			},
		})
	}

	return records
}

// -----------------------------------------------------------------------------

func (f *SECFTDFetcher) Normalize(records []models.MRecord, sourceName string) []models.MRecord {
	return NormalizeRecords(records, sourceName)
}

// -----------------------------------------------------------------------------

// HalfMonths enumerates half-month identifiers (e.g. "202508a") covering
// start..end, clamped to the first period published in this format.
func HalfMonths(start, end time.Time) []string {
	minStart, _ := time.Parse("2006-01-02", secFTDMinStart)
	current := start
	if current.Before(minStart) {
		current = minStart
	}

	var out []string
	seen := make(map[string]bool)
	for !current.After(end) {
		half := "a"
		if current.Day() > 15 {
			half = "b"
		}
		id := fmt.Sprintf("%04d%02d%s", current.Year(), int(current.Month()), half)
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}

		// Advance to the next half-month boundary.
		if half == "a" {
			current = time.Date(current.Year(), current.Month(), 16, 0, 0, 0, 0, time.UTC)
		} else {
			current = time.Date(current.Year(), current.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
		}
	}
	return out
}

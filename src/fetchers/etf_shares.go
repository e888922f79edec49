package fetchers

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"market-fetcher/src/interfaces"
	"market-fetcher/src/logger"
	"market-fetcher/src/models"

	"github.com/PuerkitoBio/goquery"
)

const (
	KindETFShares = "etf_shares"

	defaultETFProfileBaseURL = "https://marketchameleon.com"
)

var sharesOutstandingLabel = regexp.MustCompile(`(?i)Shares Outstanding:\s*$`)
var sharesOutstandingText = regexp.MustCompile(`(?i)Shares Outstanding:\s*([\d,]+)`)

// -----------------------------------------------------------------------------

// ETFSharesFetcher scrapes daily ETF shares-outstanding counts from the
// marketchameleon profile pages. The endpoint is rate limited; the shared
// network manager enforces the inter-request delay.
type ETFSharesFetcher struct {
	Network interfaces.INetworkManager
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func NewETFSharesFetcher(netMgr interfaces.INetworkManager, log *logger.Logger) *ETFSharesFetcher {
	return &ETFSharesFetcher{
		Network: netMgr,
		Logger:  log,
	}
}

// -----------------------------------------------------------------------------

func (f *ETFSharesFetcher) Name() string {
	return KindETFShares
}

// -----------------------------------------------------------------------------

func (f *ETFSharesFetcher) Fetch(params map[string]string) ([]models.MRecord, error) {
	raw := params["tickers"]
	if raw == "" {
		return nil, fmt.Errorf("etf_shares requires a 'tickers' parameter (comma-separated)")
	}
	baseURL := params["base_url"]
	if baseURL == "" {
		baseURL = defaultETFProfileBaseURL
	}

	var tickers []string
	seen := make(map[string]bool)
	for _, t := range strings.Split(raw, ",") {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" && !seen[t] {
			seen[t] = true
			tickers = append(tickers, t)
		}
	}

	var records []models.MRecord
	for _, ticker := range tickers {
		shares, err := f.fetchTicker(baseURL, ticker)
		if err != nil {
			f.Logger.Error("Error for %s: %v", ticker, err)
			continue
		}
		if shares < 0 {
			f.Logger.Warning("No data found for %s", ticker)
			continue
		}

		f.Logger.Info("Successfully fetched data for %s: %d", ticker, shares)
		records = append(records, models.MRecord{
			Ticker: ticker,
			Fields: map[string]any{
				"shares_outstanding": shares,
			},
		})
	}

	return records, nil
}

// -----------------------------------------------------------------------------

// fetchTicker returns the shares-outstanding count, or -1 when the page
// loaded but carried no matching value.
func (f *ETFSharesFetcher) fetchTicker(baseURL, ticker string) (int64, error) {
	url := fmt.Sprintf("%s/Overview/%s/ETFProfile", baseURL, ticker)
	body, err := f.Network.GetWithHeaders(url, nil, map[string]string{
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.9",
	})
	if err != nil {
		return 0, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return 0, err
	}

	// Precise selector: the label cell's next sibling holds the value.
	var shares int64 = -1
	doc.Find("td").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !sharesOutstandingLabel.MatchString(strings.TrimSpace(s.Text())) {
			return true
		}
		value := strings.ReplaceAll(strings.TrimSpace(s.Next().Text()), ",", "")
		if value == "" {
			return true
		}
		if n := parseInt(value); n > 0 {
			shares = n
			return false
		}
		return true
	})
	if shares > 0 {
		return shares, nil
	}

	// Fallback regex over the page text.
	if m := sharesOutstandingText.FindStringSubmatch(doc.Text()); m != nil {
		if n := parseInt(strings.ReplaceAll(m[1], ",", "")); n > 0 {
			return n, nil
		}
	}

	return -1, nil
}

// -----------------------------------------------------------------------------

func (f *ETFSharesFetcher) Normalize(records []models.MRecord, sourceName string) []models.MRecord {
	return NormalizeRecords(records, sourceName)
}

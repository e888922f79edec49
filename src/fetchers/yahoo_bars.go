package fetchers

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"market-fetcher/src/interfaces"
	"market-fetcher/src/logger"
	"market-fetcher/src/models"
)

const (
	KindYahooBars = "yahoo_bars"

	defaultYahooChartBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"
)

// -----------------------------------------------------------------------------

// YahooBarsFetcher pulls daily OHLCV bars for one ticker from the Yahoo v8
// chart API.
type YahooBarsFetcher struct {
	Network interfaces.INetworkManager
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func NewYahooBarsFetcher(netMgr interfaces.INetworkManager, log *logger.Logger) *YahooBarsFetcher {
	return &YahooBarsFetcher{
		Network: netMgr,
		Logger:  log,
	}
}

// -----------------------------------------------------------------------------

func (f *YahooBarsFetcher) Name() string {
	return KindYahooBars
}

// -----------------------------------------------------------------------------

func (f *YahooBarsFetcher) Fetch(params map[string]string) ([]models.MRecord, error) {
	symbol := params["symbol"]
	if symbol == "" {
		return nil, fmt.Errorf("yahoo_bars requires a 'symbol' parameter")
	}
	baseURL := params["base_url"]
	if baseURL == "" {
		baseURL = defaultYahooChartBaseURL
	}
	rangeStr := params["range"]
	if rangeStr == "" {
		rangeStr = "1mo"
	}

	url := fmt.Sprintf("%s/%s", baseURL, symbol)
	body, err := f.Network.Get(url, map[string]string{
		"interval":       "1d",
		"range":          rangeStr,
		"includePrePost": "false",
	})
	if err != nil {
		f.Logger.Warning("Yahoo fetch failed for %s: %v", symbol, err)
		return nil, nil
	}

	records, err := f.parseChartResponse(symbol, body)
	if err != nil {
		f.Logger.Warning("Yahoo parse failed for %s: %v", symbol, err)
		return nil, nil
	}

	f.Logger.Info("Fetched %d daily bars for %s.", len(records), symbol)
	return records, nil
}

// -----------------------------------------------------------------------------

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol   string `json:"symbol"`
				Timezone string `json:"timezone"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					High   []*float64 `json:"high"`   // Use pointers to handle null
					Low    []*float64 `json:"low"`    // Use pointers to handle null
					Open   []*float64 `json:"open"`   // Use pointers to handle null
					Close  []*float64 `json:"close"`  // Use pointers to handle null
					Volume []*float64 `json:"volume"` // Use pointers to handle null
				} `json:"quote"`
				Adjclose []struct {
					Adjclose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// -----------------------------------------------------------------------------

func (f *YahooBarsFetcher) parseChartResponse(symbol string, data []byte) ([]models.MRecord, error) {
	var resp yahooChartResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("json unmarshal failed: %w", err)
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s - %s", resp.Chart.Error.Code, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no result in response for %s", symbol)
	}

	result := resp.Chart.Result[0]
	if len(result.Timestamp) == 0 {
		return nil, nil // valid response, just no bars
	}
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no quote data in response for %s", symbol)
	}

	quote := result.Indicators.Quote[0]

	// Alignment check before indexing the parallel arrays.
	n := len(result.Timestamp)
	if len(quote.Open) != n || len(quote.High) != n || len(quote.Low) != n ||
		len(quote.Close) != n || len(quote.Volume) != n {
		return nil, fmt.Errorf("data alignment error for %s", symbol)
	}

	var adjclose []*float64
	if len(result.Indicators.Adjclose) > 0 && len(result.Indicators.Adjclose[0].Adjclose) == n {
		adjclose = result.Indicators.Adjclose[0].Adjclose
	}

	var records []models.MRecord
	for i := 0; i < n; i++ {
		if quote.Open[i] == nil || quote.High[i] == nil || quote.Low[i] == nil ||
			quote.Close[i] == nil || quote.Volume[i] == nil {
			f.Logger.Debug("Skipping null OHLCV for %s at index %d", symbol, i)
			continue
		}
		if *quote.Close[i] <= 0 || *quote.Volume[i] < 0 {
			f.Logger.Debug("Skipping invalid bar for %s: close=%f, volume=%f", symbol, *quote.Close[i], *quote.Volume[i])
			continue
		}

		adj := *quote.Close[i]
		if adjclose != nil && adjclose[i] != nil {
			adj = *adjclose[i]
		}

		records = append(records, models.MRecord{
			Date:   time.Unix(result.Timestamp[i], 0).UTC().Format("2006-01-02"),
			Ticker: symbol,
			Fields: map[string]any{
				"open":      *quote.Open[i],
				"high":      *quote.High[i],
				"low":       *quote.Low[i],
				"close":     *quote.Close[i],
				"adj_close": adj,
				"volume":    int64(*quote.Volume[i]),
			},
		})
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Date < records[j].Date
	})
	return records, nil
}

// -----------------------------------------------------------------------------

func (f *YahooBarsFetcher) Normalize(records []models.MRecord, sourceName string) []models.MRecord {
	return NormalizeRecords(records, sourceName)
}

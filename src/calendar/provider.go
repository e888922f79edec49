package calendar

import (
	"encoding/json"
	"fmt"
	"time"

	"market-fetcher/src/interfaces"
	"market-fetcher/src/logger"

	"github.com/scmhub/calendar"
)

// -----------------------------------------------------------------------------

// APIHolidayProvider pulls holiday dates from an HTTP endpoint that accepts
// from/to query parameters and returns a JSON array of objects carrying a
// "date" field (polygon-style market holiday APIs).
type APIHolidayProvider struct {
	URL     string
	APIKey  string
	Network interfaces.INetworkManager
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func NewAPIHolidayProvider(url, apiKey string, netMgr interfaces.INetworkManager, log *logger.Logger) *APIHolidayProvider {
	return &APIHolidayProvider{
		URL:     url,
		APIKey:  apiKey,
		Network: netMgr,
		Logger:  log,
	}
}

// -----------------------------------------------------------------------------

func (p *APIHolidayProvider) FetchHolidays(from, to string) ([]string, error) {
	params := map[string]string{
		"from": from,
		"to":   to,
	}
	if p.APIKey != "" {
		params["apiKey"] = p.APIKey
	}

	body, err := p.Network.Get(p.URL, params)
	if err != nil {
		return nil, fmt.Errorf("holiday API request failed: %w", err)
	}

	var entries []struct {
		Date string `json:"date"`
	}
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("holiday API returned unparseable payload: %w", err)
	}

	dates := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Date != "" {
			dates = append(dates, e.Date)
		}
	}
	p.Logger.Debug("Holiday API returned %d raw dates for %s..%s", len(dates), from, to)
	return dates, nil
}

// -----------------------------------------------------------------------------

// LibHolidayProvider derives holidays from the scmhub/calendar exchange
// calendars without a network call: a weekday that is not a business day on
// the exchange is a holiday. Used when no holiday API is configured.
type LibHolidayProvider struct {
	Market string
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewLibHolidayProvider(market string, log *logger.Logger) *LibHolidayProvider {
	return &LibHolidayProvider{
		Market: market,
		Logger: log,
	}
}

// -----------------------------------------------------------------------------

func (p *LibHolidayProvider) FetchHolidays(from, to string) ([]string, error) {
	cal := calendar.GetCalendar(p.Market)
	if cal == nil {
		cal = calendar.GetCalendar("xnys")
	}
	if cal == nil {
		return nil, fmt.Errorf("no exchange calendar available for market '%s'", p.Market)
	}

	start, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, fmt.Errorf("invalid from date '%s': %w", from, err)
	}
	end, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, fmt.Errorf("invalid to date '%s': %w", to, err)
	}

	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		wd := d.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			continue
		}
		if !cal.IsBusinessDay(d) {
			dates = append(dates, d.Format("2006-01-02"))
		}
	}
	return dates, nil
}

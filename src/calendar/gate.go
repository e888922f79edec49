package calendar

import (
	"fmt"
	"strings"
	"time"

	"market-fetcher/src/interfaces"
	"market-fetcher/src/logger"
)

// -----------------------------------------------------------------------------

// Gate decides whether a given day is an eligible ingestion day. Provider
// failures never propagate: the year gets an empty holiday set, which means
// every weekday counts as a trading day until a later run repopulates it.
// Missing holiday data must not silently skip ingestion.
type Gate struct {
	Cache    *HolidayCache
	Provider interfaces.IHolidayProvider
	Logger   *logger.Logger
}

// -----------------------------------------------------------------------------

func NewGate(cache *HolidayCache, provider interfaces.IHolidayProvider, log *logger.Logger) *Gate {
	return &Gate{
		Cache:    cache,
		Provider: provider,
		Logger:   log,
	}
}

// -----------------------------------------------------------------------------

// HolidaysForYear returns the year's holiday set, pulling from the provider
// on a cache miss and persisting whatever it got.
func (g *Gate) HolidaysForYear(year int) []string {
	if dates, ok := g.Cache.Get(year); ok {
		g.Logger.Debug("Holiday cache hit for %d: %d dates", year, len(dates))
		return dates
	}

	g.Logger.Info("Pulling holidays for %d from provider...", year)
	yearStr := fmt.Sprintf("%d", year)
	raw, err := g.Provider.FetchHolidays(yearStr+"-01-01", yearStr+"-12-31")
	if err != nil {
		// Fail open: cache an empty set so weekdays this year still run.
		g.Logger.Error("Holiday provider failed for %d (%v). No holidays available.", year, err)
		raw = nil
	}

	var dates []string
	for _, d := range raw {
		if strings.HasPrefix(d, yearStr) {
			dates = append(dates, d)
		}
	}

	g.Cache.Put(year, dates)
	if err := g.Cache.Flush(); err != nil {
		g.Logger.Warning("Failed to persist holiday cache: %v", err)
	}

	cached, _ := g.Cache.Get(year)
	g.Logger.Info("Provider returned %d raw dates; %d unique for %d.", len(raw), len(cached), year)
	return cached
}

// -----------------------------------------------------------------------------

// IsTradingDay reports whether the date is a weekday outside the year's
// known holiday set. Never returns an error; see the fail-open policy above.
func (g *Gate) IsTradingDay(date time.Time) bool {
	wd := date.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}

	dateStr := date.Format("2006-01-02")
	for _, h := range g.HolidaysForYear(date.Year()) {
		if h == dateStr {
			return false
		}
	}
	return true
}

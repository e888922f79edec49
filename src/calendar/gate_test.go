package calendar

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"market-fetcher/src/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------

// fakeProvider counts calls and returns a canned holiday set or a failure.
type fakeProvider struct {
	calls    int
	holidays []string
	err      error
}

func (p *fakeProvider) FetchHolidays(from, to string) ([]string, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.holidays, nil
}

// -----------------------------------------------------------------------------

func newTestGate(t *testing.T, provider *fakeProvider) *Gate {
	t.Helper()
	cache := NewHolidayCache(filepath.Join(t.TempDir(), "holidays.json"), logger.NewLogger("test"))
	return NewGate(cache, provider, logger.NewLogger("test"))
}

// -----------------------------------------------------------------------------

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

// -----------------------------------------------------------------------------

func TestWeekendIsNotTradingDay(t *testing.T) {
	provider := &fakeProvider{}
	gate := newTestGate(t, provider)

	assert.False(t, gate.IsTradingDay(mustDate(t, "2025-08-23"))) // Saturday
	assert.False(t, gate.IsTradingDay(mustDate(t, "2025-08-24"))) // Sunday

	// Weekends short-circuit before any holiday lookup.
	assert.Equal(t, 0, provider.calls)
}

// -----------------------------------------------------------------------------

func TestHolidayIsNotTradingDay(t *testing.T) {
	provider := &fakeProvider{holidays: []string{"2025-09-01", "2025-11-27"}}
	gate := newTestGate(t, provider)

	assert.False(t, gate.IsTradingDay(mustDate(t, "2025-09-01"))) // Labor Day
	assert.True(t, gate.IsTradingDay(mustDate(t, "2025-09-02")))
}

// -----------------------------------------------------------------------------

func TestProviderFailureFailsOpen(t *testing.T) {
	provider := &fakeProvider{err: fmt.Errorf("provider down")}
	gate := newTestGate(t, provider)

	// With no holiday data a weekday still counts as a trading day.
	assert.True(t, gate.IsTradingDay(mustDate(t, "2025-09-01")))
}

// -----------------------------------------------------------------------------

func TestHolidaysAreCachedPerYear(t *testing.T) {
	provider := &fakeProvider{holidays: []string{"2025-09-01"}}
	gate := newTestGate(t, provider)

	gate.HolidaysForYear(2025)
	gate.HolidaysForYear(2025)
	gate.HolidaysForYear(2025)

	assert.Equal(t, 1, provider.calls)
}

// -----------------------------------------------------------------------------

func TestFailedYearIsCachedEmpty(t *testing.T) {
	provider := &fakeProvider{err: fmt.Errorf("provider down")}
	gate := newTestGate(t, provider)

	assert.Empty(t, gate.HolidaysForYear(2025))
	assert.Empty(t, gate.HolidaysForYear(2025))

	// The empty set persists; the provider is not hammered on every check.
	assert.Equal(t, 1, provider.calls)
}

// -----------------------------------------------------------------------------

func TestOutOfYearDatesAreFiltered(t *testing.T) {
	provider := &fakeProvider{holidays: []string{"2024-12-25", "2025-01-01", "2025-07-04"}}
	gate := newTestGate(t, provider)

	dates := gate.HolidaysForYear(2025)
	assert.Equal(t, []string{"2025-01-01", "2025-07-04"}, dates)
}

// -----------------------------------------------------------------------------

func TestCacheSurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.json")
	provider := &fakeProvider{holidays: []string{"2025-09-01"}}

	gate := NewGate(NewHolidayCache(path, logger.NewLogger("test")), provider, logger.NewLogger("test"))
	gate.HolidaysForYear(2025)
	require.Equal(t, 1, provider.calls)

	// A fresh gate over the same file serves from disk.
	gate2 := NewGate(NewHolidayCache(path, logger.NewLogger("test")), provider, logger.NewLogger("test"))
	dates := gate2.HolidaysForYear(2025)
	assert.Equal(t, []string{"2025-09-01"}, dates)
	assert.Equal(t, 1, provider.calls)
}

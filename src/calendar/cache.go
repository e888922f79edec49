package calendar

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"market-fetcher/src/logger"
)

// -----------------------------------------------------------------------------

// HolidayCache is the file-backed {year -> holiday dates} cache. It is a
// cache, not a source of truth: a missing year triggers a provider pull,
// and whatever comes back (including an empty set) is persisted.
type HolidayCache struct {
	path   string
	years  map[string][]string
	loaded bool
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewHolidayCache(path string, log *logger.Logger) *HolidayCache {
	return &HolidayCache{
		path:   path,
		years:  make(map[string][]string),
		Logger: log,
	}
}

// -----------------------------------------------------------------------------

// Load reads the cache file. A missing file is an empty cache, not an error.
func (c *HolidayCache) Load() error {
	c.loaded = true
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read holiday cache '%s': %w", c.path, err)
	}

	if err := json.Unmarshal(data, &c.years); err != nil {
		return fmt.Errorf("failed to parse holiday cache '%s': %w", c.path, err)
	}
	return nil
}

// -----------------------------------------------------------------------------

// Get returns the cached holiday set for a year. The second value reports a
// cache hit; an empty cached set is still a hit (fail-open years persist).
func (c *HolidayCache) Get(year int) ([]string, bool) {
	if !c.loaded {
		if err := c.Load(); err != nil {
			c.Logger.Warning("Holiday cache load failed: %v", err)
		}
	}
	dates, ok := c.years[strconv.Itoa(year)]
	return dates, ok
}

// -----------------------------------------------------------------------------

// Put stores a year's holiday set, sorted and deduplicated.
func (c *HolidayCache) Put(year int, dates []string) {
	set := make(map[string]bool, len(dates))
	for _, d := range dates {
		set[d] = true
	}
	unique := make([]string, 0, len(set))
	for d := range set {
		unique = append(unique, d)
	}
	sort.Strings(unique)
	c.years[strconv.Itoa(year)] = unique
}

// -----------------------------------------------------------------------------

// Flush persists the cache to its file, creating the parent directory if
// needed.
func (c *HolidayCache) Flush() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c.years, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0644)
}

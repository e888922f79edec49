package interfaces

// -----------------------------------------------------------------------------
// IHolidayProvider supplies market holiday dates for a date range.
// Best-effort: callers treat failures as "no holidays known".
// -----------------------------------------------------------------------------

type IHolidayProvider interface {

	// FetchHolidays returns holiday date strings (YYYY-MM-DD) between the
	// two inclusive bounds.
	FetchHolidays(from, to string) ([]string, error)
}

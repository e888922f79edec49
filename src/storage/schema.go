package storage

import (
	"fmt"
	"strings"

	"market-fetcher/src/models"
)

// Column kinds, mapped to engine-specific SQL types.
const (
	KindText = "text"
	KindInt  = "int"
	KindReal = "real"
)

// -----------------------------------------------------------------------------

type ColumnDef struct {
	Name    string
	Kind    string
	NotNull bool
}

// TableSchema declares a table's ordered columns and the natural key its
// uniqueness constraint is built on. Dedup semantics follow from the key.
type TableSchema struct {
	Name       string
	Columns    []ColumnDef
	NaturalKey []string
}

// -----------------------------------------------------------------------------

// Tables is the canonical schema registry. One natural key per table; the
// key choice is documented in DESIGN.md.
var Tables = map[string]TableSchema{
	"options_data": {
		Name: "options_data",
		Columns: []ColumnDef{
			{Name: "date", Kind: KindText, NotNull: true},
			{Name: "ticker", Kind: KindText, NotNull: true},
			{Name: "contract_symbol", Kind: KindText},
			{Name: "put_call", Kind: KindText},
			{Name: "strike_price", Kind: KindReal},
			{Name: "expiration_date", Kind: KindText},
			{Name: "open_interest", Kind: KindInt},
			{Name: "volume", Kind: KindInt},
			{Name: "last_price", Kind: KindReal},
			{Name: "bid", Kind: KindReal},
			{Name: "ask", Kind: KindReal},
			{Name: "source", Kind: KindText, NotNull: true},
			{Name: "ingest_timestamp", Kind: KindText, NotNull: true},
		},
		NaturalKey: []string{"date", "ticker", "contract_symbol"},
	},
	"ftd_data": {
		Name: "ftd_data",
		Columns: []ColumnDef{
			{Name: "date", Kind: KindText, NotNull: true},
			{Name: "ticker", Kind: KindText, NotNull: true},
			{Name: "cusip", Kind: KindText},
			{Name: "quantity", Kind: KindInt},
			{Name: "description", Kind: KindText},
			{Name: "price", Kind: KindReal},
			{Name: "source", Kind: KindText, NotNull: true},
			{Name: "ingest_timestamp", Kind: KindText, NotNull: true},
		},
		NaturalKey: []string{"date", "ticker"},
	},
	"daily_etf_shares": {
		Name: "daily_etf_shares",
		Columns: []ColumnDef{
			{Name: "date", Kind: KindText, NotNull: true},
			{Name: "ticker", Kind: KindText, NotNull: true},
			{Name: "shares_outstanding", Kind: KindInt},
			{Name: "source", Kind: KindText, NotNull: true},
			{Name: "ingest_timestamp", Kind: KindText, NotNull: true},
		},
		NaturalKey: []string{"date", "ticker"},
	},
	"daily_bars": {
		Name: "daily_bars",
		Columns: []ColumnDef{
			{Name: "date", Kind: KindText, NotNull: true},
			{Name: "ticker", Kind: KindText, NotNull: true},
			{Name: "open", Kind: KindReal},
			{Name: "high", Kind: KindReal},
			{Name: "low", Kind: KindReal},
			{Name: "close", Kind: KindReal},
			{Name: "adj_close", Kind: KindReal},
			{Name: "volume", Kind: KindInt},
			{Name: "source", Kind: KindText, NotNull: true},
			{Name: "ingest_timestamp", Kind: KindText, NotNull: true},
		},
		NaturalKey: []string{"date", "ticker"},
	},
}

// -----------------------------------------------------------------------------

// GetSchema looks a table up in the registry.
func GetSchema(table string) (TableSchema, error) {
	s, ok := Tables[table]
	if !ok {
		return TableSchema{}, fmt.Errorf("unknown table: %s", table)
	}
	return s, nil
}

// -----------------------------------------------------------------------------

// ColumnNames returns the ordered column name list.
func (s TableSchema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// -----------------------------------------------------------------------------

// CreateDDL renders CREATE TABLE IF NOT EXISTS for the given engine type
// mapping, with the natural-key UNIQUE constraint inline.
func (s TableSchema) CreateDDL(typeFor func(kind string) string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", s.Name)
	for _, c := range s.Columns {
		fmt.Fprintf(&b, "\t%s %s", c.Name, typeFor(c.Kind))
		if c.NotNull {
			b.WriteString(" NOT NULL")
		}
		b.WriteString(",\n")
	}
	fmt.Fprintf(&b, "\tUNIQUE(%s)\n)", strings.Join(s.NaturalKey, ", "))
	return b.String()
}

// -----------------------------------------------------------------------------

// flattenArgs lays record values out in schema column order, row-major,
// matching the placeholder order of a multi-row insert.
func flattenArgs(schema TableSchema, chunk []models.MRecord) []any {
	cols := schema.ColumnNames()
	args := make([]any, 0, len(chunk)*len(cols))
	for i := range chunk {
		for _, col := range cols {
			args = append(args, chunk[i].Column(col))
		}
	}
	return args
}

// -----------------------------------------------------------------------------

// IndexDDL renders the (date, ticker) lookup index.
func (s TableSchema) IndexDDL() string {
	return fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_date_ticker ON %s (date, ticker)", s.Name, s.Name)
}

package universe

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"SwingScreener/internal/model"
)

// ErrMissingSymbolColumn is returned when a CSV has no symbol column.
var ErrMissingSymbolColumn = errors.New("universe csv: no symbol column")

// column aliases, matched case-insensitively against the header row.
var columns = map[string][]string{
	"symbol":     {"symbol", "ticker"},
	"name":       {"name", "company", "company_name"},
	"exchange":   {"exchange"},
	"market_cap": {"market_cap", "marketcap", "market cap"},
	"price":      {"price", "lastsale", "last_sale", "last"},
	"sector":     {"sector"},
}

// File reads the universe from a CSV export with a header row. Listing
// exports (with "$1.2B" style market caps and "$12.34" prices) are accepted.
type File struct {
	Path string
	// Strict applies the ticker sanity filter (ValidSymbol).
	Strict bool
}

func (f File) Load(ctx context.Context) ([]model.UniverseStock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open universe: %w", err)
	}
	defer fh.Close()

	stocks, err := ReadCSV(fh, f.Strict)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	return stocks, nil
}

// ReadCSV parses universe rows from r.
func ReadCSV(r io.Reader, strict bool) ([]model.UniverseStock, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := indexColumns(header)
	if idx["symbol"] < 0 {
		return nil, ErrMissingSymbolColumn
	}

	var stocks []model.UniverseStock
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		get := func(col string) string {
			i := idx[col]
			if i < 0 || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		sym := NormalizeSymbol(get("symbol"))
		if sym == "" || (strict && !ValidSymbol(sym)) {
			continue
		}
		stocks = append(stocks, model.UniverseStock{
			Symbol:    sym,
			Name:      get("name"),
			Exchange:  get("exchange"),
			MarketCap: ParseMarketCap(get("market_cap")),
			Price:     ParsePrice(get("price")),
			Sector:    get("sector"),
		})
	}
	return Dedup(stocks), nil
}

func indexColumns(header []string) map[string]int {
	idx := make(map[string]int, len(columns))
	for col := range columns {
		idx[col] = -1
	}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for col, aliases := range columns {
			if idx[col] >= 0 {
				continue
			}
			for _, a := range aliases {
				if h == a {
					idx[col] = i
				}
			}
		}
	}
	return idx
}

var capSuffix = map[byte]int32{'T': 12, 'B': 9, 'M': 6, 'K': 3}

// ParseMarketCap reads plain numbers and "$1.5B" style strings. Anything
// unparseable is 0.
func ParseMarketCap(s string) float64 {
	s = cleanNumber(s)
	if s == "" {
		return 0
	}
	var exp int32
	if e, ok := capSuffix[s[len(s)-1]]; ok {
		exp = e
		s = s[:len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.Shift(exp).InexactFloat64()
}

// ParsePrice reads "$12.34" or "12.34". Anything unparseable is 0.
func ParsePrice(s string) float64 {
	d, err := decimal.NewFromString(cleanNumber(s))
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

func cleanNumber(s string) string {
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	return strings.ToUpper(strings.TrimSpace(s))
}

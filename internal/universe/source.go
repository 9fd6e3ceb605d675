// Package universe supplies the list of stocks a screening run starts from.
package universe

import (
	"context"
	"strings"

	"SwingScreener/internal/model"
)

// Source yields the candidate universe for one run.
type Source interface {
	Load(ctx context.Context) ([]model.UniverseStock, error)
}

// Static is a fixed symbol list with no metadata, used for ad-hoc runs.
type Static []string

func (s Static) Load(_ context.Context) ([]model.UniverseStock, error) {
	stocks := make([]model.UniverseStock, 0, len(s))
	for _, sym := range s {
		sym = NormalizeSymbol(sym)
		if sym == "" {
			continue
		}
		stocks = append(stocks, model.UniverseStock{Symbol: sym, Name: sym})
	}
	return Dedup(stocks), nil
}

// ParseSymbols splits a comma or whitespace separated list.
func ParseSymbols(list string) Static {
	fields := strings.FieldsFunc(list, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	return Static(fields)
}

// NormalizeSymbol upper-cases and trims a ticker.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidSymbol keeps plain common-stock tickers: 1 to 6 letters, which
// rules out warrants, units and preferred share classes.
func ValidSymbol(s string) bool {
	if len(s) < 1 || len(s) > 6 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Dedup drops repeated symbols, keeping the first occurrence.
func Dedup(stocks []model.UniverseStock) []model.UniverseStock {
	seen := make(map[string]bool, len(stocks))
	out := stocks[:0]
	for _, s := range stocks {
		if seen[s.Symbol] {
			continue
		}
		seen[s.Symbol] = true
		out = append(out, s)
	}
	return out
}

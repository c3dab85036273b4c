package market

import (
	"strings"
	"time"
)

// QuintalToTon converts the providers' native per-quintal prices to the
// per-ton unit every path of the chain returns.
const QuintalToTon = 10.0

// PricePoint is one normalized market price record. Price fields are always
// per-ton, whichever source produced them.
type PricePoint struct {
	Date      string  `json:"date"`
	Commodity string  `json:"commodity"`
	State     string  `json:"state"`
	District  string  `json:"district"`
	Market    string  `json:"market"`
	Price     float64 `json:"price"`
	MinPrice  float64 `json:"min_price"`
	MaxPrice  float64 `json:"max_price"`
}

// Query is the filter tuple for a market-price lookup. Empty fields are
// wildcards. From/To bound arrival dates when non-zero.
type Query struct {
	Commodity string
	State     string
	District  string
	Market    string
	From      time.Time
	To        time.Time
}

// Fingerprint canonicalizes the query into the string used both as the cache
// key and as the synthetic-generator seed: case-insensitive, trimmed, with
// missing fields collapsed to a wildcard so equivalent queries share a key.
func (q Query) Fingerprint() string {
	parts := []string{
		canonField(q.Commodity),
		canonField(q.State),
		canonField(q.District),
		canonField(q.Market),
	}
	if !q.From.IsZero() || !q.To.IsZero() {
		parts = append(parts, canonDate(q.From), canonDate(q.To))
	}
	return strings.Join(parts, "|")
}

// HasFilter reports whether at least one field constrains the query.
func (q Query) HasFilter() bool {
	return canonField(q.Commodity) != "*" ||
		canonField(q.State) != "*" ||
		canonField(q.District) != "*" ||
		canonField(q.Market) != "*"
}

// Matches reports whether a record's fields satisfy the query's non-wildcard
// filters. Comparison is case-insensitive.
func (q Query) Matches(commodity, state, district, market string) bool {
	return fieldMatches(q.Commodity, commodity) &&
		fieldMatches(q.State, state) &&
		fieldMatches(q.District, district) &&
		fieldMatches(q.Market, market)
}

// InRange reports whether a date satisfies the query's bounds. Zero bounds
// are open.
func (q Query) InRange(d time.Time) bool {
	if !q.From.IsZero() && d.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && d.After(q.To) {
		return false
	}
	return true
}

func canonField(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "*"
	}
	return s
}

func canonDate(t time.Time) string {
	if t.IsZero() {
		return "*"
	}
	return t.Format("2006-01-02")
}

func fieldMatches(filter, value string) bool {
	f := canonField(filter)
	return f == "*" || f == canonField(value)
}

package automation

import (
	"net/url"
	"strings"
	"time"
)

// ODataFilter builds the $filter expression accepted by list operations.
// Clauses are joined with "and".
type ODataFilter struct {
	clauses []string
}

// NewODataFilter creates an empty filter.
func NewODataFilter() *ODataFilter {
	return &ODataFilter{}
}

// Eq adds `property eq 'value'`. Empty values are skipped.
func (f *ODataFilter) Eq(property, value string) *ODataFilter {
	if value == "" {
		return f
	}

	f.clauses = append(f.clauses, property+" eq "+QuoteODataString(value))

	return f
}

// Ge adds `property ge <time>`. Nil times are skipped.
func (f *ODataFilter) Ge(property string, t *time.Time) *ODataFilter {
	if t == nil {
		return f
	}

	f.clauses = append(f.clauses, property+" ge "+FormatODataTime(*t))

	return f
}

// Le adds `property le <time>`. Nil times are skipped.
func (f *ODataFilter) Le(property string, t *time.Time) *ODataFilter {
	if t == nil {
		return f
	}

	f.clauses = append(f.clauses, property+" le "+FormatODataTime(*t))

	return f
}

// Empty reports whether no clause was added.
func (f *ODataFilter) Empty() bool {
	return len(f.clauses) == 0
}

// String renders the expression.
func (f *ODataFilter) String() string {
	return strings.Join(f.clauses, " and ")
}

// Apply sets $filter on values when the filter is not empty.
func (f *ODataFilter) Apply(values url.Values) url.Values {
	if values == nil {
		values = url.Values{}
	}

	if !f.Empty() {
		values.Set("$filter", f.String())
	}

	return values
}

// QuoteODataString quotes s as an OData string literal, doubling single quotes.
func QuoteODataString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// FormatODataTime renders t the way the service expects in filters.
func FormatODataTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.0000000Z")
}

package legcosearch

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Clause is a single OData boolean predicate contributed by one semantic
// filter field. Field names the upstream column the predicate references so
// that compilation can be checked against the endpoint's accepted field
// set.
type Clause struct {
	Field string
	Expr  string
}

// eqString builds an exact string match clause. The value must already be
// sanitized.
func eqString(field string, v SafeLiteral) Clause {
	return Clause{Field: field, Expr: fmt.Sprintf("%s eq '%s'", field, v)}
}

// substringOf builds a substring match clause. The value must already be
// sanitized.
func substringOf(v SafeLiteral, field string) Clause {
	return Clause{Field: field, Expr: fmt.Sprintf("substringof('%s', %s)", v, field)}
}

// geDatetime builds an inclusive lower bound clause on a datetime field.
// The date must already be validated as YYYY-MM-DD.
func geDatetime(field, date string) Clause {
	return Clause{Field: field, Expr: fmt.Sprintf("%s ge datetime'%s'", field, date)}
}

// leDatetime builds an inclusive upper bound clause on a datetime field.
// The date must already be validated as YYYY-MM-DD.
func leDatetime(field, date string) Clause {
	return Clause{Field: field, Expr: fmt.Sprintf("%s le datetime'%s'", field, date)}
}

// eqDatetime builds an exact match clause on a datetime field. The date
// must already be validated as YYYY-MM-DD.
func eqDatetime(field, date string) Clause {
	return Clause{Field: field, Expr: fmt.Sprintf("%s eq datetime'%s'", field, date)}
}

// eqInt builds an exact match clause on an integer field. The value must
// already be range-validated.
func eqInt(field string, n int) Clause {
	return Clause{Field: field, Expr: fmt.Sprintf("%s eq %d", field, n)}
}

// eqYear builds a clause matching the year component of a datetime field.
// The value must already be range-validated.
func eqYear(field string, year int) Clause {
	return Clause{Field: field, Expr: fmt.Sprintf("year(%s) eq %d", field, year)}
}

// QueryOptions holds the compiled OData v2 query string components for one
// request. Top and Skip are always set after compilation; InlineCount is
// always "allpages" so that a total record count is available in both JSON
// and XML replies.
type QueryOptions struct {
	// Filter is the ordered list of predicates, joined with " and ".
	Filter []Clause
	// Top is the page size, 1 to 1000.
	Top int
	// Skip is the number of records to skip.
	Skip int
	// Format is the requested reply format.
	Format Format
	// InlineCount is the OData inline count mode.
	InlineCount string
}

// FilterString joins the filter clauses with " and " in compilation order.
// It returns the empty string when no clauses were compiled.
func (q QueryOptions) FilterString() string {
	if len(q.Filter) == 0 {
		return ""
	}
	exprs := make([]string, 0, len(q.Filter))
	for _, c := range q.Filter {
		exprs = append(exprs, c.Expr)
	}
	return strings.Join(exprs, " and ")
}

// Values renders the query options as URL query parameters. $format is
// only set for XML; JSON is the upstream default.
func (q QueryOptions) Values() url.Values {
	v := url.Values{}
	if q.Format == FormatXML {
		v.Set("$format", "xml")
	}
	v.Set("$top", strconv.Itoa(q.Top))
	v.Set("$skip", strconv.Itoa(q.Skip))
	v.Set("$inlinecount", q.InlineCount)
	if f := q.FilterString(); f != "" {
		v.Set("$filter", f)
	}
	return v
}

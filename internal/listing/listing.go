// Package listing turns list query parameters into SQL fragments: declared
// filters, multi-field search, ordering and page-based pagination.
package listing

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"blogosphere/internal/model"
)

// Kind controls how a filter value is parsed and bound.
type Kind int

const (
	// Exact binds the raw value.
	Exact Kind = iota
	// Contains binds %value% for use with ILIKE.
	Contains
	// Int binds the value parsed as an integer.
	Int
	// Time binds the value parsed as a timestamp or date.
	Time
)

// Filter is one query parameter mapped onto a condition. Cond holds exactly
// one ? placeholder.
type Filter struct {
	Param string
	Cond  string
	Kind  Kind
}

// Cond is a condition with ? placeholders and its arguments.
type Cond struct {
	SQL  string
	Args []any
}

// Definition declares what a list endpoint accepts.
type Definition struct {
	Filters []Filter
	// Search conditions each hold one ? and are bound with %term%.
	Search []string
	// Ordering maps an ordering field name onto a column.
	Ordering        map[string]string
	DefaultOrdering []string
	// TieBreaker is appended to every ORDER BY so pages are stable.
	TieBreaker string

	PageSize    int
	MaxPageSize int
}

// Params are the generic list parameters of a request.
type Params struct {
	Page     int
	PageSize int
	Search   string
	Ordering []string
	Values   url.Values
}

// Query is a built list query. Where and OrderBy use ? placeholders.
type Query struct {
	Where    string
	Args     []any
	OrderBy  string
	Page     int
	PageSize int
}

func (q Query) Limit() int  { return q.PageSize }
func (q Query) Offset() int { return (q.Page - 1) * q.PageSize }

// CheckPage reports ErrInvalidPage when the page starts past the last row.
// The first page is always valid, even for an empty list.
func (q Query) CheckPage(count int) error {
	if q.Page > 1 && q.Offset() >= count {
		return model.ErrInvalidPage
	}
	return nil
}

// ParseParams reads page, page_size, search and ordering. A page that is not
// a positive integer is an ErrInvalidPage; a bad page_size falls back to the
// default.
func ParseParams(values url.Values) (Params, error) {
	p := Params{Page: 1, Values: values}

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return p, model.ErrInvalidPage
		}
		p.Page = page
	}

	if raw := values.Get("page_size"); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil && size > 0 {
			p.PageSize = size
		}
	}

	p.Search = strings.TrimSpace(values.Get("search"))

	if raw := values.Get("ordering"); raw != "" {
		for _, field := range strings.Split(raw, ",") {
			if field = strings.TrimSpace(field); field != "" {
				p.Ordering = append(p.Ordering, field)
			}
		}
	}

	return p, nil
}

// Build combines the scope conditions with the filters and search of p.
func (s Definition) Build(p Params, scope ...Cond) (Query, error) {
	var (
		clauses []string
		args    []any
	)

	for _, c := range scope {
		clauses = append(clauses, c.SQL)
		args = append(args, c.Args...)
	}

	verr := model.ValidationError{}
	for _, f := range s.Filters {
		raw := p.Values.Get(f.Param)
		if raw == "" {
			continue
		}
		arg, err := f.bind(raw)
		if err != nil {
			verr.Add(f.Param, err.Error())
			continue
		}
		clauses = append(clauses, f.Cond)
		args = append(args, arg)
	}
	if verr.HasErrors() {
		return Query{}, verr
	}

	// Every search term has to match at least one search field.
	if p.Search != "" && len(s.Search) > 0 {
		for _, term := range strings.Fields(p.Search) {
			pattern := "%" + escapeLike(term) + "%"
			alts := make([]string, len(s.Search))
			for i, cond := range s.Search {
				alts[i] = cond
				args = append(args, pattern)
			}
			clauses = append(clauses, "("+strings.Join(alts, " OR ")+")")
		}
	}

	where := "TRUE"
	if len(clauses) > 0 {
		where = strings.Join(clauses, " AND ")
	}

	return Query{
		Where:    where,
		Args:     args,
		OrderBy:  s.orderBy(p.Ordering),
		Page:     max(p.Page, 1),
		PageSize: s.pageSize(p.PageSize),
	}, nil
}

func (s Definition) pageSize(requested int) int {
	if requested <= 0 {
		return s.PageSize
	}
	if s.MaxPageSize > 0 && requested > s.MaxPageSize {
		return s.MaxPageSize
	}
	return requested
}

// orderBy keeps only declared fields; unknown ones are ignored.
func (s Definition) orderBy(requested []string) string {
	terms := s.orderTerms(requested)
	if len(terms) == 0 {
		terms = s.orderTerms(s.DefaultOrdering)
	}
	if s.TieBreaker != "" {
		terms = append(terms, s.TieBreaker)
	}
	return strings.Join(terms, ", ")
}

func (s Definition) orderTerms(fields []string) []string {
	var terms []string
	for _, field := range fields {
		dir := "ASC"
		if strings.HasPrefix(field, "-") {
			dir = "DESC"
			field = field[1:]
		}
		col, ok := s.Ordering[field]
		if !ok {
			continue
		}
		terms = append(terms, col+" "+dir)
	}
	return terms
}

func (f Filter) bind(raw string) (any, error) {
	switch f.Kind {
	case Contains:
		return "%" + escapeLike(raw) + "%", nil
	case Int:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.New("Enter a number.")
		}
		return n, nil
	case Time:
		t, err := parseTime(raw)
		if err != nil {
			return nil, errors.New("Enter a valid date/time.")
		}
		return t, nil
	default:
		return raw, nil
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseTime(raw string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", raw)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

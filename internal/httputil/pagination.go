package httputil

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Paginated is the envelope of every list response.
type Paginated[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewPaginated builds the envelope with absolute next/previous links derived
// from the request URL. baseURL overrides the scheme and host when set.
func NewPaginated[T any](r *http.Request, baseURL string, results []T, count, page, pageSize int) Paginated[T] {
	if results == nil {
		results = []T{}
	}
	p := Paginated[T]{Count: count, Results: results}

	if pageSize > 0 && page*pageSize < count {
		next := pageURL(r, baseURL, page+1)
		p.Next = &next
	}
	if page > 1 {
		prev := pageURL(r, baseURL, page-1)
		p.Previous = &prev
	}
	return p
}

func pageURL(r *http.Request, baseURL string, page int) string {
	u := absoluteURL(r, baseURL)
	q := u.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func absoluteURL(r *http.Request, baseURL string) *url.URL {
	u := *r.URL
	if base, err := url.Parse(strings.TrimSuffix(baseURL, "/")); baseURL != "" && err == nil {
		u.Scheme = base.Scheme
		u.Host = base.Host
		return &u
	}

	u.Scheme = "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		u.Scheme = "https"
	}
	u.Host = r.Host
	return &u
}

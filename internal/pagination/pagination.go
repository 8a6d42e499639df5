// Package pagination implements the offset pagination used by every list
// endpoint: "page" selects the page, "limit" the page size, and responses are
// wrapped in a {count, next, previous, results} envelope.
package pagination

import (
	"net/url"
	"strconv"

	"gorm.io/gorm"
)

const (
	// DefaultLimit matches the page size of the original API.
	DefaultLimit = 6
	// MaxLimit caps caller-supplied page sizes.
	MaxLimit = 100
)

// Params is a parsed page/limit pair, always normalized to valid values.
type Params struct {
	Page  int
	Limit int
}

// NewParams parses raw query values, falling back to sane defaults on
// anything missing or malformed.
func NewParams(page, limit string) Params {
	p := Params{Page: 1, Limit: DefaultLimit}
	if n, err := strconv.Atoi(page); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(limit); err == nil && n > 0 {
		if n > MaxLimit {
			n = MaxLimit
		}
		p.Limit = n
	}
	return p
}

// Offset returns the row offset for this page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Scope returns a GORM scope applying this page's limit and offset.
func (p Params) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.Limit)
	}
}

// Response is the list envelope returned by paginated endpoints.
type Response struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// NewResponse builds the envelope, deriving next/previous links from the
// request URL. Links are nil at the respective ends of the sequence.
func NewResponse(requestURL *url.URL, p Params, count int64, results interface{}) Response {
	resp := Response{Count: count, Results: results}

	if int64(p.Offset()+p.Limit) < count {
		next := pageURL(requestURL, p.Page+1)
		resp.Next = &next
	}
	if p.Page > 1 {
		prev := pageURL(requestURL, p.Page-1)
		resp.Previous = &prev
	}
	return resp
}

func pageURL(base *url.URL, page int) string {
	u := *base
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

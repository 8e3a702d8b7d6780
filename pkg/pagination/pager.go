// Package pagination provides lazy iterators over paginated collection
// endpoints, for both page-number and opaque-cursor schemes, plus the
// Link header parser that carries pagination metadata.
package pagination

import (
	"context"
	"encoding/json"
)

// maxPerPage is the API's cap on the per_page parameter.
const maxPerPage = 100

// defaultPerPage matches the API default.
const defaultPerPage = 30

// PageFunc fetches one page. Implementations must treat a response that
// is not a collection as end-of-data and return (nil, nil) rather than
// an error.
type PageFunc func(ctx context.Context, page, perPage int) ([]json.RawMessage, error)

// PagerOptions bounds a page-number iteration.
type PagerOptions struct {
	// StartPage is the first page to request (default 1).
	StartPage int

	// PerPage is the page size, capped at 100 (default 30).
	PerPage int

	// MaxPages bounds how many pages are fetched; 0 means unbounded.
	MaxPages int
}

// Pager lazily iterates a page-number paginated endpoint. It is not
// restartable mid-stream; call the paginated operation again for a fresh
// sequence. The only state between steps is the next page number.
type Pager struct {
	fetch    PageFunc
	page     int
	perPage  int
	maxPages int

	fetched  int
	buf      []json.RawMessage
	idx      int
	lastPage bool
	done     bool
}

// NewPager creates a pager over fetch.
func NewPager(fetch PageFunc, opts PagerOptions) *Pager {
	page := opts.StartPage
	if page < 1 {
		page = 1
	}
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return &Pager{
		fetch:    fetch,
		page:     page,
		perPage:  perPage,
		maxPages: opts.MaxPages,
	}
}

// Next yields the next item. ok is false once the sequence is exhausted.
// A short page ends the sequence after its items; an empty page or a
// non-collection response ends it immediately.
func (p *Pager) Next(ctx context.Context) (item json.RawMessage, ok bool, err error) {
	for {
		if p.idx < len(p.buf) {
			item = p.buf[p.idx]
			p.idx++
			return item, true, nil
		}
		if p.done || p.lastPage {
			p.done = true
			return nil, false, nil
		}
		if p.maxPages > 0 && p.fetched >= p.maxPages {
			p.done = true
			return nil, false, nil
		}

		items, err := p.fetch(ctx, p.page, p.perPage)
		if err != nil {
			return nil, false, err
		}
		p.fetched++
		p.page++
		if len(items) == 0 {
			p.done = true
			return nil, false, nil
		}
		if len(items) < p.perPage {
			p.lastPage = true
		}
		p.buf = items
		p.idx = 0
	}
}

// All drains the pager into a slice.
func (p *Pager) All(ctx context.Context) ([]json.RawMessage, error) {
	var out []json.RawMessage
	for {
		item, ok, err := p.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, item)
	}
}

// Pages returns how many pages have been fetched so far.
func (p *Pager) Pages() int {
	return p.fetched
}

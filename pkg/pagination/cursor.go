package pagination

import (
	"context"
	"encoding/json"
)

// CursorFunc fetches one step of a cursor-paginated endpoint. It returns
// the step's items and the continuation cursor; an empty cursor means the
// sequence ends after these items.
type CursorFunc func(ctx context.Context, cursor string) (items []json.RawMessage, next string, err error)

// CursorOptions bounds a cursor iteration.
type CursorOptions struct {
	// StartCursor resumes from a known cursor; empty starts from the
	// beginning.
	StartCursor string

	// MaxPages bounds how many steps are fetched; 0 means unbounded.
	MaxPages int
}

// CursorPager lazily iterates an opaque-cursor paginated endpoint. The
// only state between steps is the current cursor.
type CursorPager struct {
	fetch    CursorFunc
	cursor   string
	maxPages int

	fetched  int
	buf      []json.RawMessage
	idx      int
	lastStep bool
	done     bool
}

// NewCursorPager creates a cursor pager over fetch.
func NewCursorPager(fetch CursorFunc, opts CursorOptions) *CursorPager {
	return &CursorPager{
		fetch:    fetch,
		cursor:   opts.StartCursor,
		maxPages: opts.MaxPages,
	}
}

// Next yields the next item. The sequence ends when a step returns no
// items or no continuation cursor.
func (p *CursorPager) Next(ctx context.Context) (item json.RawMessage, ok bool, err error) {
	for {
		if p.idx < len(p.buf) {
			item = p.buf[p.idx]
			p.idx++
			return item, true, nil
		}
		if p.done || p.lastStep {
			p.done = true
			return nil, false, nil
		}
		if p.maxPages > 0 && p.fetched >= p.maxPages {
			p.done = true
			return nil, false, nil
		}

		items, next, err := p.fetch(ctx, p.cursor)
		if err != nil {
			return nil, false, err
		}
		p.fetched++
		p.cursor = next
		if len(items) == 0 {
			p.done = true
			return nil, false, nil
		}
		if next == "" {
			p.lastStep = true
		}
		p.buf = items
		p.idx = 0
	}
}

// All drains the pager into a slice.
func (p *CursorPager) All(ctx context.Context) ([]json.RawMessage, error) {
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

// Pages returns how many steps have been fetched so far.
func (p *CursorPager) Pages() int {
	return p.fetched
}

package github

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/forgekit/ghclient/pkg/client"
	"github.com/forgekit/ghclient/pkg/pagination"
)

// SearchService operates on the search endpoints. These are rate limited
// on their own quota bucket, which the client routes automatically by
// path prefix.
type SearchService struct {
	client *client.Client
}

// SearchOptions bounds a search.
type SearchOptions struct {
	// Sort and Order shape the result ordering (endpoint-specific).
	Sort  string
	Order string

	// Page, PerPage, and MaxPages bound the iteration.
	Page     int
	PerPage  int
	MaxPages int
}

// searchBody is the wire shape of a search response: an object wrapping
// the collection, unlike the plain arrays of list endpoints.
type searchBody struct {
	TotalCount int               `json:"total_count"`
	Incomplete bool              `json:"incomplete_results"`
	Items      []json.RawMessage `json:"items"`
}

// searchPager pages through a search endpoint, unwrapping the items field.
func (s *SearchService) searchPager(path, query string, opt SearchOptions) *pagination.Pager {
	fetch := func(ctx context.Context, page, perPage int) ([]json.RawMessage, error) {
		req := client.NewRequest(http.MethodGet, path).
			SetQuery("q", query).
			SetQueryInt("page", page).
			SetQueryInt("per_page", perPage)
		if opt.Sort != "" {
			req.SetQuery("sort", opt.Sort)
		}
		if opt.Order != "" {
			req.SetQuery("order", opt.Order)
		}
		resp, err := s.client.Do(ctx, req)
		if err != nil {
			return nil, err
		}
		var body searchBody
		if err := resp.JSON(&body); err != nil {
			return nil, nil
		}
		return body.Items, nil
	}
	return pagination.NewPager(fetch, pagination.PagerOptions{
		StartPage: opt.Page,
		PerPage:   opt.PerPage,
		MaxPages:  opt.MaxPages,
	})
}

// Repositories searches repositories matching query.
func (s *SearchService) Repositories(ctx context.Context, query string, opt SearchOptions) ([]Repository, error) {
	return collect[Repository](ctx, s.searchPager("/search/repositories", query, opt))
}

// Issues searches issues and pull requests matching query.
func (s *SearchService) Issues(ctx context.Context, query string, opt SearchOptions) ([]Issue, error) {
	return collect[Issue](ctx, s.searchPager("/search/issues", query, opt))
}

// Users searches users matching query.
func (s *SearchService) Users(ctx context.Context, query string, opt SearchOptions) ([]User, error) {
	return collect[User](ctx, s.searchPager("/search/users", query, opt))
}

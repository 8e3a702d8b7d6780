package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/forgekit/ghclient/pkg/client"
	"github.com/forgekit/ghclient/pkg/pagination"
)

// PullRequestsService operates on pull request resources.
type PullRequestsService struct {
	client *client.Client
}

// PullRequestListOptions filters a pull request listing.
type PullRequestListOptions struct {
	// State filters by "open", "closed", or "all".
	State string

	// Base filters by base branch name.
	Base string

	// Sort orders by "created", "updated", "popularity", or "long-running".
	Sort string

	// Page, PerPage, and MaxPages bound the iteration.
	Page     int
	PerPage  int
	MaxPages int
}

// ListPager returns a lazy iterator over the repository's pull requests.
func (s *PullRequestsService) ListPager(owner, repo string, opt PullRequestListOptions) *pagination.Pager {
	fetch := func(ctx context.Context, page, perPage int) ([]json.RawMessage, error) {
		req := client.NewRequest(http.MethodGet, fmt.Sprintf("/repos/%s/%s/pulls", owner, repo)).
			SetQueryInt("page", page).
			SetQueryInt("per_page", perPage)
		if opt.State != "" {
			req.SetQuery("state", opt.State)
		}
		if opt.Base != "" {
			req.SetQuery("base", opt.Base)
		}
		if opt.Sort != "" {
			req.SetQuery("sort", opt.Sort)
		}
		return listPage(ctx, s.client, req)
	}
	return pagination.NewPager(fetch, pagination.PagerOptions{
		StartPage: opt.Page,
		PerPage:   opt.PerPage,
		MaxPages:  opt.MaxPages,
	})
}

// List fetches all pull requests matching opt.
func (s *PullRequestsService) List(ctx context.Context, owner, repo string, opt PullRequestListOptions) ([]PullRequest, error) {
	return collect[PullRequest](ctx, s.ListPager(owner, repo, opt))
}

// Get fetches a single pull request by number.
func (s *PullRequestsService) Get(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	req := client.NewRequest(http.MethodGet, fmt.Sprintf("/repos/%s/%s/pulls/%d", owner, repo, number))
	var pr PullRequest
	if err := getJSON(ctx, s.client, req, &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

// Create opens a new pull request.
func (s *PullRequestsService) Create(ctx context.Context, owner, repo string, in NewPullRequest) (*PullRequest, error) {
	req := client.NewRequest(http.MethodPost, fmt.Sprintf("/repos/%s/%s/pulls", owner, repo))
	req.Body = in
	var pr PullRequest
	if err := getJSON(ctx, s.client, req, &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

// Merge merges a pull request.
func (s *PullRequestsService) Merge(ctx context.Context, owner, repo string, number int, opt MergeOptions) (*MergeResult, error) {
	req := client.NewRequest(http.MethodPut, fmt.Sprintf("/repos/%s/%s/pulls/%d/merge", owner, repo, number))
	req.Body = opt
	var result MergeResult
	if err := getJSON(ctx, s.client, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListFiles fetches the changed files of a pull request.
func (s *PullRequestsService) ListFiles(ctx context.Context, owner, repo string, number int, maxPages int) ([]PullRequestFile, error) {
	fetch := func(ctx context.Context, page, perPage int) ([]json.RawMessage, error) {
		req := client.NewRequest(http.MethodGet, fmt.Sprintf("/repos/%s/%s/pulls/%d/files", owner, repo, number)).
			SetQueryInt("page", page).
			SetQueryInt("per_page", perPage)
		return listPage(ctx, s.client, req)
	}
	p := pagination.NewPager(fetch, pagination.PagerOptions{PerPage: 100, MaxPages: maxPages})
	return collect[PullRequestFile](ctx, p)
}

package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/forgekit/ghclient/pkg/client"
	"github.com/forgekit/ghclient/pkg/pagination"
)

// RepositoriesService operates on repository resources.
type RepositoriesService struct {
	client *client.Client
}

// RepositoryListOptions filters a repository listing.
type RepositoryListOptions struct {
	// Type filters by "all", "owner", "member", etc.
	Type string

	// Sort orders by "created", "updated", "pushed", or "full_name".
	Sort string

	// Page, PerPage, and MaxPages bound the iteration.
	Page     int
	PerPage  int
	MaxPages int
}

// listPager pages through a repository listing endpoint.
func (s *RepositoriesService) listPager(path string, opt RepositoryListOptions) *pagination.Pager {
	fetch := func(ctx context.Context, page, perPage int) ([]json.RawMessage, error) {
		req := client.NewRequest(http.MethodGet, path).
			SetQueryInt("page", page).
			SetQueryInt("per_page", perPage)
		if opt.Type != "" {
			req.SetQuery("type", opt.Type)
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

// ListPager returns a lazy iterator over a user's repositories.
func (s *RepositoriesService) ListPager(user string, opt RepositoryListOptions) *pagination.Pager {
	path := "/user/repos"
	if user != "" {
		path = fmt.Sprintf("/users/%s/repos", user)
	}
	return s.listPager(path, opt)
}

// List fetches repositories for user, or for the authenticated user when
// user is empty.
func (s *RepositoriesService) List(ctx context.Context, user string, opt RepositoryListOptions) ([]Repository, error) {
	return collect[Repository](ctx, s.ListPager(user, opt))
}

// ListByOrgPager returns a lazy iterator over an organization's
// repositories.
func (s *RepositoriesService) ListByOrgPager(org string, opt RepositoryListOptions) *pagination.Pager {
	return s.listPager(fmt.Sprintf("/orgs/%s/repos", org), opt)
}

// ListByOrg fetches repositories belonging to an organization.
func (s *RepositoriesService) ListByOrg(ctx context.Context, org string, opt RepositoryListOptions) ([]Repository, error) {
	return collect[Repository](ctx, s.ListByOrgPager(org, opt))
}

// Get fetches a single repository.
func (s *RepositoriesService) Get(ctx context.Context, owner, repo string) (*Repository, error) {
	req := client.NewRequest(http.MethodGet, fmt.Sprintf("/repos/%s/%s", owner, repo))
	var r Repository
	if err := getJSON(ctx, s.client, req, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Create creates a repository for the authenticated user.
func (s *RepositoriesService) Create(ctx context.Context, in NewRepository) (*Repository, error) {
	req := client.NewRequest(http.MethodPost, "/user/repos")
	req.Body = in
	var r Repository
	if err := getJSON(ctx, s.client, req, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Delete deletes a repository.
func (s *RepositoriesService) Delete(ctx context.Context, owner, repo string) error {
	req := client.NewRequest(http.MethodDelete, fmt.Sprintf("/repos/%s/%s", owner, repo))
	_, err := s.client.Do(ctx, req)
	return err
}

// ListTopics fetches the repository's topics.
func (s *RepositoriesService) ListTopics(ctx context.Context, owner, repo string) ([]string, error) {
	req := client.NewRequest(http.MethodGet, fmt.Sprintf("/repos/%s/%s/topics", owner, repo))
	var body struct {
		Names []string `json:"names"`
	}
	if err := getJSON(ctx, s.client, req, &body); err != nil {
		return nil, err
	}
	return body.Names, nil
}

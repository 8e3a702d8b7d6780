// Package github provides typed services over the REST API's pull
// request, repository, user, and search resources. All services share one
// client pipeline and therefore one set of rate limit clocks.
package github

import (
	"context"
	"encoding/json"

	"github.com/forgekit/ghclient/pkg/client"
	"github.com/forgekit/ghclient/pkg/pagination"
)

// API bundles the resource services around a shared client.
type API struct {
	PullRequests *PullRequestsService
	Repositories *RepositoriesService
	Users        *UsersService
	Search       *SearchService
}

// New creates the service bundle.
func New(c *client.Client) *API {
	return &API{
		PullRequests: &PullRequestsService{client: c},
		Repositories: &RepositoriesService{client: c},
		Users:        &UsersService{client: c},
		Search:       &SearchService{client: c},
	}
}

// listPage issues one collection GET and decodes it as a JSON array.
// Responses that are not arrays signal end-of-data, not an error.
func listPage(ctx context.Context, c *client.Client, req *client.Request) ([]json.RawMessage, error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	var items []json.RawMessage
	if err := resp.JSON(&items); err != nil {
		return nil, nil
	}
	return items, nil
}

// collect drains a pager, decoding every item into T.
func collect[T any](ctx context.Context, p *pagination.Pager) ([]T, error) {
	out := []T{}
	for {
		raw, ok, err := p.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

// getJSON issues a GET and decodes the response into v.
func getJSON(ctx context.Context, c *client.Client, req *client.Request, v any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	return resp.JSON(v)
}

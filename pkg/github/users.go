package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/forgekit/ghclient/pkg/client"
	"github.com/forgekit/ghclient/pkg/pagination"
)

// UsersService operates on user resources.
type UsersService struct {
	client *client.Client
}

// Get fetches a user by login.
func (s *UsersService) Get(ctx context.Context, login string) (*User, error) {
	req := client.NewRequest(http.MethodGet, fmt.Sprintf("/users/%s", login))
	var u User
	if err := getJSON(ctx, s.client, req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Me fetches the authenticated user.
func (s *UsersService) Me(ctx context.Context) (*User, error) {
	req := client.NewRequest(http.MethodGet, "/user")
	var u User
	if err := getJSON(ctx, s.client, req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListFollowers fetches a user's followers.
func (s *UsersService) ListFollowers(ctx context.Context, login string, maxPages int) ([]User, error) {
	fetch := func(ctx context.Context, page, perPage int) ([]json.RawMessage, error) {
		req := client.NewRequest(http.MethodGet, fmt.Sprintf("/users/%s/followers", login)).
			SetQueryInt("page", page).
			SetQueryInt("per_page", perPage)
		return listPage(ctx, s.client, req)
	}
	p := pagination.NewPager(fetch, pagination.PagerOptions{PerPage: 100, MaxPages: maxPages})
	return collect[User](ctx, p)
}

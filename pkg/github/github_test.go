package github

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/forgekit/ghclient/internal/testutil"
	"github.com/forgekit/ghclient/pkg/client"
)

// newTestAPI builds a service bundle against the mock.
func newTestAPI(t *testing.T, mock *testutil.MockAPI) *API {
	t.Helper()
	cfg := client.DefaultConfig(nil)
	cfg.BaseURL = mock.URL()
	cfg.Retry = client.RetryPolicy{
		MaxAttempts: 2,
		BaseBackoff: 10 * time.Millisecond,
		MaxBackoff:  50 * time.Millisecond,
	}
	c, err := client.New(cfg)
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}
	return New(c)
}

func TestPullRequests_List(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetResponse("/repos/octocat/hello/pulls", testutil.NewOKResponse(
		`[{"number": 1, "state": "open", "title": "First"}, {"number": 2, "state": "open", "title": "Second"}]`))

	api := newTestAPI(t, mock)
	pulls, err := api.PullRequests.List(context.Background(), "octocat", "hello", PullRequestListOptions{State: "open"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(pulls) != 2 {
		t.Fatalf("len(pulls) = %d, want 2", len(pulls))
	}
	if pulls[0].Number != 1 || pulls[0].Title != "First" {
		t.Errorf("pulls[0] = %+v", pulls[0])
	}
}

func TestPullRequests_ListPaginates(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetPaginated("/repos/octocat/hello/pulls", testutil.NewItems(237))

	api := newTestAPI(t, mock)
	pulls, err := api.PullRequests.List(context.Background(), "octocat", "hello", PullRequestListOptions{PerPage: 100})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(pulls) != 237 {
		t.Errorf("len(pulls) = %d, want 237", len(pulls))
	}
	if mock.GetRequestCount() != 3 {
		t.Errorf("request count = %d, want 3", mock.GetRequestCount())
	}
}

func TestPullRequests_Get(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetResponse("/repos/octocat/hello/pulls/42", testutil.NewOKResponse(
		`{"number": 42, "state": "open", "title": "Add feature", "draft": true}`))

	api := newTestAPI(t, mock)
	pr, err := api.PullRequests.Get(context.Background(), "octocat", "hello", 42)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if pr.Number != 42 || !pr.Draft {
		t.Errorf("pr = %+v", pr)
	}
}

func TestPullRequests_Create(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetHandler("/repos/octocat/hello/pulls", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"number": 7, "state": "open", "title": "New PR"}`))
	})

	api := newTestAPI(t, mock)
	pr, err := api.PullRequests.Create(context.Background(), "octocat", "hello", NewPullRequest{
		Title: "New PR",
		Head:  "feature",
		Base:  "main",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if pr.Number != 7 {
		t.Errorf("Number = %d, want 7", pr.Number)
	}
}

func TestPullRequests_CreateValidationError(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetResponse("/repos/octocat/hello/pulls", testutil.NewValidationErrorResponse())

	api := newTestAPI(t, mock)
	_, err := api.PullRequests.Create(context.Background(), "octocat", "hello", NewPullRequest{})

	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *client.APIError", err)
	}
	if apiErr.Kind != client.KindValidation {
		t.Errorf("Kind = %q, want validation", apiErr.Kind)
	}
	msgs := apiErr.ValidationMessages()
	if len(msgs) != 1 || msgs[0] != "title: required" {
		t.Errorf("ValidationMessages() = %v", msgs)
	}
}

func TestPullRequests_Merge(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetHandler("/repos/octocat/hello/pulls/42/merge", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"sha": "abc123", "merged": true, "message": "Pull Request successfully merged"}`))
	})

	api := newTestAPI(t, mock)
	result, err := api.PullRequests.Merge(context.Background(), "octocat", "hello", 42, MergeOptions{MergeMethod: "squash"})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if !result.Merged || result.SHA != "abc123" {
		t.Errorf("result = %+v", result)
	}
}

func TestPullRequests_MergeConflict(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetResponse("/repos/octocat/hello/pulls/42/merge", testutil.MockResponse{
		StatusCode: http.StatusConflict,
		Body:       `{"message": "Merge conflict"}`,
	})

	api := newTestAPI(t, mock)
	_, err := api.PullRequests.Merge(context.Background(), "octocat", "hello", 42, MergeOptions{})

	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != client.KindConflict {
		t.Errorf("error = %v, want conflict APIError", err)
	}
}

func TestRepositories_ListRoutesPath(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetResponse("/user/repos", testutil.NewOKResponse(`[{"name": "mine"}]`))
	mock.SetResponse("/users/octocat/repos", testutil.NewOKResponse(`[{"name": "theirs"}]`))

	api := newTestAPI(t, mock)

	mine, err := api.Repositories.List(context.Background(), "", RepositoryListOptions{})
	if err != nil {
		t.Fatalf("List(me): %v", err)
	}
	if len(mine) != 1 || mine[0].Name != "mine" {
		t.Errorf("List(me) = %+v", mine)
	}

	theirs, err := api.Repositories.List(context.Background(), "octocat", RepositoryListOptions{})
	if err != nil {
		t.Fatalf("List(octocat): %v", err)
	}
	if len(theirs) != 1 || theirs[0].Name != "theirs" {
		t.Errorf("List(octocat) = %+v", theirs)
	}
}

func TestRepositories_ListByOrg(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetResponse("/orgs/forgekit/repos", testutil.NewOKResponse(`[{"name": "sdk", "full_name": "forgekit/sdk"}]`))

	api := newTestAPI(t, mock)
	repos, err := api.Repositories.ListByOrg(context.Background(), "forgekit", RepositoryListOptions{})
	if err != nil {
		t.Fatalf("ListByOrg: %v", err)
	}
	if len(repos) != 1 || repos[0].FullName != "forgekit/sdk" {
		t.Errorf("ListByOrg = %+v", repos)
	}
}

func TestRepositories_ListByOrgPaginates(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetPaginated("/orgs/forgekit/repos", testutil.NewItems(150))

	api := newTestAPI(t, mock)
	repos, err := api.Repositories.ListByOrg(context.Background(), "forgekit", RepositoryListOptions{PerPage: 100})
	if err != nil {
		t.Fatalf("ListByOrg: %v", err)
	}
	if len(repos) != 150 {
		t.Errorf("len(repos) = %d, want 150", len(repos))
	}
	if mock.GetRequestCount() != 2 {
		t.Errorf("request count = %d, want 2", mock.GetRequestCount())
	}
}

func TestRepositories_Get(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetResponse("/repos/octocat/hello", testutil.NewOKResponse(
		`{"name": "hello", "full_name": "octocat/hello", "stargazers_count": 99, "default_branch": "main"}`))

	api := newTestAPI(t, mock)
	r, err := api.Repositories.Get(context.Background(), "octocat", "hello")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if r.FullName != "octocat/hello" || r.Stargazers != 99 {
		t.Errorf("repo = %+v", r)
	}
}

func TestRepositories_GetNotFound(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetResponse("/repos/octocat/missing", testutil.MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{"message": "Not Found"}`,
	})

	api := newTestAPI(t, mock)
	_, err := api.Repositories.Get(context.Background(), "octocat", "missing")

	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != client.KindNotFound {
		t.Errorf("error = %v, want not_found APIError", err)
	}
}

func TestRepositories_Delete(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetResponse("/repos/octocat/hello", testutil.MockResponse{StatusCode: http.StatusNoContent})

	api := newTestAPI(t, mock)
	if err := api.Repositories.Delete(context.Background(), "octocat", "hello"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestRepositories_ListTopics(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetResponse("/repos/octocat/hello/topics", testutil.NewOKResponse(`{"names": ["go", "sdk"]}`))

	api := newTestAPI(t, mock)
	topics, err := api.Repositories.ListTopics(context.Background(), "octocat", "hello")
	if err != nil {
		t.Fatalf("ListTopics: %v", err)
	}
	if len(topics) != 2 || topics[0] != "go" {
		t.Errorf("topics = %v", topics)
	}
}

func TestUsers_Get(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetResponse("/users/octocat", testutil.NewOKResponse(
		`{"login": "octocat", "name": "The Octocat", "followers": 1000}`))

	api := newTestAPI(t, mock)
	u, err := api.Users.Get(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if u.Login != "octocat" || u.Followers != 1000 {
		t.Errorf("user = %+v", u)
	}
}

func TestUsers_ListFollowers(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetPaginated("/users/octocat/followers", testutil.NewItems(150))

	api := newTestAPI(t, mock)
	followers, err := api.Users.ListFollowers(context.Background(), "octocat", 0)
	if err != nil {
		t.Fatalf("ListFollowers: %v", err)
	}
	if len(followers) != 150 {
		t.Errorf("len(followers) = %d, want 150", len(followers))
	}
}

func TestSearch_Repositories(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetHandler("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
		if q := r.URL.Query().Get("q"); q != "language:go" {
			t.Errorf("q = %q, want language:go", q)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"total_count": 2, "incomplete_results": false, "items": [{"name": "one"}, {"name": "two"}]}`))
	})

	api := newTestAPI(t, mock)
	repos, err := api.Search.Repositories(context.Background(), "language:go", SearchOptions{MaxPages: 1})
	if err != nil {
		t.Fatalf("Repositories: %v", err)
	}
	if len(repos) != 2 {
		t.Errorf("len(repos) = %d, want 2", len(repos))
	}
}

func TestSearch_Issues(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetHandler("/search/issues", func(w http.ResponseWriter, r *http.Request) {
		if q := r.URL.Query().Get("q"); q != "repo:forgekit/sdk is:open" {
			t.Errorf("q = %q, want repo:forgekit/sdk is:open", q)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"total_count": 2, "incomplete_results": false, "items": [` +
			`{"number": 12, "state": "open", "title": "Flaky retry"}, ` +
			`{"number": 15, "state": "open", "title": "Pager off by one"}]}`))
	})

	api := newTestAPI(t, mock)
	issues, err := api.Search.Issues(context.Background(), "repo:forgekit/sdk is:open", SearchOptions{MaxPages: 1})
	if err != nil {
		t.Fatalf("Issues: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("len(issues) = %d, want 2", len(issues))
	}
	if issues[0].Number != 12 || issues[0].Title != "Flaky retry" {
		t.Errorf("issues[0] = %+v", issues[0])
	}
}

func TestSearch_NonObjectBodyEndsIteration(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetResponse("/search/users", testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       `"unexpected"`,
	})

	api := newTestAPI(t, mock)
	users, err := api.Search.Users(context.Background(), "octo", SearchOptions{})
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("len(users) = %d, want 0", len(users))
	}
}

func TestListPage_NonArrayBodyEndsIteration(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetResponse("/repos/octocat/hello/pulls", testutil.NewOKResponse(`{"message": "unexpected object"}`))

	api := newTestAPI(t, mock)
	pulls, err := api.PullRequests.List(context.Background(), "octocat", "hello", PullRequestListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(pulls) != 0 {
		t.Errorf("len(pulls) = %d, want 0", len(pulls))
	}
}

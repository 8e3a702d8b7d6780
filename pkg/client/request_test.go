package client

import (
	"net/http"
	"testing"
)

func TestRequestBuilders(t *testing.T) {
	req := NewRequest(http.MethodGet, "/repos/octocat/hello/pulls").
		SetQuery("state", "open").
		SetQueryInt("per_page", 50).
		SetQueryBool("draft", true).
		SetHeader("Accept", "application/vnd.github.raw")

	if got := req.Query.Get("state"); got != "open" {
		t.Errorf("state = %q, want open", got)
	}
	if got := req.Query.Get("per_page"); got != "50" {
		t.Errorf("per_page = %q, want 50", got)
	}
	if got := req.Query.Get("draft"); got != "true" {
		t.Errorf("draft = %q, want true", got)
	}
	if got := req.Header["Accept"]; got != "application/vnd.github.raw" {
		t.Errorf("Accept = %q", got)
	}
}

func TestResponseJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantID  int
		wantErr bool
	}{
		{name: "valid body", body: `{"id": 7}`, wantID: 7},
		{name: "empty body is a no-op", body: "", wantID: 0},
		{name: "malformed body errors", body: `{`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &Response{StatusCode: 200, Body: []byte(tt.body)}
			var v struct {
				ID int `json:"id"`
			}
			err := resp.JSON(&v)
			if (err != nil) != tt.wantErr {
				t.Fatalf("JSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if v.ID != tt.wantID {
				t.Errorf("ID = %d, want %d", v.ID, tt.wantID)
			}
		})
	}
}

func TestResponseLinks(t *testing.T) {
	header := http.Header{}
	header.Set("Link", `<https://api.github.com/repositories?page=2>; rel="next", <https://api.github.com/repositories?page=10>; rel="last"`)
	resp := &Response{Header: header}

	links := resp.Links()
	if links["next"] != "https://api.github.com/repositories?page=2" {
		t.Errorf("Links()[next] = %q", links["next"])
	}
	if got := resp.LastPage(); got != 10 {
		t.Errorf("LastPage() = %d, want 10", got)
	}

	bare := &Response{Header: http.Header{}}
	if got := bare.LastPage(); got != 0 {
		t.Errorf("LastPage() without Link header = %d, want 0", got)
	}
}

func TestResponseIsJSON(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		want        bool
	}{
		{name: "plain json", contentType: "application/json", want: true},
		{name: "json with charset", contentType: "application/json; charset=utf-8", want: true},
		{name: "vendored json", contentType: "application/vnd.github+json", want: true},
		{name: "html", contentType: "text/html", want: false},
		{name: "absent", contentType: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.contentType != "" {
				header.Set("Content-Type", tt.contentType)
			}
			resp := &Response{Header: header}
			if got := resp.IsJSON(); got != tt.want {
				t.Errorf("IsJSON() = %v, want %v", got, tt.want)
			}
		})
	}
}

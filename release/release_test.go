package release

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	ghApi "github.com/google/go-github/v32/github"
)

func rel(tag string, prerelease, draft bool) *ghApi.RepositoryRelease {
	return &ghApi.RepositoryRelease{
		TagName:    ghApi.String(tag),
		Prerelease: ghApi.Bool(prerelease),
		Draft:      ghApi.Bool(draft),
	}
}

func Test_findRelease(t *testing.T) {
	tests := []struct {
		name     string
		releases []*ghApi.RepositoryRelease
		want     string
	}{
		{
			name:     "newest by semver, not list order",
			releases: []*ghApi.RepositoryRelease{rel("v3.3.3", false, false), rel("v3.4.11", false, false), rel("v3.4.2", false, false)},
			want:     "v3.4.11",
		},
		{
			name:     "skips prereleases and drafts",
			releases: []*ghApi.RepositoryRelease{rel("v4.0.0-beta.1", true, false), rel("v4.0.0", false, true), rel("v3.4.11", false, false)},
			want:     "v3.4.11",
		},
		{
			name:     "skips tags that are not versions",
			releases: []*ghApi.RepositoryRelease{rel("nightly", false, false), rel("v3.0.0", false, false)},
			want:     "v3.0.0",
		},
		{
			name:     "nothing stable",
			releases: []*ghApi.RepositoryRelease{rel("v4.0.0-alpha.1", true, false)},
			want:     "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := findRelease(tt.releases).GetTagName()
			if got != tt.want {
				t.Errorf("findRelease() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClient_LatestVersion(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/tailwindlabs/tailwindcss/releases", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"tag_name":"v4.0.0-beta.2","prerelease":true},{"tag_name":"v3.4.11"},{"tag_name":"v3.4.10"}]`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	gh := ghApi.NewClient(nil)
	gh.BaseURL, _ = url.Parse(srv.URL + "/")
	c := &Client{Client: gh}

	got, err := c.LatestVersion(context.Background(), "tailwindlabs/tailwindcss")
	if err != nil {
		t.Fatal(err)
	}
	if got != "3.4.11" {
		t.Errorf("LatestVersion() = %v, want 3.4.11", got)
	}

	if _, err := c.LatestVersion(context.Background(), "not-a-repo"); err == nil {
		t.Errorf("LatestVersion() accepted an invalid repository")
	}
	if _, err := c.LatestVersion(context.Background(), "tailwindlabs/missing"); err == nil {
		t.Errorf("LatestVersion() expected an error for a 404")
	}
}

// Package release looks up published versions of the Tailwind CSS CLI.
package release

import (
	"context"
	"strings"

	"github.com/blang/semver"
	"github.com/gobuffalo/envy"
	ghApi "github.com/google/go-github/v32/github"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/twcli/twcli/log"
)

// Client wraps the GitHub releases API.
type Client struct {
	Client *ghApi.Client
}

// NewClient authenticates with GITHUB_TOKEN when it is set, which lifts the
// anonymous rate limit.
func NewClient(ctx context.Context) *Client {
	token := envy.Get("GITHUB_TOKEN", "")
	if token == "" {
		return &Client{Client: ghApi.NewClient(nil)}
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	return &Client{Client: ghApi.NewClient(oauth2.NewClient(ctx, ts))}
}

// LatestVersion returns the newest stable release of repo ("org/name")
// without its leading "v".
func (c *Client) LatestVersion(ctx context.Context, repo string) (string, error) {
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", errors.Errorf("invalid repository %q, expected org/name", repo)
	}

	log.G(ctx).Debugf("Listing releases: https://github.com/%s/releases/", repo)
	releaseList, _, err := c.Client.Repositories.ListReleases(ctx, parts[0], parts[1], &ghApi.ListOptions{PerPage: 100})
	if err != nil {
		return "", errors.Wrapf(err, "could not list releases of %s", repo)
	}

	release := findRelease(releaseList)
	if release == nil {
		return "", errors.Errorf("no stable release found for %s", repo)
	}
	return getVersion(release.GetTagName()), nil
}

func findRelease(releaseList []*ghApi.RepositoryRelease) *ghApi.RepositoryRelease {
	var release *ghApi.RepositoryRelease
	newestRelease, _ := semver.Make("0.0.0")

	for _, v := range releaseList {
		if v.GetDraft() || v.GetPrerelease() {
			continue
		}
		tagName := v.GetTagName()

		log.L.Debugf("Testing release: %s", tagName)
		releaseVersion, err := semver.Make(getVersion(tagName))
		if err != nil {
			continue
		}

		if releaseVersion.GT(newestRelease) && len(releaseVersion.Pre) == 0 {
			newestRelease = releaseVersion
			release = v
		}
	}
	return release
}

func getVersion(tagName string) string {
	return strings.TrimPrefix(tagName, "v")
}

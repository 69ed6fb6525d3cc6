package download

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/twcli/twcli/log"
	"github.com/twcli/twcli/models"
)

// ErrChecksumMismatch is returned when a downloaded file does not match the
// digest published with its release.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// ParseChecksums reads "sha  assetname" lines as written by sha256sum.
func ParseChecksums(content string) []models.Checksum {
	cs := []models.Checksum{}

	for _, line := range strings.Split(strings.TrimSuffix(content, "\n"), "\n") {
		x := strings.Fields(strings.TrimSpace(line))
		if len(x) < 2 || strings.HasPrefix(x[0], "#") {
			continue
		}
		cs = append(cs, models.Checksum{
			SHA:       strings.ToLower(x[0]),
			AssetName: strings.TrimPrefix(x[len(x)-1], "*"),
		})
	}
	return cs
}

// LookupChecksum finds the digest for assetName, ignoring any directory part
// in the checksum file.
func LookupChecksum(checksums []models.Checksum, assetName string) (string, bool) {
	for _, checksum := range checksums {
		name := checksum.AssetName
		if i := strings.LastIndex(name, "/"); i >= 0 {
			name = name[i+1:]
		}
		if name == assetName {
			return checksum.SHA, true
		}
	}
	return "", false
}

func (d *Downloader) expectedChecksum(ctx context.Context, assetName string) (string, error) {
	log.G(ctx).Debugf("Loading checksums from %s", d.ChecksumsURL)

	resp, err := d.get(ctx, d.ChecksumsURL)
	if err != nil {
		return "", errors.Wrap(err, "could not download checksums")
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errors.Wrap(err, "could not download checksums")
	}

	sha, ok := LookupChecksum(ParseChecksums(string(b)), assetName)
	if !ok {
		return "", errors.Errorf("no checksum for %s in %s", assetName, d.ChecksumsURL)
	}
	log.G(ctx).Debugf("Found sha %s for %s", sha, assetName)
	return sha, nil
}

func (d *Downloader) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.client().Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.Errorf("GET %s: %s", url, resp.Status)
	}
	return resp, nil
}

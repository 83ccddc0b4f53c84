// Package updatecheck reports when a newer rollbook release is published.
package updatecheck

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/colonyops/rollbook/internal/core/kv"
	"github.com/colonyops/rollbook/internal/core/logging"
	"golang.org/x/mod/semver"
)

const (
	cacheTTL       = 24 * time.Hour
	cacheNamespace = "update-check"
	cacheKey       = "latest"

	// ReleaseAPIURL is the GitHub endpoint for the latest rollbook release.
	ReleaseAPIURL = "https://api.github.com/repos/colonyops/rollbook/releases/latest"
)

// ReleaseInfo is the part of a GitHub release that is cached.
type ReleaseInfo struct {
	TagName     string `json:"tag_name"`
	PublishedAt string `json:"published_at"`
}

// Result is returned when a newer version is available.
type Result struct {
	Current string
	Latest  string
}

// Checker compares the running version to the latest release. Releases are
// cached in the KV store for a day.
type Checker struct {
	store  kv.KV
	url    string
	client *http.Client
}

// NewChecker creates a checker against url. An empty url uses ReleaseAPIURL.
func NewChecker(store kv.KV, url string) *Checker {
	if url == "" {
		url = ReleaseAPIURL
	}
	return &Checker{
		store:  store,
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// Check returns a non-nil Result only when an update is available. Lookup
// failures are logged and reported as "no update".
func (c *Checker) Check(ctx context.Context, currentVersion string) (*Result, error) {
	log := logging.Component("updatecheck")

	if c.store == nil || currentVersion == "" || currentVersion == "dev" {
		return nil, nil
	}

	current, ok := normalizeVersion(currentVersion)
	if !ok {
		log.Debug().Str("version", currentVersion).Msg("invalid current version")
		return nil, nil
	}

	release, err := c.latest(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("failed to get latest release")
		return nil, nil
	}

	latest, ok := normalizeVersion(release.TagName)
	if !ok {
		log.Debug().Str("tag", release.TagName).Msg("invalid release tag")
		return nil, nil
	}

	if semver.Compare(current, latest) >= 0 {
		return nil, nil
	}

	return &Result{Current: current, Latest: latest}, nil
}

func (c *Checker) latest(ctx context.Context) (ReleaseInfo, error) {
	info, _, err := kv.Scoped[ReleaseInfo](c.store, cacheNamespace).Remember(ctx, cacheKey, cacheTTL, c.fetch)
	return info, err
}

func (c *Checker) fetch(ctx context.Context) (ReleaseInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return ReleaseInfo{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "rollbook-update-checker")

	resp, err := c.client.Do(req)
	if err != nil {
		return ReleaseInfo{}, fmt.Errorf("request latest release: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return ReleaseInfo{}, fmt.Errorf("request latest release: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ReleaseInfo{}, fmt.Errorf("read latest release body: %w", err)
	}

	var info ReleaseInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return ReleaseInfo{}, fmt.Errorf("decode latest release: %w", err)
	}
	if info.TagName == "" {
		return ReleaseInfo{}, fmt.Errorf("decode latest release: missing tag_name")
	}

	return info, nil
}

func normalizeVersion(version string) (string, bool) {
	if semver.IsValid(version) {
		return version, true
	}

	withPrefix := "v" + version
	if semver.IsValid(withPrefix) {
		return withPrefix, true
	}

	return "", false
}

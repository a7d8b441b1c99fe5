// Package version holds build information and the release update check.
package version

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"
	"time"
)

// Build information, set at link time.
//
//nolint:gochecknoglobals // Populated via -ldflags
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

const (
	defaultBaseURL   = "https://api.github.com"
	requestTimeout   = 30 * time.Second
	maxReleaseBody   = 64 * 1024
	releasesEndpoint = "%s/repos/%s/%s/releases/latest"
)

// Release is the subset of a GitHub release record the update check uses.
type Release struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	Prerelease  bool      `json:"prerelease"`
	PublishedAt time.Time `json:"published_at"`
}

// Checker fetches the latest published release for an owner/repo pair.
type Checker struct {
	baseURL    string
	httpClient *http.Client
}

// CheckerOptions configures the release checker.
type CheckerOptions struct {
	// BaseURL overrides the GitHub API endpoint (useful for testing).
	BaseURL string
	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client
}

// NewChecker creates a release checker.
func NewChecker(opts *CheckerOptions) *Checker {
	c := &Checker{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
	if opts != nil {
		if opts.BaseURL != "" {
			c.baseURL = strings.TrimSuffix(opts.BaseURL, "/")
		}
		if opts.HTTPClient != nil {
			c.httpClient = opts.HTTPClient
		}
	}
	return c
}

// Latest fetches the latest published release.
func (c *Checker) Latest(ctx context.Context, owner, repo string) (*Release, error) {
	url := fmt.Sprintf(releasesEndpoint, c.baseURL, owner, repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", fmt.Sprintf("manor/%s (%s/%s)", Version, runtime.GOOS, runtime.GOARCH))
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching release: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("release lookup failed: status %d", resp.StatusCode)
	}

	var release Release
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxReleaseBody)).Decode(&release); err != nil {
		return nil, fmt.Errorf("decoding release: %w", err)
	}

	return &release, nil
}

// IsNewer reports whether latest is a newer release than current. Development
// builds ("dev", empty, or a bare commit hash) always count as older than any
// release.
func IsNewer(current, latest string) bool {
	return compare(latest, current) > 0
}

// compare orders two version strings: 1 if a > b, -1 if a < b, 0 if equal.
func compare(a, b string) int {
	aDev := isDevBuild(a)
	bDev := isDevBuild(b)
	switch {
	case aDev && bDev:
		return 0
	case aDev:
		return -1
	case bDev:
		return 1
	}

	av := parse(a)
	bv := parse(b)
	for i := 0; i < 3; i++ {
		var x, y int
		if i < len(av) {
			x = av[i]
		}
		if i < len(bv) {
			y = bv[i]
		}
		if x != y {
			if x > y {
				return 1
			}
			return -1
		}
	}
	return 0
}

// parse extracts the numeric major.minor.patch components, ignoring a
// leading "v" and any pre-release or build suffix.
func parse(version string) []int {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	if idx := strings.IndexAny(version, "-+"); idx != -1 {
		version = version[:idx]
	}

	parts := strings.Split(version, ".")
	nums := make([]int, 0, len(parts))
	for _, part := range parts {
		var n int
		if _, err := fmt.Sscanf(part, "%d", &n); err == nil {
			nums = append(nums, n)
		}
	}
	return nums
}

func isDevBuild(version string) bool {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	return version == "" || version == "dev" || isCommitHash(version)
}

// isCommitHash reports whether s looks like a 7-40 character hex commit id
// with at least one letter, which rules out plain numeric versions.
func isCommitHash(s string) bool {
	s = strings.TrimSuffix(s, "-dirty")
	if len(s) < 7 || len(s) > 40 {
		return false
	}

	hasLetter := false
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
			hasLetter = true
		default:
			return false
		}
	}
	return hasLetter
}

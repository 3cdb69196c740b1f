// Package catalog resolves package names to canonical source URLs and
// versions using the GitHub API.
//
// Two input forms are understood: an owner/repo identifier is looked up
// directly, and a bare name becomes a repository search scoped to Swift.
// Responses are cached between invocations and transient failures are
// retried with backoff.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/calebmaier/swiftadd/pkg/cache"
	"github.com/calebmaier/swiftadd/pkg/errors"
)

const (
	defaultBaseURL = "https://api.github.com"
	httpTimeout    = 10 * time.Second

	// DefaultCacheTTL is how long catalog responses stay cached.
	DefaultCacheTTL = time.Hour
)

// Package is a catalog lookup result: where a package lives and which
// version to pin.
type Package struct {
	Name        string // repository name (e.g. "swift-log")
	FullName    string // owner/repo (e.g. "apple/swift-log")
	URL         string // clone URL (https://...git)
	Version     string // latest release version, without leading v
	Description string
	Stars       int
}

// Client queries the GitHub API with caching and retries.
type Client struct {
	http    *http.Client
	backend cache.Cache
	ttl     time.Duration
	baseURL string
	token   string
}

// New creates a catalog client. A non-positive ttl falls back to
// DefaultCacheTTL. The token is optional; unauthenticated requests work
// within GitHub's anonymous rate limits.
func New(backend cache.Cache, ttl time.Duration, token string) *Client {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Client{
		http:    &http.Client{Timeout: httpTimeout},
		backend: backend,
		ttl:     ttl,
		baseURL: defaultBaseURL,
		token:   token,
	}
}

// SetBaseURL overrides the API endpoint, for GitHub Enterprise hosts
// and for tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimSuffix(u, "/")
}

// repoResponse is the subset of the repository endpoint we consume.
type repoResponse struct {
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	CloneURL    string `json:"clone_url"`
	Description string `json:"description"`
	Stars       int    `json:"stargazers_count"`
}

// searchResponse is the nested search-result structure returned for
// bare-name queries.
type searchResponse struct {
	TotalCount int            `json:"total_count"`
	Items      []repoResponse `json:"items"`
}

type releaseResponse struct {
	TagName string `json:"tag_name"`
}

type tagResponse struct {
	Name string `json:"name"`
}

// Resolve maps query to a Package. An owner/repo identifier is fetched
// directly; a bare name is searched among Swift repositories and the
// best match (by stars) wins. If refresh is true the cache is bypassed.
func (c *Client) Resolve(ctx context.Context, query string, refresh bool) (*Package, error) {
	var repo repoResponse
	var err error
	if strings.Contains(query, "/") {
		repo, err = c.fetchRepo(ctx, query, refresh)
	} else {
		repo, err = c.searchRepo(ctx, query, refresh)
	}
	if err != nil {
		return nil, err
	}

	version, err := c.latestVersion(ctx, repo.FullName, refresh)
	if err != nil {
		return nil, err
	}

	return &Package{
		Name:        repo.Name,
		FullName:    repo.FullName,
		URL:         repo.CloneURL,
		Version:     version,
		Description: repo.Description,
		Stars:       repo.Stars,
	}, nil
}

func (c *Client) fetchRepo(ctx context.Context, fullName string, refresh bool) (repoResponse, error) {
	var repo repoResponse
	err := c.cached(ctx, "repo:"+fullName, refresh, &repo, func() error {
		return c.get(ctx, fmt.Sprintf("%s/repos/%s", c.baseURL, fullName), &repo)
	})
	if errors.Is(err, errors.ErrCodePackageNotFound) {
		return repo, errors.New(errors.ErrCodePackageNotFound, "no repository named %s", fullName)
	}
	return repo, err
}

func (c *Client) searchRepo(ctx context.Context, name string, refresh bool) (repoResponse, error) {
	var result searchResponse
	q := url.QueryEscape(name + " language:swift")
	err := c.cached(ctx, "search:"+name, refresh, &result, func() error {
		return c.get(ctx, fmt.Sprintf("%s/search/repositories?q=%s&sort=stars&order=desc", c.baseURL, q), &result)
	})
	if err != nil {
		return repoResponse{}, err
	}
	if len(result.Items) == 0 {
		return repoResponse{}, errors.New(errors.ErrCodePackageNotFound, "no package found for %q", name)
	}
	return result.Items[0], nil
}

// cached retrieves v from the cache or executes fetch and caches the
// decoded result.
func (c *Client) cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	if !refresh {
		if data, hit, _ := c.backend.Get(ctx, key); hit {
			if json.Unmarshal(data, v) == nil {
				return nil
			}
		}
	}
	if err := cache.RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		_ = c.backend.Set(ctx, key, data, c.ttl)
	}
	return nil
}

// get performs an HTTP GET and JSON-decodes the response into v.
func (c *Client) get(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "swiftadd/1.0 (https://github.com/calebmaier/swiftadd)")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return cache.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "request %s", rawURL))
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		io.Copy(io.Discard, resp.Body)
		return err
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodePackageNotFound, "resource not found")
	case code >= 500:
		return cache.Retryable(errors.New(errors.ErrCodeNetwork, "server error: status %d", code))
	default:
		return errors.New(errors.ErrCodeNetwork, "unexpected status %d", code)
	}
}

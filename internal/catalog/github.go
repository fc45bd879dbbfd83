package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/alis-is/setup-eli/internal/transport"
)

const (
	// pageSize is the largest page GitHub serves for release listings.
	pageSize = 100
	// maxPages stops runaway pagination.
	maxPages = 50
)

var (
	// ErrRateLimited is returned when the GitHub API quota is exhausted.
	ErrRateLimited = errors.New("github api rate limit exceeded")

	errAPIURLRequired = errors.New("api url must be provided")
)

// RateLimitError reports an exhausted GitHub API quota.
type RateLimitError struct {
	// Reset is when the quota renews; zero when unknown.
	Reset time.Time
	Err   error
}

func (e *RateLimitError) Error() string {
	if e.Reset.IsZero() {
		return fmt.Sprintf("github api rate limit exceeded: %v", e.Err)
	}

	return fmt.Sprintf("github api rate limit exceeded until %s: %v", e.Reset.UTC().Format(time.RFC3339), e.Err)
}

func (e *RateLimitError) Unwrap() []error {
	return []error{ErrRateLimited, e.Err}
}

// Getter performs authenticated GET requests. *transport.Client implements it.
type Getter interface {
	Get(ctx context.Context, rawURL string, header http.Header) (*http.Response, error)
}

// GitHubSource lists releases through the GitHub REST API.
type GitHubSource struct {
	client     Getter
	apiURL     string
	owner      string
	repository string
}

// NewGitHubSource returns a source for owner/repository served at apiURL.
func NewGitHubSource(client Getter, apiURL, owner, repository string) (*GitHubSource, error) {
	if apiURL == "" {
		return nil, errAPIURLRequired
	}

	if _, err := url.Parse(apiURL); err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}

	return &GitHubSource{
		client:     client,
		apiURL:     apiURL,
		owner:      owner,
		repository: repository,
	}, nil
}

// ListReleases reads every page of the release listing.
func (s *GitHubSource) ListReleases(ctx context.Context) ([]RawRelease, error) {
	var all []RawRelease

	for page := 1; page <= maxPages; page++ {
		batch, err := s.listPage(ctx, page)
		if err != nil {
			return nil, err
		}

		all = append(all, batch...)

		if len(batch) < pageSize {
			break
		}
	}

	return all, nil
}

func (s *GitHubSource) listPage(ctx context.Context, page int) ([]RawRelease, error) {
	endpoint, err := url.JoinPath(s.apiURL, "repos", s.owner, s.repository, "releases")
	if err != nil {
		return nil, fmt.Errorf("build releases url: %w", err)
	}

	query := url.Values{}
	query.Set("per_page", strconv.Itoa(pageSize))
	query.Set("page", strconv.Itoa(page))

	header := http.Header{}
	header.Set("Accept", "application/vnd.github+json")
	header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := s.client.Get(ctx, endpoint+"?"+query.Encode(), header)
	if err != nil {
		return nil, classify(err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	var releases []RawRelease
	if err = json.NewDecoder(resp.Body).Decode(&releases); err != nil {
		return nil, fmt.Errorf("decode releases page %d: %w", page, err)
	}

	return releases, nil
}

// classify turns quota responses into *RateLimitError.
func classify(err error) error {
	var statusErr *transport.StatusError
	if !errors.As(err, &statusErr) {
		return err
	}

	exhausted := statusErr.StatusCode == http.StatusTooManyRequests ||
		(statusErr.StatusCode == http.StatusForbidden && statusErr.Header.Get("X-RateLimit-Remaining") == "0")
	if !exhausted {
		return err
	}

	rateErr := &RateLimitError{Err: err}

	if reset, parseErr := strconv.ParseInt(statusErr.Header.Get("X-RateLimit-Reset"), 10, 64); parseErr == nil {
		rateErr.Reset = time.Unix(reset, 0)
	}

	return rateErr
}

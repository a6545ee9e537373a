// Package github fetches public profile data for a username using two
// unauthenticated REST calls (user record + repository list). It is an
// external data source: errors propagate to the caller, there is no
// fallback profile to substitute.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultBaseURL = "https://api.github.com"

// ErrUserNotFound is the expected, first-class error for a 404 on the
// user lookup.
var ErrUserNotFound = errors.New("github user not found")

// RawProfile is the aggregated, unanalyzed view of a GitHub account.
type RawProfile struct {
	Username      string   `json:"username"`
	Name          string   `json:"name"`
	Bio           string   `json:"bio"`
	PublicRepos   int      `json:"publicRepos"`
	Languages     []string `json:"languages"` // by usage frequency, descending
	Topics        []string `json:"topics"`
	RepoSummaries []string `json:"repoSummaries"` // "name: description" for the most recent repos
}

// Client talks to the GitHub REST API without authentication.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client against the public GitHub API.
func New() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// NewWithBaseURL creates a client pointing at a custom base URL (for testing).
func NewWithBaseURL(baseURL string) *Client {
	c := New()
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

type userRecord struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	PublicRepos int    `json:"public_repos"`
}

type repoRecord struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Language    string   `json:"language"`
	Topics      []string `json:"topics"`
}

// Fetch retrieves the user record and repository list concurrently and
// aggregates languages (by frequency) and topics. A 404 on the user
// lookup yields ErrUserNotFound.
func (c *Client) Fetch(ctx context.Context, username string) (RawProfile, error) {
	if strings.TrimSpace(username) == "" {
		return RawProfile{}, fmt.Errorf("username is required")
	}

	var (
		user  userRecord
		repos []repoRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.getJSON(gctx, fmt.Sprintf("/users/%s", username), true, &user)
	})
	g.Go(func() error {
		// The repos endpoint also 404s for a missing user; the user
		// lookup is the authoritative source of ErrUserNotFound, so a
		// missing repo list is treated as empty here.
		err := c.getJSON(gctx, fmt.Sprintf("/users/%s/repos?per_page=100&sort=updated", username), false, &repos)
		if err != nil {
			var se *statusError
			if errors.As(err, &se) && se.status == http.StatusNotFound {
				repos = nil
				return nil
			}
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return RawProfile{}, err
	}

	languageCount := make(map[string]int)
	topicSet := make(map[string]struct{})
	var summaries []string
	for i, r := range repos {
		if r.Language != "" {
			languageCount[r.Language]++
		}
		for _, t := range r.Topics {
			topicSet[t] = struct{}{}
		}
		if i < 10 {
			summaries = append(summaries, r.Name+": "+r.Description)
		}
	}

	languages := make([]string, 0, len(languageCount))
	for l := range languageCount {
		languages = append(languages, l)
	}
	sort.Slice(languages, func(i, j int) bool {
		if languageCount[languages[i]] != languageCount[languages[j]] {
			return languageCount[languages[i]] > languageCount[languages[j]]
		}
		return languages[i] < languages[j]
	})

	topics := make([]string, 0, len(topicSet))
	for t := range topicSet {
		topics = append(topics, t)
	}
	sort.Strings(topics)

	name := user.Name
	if name == "" {
		name = user.Login
	}

	return RawProfile{
		Username:      username,
		Name:          name,
		Bio:           user.Bio,
		PublicRepos:   user.PublicRepos,
		Languages:     languages,
		Topics:        topics,
		RepoSummaries: summaries,
	}, nil
}

type statusError struct {
	status int
	path   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("github: unexpected status %d for %s", e.status, e.path)
}

func (c *Client) getJSON(ctx context.Context, path string, userLookup bool, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && userLookup {
		return ErrUserNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return &statusError{status: resp.StatusCode, path: path}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

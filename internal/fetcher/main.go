package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const DefaultBaseURL = "https://adventofcode.com"

type AOCFetcherConfig struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
}

type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

func New(config AOCFetcherConfig) *Client {
	c := &Client{
		baseURL:   strings.TrimSuffix(config.BaseURL, "/"),
		userAgent: config.UserAgent,
		http:      config.Client,
	}
	if len(c.baseURL) == 0 {
		c.baseURL = DefaultBaseURL
	}
	if c.http == nil {
		c.http = &http.Client{
			// an expired session gets redirected to the html leaderboard page
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	}
	return c
}

func (c *Client) leaderboardURL(year string, code string) string {
	return fmt.Sprintf("%s/%s/leaderboard/private/view/%s.json", c.baseURL, url.PathEscape(year), url.PathEscape(code))
}

// Fetch returns the raw leaderboard JSON for the request.
func (c *Client) Fetch(ctx context.Context, request Request) ([]byte, error) {
	request = request.Trimmed()
	if err := request.Validate(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.leaderboardURL(request.Year, request.LeaderboardCode),
		nil,
	)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	req.AddCookie(&http.Cookie{
		Name:  "session",
		Value: request.SessionToken,
	})
	req.Header.Set("Accept", "application/json")
	if len(c.userAgent) > 0 {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	return body, nil
}

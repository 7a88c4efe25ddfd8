// Package fetcher retrieves raw NFL transaction content for one period.
//
// The fetcher talks to the public ESPN core API with a conservative client
// identification header and a per-request timeout, retrying transient
// failures (network errors, 5xx) with exponential backoff. Client errors and
// malformed responses are not retried.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// TransactionsURL is the ESPN core API endpoint for NFL transactions.
	TransactionsURL = "https://sports.core.api.espn.com/v2/sports/football/leagues/nfl/transactions"

	UserAgent = "nfl-transactions-cli/1.0 (github.com/pfrederiksen/nfl-transactions)"
	Timeout   = 30 * time.Second

	// pageLimit caps items per fetch; one day of league transactions fits
	// comfortably under it.
	pageLimit = 100

	maxRetries = 3
)

// Fetcher fetches raw transaction content from the source API.
type Fetcher struct {
	client *http.Client
	url    string
}

// New creates a Fetcher against the default ESPN endpoint.
func New() *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: Timeout},
		url:    TransactionsURL,
	}
}

// NewWithURL creates a Fetcher against a custom endpoint, used by tests.
func NewWithURL(rawURL string) *Fetcher {
	f := New()
	f.url = rawURL
	return f
}

// Fetch retrieves the raw content for one calendar date (YYYY-MM-DD).
// Transient failures are retried up to the bound; a 4xx response surfaces
// immediately. The returned bytes are handed to the parser as-is.
func (f *Fetcher) Fetch(ctx context.Context, date string) ([]byte, error) {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries),
		ctx,
	)

	var body []byte
	operation := func() error {
		var err error
		body, err = f.fetchOnce(ctx, date)
		return err
	}

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("fetching transactions for %s: %w", date, err)
	}
	return body, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, date string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}

	q := url.Values{}
	q.Set("limit", fmt.Sprintf("%d", pageLimit))
	q.Set("dates", date)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("server error: status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, backoff.Permanent(fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}

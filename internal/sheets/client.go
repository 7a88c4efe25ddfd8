package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/oauth2/google"

	"github.com/pfrederiksen/nfl-transactions/internal/transaction"
)

const (
	apiBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"
	authScope  = "https://www.googleapis.com/auth/spreadsheets"

	// identityColumn is where ListExistingIdentities reads keys from,
	// matching the Header layout.
	identityColumn = "F"

	requestTimeout = 30 * time.Second
)

// Client implements Store against the Google Sheets v4 values API.
type Client struct {
	http          *http.Client
	baseURL       string
	spreadsheetID string
	sheetName     string

	headerChecked bool
}

// NewClient builds a Sheets client from a service account credentials file.
func NewClient(ctx context.Context, credentialsPath, spreadsheetID, sheetName string) (*Client, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}

	conf, err := google.JWTConfigFromJSON(data, authScope)
	if err != nil {
		return nil, fmt.Errorf("parsing service account credentials: %w", err)
	}

	httpClient := conf.Client(ctx)
	httpClient.Timeout = requestTimeout

	return &Client{
		http:          httpClient,
		baseURL:       apiBaseURL,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

type valueRange struct {
	Values [][]string `json:"values"`
}

type appendResponse struct {
	Updates struct {
		UpdatedRows int `json:"updatedRows"`
	} `json:"updates"`
}

// ListExistingIdentities reads the identity key column, skipping the header
// row. A worksheet that does not exist yet yields an empty set.
func (c *Client) ListExistingIdentities(ctx context.Context) (map[string]struct{}, error) {
	rangeRef := fmt.Sprintf("%s!%s2:%s", c.sheetName, identityColumn, identityColumn)

	var vr valueRange
	if err := c.getValues(ctx, rangeRef, &vr); err != nil {
		return nil, err
	}

	identities := make(map[string]struct{}, len(vr.Values))
	for _, row := range vr.Values {
		if len(row) > 0 && row[0] != "" {
			identities[row[0]] = struct{}{}
		}
	}
	return identities, nil
}

// Append writes one row per record below the existing data. The worksheet
// gets a header row on first use. Returns the row count the API reports as
// committed.
func (c *Client) Append(ctx context.Context, records []*transaction.Transaction) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	if err := c.ensureHeader(ctx); err != nil {
		return 0, err
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, Row(rec))
	}

	resp, err := c.appendValues(ctx, fmt.Sprintf("%s!A:G", c.sheetName), rows)
	if err != nil {
		return 0, err
	}
	return resp.Updates.UpdatedRows, nil
}

// ensureHeader appends the header row when the worksheet is still empty.
func (c *Client) ensureHeader(ctx context.Context) error {
	if c.headerChecked {
		return nil
	}

	var vr valueRange
	if err := c.getValues(ctx, fmt.Sprintf("%s!A1:G1", c.sheetName), &vr); err != nil {
		return err
	}

	if len(vr.Values) == 0 {
		if _, err := c.appendValues(ctx, fmt.Sprintf("%s!A1:G1", c.sheetName), [][]string{Header}); err != nil {
			return fmt.Errorf("writing header row: %w", err)
		}
	}

	c.headerChecked = true
	return nil
}

func (c *Client) getValues(ctx context.Context, rangeRef string, out *valueRange) error {
	endpoint := fmt.Sprintf("%s/%s/values/%s", c.baseURL, c.spreadsheetID, url.PathEscape(rangeRef))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("reading range %s: %w", rangeRef, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("reading range %s: status %d", rangeRef, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding range %s: %w", rangeRef, err)
	}
	return nil
}

func (c *Client) appendValues(ctx context.Context, rangeRef string, rows [][]string) (*appendResponse, error) {
	endpoint := fmt.Sprintf("%s/%s/values/%s:append?valueInputOption=USER_ENTERED&insertDataOption=INSERT_ROWS",
		c.baseURL, c.spreadsheetID, url.PathEscape(rangeRef))

	body, err := json.Marshal(valueRange{Values: rows})
	if err != nil {
		return nil, fmt.Errorf("encoding rows: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("appending rows: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("appending rows: status %d: %s", resp.StatusCode, msg)
	}

	var decoded appendResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding append response: %w", err)
	}
	return &decoded, nil
}

package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/nfl-transactions/internal/transaction"
)

func testClient(srv *httptest.Server) *Client {
	return &Client{
		http:          srv.Client(),
		baseURL:       srv.URL,
		spreadsheetID: "sheet123",
		sheetName:     "NFL_Transactions",
	}
}

func TestListExistingIdentities(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "sheet123/values/") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(valueRange{ //nolint:errcheck
			Values: [][]string{{"tx-001"}, {"tx-002"}, {""}},
		})
	}))
	defer srv.Close()

	c := testClient(srv)
	identities, err := c.ListExistingIdentities(context.Background())
	if err != nil {
		t.Fatalf("ListExistingIdentities() error = %v", err)
	}

	if len(identities) != 2 {
		t.Errorf("expected 2 identities, got %d", len(identities))
	}
	if _, ok := identities["tx-001"]; !ok {
		t.Error("missing tx-001")
	}
}

func TestListExistingIdentitiesEmptySheet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := testClient(srv)
	identities, err := c.ListExistingIdentities(context.Background())
	if err != nil {
		t.Fatalf("ListExistingIdentities() error = %v", err)
	}
	if len(identities) != 0 {
		t.Errorf("expected empty set, got %d identities", len(identities))
	}
}

func TestAppendWritesHeaderThenRows(t *testing.T) {
	var appendCalls [][][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			// Empty worksheet: no header yet.
			w.Write([]byte(`{}`)) //nolint:errcheck
			return
		}

		var vr valueRange
		json.NewDecoder(r.Body).Decode(&vr) //nolint:errcheck
		appendCalls = append(appendCalls, vr.Values)

		resp := appendResponse{}
		resp.Updates.UpdatedRows = len(vr.Values)
		json.NewEncoder(w).Encode(resp) //nolint:errcheck
	}))
	defer srv.Close()

	rec := &transaction.Transaction{
		OccurredOn:  "2024-01-15",
		Category:    transaction.Signing,
		Team:        "Philadelphia Eagles",
		Player:      "Test Player",
		Position:    "QB",
		Description: "Signed to reserve/future contract",
		IdentityKey: "tx-001",
		Source:      "espn",
		ObservedAt:  time.Date(2024, 1, 15, 16, 0, 0, 0, time.UTC),
	}

	c := testClient(srv)
	count, err := c.Append(context.Background(), []*transaction.Transaction{rec})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if count != 1 {
		t.Errorf("committed = %d, want 1", count)
	}

	if len(appendCalls) != 2 {
		t.Fatalf("expected header append then row append, got %d calls", len(appendCalls))
	}
	if appendCalls[0][0][0] != "Date" {
		t.Errorf("first append should be the header row, got %v", appendCalls[0][0])
	}

	row := appendCalls[1][0]
	if row[0] != "2024-01-15" || row[1] != "Signing" || row[5] != "tx-001" {
		t.Errorf("row layout wrong: %v", row)
	}
}

func TestAppendNothing(t *testing.T) {
	c := &Client{} // must not touch the network
	count, err := c.Append(context.Background(), nil)
	if err != nil {
		t.Fatalf("Append(nil) error = %v", err)
	}
	if count != 0 {
		t.Errorf("committed = %d, want 0", count)
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	recs := []*transaction.Transaction{
		{IdentityKey: "a"},
		{IdentityKey: "b"},
	}

	count, err := m.Append(ctx, recs)
	if err != nil || count != 2 {
		t.Fatalf("Append() = (%d, %v), want (2, nil)", count, err)
	}

	identities, err := m.ListExistingIdentities(ctx)
	if err != nil {
		t.Fatalf("ListExistingIdentities() error = %v", err)
	}
	if len(identities) != 2 {
		t.Errorf("expected 2 identities, got %d", len(identities))
	}
}

func TestMemoryStorePartialAppend(t *testing.T) {
	m := NewMemory()
	m.AppendLimit = 1

	count, err := m.Append(context.Background(), []*transaction.Transaction{
		{IdentityKey: "a"},
		{IdentityKey: "b"},
	})
	if count != 1 {
		t.Errorf("committed = %d, want 1", count)
	}
	if err == nil {
		t.Error("expected partial-append error")
	}
}

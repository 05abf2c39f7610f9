package ebgs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL is the public Elite BGS API, v5.
// See https://elitebgs.app/ebgs/docs/V5/
const DefaultBaseURL = "https://elitebgs.app/api/ebgs/v5"

const userAgent = "edroute/1.0"

// ErrUnknownFaction indicates the API returned no faction for the name.
var ErrUnknownFaction = errors.New("faction not found")

// ErrNoStaleSystems indicates the faction exists but has no systems older
// than the age threshold.
var ErrNoStaleSystems = errors.New("no systems older than the age threshold")

// QueryError reports a failed stale-systems query. Non-fatal: the active
// route is left alone and the message is shown to the user.
type QueryError struct {
	Faction string
	Err     error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("stale-systems query for %q: %v", e.Faction, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Client is an Elite BGS HTTP client.
type Client struct {
	http *http.Client

	// BaseURL can be pointed at a test server.
	BaseURL string
}

// NewClient creates a client for the public Elite BGS API.
func NewClient() *Client {
	return &Client{
		http:    &http.Client{Timeout: 60 * time.Second},
		BaseURL: DefaultBaseURL,
	}
}

// page is the envelope every paginated EBGS endpoint answers with.
type page struct {
	Docs     []json.RawMessage `json:"docs"`
	NextPage *int              `json:"nextPage"`
}

// fetchPages fetches path and follows nextPage until the feed is
// exhausted, returning all docs in feed order.
func (c *Client) fetchPages(ctx context.Context, path string, params url.Values) ([]json.RawMessage, error) {
	var docs []json.RawMessage
	for {
		var p page
		if err := c.getJSON(ctx, path, params, &p); err != nil {
			return nil, err
		}
		docs = append(docs, p.Docs...)
		if p.NextPage == nil {
			return docs, nil
		}
		params.Set("page", strconv.Itoa(*p.NextPage))
	}
}

// getJSON fetches a single API page and decodes it into dst.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, dst any) error {
	u := fmt.Sprintf("%s/%s?%s", c.BaseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("EBGS %d: %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

// Faction is the slice of a faction document this tool cares about.
type Faction struct {
	Name     string            `json:"name"`
	Presence []factionPresence `json:"faction_presence"`
}

type factionPresence struct {
	SystemName    string        `json:"system_name"`
	UpdatedAt     string        `json:"updated_at"`
	SystemDetails systemDetails `json:"system_details"`
}

type systemDetails struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Factions fetches all faction documents matching name, with system
// details included.
func (c *Client) Factions(ctx context.Context, name string) ([]Faction, error) {
	params := url.Values{}
	params.Set("name", name)
	params.Set("systemDetails", "true")

	docs, err := c.fetchPages(ctx, "factions", params)
	if err != nil {
		return nil, err
	}

	factions := make([]Faction, 0, len(docs))
	for _, doc := range docs {
		var f Faction
		if err := json.Unmarshal(doc, &f); err != nil {
			return nil, fmt.Errorf("decode faction: %w", err)
		}
		factions = append(factions, f)
	}
	return factions, nil
}

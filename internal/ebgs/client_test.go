package ebgs

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edroute/internal/route"
)

func mkCoords(x, y, z float64) route.Coords {
	return route.Coords{X: x, Y: y, Z: z}
}

func testClient(handler http.Handler) (*Client, func()) {
	server := httptest.NewServer(handler)
	client := NewClient()
	client.BaseURL = server.URL
	return client, server.Close
}

func presenceJSON(system string, age time.Duration, x, y, z float64) string {
	updated := time.Now().UTC().Add(-age).Format(time.RFC3339)
	return fmt.Sprintf(`{"system_name":%q,"updated_at":%q,"system_details":{"x":%g,"y":%g,"z":%g}}`,
		system, updated, x, y, z)
}

func TestFactions_FollowsPages(t *testing.T) {
	client, done := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("systemDetails"))
		switch r.URL.Query().Get("page") {
		case "", "1":
			fmt.Fprintf(w, `{"docs":[{"name":"First Page Faction","faction_presence":[]}],"nextPage":2}`)
		case "2":
			fmt.Fprintf(w, `{"docs":[{"name":"Second Page Faction","faction_presence":[]}],"nextPage":null}`)
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	}))
	defer done()

	factions, err := client.Factions(context.Background(), "The Dark Wheel")
	require.NoError(t, err)
	require.Len(t, factions, 2)
	assert.Equal(t, "First Page Faction", factions[0].Name)
	assert.Equal(t, "Second Page Faction", factions[1].Name)
}

func TestStaleSystems_FiltersByAge(t *testing.T) {
	client, done := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"docs":[{"name":"F","faction_presence":[%s,%s,%s]}],"nextPage":null}`,
			presenceJSON("Fresh", 30*time.Minute, 0, 0, 0),
			presenceJSON("Old", 72*time.Hour, 1, 2, 3),
			presenceJSON("Older", 200*time.Hour, 4, 5, 6))
	}))
	defer done()

	stale, err := client.StaleSystems(context.Background(), "F", 2*time.Hour, 0)
	require.NoError(t, err)
	require.Len(t, stale, 2)
	assert.Equal(t, "Old", stale[0].System)
	assert.Equal(t, "Older", stale[1].System)
	assert.Equal(t, 3.0, stale[0].Coords.Z)
}

func TestStaleSystems_Limit(t *testing.T) {
	client, done := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"docs":[{"name":"F","faction_presence":[%s,%s,%s]}],"nextPage":null}`,
			presenceJSON("A", 72*time.Hour, 0, 0, 0),
			presenceJSON("B", 72*time.Hour, 0, 0, 0),
			presenceJSON("C", 72*time.Hour, 0, 0, 0))
	}))
	defer done()

	stale, err := client.StaleSystems(context.Background(), "F", time.Hour, 2)
	require.NoError(t, err)
	assert.Len(t, stale, 2)
}

func TestStaleSystems_UnknownFaction(t *testing.T) {
	client, done := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"docs":[],"nextPage":null}`)
	}))
	defer done()

	_, err := client.StaleSystems(context.Background(), "Nobody", time.Hour, 0)
	require.ErrorIs(t, err, ErrUnknownFaction)
	var queryErr *QueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Equal(t, "Nobody", queryErr.Faction)
}

func TestStaleSystems_NothingStale(t *testing.T) {
	client, done := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"docs":[{"name":"F","faction_presence":[%s]}],"nextPage":null}`,
			presenceJSON("Fresh", 10*time.Minute, 0, 0, 0))
	}))
	defer done()

	_, err := client.StaleSystems(context.Background(), "F", 2*time.Hour, 0)
	require.ErrorIs(t, err, ErrNoStaleSystems)
}

func TestStaleSystems_ServerError(t *testing.T) {
	client, done := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer done()

	_, err := client.StaleSystems(context.Background(), "F", time.Hour, 0)
	var queryErr *QueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Contains(t, queryErr.Error(), "502")
}

func TestRouteFromPresences_NotesCarryAgeAndDistance(t *testing.T) {
	now := time.Now().UTC()
	presences := []Presence{
		{System: "A", UpdatedAt: now.Add(-73 * time.Hour), Coords: mkCoords(0, 0, 0)},
		{System: "B", UpdatedAt: now.Add(-5 * time.Hour), Coords: mkCoords(3, 4, 0)},
	}

	r := RouteFromPresences(presences, now)
	require.Len(t, r, 2)
	assert.Equal(t, "A", r[0].System)
	assert.Equal(t, "3 days", r[0].Note)
	assert.Equal(t, "5 hours, 5.00 Ly", r[1].Note)
	require.NotNil(t, r[1].Coords)
	assert.Equal(t, 3.0, r[1].Coords.X)
}

func TestPresence_AgeString(t *testing.T) {
	now := time.Now().UTC()
	cases := []struct {
		age  time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{5 * time.Minute, "5 minutes"},
		{3 * time.Hour, "3 hours"},
		{96 * time.Hour, "4 days"},
	}
	for _, tc := range cases {
		p := Presence{UpdatedAt: now.Add(-tc.age)}
		assert.Equal(t, tc.want, p.AgeString(now))
	}
}

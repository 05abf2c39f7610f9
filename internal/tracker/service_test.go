package tracker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edroute/internal/api"
	"edroute/internal/clipboard"
	"edroute/internal/database"
	"edroute/internal/ebgs"
	"edroute/internal/journal"
	"edroute/internal/route"
)

// recordingTui captures every TuiAPI notification for assertions.
type recordingTui struct {
	mu        sync.Mutex
	routes    []api.RouteInfo
	targets   []api.TargetInfo
	locations []string
	statuses  []string
	errs      []error
	completed int
}

func (r *recordingTui) OnRouteLoaded(info api.RouteInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, info)
}

func (r *recordingTui) OnNextTargetChanged(target api.TargetInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets = append(r.targets, target)
}

func (r *recordingTui) OnRouteCompleted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed++
}

func (r *recordingTui) OnLocationChanged(system string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locations = append(r.locations, system)
}

func (r *recordingTui) OnStatusMessage(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, message)
}

func (r *recordingTui) OnTrackerError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recordingTui) lastTarget() (api.TargetInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.targets) == 0 {
		return api.TargetInfo{}, false
	}
	return r.targets[len(r.targets)-1], true
}

func (r *recordingTui) targetCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.targets)
}

func (r *recordingTui) errCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errs)
}

func (r *recordingTui) completedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completed
}

// copyLog records clipboard writes.
type copyLog struct {
	mu     sync.Mutex
	copies []string
	fail   bool
}

func (c *copyLog) copy(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("no clipboard backend")
	}
	c.copies = append(c.copies, text)
	return nil
}

func (c *copyLog) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.copies...)
}

func newTestService(t *testing.T, tui *recordingTui, dbPath string) (*Service, *copyLog) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	copies := &copyLog{}
	s := &Service{
		tuiAPI:  tui,
		tracker: route.NewTracker(),
		db:      database.NewDatabase(),
		bgs:     ebgs.NewClient(),
		clip:    clipboard.NewWriterFunc(copies.copy),
		ctx:     ctx,
		cancel:  cancel,
	}
	s.initialize(api.Options{DatabasePath: dbPath, JournalDir: t.TempDir()})
	t.Cleanup(s.Shutdown)
	return s, copies
}

func arrive(s *Service, system string) {
	s.onLocation(journal.Location{System: system, Timestamp: time.Now()})
}

func writeCSV(t *testing.T, systems ...string) string {
	t.Helper()
	contents := "System Name\n"
	for _, system := range systems {
		contents += system + "\n"
	}
	path := filepath.Join(t.TempDir(), "route.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func waitTargets(t *testing.T, tui *recordingTui, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return tui.targetCount() >= n },
		3*time.Second, 10*time.Millisecond)
}

func TestService_LoadCSVAnnouncesFirstTarget(t *testing.T) {
	tui := &recordingTui{}
	s, copies := newTestService(t, tui, filepath.Join(t.TempDir(), "edroute.db"))

	s.LoadCSV(writeCSV(t, "Aulin", "Bolg", "Cubeo"))
	waitTargets(t, tui, 1)

	target, ok := tui.lastTarget()
	require.True(t, ok)
	assert.Equal(t, "Aulin", target.System)
	assert.Equal(t, 0, target.Position)
	assert.Equal(t, 3, target.Total)
	assert.True(t, target.Copied)
	assert.Equal(t, []string{"Aulin"}, copies.all())

	snapshot := s.RouteSnapshot()
	assert.Equal(t, "csv", snapshot.Source)
	assert.Equal(t, "in progress", snapshot.State)
	require.Len(t, snapshot.Entries, 3)
}

func TestService_ArrivalsAdvanceAndCopy(t *testing.T) {
	tui := &recordingTui{}
	s, copies := newTestService(t, tui, filepath.Join(t.TempDir(), "edroute.db"))

	s.LoadCSV(writeCSV(t, "Aulin", "Bolg"))
	waitTargets(t, tui, 1)

	arrive(s, "Aulin")
	waitTargets(t, tui, 2)
	target, _ := tui.lastTarget()
	assert.Equal(t, "Bolg", target.System)
	assert.Equal(t, []string{"Aulin", "Bolg"}, copies.all())

	arrive(s, "Bolg")
	require.Eventually(t, func() bool { return tui.completedCount() == 1 },
		time.Second, 10*time.Millisecond)
	assert.Equal(t, "complete", s.RouteSnapshot().State)
}

func TestService_NonMatchingLocationIgnored(t *testing.T) {
	tui := &recordingTui{}
	s, copies := newTestService(t, tui, filepath.Join(t.TempDir(), "edroute.db"))

	s.LoadCSV(writeCSV(t, "Aulin", "Bolg"))
	waitTargets(t, tui, 1)

	arrive(s, "Lave")
	assert.Equal(t, 0, s.RouteSnapshot().Position)
	assert.Equal(t, []string{"Aulin"}, copies.all())

	tui.mu.Lock()
	locations := append([]string(nil), tui.locations...)
	tui.mu.Unlock()
	assert.Contains(t, locations, "Lave")
}

func TestService_SkipTarget(t *testing.T) {
	tui := &recordingTui{}
	s, copies := newTestService(t, tui, filepath.Join(t.TempDir(), "edroute.db"))

	s.LoadCSV(writeCSV(t, "Aulin", "Bolg"))
	waitTargets(t, tui, 1)

	s.SkipTarget()
	waitTargets(t, tui, 2)
	target, _ := tui.lastTarget()
	assert.Equal(t, "Bolg", target.System)
	assert.Equal(t, []string{"Aulin", "Bolg"}, copies.all())

	s.SkipTarget()
	require.Eventually(t, func() bool { return tui.completedCount() == 1 },
		time.Second, 10*time.Millisecond)
}

func TestService_BadCSVLeavesRouteUntouched(t *testing.T) {
	tui := &recordingTui{}
	s, _ := newTestService(t, tui, filepath.Join(t.TempDir(), "edroute.db"))

	s.LoadCSV(writeCSV(t, "Aulin", "Bolg"))
	waitTargets(t, tui, 1)

	bad := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("Jumps,Fuel\n1,2\n"), 0644))
	s.LoadCSV(bad)

	require.Eventually(t, func() bool { return tui.errCount() == 1 },
		time.Second, 10*time.Millisecond)
	tui.mu.Lock()
	err := tui.errs[0]
	tui.mu.Unlock()
	require.ErrorIs(t, err, route.ErrNoSystemColumn)

	snapshot := s.RouteSnapshot()
	assert.Equal(t, "in progress", snapshot.State)
	require.Len(t, snapshot.Entries, 2)
	assert.Equal(t, "Aulin", snapshot.Entries[0].System)
}

func TestService_ClearRoute(t *testing.T) {
	tui := &recordingTui{}
	s, _ := newTestService(t, tui, filepath.Join(t.TempDir(), "edroute.db"))

	s.LoadCSV(writeCSV(t, "Aulin"))
	waitTargets(t, tui, 1)

	s.ClearRoute()
	snapshot := s.RouteSnapshot()
	assert.Equal(t, "idle", snapshot.State)
	assert.Empty(t, snapshot.Entries)
}

func TestService_RouteAndProgressSurviveRestart(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "edroute.db")

	tui := &recordingTui{}
	s, _ := newTestService(t, tui, dbPath)
	s.LoadCSV(writeCSV(t, "Aulin", "Bolg", "Cubeo"))
	waitTargets(t, tui, 1)
	arrive(s, "Aulin")
	waitTargets(t, tui, 2)
	s.Shutdown()

	tui2 := &recordingTui{}
	s2, copies := newTestService(t, tui2, dbPath)
	waitTargets(t, tui2, 1)

	target, _ := tui2.lastTarget()
	assert.Equal(t, "Bolg", target.System)
	assert.Equal(t, 1, s2.RouteSnapshot().Position)
	assert.Equal(t, []string{"Bolg"}, copies.all())
}

func TestService_SettingsPersist(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "edroute.db")

	tui := &recordingTui{}
	s, _ := newTestService(t, tui, dbPath)
	s.UpdateSettings(api.Settings{
		FactionName: "The Dark Wheel",
		MinAgeHours: 6,
		MaxSystems:  25,
		CSVPath:     "/tmp/route.csv",
	})
	s.Shutdown()

	tui2 := &recordingTui{}
	s2, _ := newTestService(t, tui2, dbPath)
	settings := s2.Settings()
	assert.Equal(t, "The Dark Wheel", settings.FactionName)
	assert.Equal(t, 6, settings.MinAgeHours)
	assert.Equal(t, 25, settings.MaxSystems)
	assert.Equal(t, "/tmp/route.csv", settings.CSVPath)
}

func TestService_DefaultSettings(t *testing.T) {
	tui := &recordingTui{}
	s, _ := newTestService(t, tui, filepath.Join(t.TempDir(), "edroute.db"))
	settings := s.Settings()
	assert.Equal(t, defaultMinAgeHours, settings.MinAgeHours)
}

func TestService_LoadStaleSystemsBuildsRoute(t *testing.T) {
	updated := time.Now().UTC().Add(-72 * time.Hour).Format(time.RFC3339)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w,
			`{"docs":[{"name":"F","faction_presence":[{"system_name":"Orrere","updated_at":%q,"system_details":{"x":1,"y":2,"z":3}}]}],"nextPage":null}`,
			updated)
	}))
	defer server.Close()

	tui := &recordingTui{}
	s, copies := newTestService(t, tui, filepath.Join(t.TempDir(), "edroute.db"))
	s.bgs.BaseURL = server.URL

	s.LoadStaleSystems("F", 2, 0)
	waitTargets(t, tui, 1)

	target, _ := tui.lastTarget()
	assert.Equal(t, "Orrere", target.System)
	assert.Contains(t, target.Note, "3 days")
	assert.Equal(t, []string{"Orrere"}, copies.all())
	assert.Equal(t, "stale query", s.RouteSnapshot().Source)
}

func TestService_QueryFailureReported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"docs":[],"nextPage":null}`)
	}))
	defer server.Close()

	tui := &recordingTui{}
	s, _ := newTestService(t, tui, filepath.Join(t.TempDir(), "edroute.db"))
	s.bgs.BaseURL = server.URL

	s.LoadStaleSystems("Nobody", 2, 0)
	require.Eventually(t, func() bool { return tui.errCount() == 1 },
		time.Second, 10*time.Millisecond)
	tui.mu.Lock()
	err := tui.errs[0]
	tui.mu.Unlock()
	assert.ErrorIs(t, err, ebgs.ErrUnknownFaction)
	assert.Equal(t, "idle", s.RouteSnapshot().State)
}

func TestService_EmptyFactionRejectedUpFront(t *testing.T) {
	tui := &recordingTui{}
	s, _ := newTestService(t, tui, filepath.Join(t.TempDir(), "edroute.db"))

	s.LoadStaleSystems("", 2, 0)
	tui.mu.Lock()
	statuses := append([]string(nil), tui.statuses...)
	tui.mu.Unlock()
	require.Contains(t, statuses, "Set a faction name and a non-negative age first")
}

func TestService_ClipboardFailureIsNonFatal(t *testing.T) {
	tui := &recordingTui{}
	s, copies := newTestService(t, tui, filepath.Join(t.TempDir(), "edroute.db"))
	copies.fail = true

	s.LoadCSV(writeCSV(t, "Aulin"))
	waitTargets(t, tui, 1)

	target, _ := tui.lastTarget()
	assert.Equal(t, "Aulin", target.System)
	assert.False(t, target.Copied)
	assert.Equal(t, 0, tui.errCount())
}

// Commands may arrive while initialize is still running on its own
// goroutine; the race detector flags any startup field write that is
// not serialized with them.
func TestService_CommandsDuringStartup(t *testing.T) {
	tui := &recordingTui{}
	// Parent directory does not exist, so the database open fails and
	// startup takes its db-unavailable path.
	routeAPI := Start(api.Options{
		DatabasePath: filepath.Join(t.TempDir(), "missing", "edroute.db"),
		JournalDir:   t.TempDir(),
	}, tui)
	defer routeAPI.Shutdown()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			routeAPI.UpdateSettings(api.Settings{
				FactionName: fmt.Sprintf("Faction %d", n),
				MinAgeHours: n,
			})
			routeAPI.RouteSnapshot()
			routeAPI.Settings()
		}(i)
	}
	wg.Wait()

	require.Eventually(t, func() bool { return tui.errCount() >= 1 },
		3*time.Second, 10*time.Millisecond)
	assert.Equal(t, "idle", routeAPI.RouteSnapshot().State)
}

func TestStart_NilTuiAPIPanics(t *testing.T) {
	require.Panics(t, func() {
		Start(api.Options{DatabasePath: filepath.Join(t.TempDir(), "edroute.db")}, nil)
	})
}

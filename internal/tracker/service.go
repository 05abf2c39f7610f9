package tracker

import (
	"context"
	"strconv"
	"sync"
	"time"

	"edroute/internal/api"
	"edroute/internal/clipboard"
	"edroute/internal/database"
	"edroute/internal/ebgs"
	"edroute/internal/journal"
	"edroute/internal/log"
	"edroute/internal/route"
)

func init() {
	api.SetStartImpl(Start)
}

// Route sources, recorded with the stored route.
const (
	sourceCSV   = "csv"
	sourceQuery = "stale query"
)

const defaultMinAgeHours = 2

// Service owns the route tracker and everything around it: journal
// watcher, clipboard, persistence and the stale-systems client. All state
// mutation is serialized through mu, the single-callback-thread analog;
// TuiAPI notifications fire outside the lock.
type Service struct {
	tuiAPI api.TuiAPI

	mu       sync.Mutex
	tracker  *route.Tracker
	plan     *route.Plan
	source   string
	settings api.Settings

	db      database.Database
	bgs     *ebgs.Client
	clip    *clipboard.Writer
	watcher *journal.Watcher

	ctx    context.Context
	cancel context.CancelFunc
}

// Start creates the tracker service and returns its command API. Never
// returns an error: all failures are reported through TuiAPI callbacks.
func Start(opts api.Options, tuiAPI api.TuiAPI) api.RouteAPI {
	if tuiAPI == nil {
		panic("tracker.Start called with nil TuiAPI")
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		tuiAPI:  tuiAPI,
		tracker: route.NewTracker(),
		db:      database.NewDatabase(),
		bgs:     ebgs.NewClient(),
		clip:    clipboard.NewWriter(),
		ctx:     ctx,
		cancel:  cancel,
	}

	// Bring the service up asynchronously so the UI can draw immediately.
	go s.initialize(opts)
	return s
}

func (s *Service) initialize(opts api.Options) {
	// Commands can arrive the moment Start returns, so every field they
	// read is only ever written under mu.
	s.mu.Lock()
	openErr := s.db.Open(opts.DatabasePath)
	if openErr != nil {
		s.db = nil
	}
	s.settings = s.loadSettings()
	restored := s.restoreRoute()
	s.mu.Unlock()

	if openErr != nil {
		log.Error("Database unavailable, settings and routes will not persist", "error", openErr)
		s.tuiAPI.OnTrackerError(openErr)
	}
	if restored {
		s.notifyRouteLoaded()
		s.announceTarget()
	}

	watcher := journal.NewWatcher(opts.JournalDir, s.onLocation)
	if err := watcher.Start(); err != nil {
		log.Warn("Journal watcher not started", "dir", opts.JournalDir, "error", err)
		s.tuiAPI.OnTrackerError(err)
		return
	}
	s.mu.Lock()
	s.watcher = watcher
	s.mu.Unlock()
	s.tuiAPI.OnStatusMessage("Watching journal in " + opts.JournalDir)
}

// restoreRoute reloads the route a previous run left behind. Caller holds mu.
func (s *Service) restoreRoute() bool {
	if s.db == nil {
		return false
	}
	r, source, position, err := s.db.LoadRoute()
	if err != nil {
		log.Error("Cannot restore saved route", "error", err)
		return false
	}
	if len(r) == 0 {
		return false
	}
	s.tracker.Load(r)
	for i := 0; i < position && s.tracker.Skip(); i++ {
	}
	s.plan = route.NewPlan(r)
	s.source = source
	log.Info("Restored route", "systems", len(r), "position", position, "source", source)
	return true
}

// loadSettings reads persisted settings, falling back to defaults.
// Caller holds mu.
func (s *Service) loadSettings() api.Settings {
	settings := api.Settings{MinAgeHours: defaultMinAgeHours}
	if s.db == nil {
		return settings
	}
	if v, ok, _ := s.db.GetSetting("faction_name"); ok {
		settings.FactionName = v
	}
	if v, ok, _ := s.db.GetSetting("min_age_hours"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			settings.MinAgeHours = n
		}
	}
	if v, ok, _ := s.db.GetSetting("max_systems"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			settings.MaxSystems = n
		}
	}
	if v, ok, _ := s.db.GetSetting("csv_path"); ok {
		settings.CSVPath = v
	}
	return settings
}

// LoadCSV loads a route export in the background.
func (s *Service) LoadCSV(path string) {
	go func() {
		r, err := route.LoadCSV(path)
		if err != nil {
			log.Error("CSV route load failed", "path", path, "error", err)
			s.tuiAPI.OnTrackerError(err)
			return
		}

		s.mu.Lock()
		s.settings.CSVPath = path
		s.persistSettingLocked("csv_path", path)
		s.mu.Unlock()

		s.commitRoute(r, sourceCSV)
	}()
}

// LoadStaleSystems queries Elite BGS for the faction's stale systems and
// makes them the route, in the background.
func (s *Service) LoadStaleSystems(faction string, minAgeHours, limit int) {
	if faction == "" || minAgeHours < 0 {
		s.tuiAPI.OnStatusMessage("Set a faction name and a non-negative age first")
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(s.ctx, 90*time.Second)
		defer cancel()

		s.tuiAPI.OnStatusMessage("Querying stale systems for " + faction + "...")
		presences, err := s.bgs.StaleSystems(ctx, faction, time.Duration(minAgeHours)*time.Hour, limit)
		if err != nil {
			log.Error("Stale-systems query failed", "faction", faction, "error", err)
			s.tuiAPI.OnTrackerError(err)
			return
		}
		s.commitRoute(ebgs.RouteFromPresences(presences, time.Now().UTC()), sourceQuery)
	}()
}

// commitRoute swaps in a fully loaded route. The previous route stays in
// place on any earlier failure; by the time we get here the new one is
// complete.
func (s *Service) commitRoute(r route.Route, source string) {
	s.mu.Lock()
	s.tracker.Load(r)
	s.plan = route.NewPlan(r)
	s.source = source
	if s.db != nil {
		if err := s.db.SaveRoute(r, source, 0); err != nil {
			log.Error("Cannot persist route", "error", err)
		}
	}
	s.mu.Unlock()

	s.notifyRouteLoaded()
	s.announceTarget()
}

// ClearRoute drops the active route.
func (s *Service) ClearRoute() {
	s.mu.Lock()
	s.tracker.Clear()
	s.plan = nil
	s.source = ""
	if s.db != nil {
		if err := s.db.ClearRoute(); err != nil {
			log.Error("Cannot clear stored route", "error", err)
		}
	}
	s.mu.Unlock()

	s.notifyRouteLoaded()
	s.tuiAPI.OnStatusMessage("Route cleared")
}

// SkipTarget advances past the current target without an arrival.
func (s *Service) SkipTarget() {
	s.mu.Lock()
	moved := s.tracker.Skip()
	completed := moved && s.tracker.State() == route.StateComplete
	if moved {
		s.persistPositionLocked()
	}
	s.mu.Unlock()

	if !moved {
		return
	}
	if completed {
		s.tuiAPI.OnRouteCompleted()
		return
	}
	s.announceTarget()
}

// onLocation is the journal watcher callback.
func (s *Service) onLocation(loc journal.Location) {
	s.tuiAPI.OnLocationChanged(loc.System)

	s.mu.Lock()
	advanced := s.tracker.Arrived(loc.System)
	completed := advanced && s.tracker.State() == route.StateComplete
	if advanced {
		s.persistPositionLocked()
	}
	s.mu.Unlock()

	if !advanced {
		return
	}
	log.Info("Arrived at route target", "system", loc.System)
	if completed {
		s.tuiAPI.OnRouteCompleted()
		return
	}
	s.announceTarget()
}

// announceTarget copies the next target to the clipboard and notifies the
// UI. No-op when the route is idle or complete.
func (s *Service) announceTarget() {
	s.mu.Lock()
	entry, ok := s.tracker.NextTarget()
	if !ok {
		s.mu.Unlock()
		return
	}
	info := api.TargetInfo{
		System:    entry.System,
		Note:      entry.Note,
		Position:  s.tracker.Position(),
		Total:     s.tracker.Position() + s.tracker.Remaining(),
		Remaining: s.tracker.Remaining(),
	}
	if s.plan != nil {
		info.RemainingLy, info.HasRemainingLy = s.plan.RemainingDistance(s.tracker.Position())
	}
	s.mu.Unlock()

	info.Copied = s.clip.Copy(info.System)
	s.tuiAPI.OnNextTargetChanged(info)
}

// RouteSnapshot returns the current route for display.
func (s *Service) RouteSnapshot() api.RouteInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Service) snapshotLocked() api.RouteInfo {
	r := s.tracker.Route()
	info := api.RouteInfo{
		Source:   s.source,
		State:    s.tracker.State().String(),
		Position: s.tracker.Position(),
		Entries:  make([]api.EntryInfo, len(r)),
	}
	for i, entry := range r {
		info.Entries[i] = api.EntryInfo{
			System:  entry.System,
			Note:    entry.Note,
			Visited: i < s.tracker.Position(),
		}
	}
	return info
}

func (s *Service) notifyRouteLoaded() {
	s.mu.Lock()
	info := s.snapshotLocked()
	s.mu.Unlock()
	s.tuiAPI.OnRouteLoaded(info)
}

// Settings returns the current user settings.
func (s *Service) Settings() api.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateSettings persists new user settings.
func (s *Service) UpdateSettings(settings api.Settings) {
	s.mu.Lock()
	s.settings = settings
	s.persistSettingLocked("faction_name", settings.FactionName)
	s.persistSettingLocked("min_age_hours", strconv.Itoa(settings.MinAgeHours))
	s.persistSettingLocked("max_systems", strconv.Itoa(settings.MaxSystems))
	s.persistSettingLocked("csv_path", settings.CSVPath)
	s.mu.Unlock()

	s.tuiAPI.OnStatusMessage("Settings saved")
}

func (s *Service) persistSettingLocked(key, value string) {
	if s.db == nil {
		return
	}
	if err := s.db.SetSetting(key, value); err != nil {
		log.Error("Cannot persist setting", "key", key, "error", err)
	}
}

func (s *Service) persistPositionLocked() {
	if s.db == nil {
		return
	}
	if err := s.db.SavePosition(s.tracker.Position()); err != nil {
		log.Error("Cannot persist route position", "error", err)
	}
}

// Shutdown stops the watcher and closes the database.
func (s *Service) Shutdown() {
	s.cancel()

	// Stop the watcher outside the lock: it waits for its goroutine,
	// which may be delivering a location event that needs mu.
	s.mu.Lock()
	watcher := s.watcher
	s.watcher = nil
	s.mu.Unlock()
	if watcher != nil {
		watcher.Stop()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Error("Database close failed", "error", err)
		}
		s.db = nil
	}
}

package api

// RouteAPI defines commands from the TUI to the tracker service.
//
// Load commands are asynchronous: they return immediately and report
// their outcome through TuiAPI callbacks, so the UI thread is never
// blocked on file or network work.
type RouteAPI interface {
	// Route sources
	LoadCSV(path string)
	LoadStaleSystems(faction string, minAgeHours, limit int)
	ClearRoute()

	// Progress
	SkipTarget()
	RouteSnapshot() RouteInfo

	// Settings
	Settings() Settings
	UpdateSettings(settings Settings)

	// Lifecycle
	Shutdown()
}

// TuiAPI defines notifications from the tracker service to the TUI.
//
// All methods must return quickly: they are called from the tracker's
// event goroutine. UI work goes through tview's QueueUpdateDraw.
type TuiAPI interface {
	OnRouteLoaded(info RouteInfo)
	OnNextTargetChanged(target TargetInfo)
	OnRouteCompleted()
	OnLocationChanged(system string)
	OnStatusMessage(message string)
	OnTrackerError(err error)
}

// TargetInfo describes the system the player should fly to next.
type TargetInfo struct {
	System    string `json:"system"`
	Note      string `json:"note"`
	Position  int    `json:"position"`  // entries already visited
	Total     int    `json:"total"`     // entries in the route
	Remaining int    `json:"remaining"` // entries still ahead, target included

	// RemainingLy is the summed distance of the legs still ahead;
	// HasRemainingLy is false for routes without coordinates.
	RemainingLy    float64 `json:"remaining_ly"`
	HasRemainingLy bool    `json:"has_remaining_ly"`

	// Copied reports whether the system name made it onto the clipboard.
	Copied bool `json:"copied"`
}

// EntryInfo is one route row for display.
type EntryInfo struct {
	System  string `json:"system"`
	Note    string `json:"note"`
	Visited bool   `json:"visited"`
}

// RouteInfo is a display snapshot of the whole route.
type RouteInfo struct {
	Source   string      `json:"source"` // "csv" or "stale query"
	State    string      `json:"state"`
	Entries  []EntryInfo `json:"entries"`
	Position int         `json:"position"`
}

// Settings is the user-configurable surface, persisted across runs.
type Settings struct {
	FactionName string `json:"faction_name"`
	MinAgeHours int    `json:"min_age_hours"`
	MaxSystems  int    `json:"max_systems"` // 0 = unlimited
	CSVPath     string `json:"csv_path"`
}

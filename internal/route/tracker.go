package route

// TrackerState describes where a Tracker is in its route.
type TrackerState int

const (
	StateIdle TrackerState = iota
	StateInProgress
	StateComplete
)

func (s TrackerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInProgress:
		return "in progress"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Tracker holds the active route and the player's position in it. The
// position only ever moves forward; the sole way back is loading a route,
// which replaces everything and starts over at the top.
//
// Tracker is not safe for concurrent use. All mutation happens on the
// tracker service's event loop.
type Tracker struct {
	route Route
	pos   int
	state TrackerState
}

func NewTracker() *Tracker {
	return &Tracker{state: StateIdle}
}

// Load replaces the active route and resets progress. An empty route
// leaves the tracker idle.
func (t *Tracker) Load(r Route) {
	t.route = r
	t.pos = 0
	if len(r) == 0 {
		t.state = StateIdle
		return
	}
	t.state = StateInProgress
}

// Clear drops the active route.
func (t *Tracker) Clear() {
	t.route = nil
	t.pos = 0
	t.state = StateIdle
}

func (t *Tracker) State() TrackerState { return t.state }

// Position returns how many route entries have been visited.
func (t *Tracker) Position() int { return t.pos }

// Remaining returns how many entries are still ahead, including the
// current target.
func (t *Tracker) Remaining() int { return len(t.route) - t.pos }

// Route returns a copy of the active route.
func (t *Tracker) Route() Route {
	out := make(Route, len(t.route))
	copy(out, t.route)
	return out
}

// NextTarget returns the entry the player should fly to next. ok is false
// when the tracker is idle or the route is complete.
func (t *Tracker) NextTarget() (Entry, bool) {
	if t.state != StateInProgress {
		return Entry{}, false
	}
	return t.route[t.pos], true
}

// Arrived records that the player is now in system. If it matches the
// current target the position advances by one; any other system is
// ignored. Returns true when the position moved.
func (t *Tracker) Arrived(system string) bool {
	if t.state != StateInProgress {
		return false
	}
	if !SameSystem(system, t.route[t.pos].System) {
		return false
	}
	t.advance()
	return true
}

// Skip advances past the current target without an arrival. Returns true
// when the position moved.
func (t *Tracker) Skip() bool {
	if t.state != StateInProgress {
		return false
	}
	t.advance()
	return true
}

func (t *Tracker) advance() {
	t.pos++
	if t.pos == len(t.route) {
		t.state = StateComplete
	}
}

package journal

import (
	"encoding/json"
	"time"

	"edroute/internal/route"
)

// Location is a player position report extracted from the game journal.
type Location struct {
	System    string
	Coords    *route.Coords
	Timestamp time.Time
}

// The journal events that carry the player's current star system.
var locationEvents = map[string]bool{
	"Location":    true,
	"FSDJump":     true,
	"CarrierJump": true,
}

type journalEntry struct {
	Timestamp  string    `json:"timestamp"`
	Event      string    `json:"event"`
	StarSystem string    `json:"StarSystem"`
	StarPos    []float64 `json:"StarPos"`
}

// ParseLine decodes one journal line. ok is true only for events that
// report the player's star system; everything else in the journal is
// ignored, as are lines that fail to decode.
func ParseLine(line []byte) (Location, bool) {
	var entry journalEntry
	if err := json.Unmarshal(line, &entry); err != nil {
		return Location{}, false
	}
	if !locationEvents[entry.Event] || entry.StarSystem == "" {
		return Location{}, false
	}

	loc := Location{System: entry.StarSystem}
	if ts, err := time.Parse(time.RFC3339, entry.Timestamp); err == nil {
		loc.Timestamp = ts
	}
	if len(entry.StarPos) == 3 {
		loc.Coords = &route.Coords{X: entry.StarPos[0], Y: entry.StarPos[1], Z: entry.StarPos[2]}
	}
	return loc, true
}

package ebgs

import (
	"context"
	"fmt"
	"time"

	"edroute/internal/log"
	"edroute/internal/route"
)

// Presence is one system a faction is present in, with the timestamp of
// the last data refresh for it.
type Presence struct {
	System    string
	UpdatedAt time.Time
	Coords    route.Coords
}

// Age returns how long ago the presence data was refreshed.
func (p Presence) Age(now time.Time) time.Duration {
	return now.Sub(p.UpdatedAt)
}

// AgeString formats the presence age for route notes.
func (p Presence) AgeString(now time.Time) string {
	age := p.Age(now)
	switch {
	case age >= 48*time.Hour:
		return fmt.Sprintf("%d days", int(age.Hours())/24)
	case age >= 2*time.Hour:
		return fmt.Sprintf("%d hours", int(age.Hours()))
	case age >= 2*time.Minute:
		return fmt.Sprintf("%d minutes", int(age.Minutes()))
	default:
		return fmt.Sprintf("%ds", int(age.Seconds()))
	}
}

// StaleSystems returns the systems controlled or contested by faction
// whose data is older than minAge, in feed order. Any ordering beyond the
// staleness cut is the service's own. A limit of 0 means no limit.
func (c *Client) StaleSystems(ctx context.Context, faction string, minAge time.Duration, limit int) ([]Presence, error) {
	factions, err := c.Factions(ctx, faction)
	if err != nil {
		return nil, &QueryError{Faction: faction, Err: err}
	}
	if len(factions) == 0 {
		return nil, &QueryError{Faction: faction, Err: ErrUnknownFaction}
	}

	now := time.Now().UTC()
	var stale []Presence
	for _, f := range factions {
		for _, fp := range f.Presence {
			updated, err := time.Parse(time.RFC3339, fp.UpdatedAt)
			if err != nil {
				log.Warn("Skipping presence with bad timestamp",
					"system", fp.SystemName, "updated_at", fp.UpdatedAt)
				continue
			}
			p := Presence{
				System:    fp.SystemName,
				UpdatedAt: updated,
				Coords:    route.Coords{X: fp.SystemDetails.X, Y: fp.SystemDetails.Y, Z: fp.SystemDetails.Z},
			}
			if p.Age(now) > minAge {
				stale = append(stale, p)
			}
		}
	}
	if len(stale) == 0 {
		return nil, &QueryError{Faction: faction, Err: ErrNoStaleSystems}
	}
	if limit > 0 && len(stale) > limit {
		stale = stale[:limit]
	}
	return stale, nil
}

// RouteFromPresences converts query results into a route. Notes carry the
// data age and the distance of the jump from the previous stop.
func RouteFromPresences(presences []Presence, now time.Time) route.Route {
	r := make(route.Route, 0, len(presences))
	for i, p := range presences {
		coords := p.Coords
		note := p.AgeString(now)
		if i > 0 {
			note = fmt.Sprintf("%s, %.2f Ly", note, presences[i-1].Coords.DistanceTo(coords))
		}
		r = append(r, route.Entry{
			System: p.System,
			Note:   note,
			Coords: &coords,
		})
	}
	return r
}

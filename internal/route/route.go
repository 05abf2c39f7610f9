package route

import (
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Coords is a galactic position in light years.
type Coords struct {
	X float64
	Y float64
	Z float64
}

// DistanceTo returns the straight-line distance to target in light years.
func (c Coords) DistanceTo(target Coords) float64 {
	return math.Sqrt(
		(target.X-c.X)*(target.X-c.X) +
			(target.Y-c.Y)*(target.Y-c.Y) +
			(target.Z-c.Z)*(target.Z-c.Z))
}

// Entry is a single stop on a route. Note carries display-only detail
// (age of the system's data, leg distance) and never affects matching.
// Coords is nil when the source of the route did not provide a position.
type Entry struct {
	System string
	Note   string
	Coords *Coords
}

// Route is an ordered list of systems to visit. Duplicates are permitted
// and order is preserved from the source.
type Route []Entry

// Systems returns just the system names, in route order.
func (r Route) Systems() []string {
	names := make([]string, len(r))
	for i, e := range r {
		names[i] = e.System
	}
	return names
}

// SameSystem reports whether two system names refer to the same system.
// Journal events and route exports disagree on letter case and can differ
// in Unicode normalization, so both are folded before comparing.
func SameSystem(a, b string) bool {
	return strings.EqualFold(norm.NFC.String(a), norm.NFC.String(b))
}

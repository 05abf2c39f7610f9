package route

import (
	"github.com/dominikbraun/graph"
)

// Edge weights are integers, so leg distances are stored in hundredths of
// a light year.
const centiLy = 100

const unknownLeg = -1

// Plan is the leg model of a route: a weighted chain of jumps used for
// distance display. Legs between entries that lack coordinates (CSV
// imports usually do) have unknown distance.
type Plan struct {
	route Route
	legs  graph.Graph[int, int]
}

// NewPlan builds the leg chain for r. Vertices are route positions so
// duplicate system names stay distinct.
func NewPlan(r Route) *Plan {
	legs := graph.New(graph.IntHash, graph.Directed(), graph.Weighted())
	for i := range r {
		_ = legs.AddVertex(i)
	}
	for i := 0; i+1 < len(r); i++ {
		weight := unknownLeg
		if r[i].Coords != nil && r[i+1].Coords != nil {
			weight = int(r[i].Coords.DistanceTo(*r[i+1].Coords) * centiLy)
		}
		_ = legs.AddEdge(i, i+1, graph.EdgeWeight(weight))
	}
	return &Plan{route: r, legs: legs}
}

// LegDistance returns the distance of the jump into entry i, in light
// years. ok is false for the first entry and for legs without
// coordinates on both ends.
func (p *Plan) LegDistance(i int) (float64, bool) {
	if i <= 0 || i >= len(p.route) {
		return 0, false
	}
	edge, err := p.legs.Edge(i-1, i)
	if err != nil || edge.Properties.Weight == unknownLeg {
		return 0, false
	}
	return float64(edge.Properties.Weight) / centiLy, true
}

// RemainingDistance sums the legs from position pos to the end of the
// route. ok is false if any of those legs has unknown distance.
func (p *Plan) RemainingDistance(pos int) (float64, bool) {
	if pos < 0 {
		pos = 0
	}
	total := 0
	for i := pos; i+1 < len(p.route); i++ {
		edge, err := p.legs.Edge(i, i+1)
		if err != nil || edge.Properties.Weight == unknownLeg {
			return 0, false
		}
		total += edge.Properties.Weight
	}
	return float64(total) / centiLy, true
}

// TotalDistance sums every leg of the route. ok is false if any leg has
// unknown distance.
func (p *Plan) TotalDistance() (float64, bool) {
	return p.RemainingDistance(0)
}

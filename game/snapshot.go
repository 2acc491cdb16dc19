package game

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/petri/species"
	"github.com/pthm-cable/petri/systems"
)

// AgentView is the read-only per-agent state handed to a renderer.
type AgentView struct {
	ID         uint64
	Kind       species.Kind
	X, Y       float64
	Heading    float64
	Traits     species.Traits
	Energy     float64
	AgeRatio   float64
	Generation int
}

// Snapshot is a frame's worth of drawable state.
type Snapshot struct {
	Tick          int
	Width, Height float64
	Agents        []AgentView // live agents, ascending ID
}

// Snapshot returns the current world state. dst's agent slice is reused
// when non-nil.
func (g *Game) Snapshot(dst *Snapshot) Snapshot {
	var s Snapshot
	if dst != nil {
		s.Agents = dst.Agents[:0]
	}
	s.Tick = g.tick
	s.Width = g.space.Width
	s.Height = g.space.Height

	query := g.agentFilter.Query()
	for query.Next() {
		pos, vel, _, org, energy, genome, _ := query.Get()
		if !energy.Live() {
			continue
		}
		s.Agents = append(s.Agents, AgentView{
			ID:         org.ID,
			Kind:       org.Kind,
			X:          pos.X,
			Y:          pos.Y,
			Heading:    systems.Heading(vel.Vec()),
			Traits:     genome.Traits,
			Energy:     energy.Value,
			AgeRatio:   energy.AgeRatio(),
			Generation: org.Generation,
		})
	}
	slices.SortFunc(s.Agents, func(a, b AgentView) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return s
}

// Link is a connection between two agents. To is expressed relative to
// From's side of any wrapped edge, so the segment is always the short one.
type Link struct {
	From, To r2.Vec
}

// Links appends the current connection segments between live agents to dst.
func (g *Game) Links(dst []Link) []Link {
	query := g.agentFilter.Query()
	for query.Next() {
		pos, _, _, _, energy, _, conn := query.Get()
		if !energy.Live() {
			continue
		}
		from := pos.Vec()
		for _, n := range conn.Neighbors {
			if !g.world.Alive(n) || !g.energyMap.Get(n).Live() {
				continue
			}
			to := r2.Add(from, g.space.Delta(from, g.posMap.Get(n).Vec()))
			dst = append(dst, Link{From: from, To: to})
		}
	}
	return dst
}

package components

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/petri/species"
)

// Genome holds the inheritable traits of an agent.
type Genome struct {
	Traits species.Traits
}

// Connections is the agent's neighbor list from the last index refresh,
// nearest first. Handles may point at agents culled since the refresh;
// callers check World.Alive before dereferencing.
type Connections struct {
	Neighbors []ecs.Entity
}

// Reset empties the list while keeping its backing array.
func (c *Connections) Reset() {
	c.Neighbors = c.Neighbors[:0]
}

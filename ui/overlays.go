package ui

import (
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayField       OverlayID = "field"
	OverlayConnections OverlayID = "connections"
	OverlayHeadings    OverlayID = "headings"
	OverlayPerf        OverlayID = "perf"
	OverlayKinds       OverlayID = "kinds"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID        OverlayID   // Unique identifier
	Name      string      // Display name
	Key       int32       // Keyboard key to toggle (0 = no key)
	KeyLabel  string      // Key label for display (e.g., "F")
	Category  string      // Grouping (e.g., "world", "debug")
	Exclusive []OverlayID // Other overlays to disable when this is enabled
}

// OverlayRegistry holds the overlay descriptors in registration order and
// which of them are on.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with the viewer's overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{enabled: make(map[OverlayID]bool)}
	for _, desc := range defaultOverlays {
		reg.Register(desc)
	}
	return reg
}

var defaultOverlays = []OverlayDescriptor{
	{ID: OverlayField, Name: "Ambient Field", Key: rl.KeyF, KeyLabel: "F", Category: "world"},
	{ID: OverlayConnections, Name: "Connections", Key: rl.KeyC, KeyLabel: "C", Category: "world"},
	{ID: OverlayHeadings, Name: "Headings", Key: rl.KeyV, KeyLabel: "V", Category: "world"},
	{ID: OverlayKinds, Name: "Kind Census", Key: rl.KeyK, KeyLabel: "K", Category: "panels", Exclusive: []OverlayID{OverlayPerf}},
	{ID: OverlayPerf, Name: "Phase Timing", Key: rl.KeyP, KeyLabel: "P", Category: "panels", Exclusive: []OverlayID{OverlayKinds}},
}

// Register adds an overlay, initially off.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.enabled[desc.ID] = false
}

func (r *OverlayRegistry) find(id OverlayID) (OverlayDescriptor, bool) {
	for _, desc := range r.descriptors {
		if desc.ID == id {
			return desc, true
		}
	}
	return OverlayDescriptor{}, false
}

// SetEnabled turns an overlay on or off. Turning one on turns off the
// overlays it excludes.
func (r *OverlayRegistry) SetEnabled(id OverlayID, on bool) {
	desc, ok := r.find(id)
	if !ok {
		return
	}
	r.enabled[id] = on
	if on {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// Toggle flips an overlay and returns its new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	on := !r.enabled[id]
	r.SetEnabled(id, on)
	return r.enabled[id]
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// ByCategory returns the overlays in category, in registration order.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns each category once, in order of first appearance.
func (r *OverlayRegistry) Categories() []string {
	var cats []string
	for _, desc := range r.descriptors {
		if !slices.Contains(cats, desc.Category) {
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeyPress toggles the overlay bound to key. It reports whether any
// overlay was bound to it.
func (r *OverlayRegistry) HandleKeyPress(key int32) bool {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && desc.Key == key {
			r.Toggle(desc.ID)
			return true
		}
	}
	return false
}

package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/petri/species"
)

// AgentPanelData is the selected agent's state.
type AgentPanelData struct {
	ID         uint64
	Kind       species.Kind
	Traits     species.Traits
	Energy     float64
	AgeRatio   float64
	Generation int
}

// AgentPanel renders the inspection panel for the selected agent.
type AgentPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewAgentPanel creates a new agent panel.
func NewAgentPanel(x, y, width int32) *AgentPanel {
	return &AgentPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (a *AgentPanel) SetPosition(x, y int32) {
	a.x = x
	a.y = y
}

// Draw renders the panel.
func (a *AgentPanel) Draw(data AgentPanelData) {
	r := a.renderer
	padding := r.Theme.Padding
	contentWidth := a.width - padding*2
	x := a.x + padding

	r.DrawPanel(a.x, a.y, a.width, r.Theme.LineHeight*13+padding*2)

	y := a.y + padding
	rl.DrawText(fmt.Sprintf("%s #%d", data.Kind, data.ID), x, y, 16, rl.White)
	y += r.Theme.LineHeight + 4

	y = r.DrawBar(x, y, "Energy", data.Energy, contentWidth)
	y = r.DrawBar(x, y, "Age", data.AgeRatio, contentWidth)
	y = r.DrawLabelValue(x, y, "Generation", fmt.Sprint(data.Generation))
	y = r.DrawSpacer(y, 4)

	t := data.Traits
	y = r.DrawSectionHeader(x, y, "Traits")
	y = r.DrawLabelValue(x, y, "Shape", t.Shape.String())
	y = r.DrawLabelValue(x, y, "Behavior", t.Behavior.String())
	y = r.DrawLabelValue(x, y, "Ability", t.Ability.String())
	y = r.DrawColorSwatch(x, y, "Hue", KindColor(t.Hue, 1))
	y = r.DrawLabelValue(x, y, "Size", fmt.Sprintf("%.1f", t.Size))
	y = r.DrawLabelValue(x, y, "Speed", fmt.Sprintf("%.2f", t.Speed))
	r.DrawLabelValue(x, y, "Lifespan", fmt.Sprintf("%.0f", t.Lifespan))
}

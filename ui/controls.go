package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// MaxSteps bounds the steps-per-frame slider.
const MaxSteps = 10

// ControlsState is the simulation state editable from the controls panel.
type ControlsState struct {
	Paused    bool
	Steps     int
	Reactions bool
}

// ControlsPanel renders the right-side panel with run controls and overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether a screen point is over the panel, so pointer
// input there is not forwarded to the simulation.
func (c *ControlsPanel) Contains(x, y float32, overlays *OverlayRegistry) bool {
	if !c.visible {
		return false
	}
	return x >= float32(c.x) && x < float32(c.x+c.width) &&
		y >= float32(c.y) && y < float32(c.y+c.height(overlays))
}

func (c *ControlsPanel) height(overlays *OverlayRegistry) int32 {
	r := c.renderer
	items := len(overlays.All()) + len(overlays.Categories())
	return r.Theme.Padding*3 + r.Theme.LineHeight*int32(items+1) + 110
}

// Draw renders the panel and applies any widget changes to state.
// Returns the Y position below the panel.
func (c *ControlsPanel) Draw(state *ControlsState, overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight
	inner := float32(c.width - padding*2)

	r.DrawPanel(c.x, c.y, c.width, c.height(overlays))

	x := float32(c.x + padding)
	y := float32(c.y + padding)

	rl.DrawText("Controls", int32(x), int32(y), 16, rl.White)
	y += float32(lineHeight) + 6

	half := (inner - 6) / 2
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 24}, toggleText(state.Paused, "Resume", "Pause")) {
		state.Paused = !state.Paused
	}
	if gui.Button(rl.Rectangle{X: x + half + 6, Y: y, Width: half, Height: 24}, toggleText(state.Reactions, "Reactions: on", "Reactions: off")) {
		state.Reactions = !state.Reactions
	}
	y += 34

	rl.DrawText(fmt.Sprintf("Steps per frame: %d", state.Steps), int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
	y += float32(lineHeight)
	steps := gui.SliderBar(
		rl.Rectangle{X: x + 12, Y: y, Width: inner - 30, Height: 18},
		"1", fmt.Sprint(MaxSteps),
		float32(state.Steps), 1, MaxSteps,
	)
	state.Steps = min(max(int(steps+0.5), 1), MaxSteps)
	y += 30

	for _, category := range overlays.Categories() {
		rl.DrawText(categoryLabel(category), int32(x), int32(y), r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += float32(lineHeight)

		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(int32(x), int32(y), desc, overlays.IsEnabled(desc.ID), int32(inner))
			y += float32(lineHeight)
		}
		y += 4
	}

	return int32(y)
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	nameColor := r.Theme.LabelColor
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "world":
		return "World"
	case "panels":
		return "Panels"
	default:
		return cat
	}
}

func toggleText(on bool, ifOn, ifOff string) string {
	if on {
		return ifOn
	}
	return ifOff
}

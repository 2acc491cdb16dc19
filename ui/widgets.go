package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer draws themed widgets. Every Draw* call that emits a row returns
// the y of the next row.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel fills a bordered panel background.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

func (r *Renderer) drawLabel(x, y int32, label string) {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
}

// DrawLabelValue draws a label with its value in the value column.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	r.drawLabel(x, y, label)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws a [0, 1] value as a bar colored by level, with the numeric
// value to its right.
func (r *Renderer) DrawBar(x, y int32, label string, value float64, width int32) int32 {
	t := r.Theme
	value = clamp01(value)
	barX := x + t.LabelWidth
	barW := width - t.LabelWidth - 40

	r.drawLabel(x, y, label)
	rl.DrawRectangle(barX, y+2, barW, t.BarHeight, t.BarBg)
	rl.DrawRectangle(barX, y+2, int32(float64(barW)*value), t.BarHeight, t.level(value))
	rl.DrawText(fmt.Sprintf("%.2f", value), barX+barW+5, y, t.FontSize, t.ValueColor)

	return y + t.LineHeight + 2
}

// DrawColorSwatch draws a small square of color in the value column.
func (r *Renderer) DrawColorSwatch(x, y int32, label string, color rl.Color) int32 {
	r.drawLabel(x, y, label)
	rl.DrawRectangle(x+r.Theme.LabelWidth, y+1, 12, 12, color)
	return y + r.Theme.LineHeight
}

func (r *Renderer) DrawSpacer(y, amount int32) int32 {
	return y + amount
}

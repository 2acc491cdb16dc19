// Package ui draws the HUD, panels and overlay toggles on top of the
// simulation view.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds colors and metrics shared by every panel.
type Theme struct {
	PanelBg       rl.Color
	PanelBorder   rl.Color
	SectionHeader rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color
	BarBg         rl.Color
	// BarLevels colors a bar below 0.3, below 0.6 and above.
	BarLevels [3]rl.Color

	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the dark theme used by the viewer.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:       rl.Color{R: 16, G: 20, B: 28, A: 235},
		PanelBorder:   rl.Color{R: 54, G: 64, B: 82, A: 255},
		SectionHeader: rl.Color{R: 240, G: 200, B: 90, A: 255},
		LabelColor:    rl.Color{R: 170, G: 178, B: 190, A: 255},
		ValueColor:    rl.RayWhite,
		BarBg:         rl.Color{R: 34, G: 38, B: 46, A: 255},
		BarLevels: [3]rl.Color{
			{R: 210, G: 96, B: 90, A: 255},
			{R: 214, G: 180, B: 96, A: 255},
			{R: 96, G: 196, B: 140, A: 255},
		},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     80,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

// level returns the bar color for v in [0, 1].
func (t Theme) level(v float64) rl.Color {
	switch {
	case v < 0.3:
		return t.BarLevels[0]
	case v < 0.6:
		return t.BarLevels[1]
	}
	return t.BarLevels[2]
}

// KindColor returns the display color for a hue in degrees, dimmed by
// energy in [0, 1].
func KindColor(hue, energy float64) rl.Color {
	value := 0.35 + 0.65*clamp01(energy)
	return rl.ColorFromHSV(float32(hue), 0.75, float32(value))
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/petri/species"
	"github.com/pthm-cable/petri/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title         string
	Population    int
	MaxPopulation int
	Tick          int
	Speed         int
	FPS           int32
	Paused        bool
	MutationRate  float64
	Stats         telemetry.WindowStats // last flushed window
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Agents: %d / %d | Mutation: %.3f", data.Population, data.MaxPopulation, data.MutationRate),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d", data.Tick, data.Speed, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	s := data.Stats
	rl.DrawText(
		fmt.Sprintf("Last window: %d births, %d reactions, %d deaths", s.Births, s.Reactions, s.DeathsAge+s.DeathsStarved),
		10, 75, 14, rl.Gray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 93, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase timing breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Phase Timing", x, y, 16, rl.White)
	y += 20

	rl.DrawText(
		fmt.Sprintf("Tick: %s (%.0f/s)", stats.AvgTick.Round(time.Microsecond), stats.TicksPerSecond),
		x, y, 14, rl.Yellow,
	)
	y += 16

	for phase := range telemetry.NumPhases {
		pct := stats.PhasePct[phase]

		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-12s %6s %5.1f%%", phase, stats.PhaseAvg[phase].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}

// KindPanel renders the population census per kind.
type KindPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewKindPanel creates a new census panel.
func NewKindPanel(x, y, width int32) *KindPanel {
	return &KindPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (k *KindPanel) SetPosition(x, y int32) {
	k.x = x
	k.y = y
}

// Draw renders one row per kind with its color and share of the population.
func (k *KindPanel) Draw(counts [species.NumKinds]int) {
	r := k.renderer
	padding := r.Theme.Padding

	total := 0
	for _, n := range counts {
		total += n
	}

	height := int32(len(species.All)+1)*(r.Theme.LineHeight+2) + padding*2
	r.DrawPanel(k.x, k.y, k.width, height)

	y := k.y + padding
	y = r.DrawSectionHeader(k.x+padding, y, "Kinds")
	for _, kind := range species.All {
		share := 0.0
		if total > 0 {
			share = float64(counts[kind]) / float64(total)
		}
		rl.DrawRectangle(k.x+padding, y+2, 10, 10, KindColor(kind.Profile().Hue, 1))
		y = r.DrawBar(k.x+padding+14, y, fmt.Sprintf("%s %d", kind, counts[kind]), share, k.width-padding*2-14)
	}
}

package renderer

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/petri/camera"
	"github.com/pthm-cable/petri/game"
	"github.com/pthm-cable/petri/species"
	"github.com/pthm-cable/petri/ui"
)

const (
	panelWidth = 230
	title      = "Petri"
	legend     = "LMB: spawn | RMB: inspect | Space: pause | , .: speed | Wheel: zoom | Arrows: pan | Home: reset | Tab: panel | Q: quit"
)

// Viewer owns the raylib frontend for a running game: it pushes pointer and
// viewport changes into the simulation and draws each frame's snapshot.
// The raylib window must be open before NewViewer is called.
type Viewer struct {
	game *game.Game
	cam  *camera.Camera

	overlays   *ui.OverlayRegistry
	hud        *ui.HUD
	controls   *ui.ControlsPanel
	perfPanel  *ui.PerfPanel
	kindPanel  *ui.KindPanel
	agentPanel *ui.AgentPanel

	agents *AgentRenderer
	field  *FieldRenderer

	state ui.ControlsState

	snapshot game.Snapshot
	links    []game.Link

	selected     uint64
	hasSelection bool

	screenW, screenH int32
}

// NewViewer creates a viewer for g, running stepsPerFrame simulation frames
// per rendered frame.
func NewViewer(g *game.Game, stepsPerFrame int) *Viewer {
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())

	v := &Viewer{
		game:       g,
		overlays:   ui.NewOverlayRegistry(),
		hud:        ui.NewHUD(),
		controls:   ui.NewControlsPanel(w-panelWidth-10, 10, panelWidth),
		perfPanel:  ui.NewPerfPanel(10, 120),
		kindPanel:  ui.NewKindPanel(10, 120, panelWidth),
		agentPanel: ui.NewAgentPanel(w-panelWidth-10, h-250, panelWidth),
		agents:     NewAgentRenderer(),
		field:      NewFieldRenderer(),
		state: ui.ControlsState{
			Steps:     min(max(stepsPerFrame, 1), ui.MaxSteps),
			Reactions: g.Config().Reaction.Enabled,
		},
		screenW: w,
		screenH: h,
	}
	g.Resize(float64(w), float64(h))
	v.cam = camera.New(float64(w), float64(h), g.Space())
	v.overlays.SetEnabled(ui.OverlayKinds, true)
	return v
}

// Run draws and steps the simulation until the window closes or maxTicks
// frames have been simulated (0 = unlimited).
func (v *Viewer) Run(maxTicks int) {
	for !rl.WindowShouldClose() {
		v.handleInput()

		if !v.state.Paused {
			for range v.state.Steps {
				v.game.Update()
			}
		}

		v.draw()
		v.game.RecordFrame()

		if maxTicks > 0 && v.game.Tick() >= maxTicks {
			slog.Info("max ticks reached", "tick", v.game.Tick())
			return
		}
	}
}

// handleInput processes window, keyboard and mouse input.
func (v *Viewer) handleInput() {
	v.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		v.state.Paused = !v.state.Paused
	}
	if rl.IsKeyPressed(rl.KeyComma) && v.state.Steps > 1 {
		v.state.Steps--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && v.state.Steps < ui.MaxSteps {
		v.state.Steps++
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		v.controls.Toggle()
	}
	if key := rl.GetKeyPressed(); key != 0 {
		v.overlays.HandleKeyPress(key)
	}

	v.handleCameraInput()
	v.handlePointer()
}

// handleResize resizes the world to follow the window.
func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	if w == v.screenW && h == v.screenH {
		return
	}
	v.screenW = w
	v.screenH = h

	v.game.Resize(float64(w), float64(h))
	v.cam.Resize(float64(w), float64(h), v.game.Space())
	v.controls.SetPosition(w-panelWidth-10, 10)
	v.agentPanel.SetPosition(w-panelWidth-10, h-250)
}

// handleCameraInput processes camera pan/zoom controls.
func (v *Viewer) handleCameraInput() {
	// Pan speed scales inversely with zoom for natural feel
	panSpeed := 8.0 / v.cam.Zoom

	if rl.IsKeyDown(rl.KeyRight) {
		v.cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		v.cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		v.cam.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		v.cam.Pan(0, -panSpeed)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.cam.ZoomBy(1 + float64(wheel)*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		v.cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		v.cam.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		v.cam.Reset()
	}
}

// handlePointer forwards the mouse to the simulation in world coordinates
// and handles agent selection.
func (v *Viewer) handlePointer() {
	mouse := rl.GetMousePosition()
	overPanel := v.controls.Contains(mouse.X, mouse.Y, v.overlays)
	world := v.cam.ScreenToWorld(r2.Vec{X: float64(mouse.X), Y: float64(mouse.Y)})

	v.game.SetPointer(game.PointerState{
		X:       world.X,
		Y:       world.Y,
		Pressed: rl.IsMouseButtonDown(rl.MouseButtonLeft),
		Present: rl.IsCursorOnScreen() && !overPanel,
	})

	if rl.IsKeyPressed(rl.KeyEscape) {
		v.hasSelection = false
	}
	if !overPanel && rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		v.selectAt(world)
	}
}

// selectAt selects the closest agent whose body contains p.
func (v *Viewer) selectAt(p r2.Vec) {
	space := v.game.Space()
	closest := -1
	closestDist := 0.0
	for i := range v.snapshot.Agents {
		a := &v.snapshot.Agents[i]
		d := space.DistSq(p, r2.Vec{X: a.X, Y: a.Y})
		hit := a.Traits.Size + 5
		if d < hit*hit && (closest < 0 || d < closestDist) {
			closest = i
			closestDist = d
		}
	}
	if closest < 0 {
		v.hasSelection = false
		return
	}
	v.selected = v.snapshot.Agents[closest].ID
	v.hasSelection = true
}

func (v *Viewer) draw() {
	v.snapshot = v.game.Snapshot(&v.snapshot)
	if v.game.Config().Reaction.Enabled != v.state.Reactions {
		v.game.Config().Reaction.Enabled = v.state.Reactions
	}

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 12, G: 14, B: 20, A: 255})

	if v.overlays.IsEnabled(ui.OverlayField) {
		v.field.Draw(v.game.Field(), v.cam, v.game.Tick())
	}
	if v.overlays.IsEnabled(ui.OverlayConnections) {
		v.links = v.game.Links(v.links[:0])
		DrawLinks(v.links, v.cam)
	}
	v.agents.Draw(&v.snapshot, v.cam, v.overlays.IsEnabled(ui.OverlayHeadings))

	selected, ok := v.selectedAgent()
	if ok {
		DrawSelection(r2.Vec{X: selected.X, Y: selected.Y}, selected.Traits.Size, v.cam)
	}

	v.hud.Draw(ui.HUDData{
		Title:         title,
		Population:    len(v.snapshot.Agents),
		MaxPopulation: v.game.Config().Population.Max,
		Tick:          v.game.Tick(),
		Speed:         v.state.Steps,
		FPS:           rl.GetFPS(),
		Paused:        v.state.Paused,
		MutationRate:  v.game.MutationRate(),
		Stats:         v.game.LastStats(),
	})

	switch {
	case v.overlays.IsEnabled(ui.OverlayKinds):
		v.kindPanel.Draw(v.kindCounts())
	case v.overlays.IsEnabled(ui.OverlayPerf):
		v.perfPanel.Draw(v.game.PerfStats())
	}

	v.controls.Draw(&v.state, v.overlays)

	if ok {
		v.agentPanel.Draw(ui.AgentPanelData{
			ID:         selected.ID,
			Kind:       selected.Kind,
			Traits:     selected.Traits,
			Energy:     selected.Energy,
			AgeRatio:   selected.AgeRatio,
			Generation: selected.Generation,
		})
	}

	v.hud.DrawControls(v.screenH, legend)
	if v.state.Paused {
		msg := fmt.Sprintf("paused at tick %d", v.game.Tick())
		rl.DrawText(msg, v.screenW/2-rl.MeasureText(msg, 20)/2, 10, 20, rl.Yellow)
	}

	rl.EndDrawing()
}

// selectedAgent returns the selected agent if it is still alive.
func (v *Viewer) selectedAgent() (game.AgentView, bool) {
	if !v.hasSelection {
		return game.AgentView{}, false
	}
	for _, a := range v.snapshot.Agents {
		if a.ID == v.selected {
			return a, true
		}
	}
	v.hasSelection = false
	return game.AgentView{}, false
}

func (v *Viewer) kindCounts() [species.NumKinds]int {
	var counts [species.NumKinds]int
	for _, a := range v.snapshot.Agents {
		counts[a.Kind]++
	}
	return counts
}

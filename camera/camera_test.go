package camera

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/petri/systems"
)

func wrapSpace(w, h float64) systems.Space {
	return systems.Space{Width: w, Height: h, Wrap: true}
}

func near(a, b r2.Vec) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestNew(t *testing.T) {
	cam := New(1280, 720, wrapSpace(2560, 1440))

	if cam.X != 1280 || cam.Y != 720 {
		t.Errorf("expected camera at (1280, 720), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 0.5 {
		t.Errorf("expected zoom 0.5, got %f", cam.Zoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, wrapSpace(2560, 1440))
	cam.SetZoom(1)

	got := cam.WorldToScreen(r2.Vec{X: 1280, Y: 720})
	if !near(got, r2.Vec{X: 640, Y: 360}) {
		t.Errorf("expected screen center (640, 360), got %v", got)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, wrapSpace(2560, 1440))
	cam.SetZoom(1.5)

	for _, s := range []r2.Vec{{X: 640, Y: 360}, {X: 100, Y: 100}, {X: 1200, Y: 600}} {
		w := cam.ScreenToWorld(s)
		back := cam.WorldToScreen(w)
		if !near(back, s) {
			t.Errorf("roundtrip failed: %v -> %v -> %v", s, w, back)
		}
	}
}

func TestToroidalWrap(t *testing.T) {
	cam := New(1280, 720, wrapSpace(2560, 1440))
	cam.SetZoom(1)
	cam.X = 100

	// The right world edge is closer going left.
	got := cam.WorldToScreen(r2.Vec{X: 2500, Y: 720})
	if got.X >= 640 {
		t.Errorf("expected entity on left of screen, got x=%f", got.X)
	}
}

func TestPan(t *testing.T) {
	tests := []struct {
		name  string
		space systems.Space
		wantX float64
	}{
		{"wrap", wrapSpace(2560, 1440), 2560 - 100},
		{"reflect", systems.Space{Width: 2560, Height: 1440}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := New(1280, 720, tt.space)
			cam.SetZoom(1)
			cam.X = 100
			cam.Pan(-200, 0)
			if math.Abs(cam.X-tt.wantX) > 1e-9 {
				t.Errorf("X = %f, want %f", cam.X, tt.wantX)
			}
		})
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(800, 600, wrapSpace(1600, 800))

	// max(800/1600, 600/800)
	if math.Abs(cam.MinZoom-0.75) > 1e-9 {
		t.Errorf("expected MinZoom 0.75, got %f", cam.MinZoom)
	}

	cam.SetZoom(0.1)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MinZoom, cam.Zoom)
	}
	cam.SetZoom(10)
	if cam.Zoom != 4 {
		t.Errorf("expected zoom clamped to 4, got %f", cam.Zoom)
	}
}

func TestResizeToWorldSize(t *testing.T) {
	cam := New(1280, 800, wrapSpace(1280, 800))
	cam.ZoomBy(2)

	cam.Resize(640, 400, wrapSpace(640, 400))
	if cam.MinZoom != 1 {
		t.Errorf("MinZoom = %f, want 1", cam.MinZoom)
	}
	if cam.X < 0 || cam.X >= 640 || cam.Y < 0 || cam.Y >= 400 {
		t.Errorf("center (%f, %f) outside resized world", cam.X, cam.Y)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, wrapSpace(2560, 1440))
	cam.SetZoom(1)

	// Visible world range is (640, 360) to (1920, 1080).
	if !cam.IsVisible(r2.Vec{X: 1280, Y: 720}, 10) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(r2.Vec{X: 2400, Y: 1300}, 10) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(r2.Vec{X: 600, Y: 720}, 100) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestGhosts(t *testing.T) {
	cam := New(800, 600, wrapSpace(800, 600))

	// An agent on the left edge also shows on the right.
	ghosts := cam.Ghosts(nil, r2.Vec{X: 2, Y: 300}, 5)
	if len(ghosts) != 1 {
		t.Fatalf("len(Ghosts) = %d, want 1", len(ghosts))
	}
	if !near(ghosts[0], r2.Vec{X: 802, Y: 300}) {
		t.Errorf("ghost at %v, want (802, 300)", ghosts[0])
	}

	if got := cam.Ghosts(nil, r2.Vec{X: 400, Y: 300}, 5); len(got) != 0 {
		t.Errorf("centered agent has %d ghosts, want 0", len(got))
	}

	cam.Resize(800, 600, systems.Space{Width: 800, Height: 600})
	if got := cam.Ghosts(nil, r2.Vec{X: 2, Y: 300}, 5); len(got) != 0 {
		t.Errorf("non-wrapping world has %d ghosts, want 0", len(got))
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720, wrapSpace(2560, 1440))
	cam.X = 500
	cam.Y = 500
	cam.Zoom = 2.5

	cam.Reset()

	if cam.X != 1280 || cam.Y != 720 {
		t.Errorf("expected position (1280, 720), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom %f, got %f", cam.MinZoom, cam.Zoom)
	}
}

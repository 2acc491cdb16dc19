package game

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/config"
	"github.com/pthm-cable/petri/species"
	"github.com/pthm-cable/petri/telemetry"
)

// quietConfig returns defaults with no seeding, no top-up and no
// reproduction, so a test controls every agent.
func quietConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Population.Initial = 0
	cfg.Population.Floor = 0
	cfg.Reproduction.Probability = 0
	return cfg
}

// findAgent returns the entity with the given agent ID.
func findAgent(t *testing.T, g *Game, id uint64) ecs.Entity {
	t.Helper()
	query := g.agentFilter.Query()
	var found ecs.Entity
	ok := false
	for query.Next() {
		_, _, _, org, _, _, _ := query.Get()
		if org.ID == id {
			found = query.Entity()
			ok = true
		}
	}
	if !ok {
		t.Fatalf("agent %d not found", id)
	}
	return found
}

func mustSpawn(t *testing.T, g *Game, kind species.Kind, x, y float64) uint64 {
	t.Helper()
	id, ok := g.Spawn(kind, x, y)
	if !ok {
		t.Fatalf("Spawn(%v, %v, %v) rejected", kind, x, y)
	}
	return id
}

func countKind(s Snapshot, k species.Kind) int {
	n := 0
	for _, a := range s.Agents {
		if a.Kind == k {
			n++
		}
	}
	return n
}

func TestInvariantsHoldEveryFrame(t *testing.T) {
	cfg := config.Defaults()
	cfg.Population.Max = 250
	cfg.Population.Initial = 150
	cfg.Reproduction.Probability = 0.05
	g := NewGameWithOptions(cfg, Options{Seed: 3})
	defer g.Unload()

	for frame := 0; frame < 400; frame++ {
		g.Update()

		if g.Population() > cfg.Population.Max {
			t.Fatalf("frame %d: population %d exceeds max %d", frame, g.Population(), cfg.Population.Max)
		}

		count := 0
		query := g.agentFilter.Query()
		for query.Next() {
			pos, _, _, org, energy, _, conn := query.Get()
			count++
			if energy.Age >= energy.MaxAge {
				t.Errorf("frame %d: agent %d age %d >= max age %d", frame, org.ID, energy.Age, energy.MaxAge)
			}
			if energy.Value <= 0 || energy.Value > 1 {
				t.Errorf("frame %d: agent %d energy %v outside (0, 1]", frame, org.ID, energy.Value)
			}
			if len(conn.Neighbors) > cfg.Neighbors.MaxConnections {
				t.Errorf("frame %d: agent %d has %d connections", frame, org.ID, len(conn.Neighbors))
			}
			if org.ReactionCooldown < 0 || org.ReproCooldown < 0 {
				t.Errorf("frame %d: agent %d negative cooldown", frame, org.ID)
			}
			if pos.X < 0 || pos.X >= g.space.Width || pos.Y < 0 || pos.Y >= g.space.Height {
				t.Errorf("frame %d: agent %d at (%v, %v) outside the world", frame, org.ID, pos.X, pos.Y)
			}
		}
		if count != g.Population() {
			t.Fatalf("frame %d: %d entities, Population() = %d", frame, count, g.Population())
		}
		if t.Failed() {
			return
		}
	}

	snap := g.Snapshot(nil)
	for i := 1; i < len(snap.Agents); i++ {
		if snap.Agents[i-1].ID >= snap.Agents[i].ID {
			t.Fatalf("snapshot IDs not strictly increasing at %d", i)
		}
	}
}

func TestSameSeedIsDeterministic(t *testing.T) {
	run := func() Snapshot {
		g := NewGameWithOptions(config.Defaults(), Options{Seed: 42})
		defer g.Unload()
		for range 300 {
			g.Update()
		}
		return g.Snapshot(nil)
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Fatal("two runs with the same seed diverged")
	}
}

func TestGridAndNaiveIndexAgree(t *testing.T) {
	run := func(naiveBelow int) Snapshot {
		cfg := config.Defaults()
		cfg.Neighbors.NaiveBelow = naiveBelow
		g := NewGameWithOptions(cfg, Options{Seed: 11})
		defer g.Unload()
		for range 200 {
			g.Update()
		}
		return g.Snapshot(nil)
	}

	grid := run(0)
	naive := run(math.MaxInt)
	if !reflect.DeepEqual(grid, naive) {
		t.Fatal("grid-indexed run diverged from naive-indexed run")
	}
}

func TestWaterFireReaction(t *testing.T) {
	cfg := quietConfig()
	g := NewGameWithOptions(cfg, Options{Seed: 1})
	defer g.Unload()

	fireID := mustSpawn(t, g, species.Fire, 100, 100)
	waterID := mustSpawn(t, g, species.Water, 105, 100)
	fireMaxAge := g.energyMap.Get(findAgent(t, g, fireID)).MaxAge
	waterMaxAge := g.energyMap.Get(findAgent(t, g, waterID)).MaxAge

	g.Update()

	snap := g.Snapshot(nil)
	if got := countKind(snap, species.Steam); got != 1 {
		t.Fatalf("steam after one frame = %d, want 1", got)
	}
	if g.Population() != 3 {
		t.Fatalf("Population() = %d, want 3", g.Population())
	}

	fire := findAgent(t, g, fireID)
	water := findAgent(t, g, waterID)
	for _, e := range []ecs.Entity{fire, water} {
		if got := g.orgMap.Get(e).ReactionCooldown; got != cfg.Reaction.CooldownFrames {
			t.Errorf("ReactionCooldown = %d, want %d", got, cfg.Reaction.CooldownFrames)
		}
	}

	if got, want := g.energyMap.Get(fire).MaxAge, int(math.Ceil(float64(fireMaxAge)*0.5)); got != want {
		t.Errorf("fire MaxAge = %d, want %d", got, want)
	}
	if got, want := g.energyMap.Get(water).MaxAge, int(math.Ceil(float64(waterMaxAge)*0.8)); got != want {
		t.Errorf("water MaxAge = %d, want %d", got, want)
	}

	for frame := 1; frame < cfg.Reaction.CooldownFrames; frame++ {
		g.Update()
		if g.Population() != 3 {
			t.Fatalf("frame %d: population %d during cooldown, want 3", frame, g.Population())
		}
	}
}

func TestReactionsDisabled(t *testing.T) {
	cfg := quietConfig()
	cfg.Reaction.Enabled = false
	g := NewGameWithOptions(cfg, Options{Seed: 1})
	defer g.Unload()

	mustSpawn(t, g, species.Fire, 100, 100)
	mustSpawn(t, g, species.Water, 105, 100)
	for range 10 {
		g.Update()
	}
	if g.Population() != 2 {
		t.Errorf("Population() = %d, want 2", g.Population())
	}
}

func TestReproduceAtCapIsRejected(t *testing.T) {
	cfg := quietConfig()
	cfg.Population.Max = 3
	g := NewGameWithOptions(cfg, Options{Seed: 1})
	defer g.Unload()

	ids := []uint64{
		mustSpawn(t, g, species.Water, 100, 100),
		mustSpawn(t, g, species.Water, 300, 100),
		mustSpawn(t, g, species.Water, 500, 100),
	}
	if _, ok := g.Spawn(species.Air, 10, 10); ok {
		t.Fatal("Spawn above the cap succeeded")
	}

	parent := findAgent(t, g, ids[0])
	g.energyMap.Get(parent).Value = 1
	if g.reproduce(parent) {
		t.Fatal("reproduce at cap returned true")
	}
	g.applySpawns()

	if g.Population() != 3 {
		t.Errorf("Population() = %d, want 3", g.Population())
	}
	if got := g.energyMap.Get(parent).Value; got != 1 {
		t.Errorf("parent energy = %v after rejected reproduction, want 1", got)
	}
	if got := g.orgMap.Get(parent).ReproCooldown; got != 0 {
		t.Errorf("parent ReproCooldown = %d after rejected reproduction, want 0", got)
	}
}

func TestReproduceWithoutMutationCopiesTraits(t *testing.T) {
	cfg := quietConfig()
	cfg.Mutation.InitialRate = 0
	cfg.Mutation.GrowthPerFrame = 0
	cfg.Mutation.MaxRate = 0
	g := NewGameWithOptions(cfg, Options{Seed: 9})
	defer g.Unload()

	parentID := mustSpawn(t, g, species.Water, 200, 200)
	parent := findAgent(t, g, parentID)
	g.energyMap.Get(parent).Value = 0.8
	parentTraits := g.genomeMap.Get(parent).Traits

	if !g.reproduce(parent) {
		t.Fatal("reproduce returned false below the cap")
	}
	g.applySpawns()

	if g.Population() != 2 {
		t.Fatalf("Population() = %d, want 2", g.Population())
	}

	k := cfg.Reproduction.EnergyFraction
	if got, want := g.energyMap.Get(parent).Value, 0.8*k; math.Abs(got-want) > 1e-12 {
		t.Errorf("parent energy = %v, want %v", got, want)
	}
	if got := g.orgMap.Get(parent).ReproCooldown; got != cfg.Reproduction.CooldownFrames {
		t.Errorf("parent ReproCooldown = %d, want %d", got, cfg.Reproduction.CooldownFrames)
	}

	var child *components.Organism
	var childEntity ecs.Entity
	query := g.agentFilter.Query()
	for query.Next() {
		_, _, _, org, _, _, _ := query.Get()
		if org.ParentID == parentID {
			child = org
			childEntity = query.Entity()
		}
	}
	if child == nil {
		t.Fatal("no agent with the parent's ID as ParentID")
	}
	if child.Generation != 1 || child.MutationCount != 0 || child.Kind != species.Water {
		t.Errorf("child = %+v, want generation 1, no mutations, water", *child)
	}
	if got := g.genomeMap.Get(childEntity).Traits; got != parentTraits {
		t.Errorf("child traits = %+v, want %+v", got, parentTraits)
	}
	if got, want := g.energyMap.Get(childEntity).Value, 0.8*k; math.Abs(got-want) > 1e-12 {
		t.Errorf("child energy = %v, want %v", got, want)
	}
}

func TestPopulationDepletesWithoutRenewal(t *testing.T) {
	cfg := quietConfig()
	cfg.Population.Initial = 60
	cfg.Reaction.Enabled = false
	g := NewGameWithOptions(cfg, Options{Seed: 5})
	defer g.Unload()

	longest := 0.0
	for _, k := range species.Primal {
		longest = math.Max(longest, k.Profile().LifespanMax)
	}

	prev := g.Population()
	for frame := 0; frame <= int(longest)+1; frame++ {
		g.Update()
		if g.Population() > prev {
			t.Fatalf("frame %d: population grew from %d to %d", frame, prev, g.Population())
		}
		prev = g.Population()
	}
	if g.Population() != 0 {
		t.Errorf("Population() = %d after every lifespan elapsed, want 0", g.Population())
	}
}

func TestTopUpRestoresFloor(t *testing.T) {
	cfg := quietConfig()
	cfg.Population.Floor = 25
	g := NewGameWithOptions(cfg, Options{Seed: 2})
	defer g.Unload()

	g.Update()
	if g.Population() < cfg.Population.Floor {
		t.Errorf("Population() = %d after top-up, want >= %d", g.Population(), cfg.Population.Floor)
	}
}

func TestPointerSpawning(t *testing.T) {
	cfg := quietConfig()
	cfg.Reaction.Enabled = false
	cfg.Pointer.SpawnRate = 0.5
	g := NewGameWithOptions(cfg, Options{Seed: 4})
	defer g.Unload()

	g.SetPointer(PointerState{X: 400, Y: 300, Pressed: true, Present: true})
	for range 4 {
		g.Update()
	}
	if g.Population() != 2 {
		t.Fatalf("Population() = %d after four pressed frames at rate 0.5, want 2", g.Population())
	}

	g.SetPointer(PointerState{X: 400, Y: 300, Present: true})
	for range 4 {
		g.Update()
	}
	if g.Population() != 2 {
		t.Errorf("Population() = %d after release, want 2", g.Population())
	}
}

func TestResize(t *testing.T) {
	cfg := quietConfig()
	g := NewGameWithOptions(cfg, Options{Seed: 6})
	defer g.Unload()

	mustSpawn(t, g, species.Earth, 1000, 700)
	g.Resize(400, 300)

	if s := g.Space(); s.Width != 400 || s.Height != 300 {
		t.Fatalf("Space() = %vx%v, want 400x300", s.Width, s.Height)
	}
	cols, rows := g.Field().Dims()
	wantCols := int(math.Ceil(400 / cfg.Field.Resolution))
	wantRows := int(math.Ceil(300 / cfg.Field.Resolution))
	if cols != wantCols || rows != wantRows {
		t.Errorf("field dims = %dx%d, want %dx%d", cols, rows, wantCols, wantRows)
	}
	for _, a := range g.Snapshot(nil).Agents {
		if a.X < 0 || a.X >= 400 || a.Y < 0 || a.Y >= 300 {
			t.Errorf("agent %d at (%v, %v) outside the resized world", a.ID, a.X, a.Y)
		}
	}
	if !g.neighborsDirty {
		t.Error("Resize did not schedule a neighbor refresh")
	}

	g.Resize(0, 100)
	if s := g.Space(); s.Width != 400 {
		t.Errorf("Resize(0, 100) changed width to %v", s.Width)
	}
}

func TestStatsCallbackAndOutput(t *testing.T) {
	cfg := config.Defaults()
	cfg.Telemetry.StatsWindow = 10
	dir := filepath.Join(t.TempDir(), "run")

	var windows []telemetry.WindowStats
	g := NewGameWithOptions(cfg, Options{
		Seed:          8,
		OutputDir:     dir,
		StatsCallback: func(s telemetry.WindowStats) { windows = append(windows, s) },
	})
	for range 30 {
		g.Update()
	}
	g.Unload()

	if len(windows) != 3 {
		t.Fatalf("got %d stats windows, want 3", len(windows))
	}
	last := g.LastStats()
	if last.WindowEndTick != 30 {
		t.Errorf("LastStats().WindowEndTick = %d, want 30", last.WindowEndTick)
	}
	if last.Population != g.Population() {
		t.Errorf("LastStats().Population = %d, want %d", last.Population, g.Population())
	}
	for _, name := range []string{"telemetry.csv", "perf.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

// stillConfig is quietConfig with steering and field forces removed, so
// agents move only by the velocity a test gives them.
func stillConfig() *config.Config {
	cfg := quietConfig()
	cfg.Physics.MaxForce = 0
	cfg.Physics.Drag = 1
	cfg.Flocking.FieldWeight = 0
	return cfg
}

func TestReactionUsesStartOfFramePositions(t *testing.T) {
	cfg := stillConfig()
	g := NewGameWithOptions(cfg, Options{Seed: 6})
	defer g.Unload()

	// Water is spawned first so it is integrated before Fire is visited.
	waterID := mustSpawn(t, g, species.Water, 100, 400)
	fireID := mustSpawn(t, g, species.Fire, 116, 400)
	water := findAgent(t, g, waterID)
	fire := findAgent(t, g, fireID)
	g.genomeMap.Get(water).Traits.Speed = 3
	*g.velMap.Get(water) = components.Velocity{X: 2.5}
	*g.velMap.Get(fire) = components.Velocity{}

	g.Update()
	if got := countKind(g.Snapshot(nil), species.Steam); got != 0 {
		t.Fatalf("steam after first frame = %d, want 0 (pair started 16 apart)", got)
	}
	for _, e := range []ecs.Entity{water, fire} {
		if got := g.orgMap.Get(e).ReactionCooldown; got != 0 {
			t.Errorf("ReactionCooldown = %d after first frame, want 0", got)
		}
	}
	if got := g.posMap.Get(water).X; math.Abs(got-102.5) > 1e-9 {
		t.Fatalf("water X = %v, want 102.5", got)
	}

	g.Update()
	if got := countKind(g.Snapshot(nil), species.Steam); got != 1 {
		t.Errorf("steam after second frame = %d, want 1", got)
	}
}

func TestTopUpWithZeroInitialEnergy(t *testing.T) {
	cfg := quietConfig()
	cfg.Population.Floor = 40
	cfg.Energy.Initial = 0
	g := NewGameWithOptions(cfg, Options{Seed: 2})
	defer g.Unload()

	for range 3 {
		g.Update()
	}
	snap := g.Snapshot(nil)
	if g.Population() != len(snap.Agents) {
		t.Errorf("Population() = %d, snapshot has %d agents", g.Population(), len(snap.Agents))
	}
	if g.Population() != 0 {
		t.Errorf("Population() = %d, want 0 when every spawn is born without energy", g.Population())
	}
	if _, ok := g.Spawn(species.Air, 10, 10); ok {
		t.Error("Spawn of an agent without energy succeeded")
	}
}

func TestZeroRefreshIntervals(t *testing.T) {
	cfg := stillConfig()
	cfg.Neighbors.RefreshInterval = 0
	cfg.Field.RefreshInterval = 0
	g := NewGameWithOptions(cfg, Options{Seed: 3})
	defer g.Unload()

	id := mustSpawn(t, g, species.Air, 200, 200)
	mustSpawn(t, g, species.Air, 210, 200)
	for range 5 {
		g.Update()
	}
	if got := len(g.connMap.Get(findAgent(t, g, id)).Neighbors); got != 1 {
		t.Errorf("connections = %d, want 1", got)
	}
}

func TestLinksTakeShortWayAcrossWrap(t *testing.T) {
	cfg := stillConfig()
	cfg.Reaction.Enabled = false
	g := NewGameWithOptions(cfg, Options{Seed: 7})
	defer g.Unload()

	w := cfg.Derived.ScreenW
	a := findAgent(t, g, mustSpawn(t, g, species.Air, 5, 300))
	b := findAgent(t, g, mustSpawn(t, g, species.Air, w-5, 300))
	*g.velMap.Get(a) = components.Velocity{}
	*g.velMap.Get(b) = components.Velocity{}

	g.Update()
	links := g.Links(nil)
	if len(links) != 2 {
		t.Fatalf("got %d links, want 2", len(links))
	}
	for _, l := range links {
		if d := math.Hypot(l.To.X-l.From.X, l.To.Y-l.From.Y); math.Abs(d-10) > 1e-9 {
			t.Errorf("link %+v has length %v, want 10", l, d)
		}
	}
}

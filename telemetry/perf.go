package telemetry

import (
	"log/slog"
	"time"
)

// Phase identifies one step of Game.Update.
type Phase uint8

// Phases in execution order.
const (
	PhaseInput Phase = iota
	PhaseCooldowns
	PhaseField
	PhaseNeighbors
	PhaseAgents
	PhaseMetabolism
	PhaseSpawnCull
	PhaseTopUp
	PhaseTelemetry
	NumPhases
)

var phaseNames = [NumPhases]string{
	"input", "cooldowns", "field", "neighbors", "agents",
	"metabolism", "spawn_cull", "topup", "telemetry",
}

func (p Phase) String() string {
	if p < NumPhases {
		return phaseNames[p]
	}
	return "unknown"
}

// tickSample is the timing of one Update call.
type tickSample struct {
	total  time.Duration
	phases [NumPhases]time.Duration
}

// PerfCollector keeps per-phase timings for the last windowSize ticks in a
// ring buffer. Only one phase is open at a time; starting a phase closes
// the previous one.
type PerfCollector struct {
	ring  []tickSample
	next  int
	count int

	cur        tickSample
	tickStart  time.Time
	phaseStart time.Time
	open       bool
	phase      Phase

	lastFrame     time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a collector over a window of windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{ring: make([]tickSample, windowSize)}
}

// StartTick begins timing a new tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.cur = tickSample{}
	p.open = false
}

// StartPhase closes the open phase, if any, and opens phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phase
	p.open = true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.open && p.phase < NumPhases {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	}
	p.open = false
}

// EndTick closes the open phase and stores the tick in the ring.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}
}

// RecordFrame marks a rendered frame; the viewer calls it once per frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frameDuration = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats summarizes the ticks in the window.
type PerfStats struct {
	AvgTick time.Duration
	P50Tick time.Duration
	P90Tick time.Duration
	MaxTick time.Duration

	PhaseAvg [NumPhases]time.Duration
	PhasePct [NumPhases]float64 // share of the average tick, 0-100

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats computes statistics over the ticks currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	var s PerfStats
	s.FrameDuration = p.frameDuration
	if p.frameDuration > 0 {
		s.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.count == 0 {
		return s
	}

	totals := make([]float64, p.count)
	var sums [NumPhases]time.Duration
	for i, t := range p.ring[:p.count] {
		totals[i] = float64(t.total)
		for ph, d := range t.phases {
			sums[ph] += d
		}
	}

	d := ComputeDistribution(totals)
	s.AvgTick = time.Duration(d.Mean)
	s.P50Tick = time.Duration(d.P50)
	s.P90Tick = time.Duration(d.P90)
	s.MaxTick = time.Duration(d.Max)

	n := time.Duration(p.count)
	for ph := range NumPhases {
		s.PhaseAvg[ph] = sums[ph] / n
		if s.AvgTick > 0 {
			s.PhasePct[ph] = float64(s.PhaseAvg[ph]) / float64(s.AvgTick) * 100
		}
	}
	if s.AvgTick > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTick)
	}
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTick.Microseconds()),
		slog.Int64("p90_tick_us", s.P90Tick.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTick.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for ph := range NumPhases {
		if s.PhasePct[ph] > 0.1 {
			attrs = append(attrs, slog.Float64(ph.String()+"_pct", float64(int(s.PhasePct[ph]*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// LogStats logs the perf stats using slog.
func (s PerfStats) LogStats() {
	slog.Info("perf", "perf", s)
}

// PerfStatsCSV is a flat record for perf.csv.
type PerfStatsCSV struct {
	WindowEnd     int     `csv:"window_end"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	P50TickUS     int64   `csv:"p50_tick_us"`
	P90TickUS     int64   `csv:"p90_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	FPS           float64 `csv:"fps"`
	InputPct      float64 `csv:"input_pct"`
	CooldownsPct  float64 `csv:"cooldowns_pct"`
	FieldPct      float64 `csv:"field_pct"`
	NeighborsPct  float64 `csv:"neighbors_pct"`
	AgentsPct     float64 `csv:"agents_pct"`
	MetabolismPct float64 `csv:"metabolism_pct"`
	SpawnCullPct  float64 `csv:"spawn_cull_pct"`
	TopUpPct      float64 `csv:"topup_pct"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int) PerfStatsCSV {
	pct := s.PhasePct
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		AvgTickUS:     s.AvgTick.Microseconds(),
		P50TickUS:     s.P50Tick.Microseconds(),
		P90TickUS:     s.P90Tick.Microseconds(),
		MaxTickUS:     s.MaxTick.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		FPS:           s.FPS,
		InputPct:      pct[PhaseInput],
		CooldownsPct:  pct[PhaseCooldowns],
		FieldPct:      pct[PhaseField],
		NeighborsPct:  pct[PhaseNeighbors],
		AgentsPct:     pct[PhaseAgents],
		MetabolismPct: pct[PhaseMetabolism],
		SpawnCullPct:  pct[PhaseSpawnCull],
		TopUpPct:      pct[PhaseTopUp],
		TelemetryPct:  pct[PhaseTelemetry],
	}
}

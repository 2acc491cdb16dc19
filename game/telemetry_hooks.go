package game

import (
	"log/slog"

	"github.com/pthm-cable/petri/telemetry"
)

// flushTelemetry closes the stats window when it is due and fans the result
// out to the callback, the log and the CSV output.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.sample())
	perfStats := g.perfCollector.Stats()
	g.lastStats = stats

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

// sample measures the live population for the stats window.
func (g *Game) sample() telemetry.Sample {
	s := telemetry.Sample{
		Energies:     make([]float64, 0, g.aliveCount),
		Generations:  make([]float64, 0, g.aliveCount),
		MutationRate: g.MutationRate(),
	}
	query := g.agentFilter.Query()
	for query.Next() {
		_, _, _, org, energy, _, _ := query.Get()
		if !energy.Live() {
			continue
		}
		s.Energies = append(s.Energies, energy.Value)
		s.Generations = append(s.Generations, float64(org.Generation))
		s.KindCounts[org.Kind]++
	}
	return s
}

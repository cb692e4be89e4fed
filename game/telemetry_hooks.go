package game

import (
	"log/slog"

	"github.com/pthm-cable/qsoup/telemetry"
	"github.com/pthm-cable/qsoup/traits"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	sample := g.sample()
	stats := g.collector.Flush(g.tick, sample)
	g.lastStats = stats
	perfStats := g.perfCollector.Stats()

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

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats || bm.Type == telemetry.BookmarkExtinction {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}

// sample collects the live population for a stats window and updates
// lifetime peak energies.
func (g *Game) sample() *telemetry.Sample {
	s := &telemetry.Sample{}
	for i := range g.slots {
		sl := &g.slots[i]
		if !sl.body.Alive {
			continue
		}
		if sl.c == nil {
			s.Plants++
			continue
		}
		c := sl.c
		gn := c.Genome
		s.Add(float64(c.Energy), c.Generation, c.Policy.Average(),
			float64(gn.Speed), float64(gn.Attack), float64(gn.SenseRange),
			gn.Poison, traits.SpeciesLabel(gn))
		g.lifetimeTracker.UpdateEnergy(c.ID, c.Energy)
	}
	return s
}

package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the simulation step, in execution order.
const (
	PhaseAdvance      = "advance"
	PhaseInteraction  = "interaction"
	PhaseReproduction = "reproduction"
	PhaseReap         = "reap"
	PhaseRefill       = "refill"
	PhaseTelemetry    = "telemetry"
)

// Phases lists every phase in execution order.
var Phases = []string{
	PhaseAdvance, PhaseInteraction, PhaseReproduction,
	PhaseReap, PhaseRefill, PhaseTelemetry,
}

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks step timing over a rolling window of ticks.
type PerfCollector struct {
	samples []PerfSample // ring buffer
	next    int
	filled  int

	current    map[string]time.Duration
	tickStart  time.Time
	phaseStart time.Time
	phase      string

	lastFrame     time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{samples: make([]PerfSample, windowSize)}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = make(map[string]time.Duration, len(Phases))
	p.phase = ""
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phase
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase != "" {
		p.current[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick finishes the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.phase = ""

	p.samples[p.next] = PerfSample{TickDuration: now.Sub(p.tickStart), Phases: p.current}
	p.next = (p.next + 1) % len(p.samples)
	if p.filled < len(p.samples) {
		p.filled++
	}
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frameDuration = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // share of average tick time

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the samples in the current window.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frameDuration,
	}
	if p.frameDuration > 0 {
		out.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.filled == 0 {
		return out
	}

	var total time.Duration
	sums := make(map[string]time.Duration)
	for i, s := range p.samples[:p.filled] {
		total += s.TickDuration
		if i == 0 || s.TickDuration < out.MinTickDuration {
			out.MinTickDuration = s.TickDuration
		}
		if s.TickDuration > out.MaxTickDuration {
			out.MaxTickDuration = s.TickDuration
		}
		for phase, d := range s.Phases {
			sums[phase] += d
		}
	}

	n := time.Duration(p.filled)
	out.AvgTickDuration = total / n
	for phase, sum := range sums {
		avg := sum / n
		out.PhaseAvg[phase] = avg
		if out.AvgTickDuration > 0 {
			out.PhasePct[phase] = 100 * float64(avg) / float64(out.AvgTickDuration)
		}
	}
	if out.AvgTickDuration > 0 {
		out.TicksPerSecond = float64(time.Second) / float64(out.AvgTickDuration)
	}
	return out
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, phase := range Phases {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range Phases {
		attrs = append(attrs, slog.Float64(phase+"_pct", s.PhasePct[phase]))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd       int32   `csv:"window_end"`
	AvgTickUS       int64   `csv:"avg_tick_us"`
	MinTickUS       int64   `csv:"min_tick_us"`
	MaxTickUS       int64   `csv:"max_tick_us"`
	TicksPerSec     float64 `csv:"ticks_per_sec"`
	FPS             float64 `csv:"fps"`
	AdvancePct      float64 `csv:"advance_pct"`
	InteractionPct  float64 `csv:"interaction_pct"`
	ReproductionPct float64 `csv:"reproduction_pct"`
	ReapPct         float64 `csv:"reap_pct"`
	RefillPct       float64 `csv:"refill_pct"`
	TelemetryPct    float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:       windowEnd,
		AvgTickUS:       s.AvgTickDuration.Microseconds(),
		MinTickUS:       s.MinTickDuration.Microseconds(),
		MaxTickUS:       s.MaxTickDuration.Microseconds(),
		TicksPerSec:     s.TicksPerSecond,
		FPS:             s.FPS,
		AdvancePct:      s.PhasePct[PhaseAdvance],
		InteractionPct:  s.PhasePct[PhaseInteraction],
		ReproductionPct: s.PhasePct[PhaseReproduction],
		ReapPct:         s.PhasePct[PhaseReap],
		RefillPct:       s.PhasePct[PhaseRefill],
		TelemetryPct:    s.PhasePct[PhaseTelemetry],
	}
}

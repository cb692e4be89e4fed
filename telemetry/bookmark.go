package telemetry

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/qsoup/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkExtinction          BookmarkType = "extinction"
	BookmarkPopulationBoom      BookmarkType = "population_boom"
	BookmarkGenerationMilestone BookmarkType = "generation_milestone"
	BookmarkApexEmergence       BookmarkType = "apex_emergence"
	BookmarkStablePopulation    BookmarkType = "stable_population"
)

// apexMarker is the attack component of a species label for attack > 30.
const apexMarker = "HighAtk"

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation from
// successive window stats.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	history []WindowStats // ring buffer
	next    int
	filled  int

	extinct       bool
	apexPresent   bool
	stable        bool
	lastMilestone int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(cfg config.BookmarksConfig, historySize int) *BookmarkDetector {
	if historySize < cfg.StablePopulation.StableWindows {
		historySize = cfg.StablePopulation.StableWindows
	}
	if historySize < 2 {
		historySize = 2
	}
	return &BookmarkDetector{
		cfg:     cfg,
		history: make([]WindowStats, historySize),
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var out []Bookmark
	for _, check := range []func(WindowStats) *Bookmark{
		bd.checkExtinction,
		bd.checkPopulationBoom,
		bd.checkGenerationMilestone,
		bd.checkApexEmergence,
	} {
		if b := check(stats); b != nil {
			out = append(out, *b)
		}
	}

	bd.history[bd.next] = stats
	bd.next = (bd.next + 1) % len(bd.history)
	if bd.filled < len(bd.history) {
		bd.filled++
	}

	if b := bd.checkStablePopulation(stats); b != nil {
		out = append(out, *b)
	}
	return out
}

// recent returns up to n most recent windows, oldest first.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	if n > bd.filled {
		n = bd.filled
	}
	out := make([]WindowStats, n)
	for i := 0; i < n; i++ {
		idx := (bd.next - n + i + len(bd.history)) % len(bd.history)
		out[i] = bd.history[idx]
	}
	return out
}

func (bd *BookmarkDetector) checkExtinction(stats WindowStats) *Bookmark {
	if stats.Creatures > 0 {
		bd.extinct = false
		return nil
	}
	if bd.extinct {
		return nil
	}
	bd.extinct = true
	return &Bookmark{
		Type:        BookmarkExtinction,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("No creatures left at %.0fs", stats.SimTimeSec),
	}
}

func (bd *BookmarkDetector) checkPopulationBoom(stats WindowStats) *Bookmark {
	cfg := bd.cfg.PopulationBoom
	history := bd.recent(bd.filled)
	if len(history) == 0 || stats.Creatures < cfg.MinPopulation {
		return nil
	}
	var sum float64
	for _, h := range history {
		sum += float64(h.Creatures)
	}
	avg := sum / float64(len(history))
	if avg == 0 || float64(stats.Creatures) < avg*cfg.Multiplier {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkPopulationBoom,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Population %d is %.1fx rolling average (%.1f)", stats.Creatures, float64(stats.Creatures)/avg, avg),
	}
}

func (bd *BookmarkDetector) checkGenerationMilestone(stats WindowStats) *Bookmark {
	every := bd.cfg.GenerationMilestone.Every
	if every <= 0 {
		return nil
	}
	milestone := stats.GenerationMax / every * every
	if milestone == 0 || milestone <= bd.lastMilestone {
		return nil
	}
	bd.lastMilestone = milestone
	return &Bookmark{
		Type:        BookmarkGenerationMilestone,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Generation %d reached (max %d)", milestone, stats.GenerationMax),
	}
}

func (bd *BookmarkDetector) checkApexEmergence(stats WindowStats) *Bookmark {
	var label string
	var count int
	for _, s := range SortedSpecies(stats.Species) {
		if strings.Contains(s, apexMarker) {
			label = s
			count += stats.Species[s]
		}
	}
	present := count > 0
	defer func() { bd.apexPresent = present }()
	if !present || bd.apexPresent {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkApexEmergence,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("High-attack species appeared (%d creatures, e.g. %s)", count, label),
	}
}

// checkStablePopulation fires once when the coefficient of variation of the
// creature count over the last stable_windows windows drops below threshold.
func (bd *BookmarkDetector) checkStablePopulation(stats WindowStats) *Bookmark {
	cfg := bd.cfg.StablePopulation
	window := bd.recent(cfg.StableWindows)
	if cfg.StableWindows <= 0 || len(window) < cfg.StableWindows {
		return nil
	}

	counts := make([]float64, len(window))
	for i, h := range window {
		if h.Creatures < cfg.MinPopulation {
			bd.stable = false
			return nil
		}
		counts[i] = float64(h.Creatures)
	}
	mean, variance := stat.PopMeanVariance(counts, nil)
	cv := math.Sqrt(math.Max(variance, 0)) / mean

	if cv >= cfg.CVThreshold {
		bd.stable = false
		return nil
	}
	if bd.stable {
		return nil
	}
	bd.stable = true
	return &Bookmark{
		Type:        BookmarkStablePopulation,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Population steady around %.0f over %d windows (cv %.3f)", mean, len(window), cv),
	}
}

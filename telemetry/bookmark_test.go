package telemetry

import (
	"testing"

	"github.com/pthm-cable/qsoup/config"
)

func countType(bookmarks []Bookmark, typ BookmarkType) int {
	n := 0
	for _, b := range bookmarks {
		if b.Type == typ {
			n++
		}
	}
	return n
}

func newDetector() *BookmarkDetector {
	return NewBookmarkDetector(config.Defaults().Bookmarks, 10)
}

func TestBookmarkDetector_Extinction(t *testing.T) {
	bd := newDetector()

	steps := []struct {
		creatures int
		want      int
	}{
		{5, 0},
		{0, 1},
		{0, 0}, // already extinct
		{3, 0},
		{0, 1},
	}
	for i, s := range steps {
		got := countType(bd.Check(WindowStats{WindowEndTick: int32(i * 600), Creatures: s.creatures}), BookmarkExtinction)
		if got != s.want {
			t.Errorf("window %d (creatures=%d): %d extinction bookmarks, want %d", i, s.creatures, got, s.want)
		}
	}
}

func TestBookmarkDetector_PopulationBoom(t *testing.T) {
	bd := newDetector()

	for i := 0; i < 5; i++ {
		if b := bd.Check(WindowStats{WindowEndTick: int32(i * 600), Creatures: 10}); countType(b, BookmarkPopulationBoom) != 0 {
			t.Fatalf("unexpected boom at steady window %d", i)
		}
	}

	got := bd.Check(WindowStats{WindowEndTick: 3000, Creatures: 25})
	if countType(got, BookmarkPopulationBoom) != 1 {
		t.Errorf("expected population boom at 2.5x average, got %+v", got)
	}
}

func TestBookmarkDetector_BoomNeedsMinimum(t *testing.T) {
	bd := newDetector()
	bd.Check(WindowStats{Creatures: 2})
	// 5x the average but under min_population
	if got := bd.Check(WindowStats{Creatures: 10}); countType(got, BookmarkPopulationBoom) != 0 {
		t.Errorf("boom fired below min_population: %+v", got)
	}
}

func TestBookmarkDetector_GenerationMilestone(t *testing.T) {
	bd := newDetector()

	steps := []struct {
		maxGen int
		want   int
	}{
		{9, 0},
		{12, 1},
		{15, 0},
		{20, 1},
		{20, 0},
	}
	for i, s := range steps {
		got := countType(bd.Check(WindowStats{Creatures: 5, GenerationMax: s.maxGen}), BookmarkGenerationMilestone)
		if got != s.want {
			t.Errorf("window %d (max gen %d): %d milestones, want %d", i, s.maxGen, got, s.want)
		}
	}
}

func TestBookmarkDetector_ApexEmergence(t *testing.T) {
	bd := newDetector()

	calm := map[string]int{"Slow_LowAtk_NonPois_Leg2_ShortSense": 6}
	apex := map[string]int{
		"Slow_LowAtk_NonPois_Leg2_ShortSense": 5,
		"Fast_HighAtk_Pois_Leg1_LongSense":    1,
	}

	if got := bd.Check(WindowStats{Creatures: 6, Species: calm}); countType(got, BookmarkApexEmergence) != 0 {
		t.Error("apex bookmark without high-attack species")
	}
	if got := bd.Check(WindowStats{Creatures: 6, Species: apex}); countType(got, BookmarkApexEmergence) != 1 {
		t.Errorf("expected apex emergence, got %+v", got)
	}
	if got := bd.Check(WindowStats{Creatures: 6, Species: apex}); countType(got, BookmarkApexEmergence) != 0 {
		t.Error("apex bookmark repeated while species persists")
	}
	bd.Check(WindowStats{Creatures: 6, Species: calm})
	if got := bd.Check(WindowStats{Creatures: 6, Species: apex}); countType(got, BookmarkApexEmergence) != 1 {
		t.Error("expected apex bookmark after species re-emerged")
	}
}

func TestBookmarkDetector_StablePopulation(t *testing.T) {
	bd := newDetector()

	fired := 0
	for i := 0; i < 8; i++ {
		b := bd.Check(WindowStats{WindowEndTick: int32(i * 600), Creatures: 30})
		n := countType(b, BookmarkStablePopulation)
		if n > 0 && i != 4 {
			t.Errorf("stable bookmark at window %d, want only at window 4", i)
		}
		fired += n
	}
	if fired != 1 {
		t.Errorf("stable bookmark fired %d times, want 1", fired)
	}

	// A swing breaks the streak; a new calm stretch fires again.
	bd.Check(WindowStats{Creatures: 80})
	fired = 0
	for i := 0; i < 5; i++ {
		fired += countType(bd.Check(WindowStats{Creatures: 30}), BookmarkStablePopulation)
	}
	if fired != 1 {
		t.Errorf("stable bookmark fired %d times after recovery, want 1", fired)
	}
}

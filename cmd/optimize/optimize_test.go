package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/qsoup/config"
	"github.com/pthm-cable/qsoup/telemetry"
)

func TestParamVectorRoundtrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()

	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: roundtrip %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestDefaultsMatchConfig(t *testing.T) {
	pv := NewParamVector()
	got := pv.ExtractFromConfig(config.Defaults())
	for i, spec := range pv.Specs {
		if math.Abs(got[i]-spec.Default) > 1e-9 {
			t.Errorf("%s: config default %v, spec default %v", spec.Name, got[i], spec.Default)
		}
	}
}

func TestApplyToConfigClamps(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Defaults()

	values := pv.DefaultVector()
	values[0] = 2.0 // epsilon above its max
	values[2] = 0.7
	pv.ApplyToConfig(cfg, values)

	if cfg.Learning.Epsilon != 0.5 {
		t.Errorf("epsilon = %v, want clamped to 0.5", cfg.Learning.Epsilon)
	}
	if cfg.Learning.Gamma != 0.7 {
		t.Errorf("gamma = %v, want 0.7", cfg.Learning.Gamma)
	}
}

func TestEvalRowColumns(t *testing.T) {
	pv := NewParamVector()
	row := newEvalRow(1, -10, 0.5, pv.DefaultVector())
	if row.Epsilon != 0.2 || row.Gamma != 0.9 || row.PartnerChance != 0.2 {
		t.Errorf("row = %+v", row)
	}
}

func TestNewMethod(t *testing.T) {
	for _, name := range []string{"cmaes", "nelder-mead"} {
		if _, err := newMethod(name, 6, 0); err != nil {
			t.Errorf("newMethod(%q): %v", name, err)
		}
	}
	if _, err := newMethod("annealing", 6, 0); err == nil {
		t.Error("expected error for unknown method")
	}
}

func TestComputeQuality(t *testing.T) {
	if q := computeQuality(nil); q != 0 {
		t.Errorf("quality of no windows = %v", q)
	}

	steady := make([]telemetry.WindowStats, 10)
	for i := range steady {
		steady[i] = telemetry.WindowStats{Creatures: 20, AvgQMean: 2, SpeciesCount: 6, GenerationMax: 25}
	}
	noisy := make([]telemetry.WindowStats, 10)
	for i := range noisy {
		n := 5
		if i%2 == 0 {
			n = 40
		}
		noisy[i] = telemetry.WindowStats{Creatures: n, AvgQMean: -2, SpeciesCount: 1, GenerationMax: 2}
	}

	qs, qn := computeQuality(steady), computeQuality(noisy)
	if qs <= qn {
		t.Errorf("steady quality %v should beat noisy %v", qs, qn)
	}
	if qs < 0 || qs > 1 || qn < 0 || qn > 1 {
		t.Errorf("quality out of range: %v %v", qs, qn)
	}
}

func TestEvaluateShortRun(t *testing.T) {
	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 120, []int64{42}, config.Defaults())

	fitness := fe.Evaluate(pv.DefaultVector())

	// 120 frames at 1/60 s is 2 s; nothing can starve that fast.
	if fitness > -1.99 || fitness < -2.41 {
		t.Errorf("fitness = %v, want in [-2.4, -2]", fitness)
	}
	if q := fe.LastQuality(); q != 0 {
		t.Errorf("quality = %v, want 0 with no complete windows", q)
	}
}

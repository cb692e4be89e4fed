package inspector

import (
	"testing"

	"github.com/pthm-cable/qsoup/components"
	"github.com/pthm-cable/qsoup/traits"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag     string
		widget  Widget
		options map[string]string
	}{
		{"", WidgetAuto, map[string]string{}},
		{"bar", WidgetBar, map[string]string{}},
		{"bar,max:150", WidgetBar, map[string]string{"max": "150"}},
		{"label,fmt:%.1fs", WidgetLabel, map[string]string{"fmt": "%.1fs"}},
		{"bar,max:200,fmt:%.1f", WidgetBar, map[string]string{"max": "200", "fmt": "%.1f"}},
		{"skip", WidgetSkip, map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			widget, options := ParseTag(tt.tag)
			if widget != tt.widget {
				t.Errorf("widget = %v, want %v", widget, tt.widget)
			}
			if len(options) != len(tt.options) {
				t.Fatalf("options = %v, want %v", options, tt.options)
			}
			for k, v := range tt.options {
				if options[k] != v {
					t.Errorf("options[%q] = %q, want %q", k, options[k], v)
				}
			}
		})
	}
}

func TestSplitName(t *testing.T) {
	tests := map[string]string{
		"Energy":           "Energy",
		"ReproCooldown":    "Repro Cooldown",
		"ID":               "ID",
		"PoisonResistance": "Poison Resistance",
		"SenseRange":       "Sense Range",
	}
	for in, want := range tests {
		if got := SplitName(in); got != want {
			t.Errorf("SplitName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRowsCreature(t *testing.T) {
	c := components.Creature{
		ID:            7,
		Generation:    3,
		Energy:        75,
		ReproCooldown: 2.5,
		Death:         components.Eaten,
	}

	rows := Rows(&c)
	byLabel := make(map[string]Row)
	for _, r := range rows {
		byLabel[r.Label] = r
	}

	for _, skipped := range []string{"Genome", "Policy", "Born Tick"} {
		if _, ok := byLabel[skipped]; ok {
			t.Errorf("%s should be skipped", skipped)
		}
	}

	energy := byLabel["Energy"]
	if energy.Widget != WidgetBar {
		t.Errorf("energy widget = %v, want bar", energy.Widget)
	}
	if energy.Fraction != 0.5 {
		t.Errorf("energy fraction = %v, want 0.5", energy.Fraction)
	}
	if got := byLabel["Repro Cooldown"].Text; got != "2.5s" {
		t.Errorf("cooldown text = %q, want 2.5s", got)
	}
	if got := byLabel["ID"].Text; got != "7" {
		t.Errorf("id text = %q, want 7", got)
	}
	if got := byLabel["Death"].Text; got != "eaten" {
		t.Errorf("death text = %q, want eaten", got)
	}
}

func TestRowsGenome(t *testing.T) {
	g := traits.Genome{Speed: 400, Attack: 5, Poison: true, Legs: 2, SenseRange: 150, PoisonResistance: 0.25}

	rows := Rows(g)
	if len(rows) != 6 {
		t.Fatalf("got %d rows, want 6", len(rows))
	}
	if rows[0].Label != "Speed" || rows[0].Fraction != 1 {
		t.Errorf("speed row = %+v, want fraction clamped to 1", rows[0])
	}
	if rows[2].Text != "yes" {
		t.Errorf("poison text = %q, want yes", rows[2].Text)
	}
	if rows[4].Text != "150" || rows[4].Fraction != 0.5 {
		t.Errorf("sense row = %+v", rows[4])
	}
}

func TestRowsHeadingAngle(t *testing.T) {
	rows := Rows(components.Heading{Deg: 90})
	if len(rows) != 1 || rows[0].Text != "90°" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestRowsNonStruct(t *testing.T) {
	if rows := Rows(42); rows != nil {
		t.Errorf("expected nil rows for int, got %v", rows)
	}
	var c *components.Creature
	if rows := Rows(c); rows != nil {
		t.Errorf("expected nil rows for nil pointer, got %v", rows)
	}
}

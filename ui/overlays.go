package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayHeadings   OverlayID = "headings"
	OverlaySenseRange OverlayID = "sense_range"
	OverlaySpecies    OverlayID = "species"
	OverlayPerf       OverlayID = "perf"
	OverlayHelp       OverlayID = "help"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID        OverlayID
	Name      string
	Key       int32  // keyboard key to toggle (0 = no key)
	KeyLabel  string // key label for display, e.g. "H"
	Category  string // grouping, e.g. "world", "panels"
	Default   bool
	Exclusive []OverlayID // other overlays to disable when this is enabled
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with the default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		ID: OverlayHeadings, Name: "Heading Ticks", Key: rl.KeyH, KeyLabel: "H",
		Category: "world", Default: true,
	})
	r.Register(OverlayDescriptor{
		ID: OverlaySenseRange, Name: "Sense Range", Key: rl.KeyV, KeyLabel: "V",
		Category: "world", Default: true,
	})
	r.Register(OverlayDescriptor{
		ID: OverlaySpecies, Name: "Species List", Key: rl.KeyL, KeyLabel: "L",
		Category: "panels", Default: true,
	})
	r.Register(OverlayDescriptor{
		ID: OverlayPerf, Name: "Step Timing", Key: rl.KeyP, KeyLabel: "P",
		Category: "panels", Exclusive: []OverlayID{OverlayHelp},
	})
	r.Register(OverlayDescriptor{
		ID: OverlayHelp, Name: "Overlay List", Key: rl.KeyO, KeyLabel: "O",
		Category: "panels", Exclusive: []OverlayID{OverlayPerf},
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = desc.Default
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	r.SetEnabled(id, !r.enabled[id])
	return r.enabled[id]
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}
	r.enabled[id] = enabled
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// HandleKeys toggles every overlay whose key was pressed this frame.
func (r *OverlayRegistry) HandleKeys() {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			r.Toggle(desc.ID)
		}
	}
}

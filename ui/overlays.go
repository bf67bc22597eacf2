package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Overlay IDs drawn by the flock renderer.
const (
	OverlaySteerColors  OverlayID = "steer_colors"
	OverlayBucketColors OverlayID = "bucket_colors"
	OverlayVelocity     OverlayID = "velocity"
	OverlayHeadings     OverlayID = "headings"
	OverlayPerception   OverlayID = "perception"
	OverlayGridCells    OverlayID = "grid_cells"
	OverlayTarget       OverlayID = "target"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID       OverlayID
	Name     string
	Key      int32  // 0 = no key
	KeyLabel string // e.g. "C"
	Category string // "Agents", "Grid", "Debug"

	// Overlays sharing a non-empty Group are mutually exclusive
	Group string
}

// OverlayGroup is one category of overlays in registration order.
type OverlayGroup struct {
	Category string
	Overlays []OverlayDescriptor
}

var defaultOverlays = []OverlayDescriptor{
	{ID: OverlaySteerColors, Name: "Steer lag colors", Key: rl.KeyC, KeyLabel: "C", Category: "Agents", Group: "tint"},
	{ID: OverlayBucketColors, Name: "Bucket colors", Key: rl.KeyK, KeyLabel: "K", Category: "Agents", Group: "tint"},
	{ID: OverlayTarget, Name: "Target", Key: rl.KeyT, KeyLabel: "T", Category: "Agents"},
	{ID: OverlayPerception, Name: "Perception radius", Key: rl.KeyV, KeyLabel: "V", Category: "Grid"},
	{ID: OverlayGridCells, Name: "Occupied cells", Key: rl.KeyG, KeyLabel: "G", Category: "Grid"},
	{ID: OverlayVelocity, Name: "Velocity", Key: rl.KeyB, KeyLabel: "B", Category: "Debug"},
	{ID: OverlayHeadings, Name: "Heading axes", Key: rl.KeyX, KeyLabel: "X", Category: "Debug"},
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry holding the flock overlays, all off.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	for _, desc := range defaultOverlays {
		reg.Register(desc)
	}
	return reg
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = false
}

// Toggle switches an overlay on/off and returns the new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	r.SetEnabled(id, !r.enabled[id])
	return r.enabled[id]
}

// SetEnabled sets an overlay's state. Enabling turns off the rest of its group.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}
	if enabled && desc.Group != "" {
		for _, other := range r.descriptors {
			if other.Group == desc.Group {
				r.enabled[other.ID] = false
			}
		}
	}
	r.enabled[id] = enabled
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// Groups returns the overlays grouped by category, categories in order of
// first registration.
func (r *OverlayRegistry) Groups() []OverlayGroup {
	var groups []OverlayGroup
	index := make(map[string]int)
	for _, desc := range r.descriptors {
		i, ok := index[desc.Category]
		if !ok {
			i = len(groups)
			index[desc.Category] = i
			groups = append(groups, OverlayGroup{Category: desc.Category})
		}
		groups[i].Overlays = append(groups[i].Overlays, desc)
	}
	return groups
}

// HandleKeyPress toggles the overlay bound to key. Returns false if no
// overlay uses the key.
func (r *OverlayRegistry) HandleKeyPress(key int32) bool {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && desc.Key == key {
			r.Toggle(desc.ID)
			return true
		}
	}
	return false
}

package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/telemetry"
)

// ControlsPanel renders the overlay toggle list.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  false,
	}
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the controls panel.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight
	groups := overlays.Groups()

	// One line per overlay and per category header, plus the title
	lines := int32(1)
	for _, g := range groups {
		lines += int32(len(g.Overlays)) + 1
	}
	r.DrawPanel(c.x, c.y, c.width, lines*lineHeight+int32(len(groups))*4+padding*2+4)

	x := c.x + padding
	y := c.y + padding
	rl.DrawText("Overlays", x, y, 16, rl.White)
	y += lineHeight + 4

	for _, g := range groups {
		y = r.DrawSectionHeader(x, y, g.Category)
		for _, desc := range g.Overlays {
			c.drawToggle(x, y, desc, overlays.IsEnabled(desc.ID), c.width-padding*2)
			y += lineHeight
		}
		y += 4
	}

	return y
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	// Status indicator
	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	// Name
	nameColor := r.Theme.LabelColor
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	// Key binding (right aligned)
	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// FlockStatsPanel renders the last flushed stats window.
type FlockStatsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewFlockStatsPanel creates a new flock stats panel.
func NewFlockStatsPanel(x, y, width int32) *FlockStatsPanel {
	return &FlockStatsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (f *FlockStatsPanel) SetPosition(x, y int32) {
	f.x = x
	f.y = y
}

// Draw renders the flock stats panel and returns the Y below it.
func (f *FlockStatsPanel) Draw(stats telemetry.WindowStats) int32 {
	r := f.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight
	inner := f.width - padding*2

	panelHeight := lineHeight*8 + padding*2 + 8

	// Draw panel background
	r.DrawPanel(f.x, f.y, f.width, panelHeight)

	y := f.y + padding

	// Title
	rl.DrawText(fmt.Sprintf("Flock @ %.1fs", stats.SimTimeSec), f.x+padding, y, 14, rl.White)
	y += lineHeight + 2

	y = r.DrawLabelValue(f.x+padding, y, "Speed", fmt.Sprintf("%.2f (p10 %.2f, p90 %.2f)", stats.SpeedMean, stats.SpeedP10, stats.SpeedP90))
	y = r.DrawLabelValue(f.x+padding, y, "Neighbors", fmt.Sprintf("%.1f", stats.MeanNeighbors))
	y = r.DrawBar(f.x+padding, y, "Isolated", float32(stats.IsolatedFrac), 0.5, inner)
	y = r.DrawLabelValue(f.x+padding, y, "Bucket size", fmt.Sprintf("%.1f in %d, max %d", stats.MeanBucketSize, stats.Buckets, stats.MaxBucketSize))
	y = r.DrawLabelValue(f.x+padding, y, "To target", fmt.Sprintf("%.1f (p50 %.1f)", stats.TargetDistMean, stats.TargetDistP50))
	y = r.DrawLabelValue(f.x+padding, y, "Held", fmt.Sprintf("vel %d, rot %d", stats.VelocityHeld, stats.OrientationHeld))

	return y
}

// Package ui provides the 2D panels drawn over the flock view: HUD, perf
// breakdown, flock stats, overlay toggles and the steering bias sliders.
package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Theme holds UI styling constants.
type Theme struct {
	PanelBg, PanelBorder                rl.Color
	SectionHeader                       rl.Color
	LabelColor, ValueColor              rl.Color
	BarBg, BarFill, BarFillHigh         rl.Color
	Padding, LineHeight, LabelWidth     int32
	BarHeight, FontSize, HeaderFontSize int32
}

// flockTheme is the palette shared by every panel.
var flockTheme = Theme{
	PanelBg:        rl.Color{R: 14, G: 20, B: 30, A: 230},
	PanelBorder:    rl.Color{R: 50, G: 70, B: 95, A: 255},
	SectionHeader:  rl.Color{R: 240, G: 200, B: 90, A: 255},
	LabelColor:     rl.LightGray,
	ValueColor:     rl.RayWhite,
	BarBg:          rl.Color{R: 35, G: 40, B: 50, A: 255},
	BarFill:        rl.Color{R: 90, G: 160, B: 220, A: 255},
	BarFillHigh:    rl.Color{R: 220, G: 110, B: 90, A: 255},
	Padding:        10,
	LineHeight:     16,
	LabelWidth:     90,
	BarHeight:      12,
	FontSize:       12,
	HeaderFontSize: 14,
}

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the flock theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: flockTheme}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws a progress bar for [0, 1] values. Values above warn are
// drawn in the high color.
func (r *Renderer) DrawBar(x, y int32, label string, value, warn float32, width int32) int32 {
	value = min(max(value, 0), 1)

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 50

	// Label
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)

	// Background
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)

	// Fill
	fill := r.Theme.BarFill
	if value > warn {
		fill = r.Theme.BarFillHigh
	}
	fillWidth := int32(float32(barWidth) * value)
	rl.DrawRectangle(barX, y+2, fillWidth, r.Theme.BarHeight, fill)

	// Value text
	rl.DrawText(fmt.Sprintf("%.2f", value), barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight + 2
}

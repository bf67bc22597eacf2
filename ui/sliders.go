package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/game"
)

// maxBias is the upper end of every bias slider.
const maxBias = 5

// BiasAction reports which panel buttons were pressed this frame.
type BiasAction struct {
	Reset bool // restore the biases the panel was created with
	Pause bool
}

// BiasPanel renders sliders for the steering biases.
type BiasPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
	initial  game.Biases
}

// NewBiasPanel creates a bias panel; initial is restored by the Reset button.
func NewBiasPanel(x, y, width int32, initial game.Biases) *BiasPanel {
	return &BiasPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
		initial:  initial,
	}
}

// SetPosition updates the panel position.
func (b *BiasPanel) SetPosition(x, y int32) {
	b.x = x
	b.y = y
}

// Toggle switches panel visibility.
func (b *BiasPanel) Toggle() bool {
	b.visible = !b.visible
	return b.visible
}

// Initial returns the biases restored by Reset.
func (b *BiasPanel) Initial() game.Biases {
	return b.initial
}

// Draw renders the sliders for current and returns the edited biases.
// changed is true when any slider moved.
func (b *BiasPanel) Draw(current game.Biases) (next game.Biases, changed bool, action BiasAction) {
	next = current
	if !b.visible {
		return next, false, action
	}

	r := b.renderer
	padding := r.Theme.Padding
	sliderW := float32(b.width - padding*2 - 40)

	panelHeight := int32(4*38 + 30 + 40 + padding*2)
	r.DrawPanel(b.x, b.y, b.width, panelHeight)

	x := float32(b.x + padding)
	y := float32(b.y + padding)

	rl.DrawText("Steering Biases", int32(x), int32(y), 16, rl.White)
	y += 26

	sliders := []struct {
		label string
		value *float32
	}{
		{"Cohesion", &next.Cohesion},
		{"Separation", &next.Separation},
		{"Alignment", &next.Alignment},
		{"Target", &next.Target},
	}
	for _, s := range sliders {
		rl.DrawText(s.label, int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
		y += 14
		v := gui.SliderBar(
			rl.Rectangle{X: x, Y: y, Width: sliderW, Height: 16},
			"", "",
			*s.value, 0, maxBias,
		)
		rl.DrawText(fmt.Sprintf("%.2f", v), int32(x+sliderW+6), int32(y+2), r.Theme.FontSize, r.Theme.ValueColor)
		if v != *s.value {
			*s.value = v
			changed = true
		}
		y += 24
	}

	y += 4
	half := (float32(b.width) - float32(padding)*3) / 2
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 26}, "Reset") {
		action.Reset = true
	}
	if gui.Button(rl.Rectangle{X: x + half + float32(padding), Y: y, Width: half, Height: 26}, "Pause") {
		action.Pause = true
	}

	return next, changed, action
}

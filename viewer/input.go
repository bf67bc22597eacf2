package viewer

import rl "github.com/gen2brain/raylib-go/raylib"

// maxStepsPerUpdate caps the speed multiplier.
const maxStepsPerUpdate = 10

// handleInput processes keyboard and mouse input.
func (v *Viewer) handleInput() {
	// Window resize propagation
	v.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		v.game.TogglePause()
	}

	// Steps-per-update control with < > keys (comma and period)
	steps := v.game.StepsPerUpdate()
	if rl.IsKeyPressed(rl.KeyComma) && steps > 1 {
		v.game.SetStepsPerUpdate(steps - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && steps < maxStepsPerUpdate {
		v.game.SetStepsPerUpdate(steps + 1)
	}

	// Panels
	if rl.IsKeyPressed(rl.KeyO) {
		v.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		v.showPerf = !v.showPerf
	}
	if rl.IsKeyPressed(rl.KeyS) {
		v.biasPanel.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyF) {
		v.follow = !v.follow
	}

	// Overlay toggles
	if key := rl.GetKeyPressed(); key != 0 {
		v.overlays.HandleKeyPress(key)
	}

	// Camera controls
	v.handleCameraInput()
}

// handleResize checks for window resize and moves the right-anchored panels.
func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == v.screenWidth && h == v.screenHeight {
		return
	}
	v.screenWidth = w
	v.screenHeight = h

	v.perfPanel.SetPosition(int32(w)-260, 10)
	v.biasPanel.SetPosition(int32(w)-260, int32(h)-250)
}

// handleCameraInput processes camera orbit/pan/zoom controls.
func (v *Viewer) handleCameraInput() {
	cam := v.camera

	// Orbit with right mouse drag or arrow keys
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		delta := rl.GetMouseDelta()
		cam.Orbit(-delta.X*0.005, delta.Y*0.005)
	}
	const keyOrbit = 0.02
	if rl.IsKeyDown(rl.KeyRight) {
		cam.Orbit(keyOrbit, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		cam.Orbit(-keyOrbit, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		cam.Orbit(0, keyOrbit)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		cam.Orbit(0, -keyOrbit)
	}

	// Pan with middle mouse drag, scaled so the scene tracks the cursor
	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		delta := rl.GetMouseDelta()
		cam.Pan(-delta.X/v.screenHeight, delta.Y/v.screenHeight)
	}

	// Zoom controls: mouse wheel or +/- keys
	wheelMove := rl.GetMouseWheelMove()
	if wheelMove != 0 {
		cam.ZoomBy(1 + wheelMove*0.1)
	}

	// Keyboard zoom with +/- (= and - keys)
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		cam.ZoomBy(0.8)
	}

	// Home key to reset camera
	if rl.IsKeyPressed(rl.KeyHome) {
		cam.Reset()
		v.follow = false
	}
}

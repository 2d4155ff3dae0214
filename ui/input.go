package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/overgrown/game"
)

// Commands are the session-level key presses of a frame.
type Commands struct {
	TogglePause bool
	SpeedDelta  int
	Restart     bool
}

// PollInput reads the mouse and keyboard for one frame. The light follows
// the pointer while it is over the playfield and outside the blocked panel.
// Space or the right mouse button drops a seed at the pointer.
func PollInput(blocked *rl.Rectangle) (game.Input, Commands) {
	mouse := rl.GetMousePosition()
	overPanel := blocked != nil && rl.CheckCollisionPointRec(mouse, *blocked)

	in := game.Input{
		PointerX:      mouse.X,
		PointerY:      mouse.Y,
		PointerActive: rl.IsCursorOnScreen() && !overPanel,
	}
	if !overPanel && (rl.IsKeyPressed(rl.KeySpace) || rl.IsMouseButtonPressed(rl.MouseButtonRight)) {
		in.DropSeed = true
		in.DropX, in.DropY = mouse.X, mouse.Y
	}

	var cmd Commands
	if rl.IsKeyPressed(rl.KeyEnter) {
		cmd.TogglePause = true
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		cmd.SpeedDelta++
	}
	if rl.IsKeyPressed(rl.KeyComma) {
		cmd.SpeedDelta--
	}
	cmd.Restart = rl.IsKeyPressed(rl.KeyR)

	return in, cmd
}

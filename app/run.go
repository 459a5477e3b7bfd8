package app

import "github.com/hajimehoshi/ebiten/v2"

// Config holds optional window configuration for Run, mirroring the
// teacher's RunConfig.
type Config struct {
	// Title sets the window title. Ignored on platforms without a
	// title bar.
	Title string
	// Width and Height set the window size in device-independent
	// pixels. If zero, defaults to 640x480.
	Width, Height int
}

// Run is a convenience entry point that creates an Ebitengine game
// loop around the given Shell, the direct counterpart of the
// teacher's scene.Run. For full control over the game loop, skip Run
// and call Shell.Tick directly from a host-owned loop.
func Run(shell *Shell, cfg Config) error {
	w, h := cfg.Width, cfg.Height
	if w == 0 {
		w = 640
	}
	if h == 0 {
		h = 480
	}
	ebiten.SetWindowSize(w, h)
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	g := &gameLoop{shell: shell, w: w, h: h}
	return ebiten.RunGame(g)
}

// gameLoop implements ebiten.Game by delegating to a Shell, the
// direct counterpart of the teacher's gameShell.
type gameLoop struct {
	shell *Shell
	w, h  int
}

func (g *gameLoop) Update() error {
	dt := 1.0 / float64(ebiten.TPS())
	return g.shell.Tick(dt)
}

// Draw is a no-op: Shell.Tick already ran the frame's render
// submission and handed the command stream to Executor during
// Update. Ebitengine still requires a Draw method to satisfy
// ebiten.Game.
func (g *gameLoop) Draw(screen *ebiten.Image) {}

func (g *gameLoop) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.w, g.h
}

// Package viewer shows a rendered frame in a desktop window.
package viewer

import (
	"errors"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// RenderFunc produces a top-row-first RGBA8 frame.
type RenderFunc func() ([]byte, error)

// Run opens a window of the given size, renders one frame into it and
// blocks until the window is closed or Escape is pressed.
func Run(title string, width, height int, render RenderFunc) error {
	g, err := newGame(width, height, render)
	if err != nil {
		return err
	}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(width, height)
	ebiten.SetTPS(30)
	return ebiten.RunGame(g)
}

type game struct {
	width  int
	height int
	render RenderFunc

	pix   []byte
	frame *ebiten.Image
	dirty bool
}

func newGame(width, height int, render RenderFunc) (*game, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("bad window size %vx%v", width, height)
	}
	if render == nil {
		return nil, errors.New("nil render func")
	}
	return &game{width: width, height: height, render: render}, nil
}

// update fetches the frame on first use.
func (g *game) update() error {
	if g.pix != nil {
		return nil
	}
	pix, err := g.render()
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if want := 4 * g.width * g.height; len(pix) != want {
		return fmt.Errorf("render returned %v bytes, want %v", len(pix), want)
	}
	log.Printf("Rendered %vx%v frame", g.width, g.height)
	g.pix = pix
	g.dirty = true
	return nil
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return g.update()
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.pix == nil {
		return
	}
	if g.frame == nil {
		g.frame = ebiten.NewImage(g.width, g.height)
	}
	if g.dirty {
		g.frame.WritePixels(g.pix)
		g.dirty = false
	}
	screen.DrawImage(g.frame, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

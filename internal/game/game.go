// Package game runs the rain engine inside an Ebitengine window.
package game

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/iburimskiy/digital-rain/internal/mask"
	"github.com/iburimskiy/digital-rain/internal/rain"
)

const helpText = "Space: pause  Down: slow motion  D: debug  0-9: density  O: open mask  Esc/Q: quit"

// MaskLoader accepts a new mask photograph and reports the last generation
// failure; *mask.Refresher implements it.
type MaskLoader interface {
	SetSource(src mask.Source)
	Err() error
}

// Game adapts a rain.Engine to ebiten.Game.
type Game struct {
	engine  *rain.Engine
	masks   MaskLoader
	pick    Picker
	surface *Surface

	width, height int
	lastErr       error
}

// New wraps engine. masks may be nil, in which case the open key does nothing.
func New(engine *rain.Engine, masks MaskLoader, pick Picker) (*Game, error) {
	s, err := NewSurface()
	if err != nil {
		return nil, fmt.Errorf("load glyph font: %w", err)
	}
	if pick == nil {
		pick = DialogPicker
	}
	return &Game{
		engine:  engine,
		masks:   masks,
		pick:    pick,
		surface: s,
	}, nil
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		if k == ebiten.KeyO {
			g.openMask()
			continue
		}
		g.engine.HandleKey(engineKey(k))
	}
	g.engine.Tick()
	return nil
}

// openMask asks for an image and hands it to the mask refresher. Errors are
// kept for the status line.
func (g *Game) openMask() {
	if g.masks == nil {
		return
	}
	path, err := g.pick()
	if err != nil {
		g.lastErr = err
		return
	}
	if path == "" {
		return
	}
	g.lastErr = nil
	g.masks.SetSource(mask.FileSource(path))
	rain.Logger().Info("mask image selected", "path", path)
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.surface.Target = screen
	if !g.engine.Render(g.surface) {
		return
	}
	if g.engine.State().Debug {
		ebitenutil.DebugPrintAt(screen, g.status(), 12, 12)
		ebitenutil.DebugPrintAt(screen, helpText, 12, 28)
	}
}

// status is the debug line: engine state plus the last host error, if any.
func (g *Game) status() string {
	status := g.engine.Status()
	err := g.lastErr
	if err == nil && g.masks != nil {
		err = g.masks.Err()
	}
	if err != nil {
		status += " | Error: " + err.Error()
	}
	return status
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.engine.OnResize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

package term

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/digital-rain/internal/rain"
)

// DefaultFrameInterval is roughly 60 frames per second.
const DefaultFrameInterval = 16 * time.Millisecond

// Run drives engine on screen until ctx ends or the user quits with Esc,
// Ctrl-C or q. The caller owns screen Init and Fini.
func Run(ctx context.Context, screen tcell.Screen, engine *rain.Engine, style rain.Style, frame time.Duration) error {
	if frame <= 0 {
		frame = DefaultFrameInterval
	}
	surface := NewSurface(screen, style.Background)
	screen.HideCursor()

	w, h := screen.Size()
	engine.OnResize(w*CellWidth, h*CellHeight)
	engine.Start()
	defer engine.Stop()

	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)
	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			select {
			case eventChan <- ev:
			case <-done:
				return
			}
			if ev == nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-eventChan:
			if !handleEvent(screen, engine, ev) {
				return nil
			}
		case <-ticker.C:
			engine.Tick()
			if engine.Render(surface) {
				screen.Show()
			}
		}
	}
}

// handleEvent reports false when the loop should end.
func handleEvent(screen tcell.Screen, engine *rain.Engine, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case nil:
		// screen finalized
		return false
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyDown:
			engine.HandleKey(rain.KeyDown)
		case tcell.KeyRune:
			if ev.Rune() == 'q' {
				return false
			}
			engine.HandleKey(rain.RuneKey(ev.Rune()))
		}
	case *tcell.EventResize:
		screen.Sync()
		w, h := screen.Size()
		engine.OnResize(w*CellWidth, h*CellHeight)
	}
	return true
}

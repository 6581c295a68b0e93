package game

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/digital-rain/internal/rain"
)

type keyBinding struct {
	key  ebiten.Key
	rain rain.Key
}

// bindings maps physical keys to engine keys. Digits on the main row and
// the keypad both set the density.
var bindings = func() []keyBinding {
	b := []keyBinding{
		{ebiten.KeySpace, rain.KeySpace},
		{ebiten.KeyArrowDown, rain.KeyDown},
		{ebiten.KeyD, rain.KeyD},
	}
	for d := 0; d <= 9; d++ {
		b = append(b,
			keyBinding{ebiten.KeyDigit0 + ebiten.Key(d), rain.DigitKey(d)},
			keyBinding{ebiten.KeyNumpad0 + ebiten.Key(d), rain.DigitKey(d)},
		)
	}
	return b
}()

// engineKey translates an ebiten key, or returns rain.KeyUnknown.
func engineKey(k ebiten.Key) rain.Key {
	for _, b := range bindings {
		if b.key == k {
			return b.rain
		}
	}
	return rain.KeyUnknown
}

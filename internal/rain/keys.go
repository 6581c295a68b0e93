package rain

// Key is a host-neutral key press the engine reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeySpace
	KeyDown
	KeyD
	KeyDigit0
	KeyDigit1
	KeyDigit2
	KeyDigit3
	KeyDigit4
	KeyDigit5
	KeyDigit6
	KeyDigit7
	KeyDigit8
	KeyDigit9
)

// DigitKey returns the Key for digit d (0-9), or KeyUnknown.
func DigitKey(d int) Key {
	if d < 0 || d > 9 {
		return KeyUnknown
	}
	return KeyDigit0 + Key(d)
}

// RuneKey maps a typed character to a Key.
func RuneKey(r rune) Key {
	switch {
	case r == ' ':
		return KeySpace
	case r == 'd' || r == 'D':
		return KeyD
	case r >= '0' && r <= '9':
		return DigitKey(int(r - '0'))
	}
	return KeyUnknown
}

// HandleKey applies a key press: space pauses, down toggles slow motion,
// d toggles the debug overlay, digits set the density (0 means 1.0).
// It reports whether the key was recognized.
func (e *Engine) HandleKey(k Key) bool {
	switch {
	case k == KeySpace:
		e.TogglePause()
	case k == KeyDown:
		e.ToggleSlowMotion()
	case k == KeyD:
		e.ToggleDebug()
	case k >= KeyDigit0 && k <= KeyDigit9:
		d := int(k - KeyDigit0)
		if d == 0 {
			d = 10
		}
		e.SetDensity(float64(d) / 10)
	default:
		return false
	}
	return true
}

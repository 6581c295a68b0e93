package glyphs

// Scripted is a Rand that replays fixed values. Ints and Floats are consumed
// independently and wrap around when exhausted; an empty script yields 0.
// IntN results are reduced modulo n so any script stays in range.
type Scripted struct {
	Ints   []int
	Floats []float64

	nextInt   int
	nextFloat int
}

func (s *Scripted) IntN(n int) int {
	if len(s.Ints) == 0 || n <= 0 {
		return 0
	}
	v := s.Ints[s.nextInt%len(s.Ints)]
	s.nextInt++
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

func (s *Scripted) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[s.nextFloat%len(s.Floats)]
	s.nextFloat++
	return v
}

// Consumed reports how many ints and floats have been drawn so far.
func (s *Scripted) Consumed() (ints, floats int) {
	return s.nextInt, s.nextFloat
}

package model

import (
	"errors"

	"github.com/coreman2200/funtimes-rgbcycle"
)

var ErrEmptySequence = errors.New("sequence has no colors")

var (
	White  = NewColor(rgbcycle.Brightness, rgbcycle.Brightness, rgbcycle.Brightness)
	Red    = NewColor(rgbcycle.Brightness, 0, 0)
	Yellow = NewColor(rgbcycle.Brightness, rgbcycle.Brightness, 0)
	// Green runs at half brightness on purpose.
	Green = NewColor(0, rgbcycle.Brightness/2, 0)
	Blue  = NewColor(0, 0, rgbcycle.Brightness)
)

// Default is the cycle the board shows: white, red, yellow, green, blue.
var Default = Sequence{colors: []Color{White, Red, Yellow, Green, Blue}}

// Sequence is a fixed, cyclic list of colors. The zero value is empty and
// not usable; build one with NewSequence.
type Sequence struct {
	colors []Color
}

func NewSequence(cs ...Color) (Sequence, error) {
	if len(cs) == 0 {
		return Sequence{}, ErrEmptySequence
	}
	v := make([]Color, len(cs))
	copy(v, cs)
	return Sequence{colors: v}, nil
}

func (s Sequence) Len() int { return len(s.colors) }

// At returns the color at i, wrapping in both directions.
func (s Sequence) At(i int) Color {
	n := len(s.colors)
	i %= n
	if i < 0 {
		i += n
	}
	return s.colors[i]
}

func (s Sequence) Colors() []Color {
	v := make([]Color, len(s.colors))
	copy(v, s.colors)
	return v
}

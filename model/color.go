package model

import (
	"fmt"
	"image/color"
)

const (
	RED_OFFSET   uint8 = 0x10
	GREEN_OFFSET uint8 = 0x08
	BLUE_OFFSET  uint8 = 0x0
)

// Order names the byte order a driver expects on the wire.
type Order string

const (
	RGB Order = "RGB"
	GRB Order = "GRB"
)

// Color is an immutable RGB triple packed as 0x00RRGGBB.
type Color struct {
	val uint32
}

func NewColor(r, g, b uint8) Color {
	var v uint32
	v = setcolor(v, r, RED_OFFSET)
	v = setcolor(v, g, GREEN_OFFSET)
	v = setcolor(v, b, BLUE_OFFSET)
	return Color{val: v}
}

// FromHex builds a Color from 0xRRGGBB; bits above 24 are dropped.
func FromHex(c uint32) Color {
	return Color{val: c & 0xFFFFFF}
}

func setcolor(c uint32, n uint8, off uint8) uint32 {
	var val uint32 = uint32(n) << off
	var mask uint32 = 0xFF << off
	return (c & (^mask)) | val
}

func getcolor(c uint32, off uint8) uint8 {
	var mask uint32 = 0xFF << off
	return uint8((c & mask) >> off)
}

func (c Color) Hex() uint32 { return c.val }

func (c Color) R() uint8 { return getcolor(c.val, RED_OFFSET) }
func (c Color) G() uint8 { return getcolor(c.val, GREEN_OFFSET) }
func (c Color) B() uint8 { return getcolor(c.val, BLUE_OFFSET) }

// RGBA returns the color fully opaque, the form periph and TinyGo drivers take.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R(), G: c.G(), B: c.B(), A: 255}
}

// Bytes serializes the color in the given wire order. Unknown orders fall
// back to GRB, which is what WS281x parts expect.
func (c Color) Bytes(o Order) []byte {
	switch o {
	case RGB:
		return []byte{c.R(), c.G(), c.B()}
	default:
		return []byte{c.G(), c.R(), c.B()}
	}
}

func (c Color) String() string {
	return fmt.Sprintf("#%06x", c.val)
}

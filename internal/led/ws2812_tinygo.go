//go:build tinygo

package led

import (
	"image/color"
	"machine"

	"github.com/coreman2200/funtimes-rgbcycle/model"
	"tinygo.org/x/drivers/ws2812"
)

// WS2812 bit-bangs a single onboard NeoPixel from the microcontroller.
type WS2812 struct {
	own owner
	dev ws2812.Device
	buf [1]color.RGBA
}

func NewWS2812() *WS2812 {
	return &WS2812{}
}

func (w *WS2812) Configure(pin Pin) error {
	if err := w.own.claim(pin); err != nil {
		return err
	}
	p := machine.Pin(pin)
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	w.dev = ws2812.New(p)
	return nil
}

func (w *WS2812) Write(pin Pin, c model.Color) error {
	if err := w.own.check(pin); err != nil {
		return err
	}
	w.buf[0] = c.RGBA()
	return w.dev.WriteColors(w.buf[:])
}

func (w *WS2812) Close() error {
	if w.own.closed || !w.own.configured {
		w.own.closed = true
		return nil
	}
	w.buf[0] = color.RGBA{}
	err := w.dev.WriteColors(w.buf[:])
	w.own.closed = true
	return err
}

//go:build tinygo

// Firmware for boards with an onboard NeoPixel: cycles it through white,
// red, yellow, green and blue until reset.
package main

import (
	"context"

	"github.com/coreman2200/funtimes-rgbcycle"
	"github.com/coreman2200/funtimes-rgbcycle/internal/led"
	"github.com/coreman2200/funtimes-rgbcycle/internal/sequencer"
)

func main() {
	seq, err := sequencer.Initialize(rgbcycle.BuiltinPin, led.NewWS2812())
	if err != nil {
		panic(err.Error())
	}
	_ = seq.Run(context.Background())
}

// Package rgbcycle holds the board constants shared by the firmware and the
// host binary. The cycle itself lives in internal/sequencer.
package rgbcycle

import "time"

const (
	// BuiltinPin is the data line of the onboard addressable RGB LED
	// (RGB_BUILTIN on ESP32-S3 dev boards).
	BuiltinPin = 48

	// Brightness is the full-scale channel value used by the cycle.
	Brightness uint8 = 255

	// Hold is how long each color stays on before the next write.
	Hold = 500 * time.Millisecond
)

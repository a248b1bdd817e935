package led

import (
	"errors"
	"fmt"

	"github.com/coreman2200/funtimes-rgbcycle/model"
)

// Pin names the output line an LED is wired to.
type Pin int

func (p Pin) String() string { return fmt.Sprintf("GPIO%d", int(p)) }

var (
	ErrInvalidPin       = errors.New("invalid pin")
	ErrPinNotConfigured = errors.New("pin not configured")
	ErrWrongPin         = errors.New("write to a pin other than the configured one")
	ErrClosed           = errors.New("driver closed")
)

// Driver abstracts a single addressable RGB LED.
type Driver interface {
	// Configure sets pin up as the LED's data output. It is called once.
	Configure(pin Pin) error
	// Write sets the LED on pin to c immediately.
	Write(pin Pin, c model.Color) error
	// Close turns the LED off where possible and releases resources.
	Close() error
}

// owner tracks the single configured pin for the drivers in this package.
type owner struct {
	pin        Pin
	configured bool
	closed     bool
}

func (o *owner) claim(pin Pin) error {
	if o.closed {
		return ErrClosed
	}
	if pin < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPin, int(pin))
	}
	o.pin = pin
	o.configured = true
	return nil
}

func (o *owner) check(pin Pin) error {
	switch {
	case o.closed:
		return ErrClosed
	case !o.configured:
		return ErrPinNotConfigured
	case pin != o.pin:
		return fmt.Errorf("%w: got %s, own %s", ErrWrongPin, pin, o.pin)
	}
	return nil
}

package fake

import (
	"errors"
	"sync"
	"time"

	"github.com/coreman2200/funtimes-rgbcycle/internal/led"
	"github.com/coreman2200/funtimes-rgbcycle/model"
)

var ErrInjected = errors.New("injected write failure")

// Call is one recorded Write.
type Call struct {
	Pin   led.Pin
	Color model.Color
	At    time.Time
}

// Driver records every call instead of touching hardware.
type Driver struct {
	// Now stamps recorded writes; defaults to time.Now.
	Now func() time.Time
	// ConfigureErr is returned from Configure when set.
	ConfigureErr error
	// FailWrites makes the next N writes fail with ErrInjected. Failed
	// writes are still recorded.
	FailWrites int

	mu         sync.Mutex
	configured []led.Pin
	calls      []Call
	closed     bool
}

func (d *Driver) Configure(pin led.Pin) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ConfigureErr != nil {
		return d.ConfigureErr
	}
	d.configured = append(d.configured, pin)
	return nil
}

func (d *Driver) Write(pin led.Pin, c model.Color) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	d.calls = append(d.calls, Call{Pin: pin, Color: c, At: now()})
	if d.FailWrites > 0 {
		d.FailWrites--
		return ErrInjected
	}
	return nil
}

func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Configured returns the pins passed to Configure, in order.
func (d *Driver) Configured() []led.Pin {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]led.Pin(nil), d.configured...)
}

func (d *Driver) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Call(nil), d.calls...)
}

// Colors returns just the written colors, in order.
func (d *Driver) Colors() []model.Color {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]model.Color, len(d.calls))
	for i, c := range d.calls {
		out[i] = c.Color
	}
	return out
}

func (d *Driver) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

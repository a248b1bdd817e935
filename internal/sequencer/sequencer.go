// Package sequencer cycles one addressable LED through a fixed color
// sequence, holding each color for a fixed time.
package sequencer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/coreman2200/funtimes-rgbcycle"
	"github.com/coreman2200/funtimes-rgbcycle/internal/led"
	"github.com/coreman2200/funtimes-rgbcycle/model"
)

var (
	ErrConfigure = errors.New("configure led pin")
	ErrNoDriver  = errors.New("no led driver")
)

// Sequencer owns the LED pin once Initialize returns. It is not safe for
// concurrent Step/Run calls.
type Sequencer struct {
	pin   led.Pin
	drv   led.Driver
	seq   model.Sequence
	hold  time.Duration
	clock Clock
	hooks Hooks

	idx     int
	state   atomic.Int32
	written atomic.Uint64
}

type Option func(*Sequencer)

func WithClock(c Clock) Option { return func(s *Sequencer) { s.clock = c } }

func WithHooks(h Hooks) Option { return func(s *Sequencer) { s.hooks = h } }

// WithSequence replaces model.Default.
func WithSequence(seq model.Sequence) Option { return func(s *Sequencer) { s.seq = seq } }

// Initialize configures pin on drv and returns the handle that owns it.
// A configure failure is final; there is no degraded mode.
func Initialize(pin led.Pin, drv led.Driver, opts ...Option) (*Sequencer, error) {
	if drv == nil {
		return nil, ErrNoDriver
	}
	s := &Sequencer{
		pin:   pin,
		drv:   drv,
		seq:   model.Default,
		hold:  rgbcycle.Hold,
		clock: RealClock{},
	}
	for _, o := range opts {
		o(s)
	}
	if s.seq.Len() == 0 {
		return nil, model.ErrEmptySequence
	}
	if err := drv.Configure(pin); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrConfigure, pin, err)
	}
	return s, nil
}

func (s *Sequencer) Pin() led.Pin { return s.pin }

func (s *Sequencer) State() State { return State(s.state.Load()) }

// Written is the number of write attempts so far, failed ones included.
func (s *Sequencer) Written() uint64 { return s.written.Load() }

// Step writes the current color, holds it, then advances to the next one.
// It only fails when ctx ends during the hold; the cursor then stays put.
func (s *Sequencer) Step(ctx context.Context) error {
	c := s.seq.At(s.idx)
	s.written.Add(1)
	if err := s.drv.Write(s.pin, c); err != nil {
		if s.hooks.OnWriteError != nil {
			s.hooks.OnWriteError(s.idx, c, err)
		}
	} else if s.hooks.OnWrite != nil {
		s.hooks.OnWrite(s.idx, c)
	}

	if err := s.clock.Sleep(ctx, s.hold); err != nil {
		return err
	}
	s.idx = (s.idx + 1) % s.seq.Len()
	return nil
}

// Run steps forever. With a context that is never done it never returns.
func (s *Sequencer) Run(ctx context.Context) error {
	s.state.Store(int32(Running))
	defer s.state.Store(int32(Stopped))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Step(ctx); err != nil {
			return err
		}
	}
}

package sequencer

import (
	"context"
	"time"

	"github.com/coreman2200/funtimes-rgbcycle/model"
)

// State enumerates sequencer states.
type State int32

const (
	Idle State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// Hooks are optional callbacks fired after each write attempt.
type Hooks struct {
	// OnWrite runs after a successful write. step is the index into the sequence.
	OnWrite func(step int, c model.Color)
	// OnWriteError runs when the driver rejects a write. The loop carries on
	// regardless.
	OnWriteError func(step int, c model.Color, err error)
}

// Clock paces the loop.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in that case.
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock is the wall clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-rgbcycle/internal/config"
	"github.com/coreman2200/funtimes-rgbcycle/internal/led"
	"github.com/coreman2200/funtimes-rgbcycle/internal/sequencer"
	"github.com/coreman2200/funtimes-rgbcycle/internal/ws"
	"github.com/coreman2200/funtimes-rgbcycle/model"
)

// Swapped in tests.
var (
	openNRZ = func(dev string, speedHz int) (led.Driver, error) { return led.OpenNRZ(dev, speedHz) }
	openSim = func() led.Driver { return led.NewConsole() }
)

// Core is the host process: a sequencer on a selected driver plus the
// optional preview server.
type Core struct {
	Seq    *sequencer.Sequencer
	Driver led.Driver
	Name   string

	srv *http.Server
	ln  net.Listener
}

// OpenDriver picks the configured driver, falling back to the console
// simulator when hardware is unavailable.
func OpenDriver(cfg *config.Config) (led.Driver, string) {
	switch cfg.Driver {
	case config.DriverSim:
		return openSim(), config.DriverSim

	case config.DriverSPI:
		drv, err := openNRZ(cfg.SPI.Dev, cfg.SPI.SpeedHz)
		if err != nil {
			log.Warn().Err(err).
				Str("driver", "spi").
				Str("dev", cfg.SPI.Dev).
				Int("speed_hz", cfg.SPI.SpeedHz).
				Msg("SPI init failed; falling back to SIM")
			return openSim(), config.DriverSim
		}
		return drv, config.DriverSPI

	default:
		log.Warn().Str("driver", cfg.Driver).Msg("unknown driver; using SIM")
		return openSim(), config.DriverSim
	}
}

// InitCore binds the preview listener when a preview address is set, then
// configures the LED pin. Either failure closes drv and is returned.
func InitCore(cfg *config.Config, drv led.Driver, name string, opts ...sequencer.Option) (*Core, error) {
	core := &Core{Driver: drv, Name: name}

	var mirror *ws.Mirror
	if cfg.Preview.Addr != "" {
		ln, err := net.Listen("tcp", cfg.Preview.Addr)
		if err != nil {
			_ = drv.Close()
			return nil, fmt.Errorf("preview listen %s: %w", cfg.Preview.Addr, err)
		}
		core.ln = ln
		mirror = ws.NewMirror(drv, name)
		core.Driver = mirror
	}

	hooks := sequencer.Hooks{
		OnWrite: func(step int, c model.Color) {
			log.Trace().Int("step", step).Str("color", c.String()).Msg("led")
			if mirror != nil {
				mirror.Publish(step, c, nil)
			}
		},
		OnWriteError: func(step int, c model.Color, err error) {
			log.Debug().Err(err).Int("step", step).Str("color", c.String()).Msg("led write failed")
			if mirror != nil {
				mirror.Publish(step, c, err)
			}
		},
	}
	opts = append([]sequencer.Option{sequencer.WithHooks(hooks)}, opts...)

	seq, err := sequencer.Initialize(led.Pin(cfg.Pin), core.Driver, opts...)
	if err != nil {
		if core.ln != nil {
			_ = core.ln.Close()
		}
		_ = core.Driver.Close()
		return nil, err
	}
	core.Seq = seq
	log.Info().Int("pin", cfg.Pin).Str("driver", name).Msg("led configured")

	if mirror != nil {
		core.srv = &http.Server{
			Handler:      mirror.Handler(),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			log.Info().Str("addr", core.ln.Addr().String()).Msg("preview server starting")
			if err := core.srv.Serve(core.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("preview server stopped")
			}
		}()
	}
	return core, nil
}

// PreviewAddr is the bound preview address, or "" when the preview is off.
func (c *Core) PreviewAddr() string {
	if c.ln == nil {
		return ""
	}
	return c.ln.Addr().String()
}

// Run cycles the LED until ctx is done.
func (c *Core) Run(ctx context.Context) error {
	err := c.Seq.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Close stops the preview server and turns the LED off.
func (c *Core) Close() error {
	if c.srv != nil {
		_ = c.srv.Close()
	} else if c.ln != nil {
		_ = c.ln.Close()
	}
	return c.Driver.Close()
}

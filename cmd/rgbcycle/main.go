package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-rgbcycle/internal/app"
	"github.com/coreman2200/funtimes-rgbcycle/internal/config"
)

func main() {
	// ---- Flags (config file overrides them where set) ----
	def := config.Default()
	var (
		configPath  = flag.String("config", "rgbcycle.yaml", "path to config file")
		driver      = flag.String("driver", def.Driver, "driver: spi | sim")
		pin         = flag.Int("pin", def.Pin, "LED data pin")
		spiDev      = flag.String("spi-dev", def.SPI.Dev, "SPI port name (empty = first available)")
		previewAddr = flag.String("preview-addr", def.Preview.Addr, "websocket preview listen address (empty disables)")
		logLevel    = flag.String("log-level", def.LogLevel, "log level")
		simOnly     = flag.Bool("sim-only", false, "force simulation (no hardware output)")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	// ---- Config ----
	cfg := def
	cfg.Driver = *driver
	cfg.Pin = *pin
	cfg.SPI.Dev = *spiDev
	cfg.Preview.Addr = *previewAddr
	cfg.LogLevel = *logLevel
	if c, err := config.LoadOver(*configPath, cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
		}
	} else {
		cfg = c
	}
	if *simOnly {
		cfg.Driver = config.DriverSim
	}
	zerolog.SetGlobalLevel(cfg.Level())

	// ---- Driver + sequencer ----
	drv, name := app.OpenDriver(cfg)
	core, err := app.InitCore(cfg, drv, name)
	if err != nil {
		log.Fatal().Err(err).Int("pin", cfg.Pin).Str("driver", name).Msg("led init failed")
	}

	// ---- Run until signalled ----
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := core.Run(ctx); err != nil {
		log.Error().Err(err).Msg("sequencer stopped")
	}
	log.Info().Msg("shutting down")
	if err := core.Close(); err != nil {
		log.Warn().Err(err).Msg("driver close")
	}
}

package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/coreman2200/funtimes-rgbcycle"
)

const (
	DriverSim = "sim"
	DriverSPI = "spi"
)

var ErrInvalid = errors.New("invalid config")

type SPI struct {
	Dev     string `yaml:"dev"`      // e.g. /dev/spidev0.0, "" = first port
	SpeedHz int    `yaml:"speed_hz"` // e.g. 2500000
}

type Preview struct {
	Addr string `yaml:"addr"` // e.g. :8080, "" disables
}

type Config struct {
	Driver   string `yaml:"driver"` // "spi" | "sim"
	Pin      int    `yaml:"pin"`
	LogLevel string `yaml:"log_level"`

	SPI     SPI     `yaml:"spi,omitempty"`
	Preview Preview `yaml:"preview,omitempty"`
}

func Default() *Config {
	return &Config{
		Driver:   DriverSim,
		Pin:      rgbcycle.BuiltinPin,
		LogLevel: zerolog.InfoLevel.String(),
		SPI:      SPI{SpeedHz: 2500000},
	}
}

// File is the on-disk form of Config. Pointer fields tell a key the file
// sets apart from one it leaves out.
type File struct {
	Driver   *string `yaml:"driver"`
	Pin      *int    `yaml:"pin"`
	LogLevel *string `yaml:"log_level"`

	SPI struct {
		Dev     *string `yaml:"dev"`
		SpeedHz *int    `yaml:"speed_hz"`
	} `yaml:"spi"`
	Preview struct {
		Addr *string `yaml:"addr"`
	} `yaml:"preview"`
}

// Merge returns a copy of base with every key set in f applied on top.
func Merge(base *Config, f *File) *Config {
	c := *base
	if f == nil {
		return &c
	}
	if f.Driver != nil {
		c.Driver = *f.Driver
	}
	if f.Pin != nil {
		c.Pin = *f.Pin
	}
	if f.LogLevel != nil {
		c.LogLevel = *f.LogLevel
	}
	if f.SPI.Dev != nil {
		c.SPI.Dev = *f.SPI.Dev
	}
	if f.SPI.SpeedHz != nil {
		c.SPI.SpeedHz = *f.SPI.SpeedHz
	}
	if f.Preview.Addr != nil {
		c.Preview.Addr = *f.Preview.Addr
	}
	return &c
}

func ReadFile(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &f, nil
}

// LoadOver reads path and applies the keys it sets on top of base, which is
// left untouched.
func LoadOver(path string, base *Config) (*Config, error) {
	f, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Merge(base, f)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads path on top of Default, so absent keys keep their defaults.
func Load(path string) (*Config, error) {
	return LoadOver(path, Default())
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

func (c *Config) Validate() error {
	switch c.Driver {
	case DriverSim, DriverSPI:
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalid, c.Driver)
	}
	if c.Pin < 0 {
		return fmt.Errorf("%w: pin %d", ErrInvalid, c.Pin)
	}
	if c.SPI.SpeedHz < 0 {
		return fmt.Errorf("%w: spi.speed_hz %d", ErrInvalid, c.SPI.SpeedHz)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %v", ErrInvalid, err)
	}
	return nil
}

// Level returns the parsed log level, falling back to info.
func (c *Config) Level() zerolog.Level {
	l, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return l
}

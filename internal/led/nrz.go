package led

import (
	"fmt"
	"io"
	"sync"

	"github.com/coreman2200/funtimes-rgbcycle/model"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"
)

const DefaultNRZFreq = 2500 * physic.KiloHertz

// NRZ drives a WS281x LED through a SPI port's MOSI line.
type NRZ struct {
	mu     sync.Mutex
	own    owner
	port   spi.Port
	closer io.Closer
	dev    *nrzled.Dev
	freq   physic.Frequency
}

// NewNRZ wraps an already opened port. The caller keeps ownership of port.
func NewNRZ(port spi.Port, freq physic.Frequency) *NRZ {
	if freq <= 0 {
		freq = DefaultNRZFreq
	}
	return &NRZ{port: port, freq: freq}
}

// OpenNRZ initializes the host drivers and opens dev ("" picks the first
// SPI port). The returned driver closes the port on Close.
func OpenNRZ(dev string, speedHz int) (*NRZ, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	p, err := spireg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", dev, err)
	}
	n := NewNRZ(p, physic.Frequency(speedHz)*physic.Hertz)
	n.closer = p
	return n, nil
}

func (n *NRZ) Configure(pin Pin) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.own.claim(pin); err != nil {
		return err
	}
	// Only MOSI can carry the data stream.
	if pp, ok := n.port.(spi.Pins); ok {
		if mosi := pp.MOSI(); mosi != nil && mosi.Number() >= 0 && mosi.Number() != int(pin) {
			n.own.configured = false
			return fmt.Errorf("%w: %s is not the SPI data line (%s)", ErrInvalidPin, pin, mosi)
		}
	}
	d, err := nrzled.NewSPI(n.port, &nrzled.Opts{
		NumPixels: 1,
		Channels:  3,
		Freq:      n.freq,
	})
	if err != nil {
		n.own.configured = false
		return fmt.Errorf("nrzled: %w", err)
	}
	n.dev = d
	return nil
}

func (n *NRZ) Write(pin Pin, c model.Color) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.own.check(pin); err != nil {
		return err
	}
	if _, err := n.dev.Write(c.Bytes(model.RGB)); err != nil {
		return fmt.Errorf("nrzled write: %w", err)
	}
	return nil
}

func (n *NRZ) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.own.closed {
		return nil
	}
	n.own.closed = true
	var err error
	if n.dev != nil {
		err = n.dev.Halt()
	}
	if n.closer != nil {
		if cerr := n.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (n *NRZ) String() string {
	if n.dev != nil {
		return n.dev.String()
	}
	return "nrzled{unconfigured}"
}

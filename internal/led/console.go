package led

import (
	"image"
	"sync"

	"github.com/coreman2200/funtimes-rgbcycle/model"
	"periph.io/x/conn/v3/display"
	"periph.io/x/extra/devices/screen"
)

// Console renders the LED as a colored cell on the terminal. It stands in for
// hardware when no SPI port is available.
type Console struct {
	mu     sync.Mutex
	own    owner
	drawer display.Drawer
	img    *image.RGBA
}

func NewConsole() *Console {
	return &Console{drawer: screen.New(1)}
}

// newConsoleWith swaps the drawer; used by tests.
func newConsoleWith(d display.Drawer) *Console {
	return &Console{drawer: d}
}

func (c *Console) Configure(pin Pin) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.own.claim(pin); err != nil {
		return err
	}
	c.img = image.NewRGBA(image.Rect(0, 0, 1, 1))
	return nil
}

func (c *Console) Write(pin Pin, col model.Color) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.own.check(pin); err != nil {
		return err
	}
	c.img.SetRGBA(0, 0, col.RGBA())
	return c.drawer.Draw(c.drawer.Bounds(), c.img, image.Point{})
}

func (c *Console) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.own.closed {
		return nil
	}
	c.own.closed = true
	return c.drawer.Halt()
}

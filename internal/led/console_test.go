package led

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-rgbcycle/model"
)

type recordingDrawer struct {
	drawn  []color.RGBA
	halted bool
}

func (r *recordingDrawer) String() string          { return "recording" }
func (r *recordingDrawer) Halt() error             { r.halted = true; return nil }
func (r *recordingDrawer) ColorModel() color.Model { return color.NRGBAModel }
func (r *recordingDrawer) Bounds() image.Rectangle { return image.Rect(0, 0, 1, 1) }
func (r *recordingDrawer) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	r.drawn = append(r.drawn, color.RGBAModel.Convert(src.At(sp.X, sp.Y)).(color.RGBA))
	return nil
}

func TestConsoleDrawsEachWrite(t *testing.T) {
	rd := &recordingDrawer{}
	c := newConsoleWith(rd)
	require.NoError(t, c.Configure(48))

	require.NoError(t, c.Write(48, model.Yellow))
	require.NoError(t, c.Write(48, model.Green))

	assert.Equal(t, []color.RGBA{
		{R: 255, G: 255, A: 255},
		{G: 127, A: 255},
	}, rd.drawn)

	require.NoError(t, c.Close())
	assert.True(t, rd.halted)
	assert.ErrorIs(t, c.Write(48, model.Red), ErrClosed)
}

func TestConsoleOwnsOnePin(t *testing.T) {
	c := newConsoleWith(&recordingDrawer{})
	assert.ErrorIs(t, c.Write(48, model.Red), ErrPinNotConfigured)
	require.NoError(t, c.Configure(48))
	assert.ErrorIs(t, c.Write(2, model.Red), ErrWrongPin)
}

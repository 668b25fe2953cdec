package display

import (
	"image"
	"image/color"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Surface size of the 128x32 SSD1306 panel.
const (
	Width  = 128
	Height = 32
)

// Bounds is the drawable area.
var Bounds = image.Rect(0, 0, Width, Height)

// Op is one draw primitive. Layout emits them in order; a Canvas executes
// them.
type Op interface {
	// Anchor is the reference point of the op on the surface.
	Anchor() image.Point
}

// Clear fills the whole surface.
type Clear struct {
	Color image1bit.Bit
}

// Text draws a single line. At is the left end of the baseline.
type Text struct {
	Text  string
	At    image.Point
	Style Style
	Color image1bit.Bit
}

// FillRect fills Rect.
type FillRect struct {
	Rect  image.Rectangle
	Color image1bit.Bit
}

// Blit copies a fixed bitmap with its top-left corner at At.
type Blit struct {
	Bitmap *Bitmap
	At     image.Point
}

func (Clear) Anchor() image.Point      { return image.Point{} }
func (o Text) Anchor() image.Point     { return o.At }
func (o FillRect) Anchor() image.Point { return o.Rect.Min }
func (o Blit) Anchor() image.Point     { return o.At }

// Bitmap is a small 1-bit image, one byte per row, MSB leftmost.
type Bitmap struct {
	Name  string
	Width int // at most 8
	Rows  []byte
}

func (b *Bitmap) ColorModel() color.Model { return image1bit.BitModel }

func (b *Bitmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, len(b.Rows))
}

func (b *Bitmap) At(x, y int) color.Color {
	return b.BitAt(x, y)
}

func (b *Bitmap) BitAt(x, y int) image1bit.Bit {
	if x < 0 || x >= b.Width || y < 0 || y >= len(b.Rows) {
		return image1bit.Off
	}
	return image1bit.Bit(b.Rows[y]&(0x80>>uint(x)) != 0)
}

package display

import (
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Canvas executes ops on an in-memory 1-bit frame laid out the way the
// SSD1306 expects it. Drawing outside the surface is clipped.
type Canvas struct {
	img *image1bit.VerticalLSB
}

func NewCanvas() *Canvas {
	return &Canvas{img: image1bit.NewVerticalLSB(Bounds)}
}

// Image returns the frame. It is reused by later Apply calls.
func (c *Canvas) Image() *image1bit.VerticalLSB {
	return c.img
}

// Apply draws ops in order.
func (c *Canvas) Apply(ops []Op) {
	for _, op := range ops {
		switch o := op.(type) {
		case Clear:
			c.clear(o.Color)
		case FillRect:
			draw.Draw(c.img, o.Rect, &image.Uniform{o.Color}, image.Point{}, draw.Src)
		case Text:
			c.text(o)
		case Blit:
			r := o.Bitmap.Bounds().Add(o.At)
			draw.Draw(c.img, r, o.Bitmap, image.Point{}, draw.Src)
		}
	}
}

func (c *Canvas) clear(b image1bit.Bit) {
	v := byte(0)
	if b {
		v = 0xff
	}
	for i := range c.img.Pix {
		c.img.Pix[i] = v
	}
}

func (c *Canvas) text(o Text) {
	drawer := &font.Drawer{
		Dst:  c.img,
		Src:  &image.Uniform{o.Color},
		Face: faceFor(o.Style),
	}
	drawer.Dot = fixed.P(o.At.X, o.At.Y)
	drawer.DrawString(o.Text)

	if o.Style == Bold {
		drawer.Dot = fixed.P(o.At.X+1, o.At.Y)
		drawer.DrawString(o.Text)
	}
}

// TextWidth is the advance of s in style st.
func TextWidth(s string, st Style) int {
	return len([]rune(s)) * advance(st)
}

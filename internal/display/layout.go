package display

import (
	"fmt"
	"image"

	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/relabs-tech/gps_tracker/internal/gps"
)

// Fixed positions on the 128x32 surface.
var (
	// StatusBoxAt is the top-left corner of the fix quality box, right of
	// the nine-character text column.
	StatusBoxAt = image.Pt(54, 0)
	zoneGlyphAt = image.Pt(0, 21)
)

// baseline of text line i. Lines are 11 pixels apart so the blank top rows
// of the 13 pixel cells overlap.
func baseline(i int) int {
	return 9 + 11*i
}

// Blink is the status box animation phase for a wall clock second.
func Blink(second int) bool {
	return second%2 == 1
}

// Layout turns a fix into the draw ops for one frame. It is a pure function
// of its arguments: the same fix and second always give the same ops.
func Layout(f gps.Fix, second int) []Op {
	on := image1bit.On

	ops := []Op{
		Clear{Color: image1bit.Off},
		Text{Text: fmt.Sprintf("N%8.5f", f.Latitude), At: image.Pt(0, baseline(0)), Style: Regular, Color: on},
		Text{Text: fmt.Sprintf("E%8.5f", f.Longitude), At: image.Pt(0, baseline(1)), Style: Regular, Color: on},
	}

	// The leading blank column leaves room for the zone marker.
	h, m, s := f.Clock()
	ops = append(ops, Text{
		Text:  fmt.Sprintf(" %02d:%02d:%02d", h, m, s),
		At:    image.Pt(0, baseline(2)),
		Style: Bold,
		Color: on,
	})

	glyph := utcGlyph
	if f.Zone.Local {
		glyph = locGlyph
	}
	ops = append(ops, Blit{Bitmap: glyph, At: zoneGlyphAt})

	q := Classify(f.HDOP)
	return append(ops, Box(q.Line1, q.Line2, StatusBoxAt, q.Level, Blink(second))...)
}

// Frame renders f at second into a fresh image.
func Frame(f gps.Fix, second int) *image1bit.VerticalLSB {
	c := NewCanvas()
	c.Apply(Layout(f, second))
	return c.Image()
}

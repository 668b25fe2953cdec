package display

import (
	"image"
	"math"
	"testing"

	"gotest.tools/assert"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		hdop float32
		want Quality
	}{
		{0, Quality{Error, "NO", "FIX"}},
		{0.05, Quality{Info, "EXC", "FIX"}},
		{0.1, Quality{Info, "EXC", "FIX"}},
		{1.0, Quality{Info, "EXC", "FIX"}},
		{1.99, Quality{Info, "EXC", "FIX"}},
		{2.0, Quality{Info, "OKY", "FIX"}},
		{3.0, Quality{Info, "OKY", "FIX"}},
		{5.0, Quality{Warn, "POR", "FIX"}},
		{10.0, Quality{Warn, "POR", "FIX"}},
		{19.99, Quality{Warn, "POR", "FIX"}},
		{20.0, Quality{Error, "NO", "FIX"}},
		{25.0, Quality{Error, "NO", "FIX"}},
		{-1, Quality{Error, "NO", "FIX"}},
		{float32(math.NaN()), Quality{Error, "NO", "FIX"}},
	}
	for _, c := range cases {
		assert.Equal(t, Classify(c.hdop), c.want, "hdop %v", c.hdop)
	}
}

func TestBoxTruncatesLabels(t *testing.T) {
	ops := Box("EXCESS", "FIXED", image.Pt(54, 0), Info, false)
	assert.DeepEqual(t, texts(ops), []string{"EXC", "FIX"})
}

func TestBoxCentersLabels(t *testing.T) {
	tl := image.Pt(54, 0)
	ops := Box("NO", "FIX", tl, Error, false)

	var got []Text
	for _, op := range ops {
		if txt, ok := op.(Text); ok {
			got = append(got, txt)
		}
	}
	assert.Equal(t, len(got), 2)
	// Centered on column 7 by full advance: "NO" is 8 wide, "FIX" 12.
	assert.Equal(t, got[0].At, tl.Add(image.Pt(3, 7)))
	assert.Equal(t, got[1].At, tl.Add(image.Pt(1, 13)))
	assert.Equal(t, got[0].Style, Small)
}

func TestBoxColors(t *testing.T) {
	on, off := image1bit.On, image1bit.Off
	cases := []struct {
		level      Level
		blink      bool
		fill, text image1bit.Bit
	}{
		{Info, false, off, on},
		{Info, true, off, on},
		{Warn, false, on, off},
		{Warn, true, on, off},
		{Error, false, off, on},
		{Error, true, on, off},
	}
	for _, c := range cases {
		ops := Box("ABC", "DEF", image.Pt(0, 0), c.level, c.blink)

		border := ops[0].(FillRect)
		assert.Equal(t, border.Color, on)
		assert.Equal(t, border.Rect, image.Rect(0, 0, 16, 16))

		inset := ops[1].(FillRect)
		assert.Equal(t, inset.Rect, image.Rect(1, 1, 15, 15))
		assert.Equal(t, inset.Color, c.fill, "%v blink=%v", c.level, c.blink)

		for _, op := range ops[2:] {
			assert.Equal(t, op.(Text).Color, c.text, "%v blink=%v", c.level, c.blink)
		}
	}
}

func TestSmallFaceGlyph(t *testing.T) {
	c := NewCanvas()
	c.Apply([]Op{
		Clear{Color: image1bit.Off},
		Text{Text: "I", At: image.Pt(0, 5), Style: Small, Color: image1bit.On},
	})
	img := c.Image()

	want := []string{"###", ".#.", ".#.", ".#.", "###"}
	for y, row := range want {
		for x, px := range row {
			assert.Equal(t, img.BitAt(x, y), image1bit.Bit(px == '#'), "(%d,%d)", x, y)
		}
		assert.Equal(t, img.BitAt(3, y), image1bit.Off, "spacing column")
	}
}

func TestBlink(t *testing.T) {
	assert.Assert(t, !Blink(0))
	assert.Assert(t, Blink(1))
	assert.Assert(t, !Blink(58))
	assert.Assert(t, Blink(59))
}

package display

import (
	"image"
	"math"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Level is the severity shown by a status box.
type Level int

const (
	Info  Level = iota // outlined, steady
	Warn               // filled, steady
	Error              // alternates between Info and Warn styling every second
)

func (l Level) String() string {
	switch l {
	case Info:
		return "info"
	case Warn:
		return "warn"
	case Error:
		return "error"
	}
	return "unknown"
}

const (
	boxSize   = 16
	boxLabelN = 3

	// boxCenterX is the column labels are centered on, counting the full
	// advance of every character.
	boxCenterX = boxSize/2 - 1
)

// Quality is the status box content derived from a fix.
type Quality struct {
	Level Level
	Line1 string
	Line2 string
}

// Classify maps HDOP to the fix-quality box. 0 means no data. Values below
// 0.1 are better than the excellent band and are shown as excellent.
func Classify(hdop float32) Quality {
	h := float64(hdop)
	switch {
	case math.IsNaN(h) || h <= 0 || h >= 20:
		return Quality{Level: Error, Line1: "NO", Line2: "FIX"}
	case h < 2:
		return Quality{Level: Info, Line1: "EXC", Line2: "FIX"}
	case h < 5:
		return Quality{Level: Info, Line1: "OKY", Line2: "FIX"}
	default:
		return Quality{Level: Warn, Line1: "POR", Line2: "FIX"}
	}
}

// boxColors returns the inset fill and the text color for level.
func boxColors(level Level, blink bool) (fill, text image1bit.Bit) {
	switch level {
	case Warn:
		return image1bit.On, image1bit.Off
	case Error:
		if blink {
			return image1bit.On, image1bit.Off
		}
		return image1bit.Off, image1bit.On
	default:
		return image1bit.Off, image1bit.On
	}
}

// Box draws a 16x16 status box at topLeft with two centered labels of up
// to three characters each.
func Box(line1, line2 string, topLeft image.Point, level Level, blink bool) []Op {
	fill, text := boxColors(level, blink)

	ops := []Op{
		FillRect{Rect: BoxRect(topLeft), Color: image1bit.On},
		FillRect{Rect: BoxRect(topLeft).Inset(1), Color: fill},
	}

	// Baselines of the two 4x6 lines; ink rows 2-6 and 8-12.
	for i, label := range []string{line1, line2} {
		label = truncate(label, boxLabelN)
		if label == "" {
			continue
		}
		at := topLeft.Add(image.Pt(boxCenterX-TextWidth(label, Small)/2, 7+i*smallH))
		ops = append(ops, Text{Text: label, At: at, Style: Small, Color: text})
	}
	return ops
}

// BoxRect is the area a box at topLeft covers.
func BoxRect(topLeft image.Point) image.Rectangle {
	return image.Rectangle{Min: topLeft, Max: topLeft.Add(image.Pt(boxSize, boxSize))}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}

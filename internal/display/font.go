package display

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Style selects the face a Text op is drawn with.
type Style int

const (
	Regular Style = iota // 6x13, coordinates and clock
	Bold                 // Regular, double struck
	Small                // 4x6, status box labels
)

// regularFace reuses the 7x13 glyph masks, which are six pixels wide, on a
// 6 pixel pitch so nine characters fill the 54 columns left of the box.
var regularFace = &basicfont.Face{
	Advance: 6,
	Width:   basicfont.Face7x13.Width,
	Height:  basicfont.Face7x13.Height,
	Ascent:  basicfont.Face7x13.Ascent,
	Descent: basicfont.Face7x13.Descent,
	Mask:    basicfont.Face7x13.Mask,
	Ranges:  basicfont.Face7x13.Ranges,
}

const (
	smallW     = 4
	smallH     = 6
	smallFirst = ' '
	smallLast  = 'Z'
)

// smallGlyphs are 3x5 uppercase glyphs drawn in a 4x6 cell. Runes missing
// from the table render blank.
var smallGlyphs = map[rune][5]string{
	'0': {"###", "#.#", "#.#", "#.#", "###"},
	'1': {".#.", "##.", ".#.", ".#.", "###"},
	'2': {"###", "..#", "###", "#..", "###"},
	'3': {"###", "..#", ".##", "..#", "###"},
	'4': {"#.#", "#.#", "###", "..#", "..#"},
	'5': {"###", "#..", "###", "..#", "###"},
	'6': {"###", "#..", "###", "#.#", "###"},
	'7': {"###", "..#", ".#.", ".#.", ".#."},
	'8': {"###", "#.#", "###", "#.#", "###"},
	'9': {"###", "#.#", "###", "..#", "###"},
	'A': {".#.", "#.#", "###", "#.#", "#.#"},
	'B': {"##.", "#.#", "##.", "#.#", "##."},
	'C': {".##", "#..", "#..", "#..", ".##"},
	'D': {"##.", "#.#", "#.#", "#.#", "##."},
	'E': {"###", "#..", "##.", "#..", "###"},
	'F': {"###", "#..", "##.", "#..", "#.."},
	'G': {".##", "#..", "#.#", "#.#", ".##"},
	'H': {"#.#", "#.#", "###", "#.#", "#.#"},
	'I': {"###", ".#.", ".#.", ".#.", "###"},
	'J': {"..#", "..#", "..#", "#.#", ".#."},
	'K': {"#.#", "#.#", "##.", "#.#", "#.#"},
	'L': {"#..", "#..", "#..", "#..", "###"},
	'M': {"#.#", "###", "###", "#.#", "#.#"},
	'N': {"##.", "#.#", "#.#", "#.#", "#.#"},
	'O': {".#.", "#.#", "#.#", "#.#", ".#."},
	'P': {"##.", "#.#", "##.", "#..", "#.."},
	'Q': {".#.", "#.#", "#.#", "##.", ".##"},
	'R': {"##.", "#.#", "##.", "#.#", "#.#"},
	'S': {".##", "#..", ".#.", "..#", "##."},
	'T': {"###", ".#.", ".#.", ".#.", ".#."},
	'U': {"#.#", "#.#", "#.#", "#.#", "###"},
	'V': {"#.#", "#.#", "#.#", "#.#", ".#."},
	'W': {"#.#", "#.#", "###", "###", "#.#"},
	'X': {"#.#", "#.#", ".#.", "#.#", "#.#"},
	'Y': {"#.#", "#.#", ".#.", ".#.", ".#."},
	'Z': {"###", "..#", ".#.", "#..", "###"},
	'-': {"...", "...", "###", "...", "..."},
	'.': {"...", "...", "...", "...", ".#."},
	':': {"...", ".#.", "...", ".#.", "..."},
}

var smallFace = newSmallFace()

func newSmallFace() *basicfont.Face {
	n := int(smallLast-smallFirst) + 1
	mask := image.NewAlpha(image.Rect(0, 0, smallW, smallH*n))
	for r, rows := range smallGlyphs {
		top := int(r-smallFirst) * smallH
		for y, row := range rows {
			for x, px := range row {
				if px == '#' {
					mask.Pix[mask.PixOffset(x, top+y)] = 0xff
				}
			}
		}
	}
	return &basicfont.Face{
		Advance: smallW,
		Width:   smallW,
		Height:  smallH,
		Ascent:  smallH - 1,
		Descent: 1,
		Mask:    mask,
		Ranges:  []basicfont.Range{{Low: smallFirst, High: smallLast + 1, Offset: 0}},
	}
}

func faceFor(s Style) font.Face {
	if s == Small {
		return smallFace
	}
	return regularFace
}

// advance is the fixed pitch of s in pixels.
func advance(s Style) int {
	if s == Small {
		return smallW
	}
	return regularFace.Advance
}

package display

// Zone markers are three letters rotated 90 degrees, read bottom to top.

var utcGlyph = &Bitmap{Name: "UTC", Width: 6, Rows: []byte{
	0x88, // #...#... C
	0x88, // #...#...
	0xF8, // #####...
	0x00,
	0x80, // #....... T
	0xF8, // #####...
	0x80, // #.......
	0x00,
	0xF8, // #####... U
	0x08, // ....#...
	0xF8, // #####...
}}

var locGlyph = &Bitmap{Name: "LOC", Width: 5, Rows: []byte{
	0x88, // #...#... C
	0x88, // #...#...
	0xF8, // #####...
	0x00,
	0xF8, // #####... O
	0x88, // #...#...
	0xF8, // #####...
	0x00,
	0x08, // ....#... L
	0x08, // ....#...
	0xF8, // #####...
}}

// Package display lays out a GPS fix on a 128x32 monochrome surface.
//
// Layout is pure: it turns a fix and a wall clock second into a list of draw
// ops (clear, text, filled rectangle, bitmap). Canvas executes the ops on a
// periph image1bit frame that the SSD1306 driver can push as is.
package display

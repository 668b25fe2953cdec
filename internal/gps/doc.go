// Package gps holds the fix snapshot shared between the acquisition and
// render tasks, the time resolver that turns it into a display clock, and a
// stateful NMEA decoder built on github.com/adrianmo/go-nmea.
package gps

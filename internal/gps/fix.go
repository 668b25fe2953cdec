package gps

import (
	"fmt"
	"time"
)

// Fix represents the latest known position report shown on the display.
//
// The zero value is the "no fix" snapshot: zeroed coordinates, no
// satellites, no HDOP, unset date and time, UTC display zone.
type Fix struct {
	Date      Date          // date of the most recent sentence carrying one
	TimeOfDay time.Duration // UTC time since midnight, independent of Date

	Latitude   float64 // decimal degrees, north positive
	Longitude  float64 // decimal degrees, east positive
	Satellites uint8   // satellites in view, 0 when unknown
	HDOP       float32 // horizontal dilution of precision, 0 = no data

	Zone Zone // zone the clock is shown in
}

// DefaultFix returns the all-unknown snapshot used at boot and as the seed
// for every decoded sentence.
func DefaultFix() Fix {
	return Fix{}
}

// Date is a calendar date without a time zone. The zero value means unset.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Report is the JSON form of a Fix used for MQTT telemetry.
type Report struct {
	Time       string  `json:"time"` // e.g. "12:34:56"
	Date       string  `json:"date"` // e.g. "2025-12-06", empty when unknown
	Latitude   float64 `json:"lat"`
	Longitude  float64 `json:"lon"`
	Satellites uint8   `json:"satellites"`
	HDOP       float32 `json:"hdop"`
	Zone       string  `json:"zone"` // "UTC" or "LOC+02:00"
}

// Report converts f for publishing. Time and date are given in the fix
// display zone, which Zone names.
func (f Fix) Report() Report {
	local := f.Now().In(f.Zone.Location())
	date := ""
	if !f.Date.IsZero() {
		date = local.Format("2006-01-02")
	}
	return Report{
		Time:       local.Format("15:04:05"),
		Date:       date,
		Latitude:   f.Latitude,
		Longitude:  f.Longitude,
		Satellites: f.Satellites,
		HDOP:       f.HDOP,
		Zone:       f.Zone.String(),
	}
}

package gps

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// epoch is combined with the time of day while no date has been received.
var epoch = Date{Year: 1970, Month: time.January, Day: 1}

// UpdateDate replaces the fix date. The time of day is left untouched.
func (f *Fix) UpdateDate(d Date) {
	f.Date = d
}

// UpdateUTCTime replaces the time of day. t must be GPS (UTC) time since
// midnight; the date is left untouched.
func (f *Fix) UpdateUTCTime(t time.Duration) {
	f.TimeOfDay = t
}

// Now combines the latest date and the latest time of day into a UTC
// instant. The two fields are not checked to come from the same sentence.
func (f Fix) Now() time.Time {
	d := f.Date
	if d.IsZero() {
		d = epoch
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Add(f.TimeOfDay)
}

// Clock returns the wall clock of Now in the fix display zone.
func (f Fix) Clock() (hour, min, sec int) {
	return f.Now().In(f.Zone.Location()).Clock()
}

// TimeOfDay builds a time-of-day duration from clock fields.
func TimeOfDay(hour, min, sec, msec int) time.Duration {
	return time.Duration(hour)*time.Hour +
		time.Duration(min)*time.Minute +
		time.Duration(sec)*time.Second +
		time.Duration(msec)*time.Millisecond
}

// Zone is the display time zone: UTC, or local time at a fixed offset
// from UTC with no daylight saving.
type Zone struct {
	Local  bool
	Offset time.Duration // only meaningful when Local is set
}

// UTC is the default display zone.
var UTC = Zone{}

// LocalZone returns a fixed-offset local zone.
func LocalZone(offset time.Duration) Zone {
	return Zone{Local: true, Offset: offset}
}

// Location returns the zone as a *time.Location. A UTC zone ignores any
// stored offset.
func (z Zone) Location() *time.Location {
	if !z.Local {
		return time.UTC
	}
	return time.FixedZone(z.String(), int(z.Offset/time.Second))
}

func (z Zone) String() string {
	if !z.Local {
		return "UTC"
	}
	return "LOC" + FormatOffset(z.Offset)
}

// FormatOffset renders an offset as "+hh:mm".
func FormatOffset(d time.Duration) string {
	sign := '+'
	if d < 0 {
		sign = '-'
		d = -d
	}
	d = d.Round(time.Minute)
	return fmt.Sprintf("%c%02d:%02d", sign, int(d/time.Hour), int(d%time.Hour/time.Minute))
}

// ParseOffset parses a UTC offset written as "+02:00", "-0530", "+2" or "0".
func ParseOffset(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("gps: empty UTC offset")
	}
	sign := time.Duration(1)
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		sign = -1
		s = s[1:]
	}

	var hh, mm string
	switch {
	case strings.Contains(s, ":"):
		hh, mm, _ = strings.Cut(s, ":")
	case len(s) == 4:
		hh, mm = s[:2], s[2:]
	default:
		hh, mm = s, "0"
	}

	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("gps: invalid UTC offset hours %q: %w", hh, err)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("gps: invalid UTC offset minutes %q: %w", mm, err)
	}
	if h < 0 || h > 14 || m < 0 || m > 59 {
		return 0, fmt.Errorf("gps: UTC offset out of range: %q", s)
	}
	return sign * (time.Duration(h)*time.Hour + time.Duration(m)*time.Minute), nil
}

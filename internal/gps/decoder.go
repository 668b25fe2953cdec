package gps

import (
	"fmt"
	"math"
	"sort"
	"time"

	nmea "github.com/adrianmo/go-nmea"
)

// maxSatellites bounds the satellite list; the fix reports the count as a
// uint8.
const maxSatellites = math.MaxUint8

// Satellite is one entry of a GSV satellites-in-view report.
type Satellite struct {
	PRN       int64
	Elevation int64 // degrees
	Azimuth   int64 // degrees
	SNR       int64 // dB, 0 when not tracking
}

// Decoded is the state of the decoder after a successful sentence.
// Optional fields are nil until some sentence has supplied them.
type Decoded struct {
	Type string // sentence type of the line just decoded, e.g. "RMC"

	Latitude   *float64
	Longitude  *float64
	Date       *Date
	Time       *time.Duration
	Satellites []Satellite
	HDOP       *float32
}

// Decoder turns NMEA 0183 lines into Decoded values.
//
// Like most receivers' host libraries it is stateful: fields learned from
// one sentence type stay known while other types arrive, so a GGA line
// still reports the date learned from the previous RMC.
type Decoder struct {
	lat, lon *float64
	date     *Date
	tod      *time.Duration
	hdop     *float32

	// GSV reports span several sentences per constellation; a cycle only
	// replaces the talker's list once its last message arrives.
	satsInView map[string][]Satellite
	satsCycle  map[string][]Satellite
	ggaSats    int64
}

func NewDecoder() *Decoder {
	return &Decoder{
		satsInView: make(map[string][]Satellite),
		satsCycle:  make(map[string][]Satellite),
	}
}

// Decode parses one line (without line terminator) and folds it into the
// decoder state.
func (d *Decoder) Decode(line string) (Decoded, error) {
	sentence, err := nmea.Parse(line)
	if err != nil {
		return Decoded{}, fmt.Errorf("gps: decode %q: %w", line, err)
	}

	switch m := sentence.(type) {
	case nmea.RMC:
		if m.Validity == nmea.ValidRMC {
			d.setPosition(m.Latitude, m.Longitude)
		} else {
			d.clearPosition()
		}
		d.setTime(m.Time)
		d.setDate(m.Date)

	case nmea.GGA:
		if m.FixQuality != nmea.Invalid {
			d.setPosition(m.Latitude, m.Longitude)
		} else {
			d.clearPosition()
		}
		d.setHDOP(m.HDOP)
		d.setTime(m.Time)
		d.ggaSats = clampCount(m.NumSatellites)

	case nmea.GLL:
		if m.Validity == nmea.ValidGLL {
			d.setPosition(m.Latitude, m.Longitude)
		} else {
			d.clearPosition()
		}
		d.setTime(m.Time)

	case nmea.GSA:
		if m.FixType == nmea.FixNone {
			d.hdop = nil
		} else {
			d.setHDOP(m.HDOP)
		}

	case nmea.GSV:
		d.addSatellites(m)

	case nmea.ZDA:
		d.setTime(m.Time)
		if m.Day > 0 && m.Month > 0 && m.Year > 0 {
			dt := Date{Year: int(m.Year), Month: time.Month(m.Month), Day: int(m.Day)}
			d.date = &dt
		}
	}

	return d.state(sentence.DataType()), nil
}

func (d *Decoder) setPosition(lat, lon float64) {
	d.lat = &lat
	d.lon = &lon
}

// clearPosition forgets the position when the receiver reports it lost
// the fix.
func (d *Decoder) clearPosition() {
	d.lat = nil
	d.lon = nil
}

func (d *Decoder) setTime(t nmea.Time) {
	if !t.Valid {
		return
	}
	tod := TimeOfDay(t.Hour, t.Minute, t.Second, t.Millisecond)
	d.tod = &tod
}

func (d *Decoder) setDate(nd nmea.Date) {
	if !nd.Valid {
		return
	}
	dt := Date{Year: expandYear(nd.YY), Month: time.Month(nd.MM), Day: nd.DD}
	d.date = &dt
}

// setHDOP stores the latest HDOP. An empty or zero field clears it, so a
// receiver without a fix never keeps showing an old value.
func (d *Decoder) setHDOP(v float64) {
	if v <= 0 || math.IsNaN(v) {
		d.hdop = nil
		return
	}
	h := float32(v)
	d.hdop = &h
}

func (d *Decoder) addSatellites(m nmea.GSV) {
	talker := m.Talker
	if m.MessageNumber <= 1 {
		d.satsCycle[talker] = d.satsCycle[talker][:0]
	}
	for _, info := range m.Info {
		if len(d.satsCycle[talker]) >= maxSatellites {
			break
		}
		d.satsCycle[talker] = append(d.satsCycle[talker], Satellite{
			PRN:       info.SVPRNNumber,
			Elevation: info.Elevation,
			Azimuth:   info.Azimuth,
			SNR:       info.SNR,
		})
	}
	if m.MessageNumber >= m.TotalMessages {
		d.satsInView[talker] = append([]Satellite(nil), d.satsCycle[talker]...)
		d.satsCycle[talker] = d.satsCycle[talker][:0]
	}
}

// satellites merges every talker's last complete GSV cycle. Until a cycle
// has completed, the GGA satellites-used count stands in.
func (d *Decoder) satellites() []Satellite {
	if len(d.satsInView) == 0 {
		if d.ggaSats <= 0 {
			return nil
		}
		return make([]Satellite, d.ggaSats)
	}
	talkers := make([]string, 0, len(d.satsInView))
	for t := range d.satsInView {
		talkers = append(talkers, t)
	}
	sort.Strings(talkers)

	var out []Satellite
	for _, t := range talkers {
		out = append(out, d.satsInView[t]...)
	}
	return out
}

func (d *Decoder) state(sentenceType string) Decoded {
	return Decoded{
		Type:       sentenceType,
		Latitude:   d.lat,
		Longitude:  d.lon,
		Date:       d.date,
		Time:       d.tod,
		Satellites: d.satellites(),
		HDOP:       d.hdop,
	}
}

// clampCount bounds a satellite count taken from the wire.
func clampCount(n int64) int64 {
	switch {
	case n < 0:
		return 0
	case n > maxSatellites:
		return maxSatellites
	}
	return n
}

// expandYear turns the two-digit RMC year into a full year, pivoting at 80.
func expandYear(yy int) int {
	if yy >= 80 {
		return 1900 + yy
	}
	return 2000 + yy
}

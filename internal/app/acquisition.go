package app

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log"
	"math"
	"sync/atomic"
	"time"

	"github.com/relabs-tech/gps_tracker/internal/gps"
	"github.com/relabs-tech/gps_tracker/internal/latest"
)

const (
	// maxLineLen bounds one NMEA sentence. Bytes past it are dropped until
	// the next line feed.
	maxLineLen = 128

	// rxBufferSize is the receive buffer between the port and the line
	// splitter.
	rxBufferSize = 4096

	readRetryDelay = 100 * time.Millisecond
)

// SentenceDecoder turns one received line into accumulated decoder state.
type SentenceDecoder interface {
	Decode(line string) (gps.Decoded, error)
}

// FixSink mirrors published fixes somewhere else. Mirror is called from the
// acquisition loop and must not block.
type FixSink interface {
	Mirror(f gps.Fix)
}

// AcquisitionStats counts what the acquisition loop has seen.
type AcquisitionStats struct {
	Lines        uint64
	Published    uint64
	DecodeErrors uint64
	Overflows    uint64
	ReadErrors   uint64
}

// Acquirer reads NMEA bytes from a receiver, splits them into lines and
// publishes one fix per decoded sentence.
type Acquirer struct {
	src   *bufio.Reader
	dec   SentenceDecoder
	out   *latest.Slot[gps.Fix]
	zone  gps.Zone
	sinks []FixSink

	retryDelay time.Duration

	lines        atomic.Uint64
	published    atomic.Uint64
	decodeErrors atomic.Uint64
	overflows    atomic.Uint64
	readErrors   atomic.Uint64
}

func NewAcquirer(src io.Reader, dec SentenceDecoder, out *latest.Slot[gps.Fix], zone gps.Zone, sinks ...FixSink) *Acquirer {
	return &Acquirer{
		src:        bufio.NewReaderSize(src, rxBufferSize),
		dec:        dec,
		out:        out,
		zone:       zone,
		sinks:      sinks,
		retryDelay: readRetryDelay,
	}
}

// Run reads until ctx is done or the source reports io.EOF. Other read
// errors are logged and retried.
func (a *Acquirer) Run(ctx context.Context) error {
	line := make([]byte, 0, maxLineLen)
	overflowed := false

	for {
		if ctx.Err() != nil {
			return nil
		}

		b, err := a.src.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Println("acquisition: source closed")
				return nil
			}
			a.readErrors.Add(1)
			log.Printf("acquisition: read error: %v", err)
			if !sleepCtx(ctx, a.retryDelay) {
				return nil
			}
			continue
		}

		switch b {
		case '\r':
		case '\n':
			if len(line) > 0 {
				a.handleLine(string(line))
			}
			line = line[:0]
			overflowed = false
		default:
			if len(line) == maxLineLen {
				if !overflowed {
					a.overflows.Add(1)
					overflowed = true
				}
				continue
			}
			line = append(line, b)
		}
	}
}

func (a *Acquirer) handleLine(line string) {
	a.lines.Add(1)

	d, err := a.dec.Decode(line)
	if err != nil {
		a.decodeErrors.Add(1)
		return
	}

	f := buildFix(d, a.zone)
	a.out.Publish(f)
	a.published.Add(1)

	for _, s := range a.sinks {
		s.Mirror(f)
	}
}

// buildFix starts from the all-unknown fix and copies whatever the decoder
// currently knows. Date and time are applied independently.
func buildFix(d gps.Decoded, zone gps.Zone) gps.Fix {
	f := gps.DefaultFix()
	f.Zone = zone

	n := len(d.Satellites)
	if n > math.MaxUint8 {
		n = math.MaxUint8
	}
	f.Satellites = uint8(n)

	if d.Latitude != nil && d.Longitude != nil {
		f.Latitude = *d.Latitude
		f.Longitude = *d.Longitude
	}
	if d.Date != nil {
		f.UpdateDate(*d.Date)
	}
	if d.Time != nil {
		f.UpdateUTCTime(*d.Time)
	}
	if d.HDOP != nil {
		f.HDOP = *d.HDOP
	}
	return f
}

// Stats returns a snapshot of the loop counters.
func (a *Acquirer) Stats() AcquisitionStats {
	return AcquisitionStats{
		Lines:        a.lines.Load(),
		Published:    a.published.Load(),
		DecodeErrors: a.decodeErrors.Load(),
		Overflows:    a.overflows.Load(),
		ReadErrors:   a.readErrors.Load(),
	}
}

// sleepCtx waits for d and reports false if ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

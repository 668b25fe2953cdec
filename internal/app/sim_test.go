package app

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/nsf/termbox-go"
	"gotest.tools/assert"

	"github.com/relabs-tech/gps_tracker/internal/gps"
	"github.com/relabs-tech/gps_tracker/internal/latest"
)

func TestSimulatorNext(t *testing.T) {
	start := time.Date(2025, time.December, 6, 12, 34, 56, 0, time.UTC)
	sim := NewSimulator(clockwork.NewFakeClockAt(start), 1, gps.LocalZone(time.Hour))

	for i := 0; i < 200; i++ {
		f := sim.Next()
		assert.Equal(t, f.Now(), start)
		assert.Equal(t, f.Zone, gps.LocalZone(time.Hour))
		assert.Assert(t, f.Latitude >= 0 && f.Latitude < 60)
		assert.Assert(t, f.Longitude >= 0 && f.Longitude < 60)
		assert.Assert(t, f.Satellites < 99)
		assert.Assert(t, f.HDOP >= 0 && f.HDOP < 20)
	}
}

func TestSimulatorIsSeeded(t *testing.T) {
	clock := clockwork.NewFakeClock()
	a := NewSimulator(clock, 42, gps.UTC)
	b := NewSimulator(clock, 42, gps.UTC)
	assert.Equal(t, a.Next(), b.Next())
}

func TestSimulatorRunPublishesEverySecond(t *testing.T) {
	start := time.Date(2025, time.December, 6, 23, 59, 59, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(start)
	sim := NewSimulator(clock, 7, gps.UTC)
	out := latest.New[gps.Fix]()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sim.Run(ctx, out)

	wait, stop := context.WithTimeout(ctx, 2*time.Second)
	defer stop()
	f, err := out.WaitTake(wait)
	assert.NilError(t, err)
	assert.Equal(t, f.Now(), start)

	clock.Advance(time.Second)
	f, err = out.WaitTake(wait)
	assert.NilError(t, err)
	assert.Equal(t, f.Date, gps.Date{Year: 2025, Month: time.December, Day: 7})
	assert.Equal(t, f.TimeOfDay, time.Duration(0))
}

func TestHalfBlock(t *testing.T) {
	assert.Equal(t, halfBlock(false, false), ' ')
	assert.Equal(t, halfBlock(true, false), '▀')
	assert.Equal(t, halfBlock(false, true), '▄')
	assert.Equal(t, halfBlock(true, true), '█')
}

func TestQuitKey(t *testing.T) {
	assert.Assert(t, quitKey(termbox.Event{Type: termbox.EventKey, Ch: 'q'}) != nil)
	assert.Assert(t, quitKey(termbox.Event{Type: termbox.EventKey, Key: termbox.KeyEsc}) != nil)
	assert.Assert(t, quitKey(termbox.Event{Type: termbox.EventKey, Key: termbox.KeyCtrlC}) != nil)
	assert.NilError(t, quitKey(termbox.Event{Type: termbox.EventKey, Ch: 'x'}))
	assert.NilError(t, quitKey(termbox.Event{Type: termbox.EventResize}))
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/nsf/termbox-go"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/relabs-tech/gps_tracker/internal/config"
	"github.com/relabs-tech/gps_tracker/internal/gps"
	"github.com/relabs-tech/gps_tracker/internal/latest"
)

// Simulator produces random fixes stamped with the clock's current time,
// standing in for a receiver when running away from the hardware.
type Simulator struct {
	clock  clockwork.Clock
	rng    *rand.Rand
	zone   gps.Zone
	period time.Duration
}

func NewSimulator(clock clockwork.Clock, seed uint64, zone gps.Zone) *Simulator {
	return &Simulator{
		clock:  clock,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		zone:   zone,
		period: time.Second,
	}
}

// Next returns a fix with the current UTC time and random position and
// quality.
func (s *Simulator) Next() gps.Fix {
	now := s.clock.Now().UTC()
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	f := gps.DefaultFix()
	f.Zone = s.zone
	f.UpdateDate(gps.Date{Year: y, Month: m, Day: d})
	f.UpdateUTCTime(now.Sub(midnight))
	f.Latitude = s.rng.Float64() * 60
	f.Longitude = s.rng.Float64() * 60
	f.Satellites = uint8(s.rng.IntN(99))
	f.HDOP = s.rng.Float32() * 20
	return f
}

// Run publishes a new fix every second until ctx ends.
func (s *Simulator) Run(ctx context.Context, out *latest.Slot[gps.Fix]) error {
	ticker := s.clock.NewTicker(s.period)
	defer ticker.Stop()

	for {
		out.Publish(s.Next())
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
		}
	}
}

// halfBlock is the character showing a top and a bottom pixel in one
// terminal cell.
func halfBlock(top, bottom bool) rune {
	switch {
	case top && bottom:
		return '█'
	case top:
		return '▀'
	case bottom:
		return '▄'
	default:
		return ' '
	}
}

// TerminalView draws frames into the terminal, two pixel rows per line.
type TerminalView struct{}

// Flush implements FrameSink.
func (v *TerminalView) Flush(img *image1bit.VerticalLSB) error {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			top := bool(img.BitAt(x, y))
			bottom := y+1 < b.Max.Y && bool(img.BitAt(x, y+1))
			termbox.SetCell(x-b.Min.X, (y-b.Min.Y)/2, halfBlock(top, bottom), termbox.ColorWhite, termbox.ColorBlack)
		}
	}
	return termbox.Flush()
}

// RunDisplaySim runs the render loop against simulated fixes in the
// terminal. q, Esc or Ctrl+C quits.
func RunDisplaySim() error {
	cfg := config.Get()

	if err := termbox.Init(); err != nil {
		return fmt.Errorf("sim: terminal init: %w", err)
	}
	defer termbox.Close()
	termbox.SetInputMode(termbox.InputEsc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := clockwork.NewRealClock()
	fixes := latest.New[gps.Fix]()
	sim := NewSimulator(clock, uint64(clock.Now().UnixNano()), cfg.DisplayZone())
	renderer := NewRenderer(clock, cfg.DisplayPeriod(), fixes, &TerminalView{})

	go waitForQuit(cancel)

	var wg sync.WaitGroup
	var renderErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		sim.Run(ctx, fixes)
	}()
	go func() {
		defer wg.Done()
		renderErr = renderer.Run(ctx)
		cancel()
	}()
	wg.Wait()

	log.Println("sim: stopped")
	return renderErr
}

var errQuit = errors.New("quit")

func waitForQuit(cancel context.CancelFunc) {
	defer cancel()
	for {
		ev := termbox.PollEvent()
		if err := quitKey(ev); err != nil {
			return
		}
	}
}

func quitKey(ev termbox.Event) error {
	switch ev.Type {
	case termbox.EventKey:
		if ev.Key == termbox.KeyCtrlC || ev.Key == termbox.KeyEsc || ev.Ch == 'q' {
			return errQuit
		}
	case termbox.EventError:
		return ev.Err
	case termbox.EventInterrupt:
		return errQuit
	}
	return nil
}

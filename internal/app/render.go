package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonboulle/clockwork"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/relabs-tech/gps_tracker/internal/display"
	"github.com/relabs-tech/gps_tracker/internal/gps"
	"github.com/relabs-tech/gps_tracker/internal/latest"
)

// DefaultRenderPeriod is the display refresh period.
const DefaultRenderPeriod = 40 * time.Millisecond

// FrameSink shows a rendered frame. The image is reused by the next frame,
// so sinks that keep it must copy it.
type FrameSink interface {
	Flush(img *image1bit.VerticalLSB) error
}

// Renderer redraws the display on a fixed period from the most recent fix.
type Renderer struct {
	clock  clockwork.Clock
	period time.Duration
	in     *latest.Slot[gps.Fix]

	panel   FrameSink
	mirrors []FrameSink

	current gps.Fix
	canvas  *display.Canvas
}

// NewRenderer builds a render loop. A panel flush error stops the loop;
// mirror errors are only logged.
func NewRenderer(clock clockwork.Clock, period time.Duration, in *latest.Slot[gps.Fix], panel FrameSink, mirrors ...FrameSink) *Renderer {
	if period <= 0 {
		period = DefaultRenderPeriod
	}
	return &Renderer{
		clock:   clock,
		period:  period,
		in:      in,
		panel:   panel,
		mirrors: mirrors,
		current: gps.DefaultFix(),
		canvas:  display.NewCanvas(),
	}
}

// Run draws one frame immediately and then one per period until ctx ends.
func (r *Renderer) Run(ctx context.Context) error {
	ticker := r.clock.NewTicker(r.period)
	defer ticker.Stop()

	log.Printf("render: starting update loop (%v)", r.period)

	for {
		if err := r.tick(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
		}
	}
}

func (r *Renderer) tick() error {
	if f, ok := r.in.TryTake(); ok {
		r.current = f
	}

	_, _, sec := r.current.Clock()
	r.canvas.Apply(display.Layout(r.current, sec))
	img := r.canvas.Image()

	if err := r.panel.Flush(img); err != nil {
		return fmt.Errorf("render: panel flush: %w", err)
	}
	for _, m := range r.mirrors {
		if err := m.Flush(img); err != nil {
			log.Printf("render: mirror flush error: %v", err)
		}
	}
	return nil
}

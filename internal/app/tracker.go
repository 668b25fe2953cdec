// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"log"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/relabs-tech/gps_tracker/internal/config"
	"github.com/relabs-tech/gps_tracker/internal/gps"
	"github.com/relabs-tech/gps_tracker/internal/latest"
)

// task is one independently running part of the tracker.
type task struct {
	name string
	run  func(context.Context) error
}

// runTasks starts every task and waits for all of them. A task that fails
// is logged and does not stop the others.
func runTasks(ctx context.Context, tasks []task) {
	var wg sync.WaitGroup
	for _, t := range tasks {
		wg.Add(1)
		go func(t task) {
			defer wg.Done()
			if err := t.run(ctx); err != nil {
				log.Printf("tracker: %s task stopped: %v", t.name, err)
				return
			}
			log.Printf("tracker: %s task finished", t.name)
		}(t)
	}
	wg.Wait()
}

// RunTracker opens the receiver and the display and runs acquisition,
// rendering and the optional side tasks until ctx ends.
func RunTracker(ctx context.Context) error {
	cfg := config.Get()

	port, err := OpenReceiver(cfg.GPSSerialPort, cfg.GPSBaudRate)
	if err != nil {
		return err
	}

	panel, err := OpenPanel(cfg.DisplayI2CBus)
	if err != nil {
		port.Close()
		return err
	}
	defer panel.Close()

	fixes := latest.New[gps.Fix]()
	var (
		tasks   []task
		sinks   []FixSink
		mirrors []FrameSink
	)

	if cfg.MQTTBroker != "" {
		client, err := ConnectMQTT(cfg.MQTTBroker, cfg.MQTTClientID)
		if err != nil {
			log.Printf("tracker: telemetry disabled: %v", err)
		} else {
			defer client.Disconnect(250)
			sink := NewMQTTSink(client, cfg.TopicGPSFix)
			sinks = append(sinks, sink)
			tasks = append(tasks, task{"telemetry", sink.Run})
		}
	}

	if cfg.PreviewAddr != "" {
		preview := NewPreview()
		mirrors = append(mirrors, preview)
		tasks = append(tasks,
			task{"preview", preview.Run},
			task{"preview server", func(ctx context.Context) error {
				return preview.Serve(ctx, cfg.PreviewAddr)
			}},
		)
	}

	if cfg.StorageMount != "" {
		tasks = append(tasks, task{"storage", func(ctx context.Context) error {
			return RunStorageDump(ctx, cfg.StorageMount, cfg.StorageFile)
		}})
	}

	acq := NewAcquirer(port, gps.NewDecoder(), fixes, cfg.DisplayZone(), sinks...)
	renderer := NewRenderer(clockwork.NewRealClock(), cfg.DisplayPeriod(), fixes, panel, mirrors...)
	tasks = append(tasks,
		task{"acquisition", acq.Run},
		task{"render", renderer.Run},
	)

	// A blocked serial read only returns once the port is closed.
	go func() {
		<-ctx.Done()
		if err := port.Close(); err != nil {
			log.Printf("tracker: close serial port: %v", err)
		}
	}()

	log.Printf("tracker: running %d tasks, display zone %s", len(tasks), cfg.DisplayZone())
	runTasks(ctx, tasks)

	st := acq.Stats()
	log.Printf("tracker: %d lines, %d fixes, %d decode errors, %d overflows, %d read errors",
		st.Lines, st.Published, st.DecodeErrors, st.Overflows, st.ReadErrors)
	return nil
}

package app

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"gotest.tools/assert"

	"github.com/relabs-tech/gps_tracker/internal/gps"
)

type doneToken struct {
	err error
}

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Error() error                   { return t.err }

func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type message struct {
	topic    string
	retained bool
	payload  []byte
}

type fakePublisher struct {
	mu   sync.Mutex
	sent chan message
	err  error
}

func (p *fakePublisher) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent <- message{topic: topic, retained: retained, payload: payload.([]byte)}
	return doneToken{err: p.err}
}

func TestMQTTSinkPublishesReport(t *testing.T) {
	pub := &fakePublisher{sent: make(chan message, 4)}
	sink := NewMQTTSink(pub, "tracker/gps/fix")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- sink.Run(ctx) }()

	sink.Mirror(gps.Fix{
		Date:       gps.Date{Year: 2025, Month: time.December, Day: 6},
		TimeOfDay:  gps.TimeOfDay(12, 34, 56, 0),
		Latitude:   48.1173,
		Longitude:  11.51667,
		Satellites: 9,
		HDOP:       0.9,
	})

	var msg message
	select {
	case msg = <-pub.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("nothing published")
	}
	assert.Equal(t, msg.topic, "tracker/gps/fix")
	assert.Assert(t, msg.retained)

	var r gps.Report
	assert.NilError(t, json.Unmarshal(msg.payload, &r))
	assert.Equal(t, r.Time, "12:34:56")
	assert.Equal(t, r.Date, "2025-12-06")
	assert.Equal(t, r.Satellites, uint8(9))
	assert.Equal(t, r.Zone, "UTC")

	cancel()
	select {
	case err := <-done:
		assert.NilError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("sink did not stop")
	}
}

func TestMQTTSinkMirrorDoesNotBlock(t *testing.T) {
	// No Run loop: mirrors pile up in the slot and only the last survives.
	sink := NewMQTTSink(&fakePublisher{sent: make(chan message)}, "t")
	for i := 0; i < 100; i++ {
		sink.Mirror(gps.Fix{Satellites: uint8(i)})
	}
	f, ok := sink.pending.TryTake()
	assert.Assert(t, ok)
	assert.Equal(t, f.Satellites, uint8(99))
}

func TestMQTTSinkPublishError(t *testing.T) {
	pub := &fakePublisher{sent: make(chan message, 1), err: errors.New("not connected")}
	sink := NewMQTTSink(pub, "t")
	err := sink.publish(gps.DefaultFix())
	assert.ErrorContains(t, err, "not connected")
}

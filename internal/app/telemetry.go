package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/gps_tracker/internal/gps"
	"github.com/relabs-tech/gps_tracker/internal/latest"
)

const publishTimeout = 2 * time.Second

// publisher is the part of mqtt.Client the telemetry mirror uses.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// ConnectMQTT connects to broker and waits for the session.
func ConnectMQTT(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt: connect %s: %w", broker, token.Error())
	}
	log.Printf("mqtt: connected to broker at %s", broker)
	return client, nil
}

// MQTTSink mirrors fixes to an MQTT topic as retained JSON reports.
//
// Mirror only parks the fix in a latest-wins slot; Run does the network
// work, so a slow broker costs intermediate fixes, never acquisition time.
type MQTTSink struct {
	client  publisher
	topic   string
	pending *latest.Slot[gps.Fix]
}

func NewMQTTSink(client publisher, topic string) *MQTTSink {
	return &MQTTSink{
		client:  client,
		topic:   topic,
		pending: latest.New[gps.Fix](),
	}
}

// Mirror implements FixSink.
func (s *MQTTSink) Mirror(f gps.Fix) {
	s.pending.Publish(f)
}

// Run publishes pending fixes until ctx ends. Publish failures are logged.
func (s *MQTTSink) Run(ctx context.Context) error {
	log.Printf("mqtt: publishing fixes to %s", s.topic)
	for {
		f, err := s.pending.WaitTake(ctx)
		if err != nil {
			return nil
		}
		if err := s.publish(f); err != nil {
			log.Printf("mqtt: %v", err)
		}
	}
}

func (s *MQTTSink) publish(f gps.Fix) error {
	payload, err := json.Marshal(f.Report())
	if err != nil {
		return fmt.Errorf("marshal fix: %w", err)
	}

	token := s.client.Publish(s.topic, 0, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		return errors.New("publish timed out")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

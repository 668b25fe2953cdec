package app

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/gps_tracker/internal/config"
	"github.com/relabs-tech/gps_tracker/internal/gps"
)

// RunConsoleMQTT subscribes to the fix topic and prints every report until
// interrupted.
func RunConsoleMQTT() error {
	cfg := config.Get()
	if cfg.MQTTBroker == "" {
		return fmt.Errorf("console: MQTT_BROKER is not configured")
	}

	client, err := ConnectMQTT(cfg.MQTTBroker, cfg.MQTTClientID+"-console")
	if err != nil {
		return err
	}

	gpsToken := client.Subscribe(cfg.TopicGPSFix, 0, func(_ mqtt.Client, msg mqtt.Message) {
		if err := printReport(os.Stdout, msg.Payload()); err != nil {
			log.Printf("console: gps unmarshal error: %v", err)
		}
	})
	gpsToken.Wait()
	if gpsToken.Error() != nil {
		return gpsToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicGPSFix)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}

func printReport(w io.Writer, payload []byte) error {
	var r gps.Report
	if err := json.Unmarshal(payload, &r); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w,
		"[GPS ]  %s %s %s  lat=%.5f lon=%.5f  sats=%2d hdop=%.1f\n",
		r.Date, r.Time, r.Zone, r.Latitude, r.Longitude, r.Satellites, r.HDOP,
	)
	return err
}

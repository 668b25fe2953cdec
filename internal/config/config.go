package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/relabs-tech/gps_tracker/internal/gps"
)

// Config holds all application configuration values.
// The key tag is the name used in the configuration file.
type Config struct {
	// GPS
	GPSSerialPort string `key:"GPS_SERIAL_PORT" validate:"required"`
	GPSBaudRate   int    `key:"GPS_BAUD_RATE" validate:"oneof=4800 9600 19200 38400 57600 115200"`

	// Display. An empty bus name opens the first I2C bus; the interval is
	// in milliseconds.
	DisplayTimezone       string        `key:"DISPLAY_TIMEZONE" validate:"oneof=UTC LOCAL"`
	DisplayUTCOffset      time.Duration `key:"DISPLAY_UTC_OFFSET" validate:"gte=-14h,lte=14h"`
	DisplayI2CBus         string        `key:"DISPLAY_I2C_BUS"`
	DisplayUpdateInterval int           `key:"DISPLAY_UPDATE_INTERVAL" validate:"gt=0,lte=1000"`

	// Removable storage
	StorageMount string `key:"STORAGE_MOUNT"`
	StorageFile  string `key:"STORAGE_FILE" validate:"required_with=StorageMount"`

	// MQTT telemetry, disabled when the broker is empty
	MQTTBroker   string `key:"MQTT_BROKER" validate:"omitempty,uri"`
	MQTTClientID string `key:"MQTT_CLIENT_ID" validate:"required_with=MQTTBroker"`
	TopicGPSFix  string `key:"TOPIC_GPS_FIX" validate:"required_with=MQTTBroker"`

	// Frame preview server, disabled when empty
	PreviewAddr string `key:"PREVIEW_ADDR"`

	// Log file with rotation, stdout only when empty
	LogFile string `key:"LOG_FILE"`
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: only reachable through InitGlobal and Get.
//   - configOnce: ensures InitGlobal() only runs once.
//   - configMu: write lock for initialization, read lock for Get().
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns the configuration used for keys missing from the file.
func Default() *Config {
	return &Config{
		GPSSerialPort:         "/dev/serial0",
		GPSBaudRate:           9600,
		DisplayTimezone:       "UTC",
		DisplayUpdateInterval: 40,
		StorageFile:           "TEST.TXT",
		MQTTClientID:          "gps-tracker",
		TopicGPSFix:           "tracker/gps/fix",
	}
}

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads KEY=VALUE lines from r on top of Default.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		if err := cfg.setValue(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// GPS
	case "GPS_SERIAL_PORT":
		c.GPSSerialPort = value
	case "GPS_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GPS_BAUD_RATE %q: %w", value, err)
		}
		c.GPSBaudRate = rate

	// Display
	case "DISPLAY_TIMEZONE":
		c.DisplayTimezone = strings.ToUpper(value)
	case "DISPLAY_UTC_OFFSET":
		offset, err := gps.ParseOffset(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UTC_OFFSET %q: %w", value, err)
		}
		c.DisplayUTCOffset = offset
	case "DISPLAY_I2C_BUS":
		c.DisplayI2CBus = value
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval

	// Storage
	case "STORAGE_MOUNT":
		c.StorageMount = value
	case "STORAGE_FILE":
		c.StorageFile = value

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID":
		c.MQTTClientID = value
	case "TOPIC_GPS_FIX":
		c.TopicGPSFix = value

	case "PREVIEW_ADDR":
		c.PreviewAddr = value
	case "LOG_FILE":
		c.LogFile = value

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("key")
	})
	return v
}

// validate checks field constraints and reports them by file key.
func (c *Config) validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("config validation: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required", "required_with":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s=%v fails %s=%s", fe.Field(), fe.Value(), fe.Tag(), fe.Param()))
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// DisplayZone returns the configured display time zone.
func (c *Config) DisplayZone() gps.Zone {
	if c.DisplayTimezone == "LOCAL" {
		return gps.LocalZone(c.DisplayUTCOffset)
	}
	return gps.UTC
}

// DisplayPeriod is the render loop period.
func (c *Config) DisplayPeriod() time.Duration {
	return time.Duration(c.DisplayUpdateInterval) * time.Millisecond
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}

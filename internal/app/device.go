package app

import (
	"fmt"
	"image"
	"io"
	"log"

	serial "github.com/jacobsa/go-serial/serial"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/gps_tracker/internal/display"
)

// Panel is the 128x32 SSD1306 OLED on the I2C bus.
type Panel struct {
	bus i2c.BusCloser
	dev *ssd1306.Dev
}

// OpenPanel initializes periph, opens busName ("" for the first bus) and
// brings up the display.
func OpenPanel(busName string) (*Panel, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus: %w", err)
	}

	opts := ssd1306.DefaultOpts
	opts.W = display.Width
	opts.H = display.Height
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Printf("display: %s initialized on %s", dev, bus)

	return &Panel{bus: bus, dev: dev}, nil
}

// Flush sends the whole frame to the controller.
func (p *Panel) Flush(img *image1bit.VerticalLSB) error {
	return p.dev.Draw(p.dev.Bounds(), img, image.Point{})
}

// Close blanks the display and releases the bus.
func (p *Panel) Close() error {
	if err := p.dev.Halt(); err != nil {
		log.Printf("display: halt error: %v", err)
	}
	return p.bus.Close()
}

// OpenReceiver opens the GPS receiver's UART.
func OpenReceiver(portName string, baud int) (io.ReadWriteCloser, error) {
	opts := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              uint(baud),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open GPS serial port %s: %w", portName, err)
	}
	log.Printf("gps: serial port opened on %s at %d baud", opts.PortName, opts.BaudRate)
	return port, nil
}

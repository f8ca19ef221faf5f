package transport

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.bug.st/serial"
)

// DefaultBaudRate is the controller's default panel port speed.
const DefaultBaudRate = 57600

// ErrNoPort indicates that no serial device was configured.
var ErrNoPort = errors.New("no serial port configured")

// SerialConfig configures a serial connection.
type SerialConfig struct {
	// Port is the device path, e.g. /dev/ttyACM0 or COM3.
	Port string

	// BaudRate defaults to DefaultBaudRate.
	BaudRate int

	// ReadTimeout bounds each blocking read so that Close is noticed.
	// Default: 500ms.
	ReadTimeout time.Duration
}

// DefaultSerialConfig returns the default serial configuration for port.
func DefaultSerialConfig(port string) SerialConfig {
	return SerialConfig{
		Port:        port,
		BaudRate:    DefaultBaudRate,
		ReadTimeout: 500 * time.Millisecond,
	}
}

// SerialDialer opens serial ports.
type SerialDialer struct {
	Config SerialConfig
}

// Endpoint returns the device path.
func (d SerialDialer) Endpoint() string {
	return d.Config.Port
}

// Dial opens the serial port. 8N1 framing is used.
func (d SerialDialer) Dial(ctx context.Context) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return OpenSerial(d.Config)
}

// OpenSerial opens and configures a serial port.
func OpenSerial(config SerialConfig) (Stream, error) {
	if config.Port == "" {
		return nil, ErrNoPort
	}
	if config.BaudRate <= 0 {
		config.BaudRate = DefaultBaudRate
	}
	if config.ReadTimeout <= 0 {
		config.ReadTimeout = 500 * time.Millisecond
	}

	mode := &serial.Mode{
		BaudRate: config.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(config.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", config.Port, err)
	}
	if err := port.SetReadTimeout(config.ReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", config.Port, err)
	}
	// Stale replies from a previous session would be parsed as current.
	_ = port.ResetInputBuffer()
	return &serialStream{port: port}, nil
}

// ListSerialPorts returns the serial devices present on the system.
func ListSerialPorts() ([]string, error) {
	return serial.GetPortsList()
}

// serialStream turns read timeouts, which the port reports as a zero length
// read, into a blocking read that ends on Close.
type serialStream struct {
	port   serial.Port
	closed atomic.Bool
}

func (s *serialStream) Read(p []byte) (int, error) {
	for {
		n, err := s.port.Read(p)
		if n > 0 || err != nil {
			return n, err
		}
		if s.closed.Load() {
			return 0, ErrConnectionClosed
		}
	}
}

func (s *serialStream) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

func (s *serialStream) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.port.Close()
}

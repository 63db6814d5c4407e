package dynamixel

import (
	"errors"
	"fmt"
	"sync"
	"time"

	protocol "github.com/haguro/go-dxl/protocol/v2"
	"go.bug.st/serial"
)

// ErrNotOpen is returned when operations are attempted on a closed bus.
var ErrNotOpen = errors.New("bus not open")

// Bus provides thread-safe register access to the servos sharing one serial
// line. Every register operation is a synchronous round trip performed under
// the same lock, so the physical bus never sees interleaved byte streams
// from two logical operations. No retries happen here; retry policy belongs
// to callers.
type Bus struct {
	port    serial.Port
	handler *protocol.Handler
	mu      sync.Mutex
	isOpen  bool
}

// OpenBus opens the serial port and prepares a protocol handler with bounded
// I/O timeouts.
func OpenBus(portName string, baudRate int) (*Bus, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}

	if err := port.SetReadTimeout(100 * time.Millisecond); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}

	handler := protocol.NewHandler(port, 100*time.Millisecond)

	return &Bus{
		port:    port,
		handler: handler,
		isOpen:  true,
	}, nil
}

// Close closes the bus and releases the serial port.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.isOpen {
		return nil
	}

	b.isOpen = false
	return b.port.Close()
}

// ReadRegister reads length bytes from a register of one servo and returns
// them as a little-endian unsigned value.
func (b *Bus) ReadRegister(id byte, addr uint16, length int) (uint32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.isOpen {
		return 0, ErrNotOpen
	}

	data, err := b.handler.Read(id, addr, uint16(length))
	if err != nil {
		return 0, fmt.Errorf("read id %d addr %d: %w", id, addr, err)
	}
	if len(data) < length {
		return 0, fmt.Errorf("read id %d addr %d: short response (%d of %d bytes)", id, addr, len(data), length)
	}

	var val uint32
	for i := length - 1; i >= 0; i-- {
		val = val<<8 | uint32(data[i])
	}
	return val, nil
}

// WriteRegister writes raw bytes to a register of one servo.
func (b *Bus) WriteRegister(id byte, addr uint16, data ...byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.isOpen {
		return ErrNotOpen
	}

	if err := b.handler.Write(id, addr, data...); err != nil {
		return fmt.Errorf("write id %d addr %d: %w", id, addr, err)
	}
	return nil
}

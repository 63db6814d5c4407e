package input

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/activecam/activecam/internal/log"
	"github.com/activecam/activecam/pkg/robot"
)

// ZeroWindow is how long the tracker waits for its first valid sample. A
// session that sees no data in this window aborts rather than operating
// against an undefined reference.
const ZeroWindow = 5 * time.Second

// ErrNoZero is returned when no valid sample arrives within the zero window.
var ErrNoZero = errors.New("no tracker data received to establish zero point")

// Tracker is the continuous head-tracker source: a UDP listener receiving
// "pitch,yaw" text datagrams in degrees. A reader goroutine keeps only the
// most recent reading, so queued stale samples are dropped rather than
// processed; for this control domain, order-of-arrival lag is worse than
// dropped frames. Malformed datagrams are discarded silently.
//
// The first valid sample establishes the session's reference zero; every
// later sample is reported as an offset from it, wrapped to (-180, 180].
type Tracker struct {
	conn *net.UDPConn

	mu        sync.Mutex
	pitch     float64
	yaw       float64
	at        time.Time
	seq       uint64
	consumed  uint64
	zeroPitch float64
	zeroYaw   float64
	zeroSet   bool

	zeroReady chan struct{}
	done      chan struct{}
}

// NewTracker binds the UDP listen address and starts receiving.
func NewTracker(addr string) (*Tracker, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve listen address %s: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	t := &Tracker{
		conn:      conn,
		zeroReady: make(chan struct{}),
		done:      make(chan struct{}),
	}
	go t.receive()

	return t, nil
}

// Addr returns the bound listen address.
func (t *Tracker) Addr() net.Addr {
	return t.conn.LocalAddr()
}

func (t *Tracker) receive() {
	defer close(t.done)

	buf := make([]byte, 1024)
	for {
		n, _, err := t.conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Debug("tracker read failed", "err", err)
			continue
		}

		pitch, yaw, err := parseDatagram(string(buf[:n]))
		if err != nil {
			log.Debug("discarding malformed tracker datagram", "err", err)
			continue
		}

		t.mu.Lock()
		if !t.zeroSet {
			t.zeroPitch = pitch
			t.zeroYaw = yaw
			t.zeroSet = true
			close(t.zeroReady)
		}
		t.pitch = pitch
		t.yaw = yaw
		t.at = time.Now()
		t.seq++
		t.mu.Unlock()
	}
}

// parseDatagram parses a "pitch,yaw" record in degrees. At least two
// comma-separated float tokens are required; trailing fields are ignored.
func parseDatagram(s string) (pitch, yaw float64, err error) {
	fields := strings.Split(strings.TrimSpace(s), ",")
	if len(fields) < 2 {
		return 0, 0, fmt.Errorf("expected at least 2 fields, got %d", len(fields))
	}
	pitch, err = strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad pitch %q: %w", fields[0], err)
	}
	yaw, err = strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad yaw %q: %w", fields[1], err)
	}
	return pitch, yaw, nil
}

// WaitZero blocks until the reference zero is established or the window
// elapses. It returns the zero pitch/yaw in degrees.
func (t *Tracker) WaitZero(ctx context.Context, window time.Duration) (pitch, yaw float64, err error) {
	select {
	case <-t.zeroReady:
		t.mu.Lock()
		defer t.mu.Unlock()
		return t.zeroPitch, t.zeroYaw, nil
	case <-ctx.Done():
		return 0, 0, ctx.Err()
	case <-time.After(window):
		return 0, 0, ErrNoZero
	}
}

// Sample returns the newest unconsumed reading as a zero-referenced offset.
// It returns false before the zero is established or when no datagram
// arrived since the last call.
func (t *Tracker) Sample() (Sample, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.zeroSet || t.seq == t.consumed {
		return Sample{}, false
	}
	t.consumed = t.seq

	return Sample{
		Pitch:    robot.WrapDegrees(t.pitch - t.zeroPitch),
		Yaw:      robot.WrapDegrees(t.yaw - t.zeroYaw),
		Absolute: true,
		At:       t.at,
	}, true
}

// Close shuts down the listener and waits for the receiver to exit.
func (t *Tracker) Close() error {
	err := t.conn.Close()
	select {
	case <-t.done:
	case <-time.After(time.Second):
	}
	return err
}

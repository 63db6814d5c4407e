package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/activecam/activecam/pkg/robot"
)

type ListenCommand struct {
	Config string `long:"config" description:"Path to a config file (default activecam.json if present)"`
	Listen string `long:"listen" description:"UDP listen address (overrides config)"`
}

// Execute dumps incoming head-tracker datagrams so an operator can verify
// the headset is sending before starting a track session.
func (c *ListenCommand) Execute(args []string) error {
	addr := c.Listen
	if addr == "" {
		cfg, err := loadConfig(c.Config, "", 0)
		if err != nil {
			return err
		}
		addr = cfg.ListenAddr
	}

	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	defer conn.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		conn.Close()
	}()

	fmt.Printf("Listening for tracker data on %s (Ctrl+C to stop)\n", conn.LocalAddr())

	buf := make([]byte, 1024)
	for {
		conn.SetReadDeadline(time.Now().Add(time.Second))
		n, from, err := conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				fmt.Println("\nStopped.")
				return nil
			}
			var nerr net.Error
			if errors.As(err, &nerr) && nerr.Timeout() {
				fmt.Println("No data received in the last second...")
				continue
			}
			return err
		}

		msg := strings.TrimSpace(string(buf[:n]))
		fields := strings.Split(msg, ",")
		if len(fields) >= 2 {
			pitch, perr := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
			yaw, yerr := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
			if perr == nil && yerr == nil {
				fmt.Printf("%s: pitch %+.1f°, yaw %+.1f° (wrapped %+.1f°, %+.1f°)\n",
					from, pitch, yaw, robot.WrapDegrees(pitch), robot.WrapDegrees(yaw))
				continue
			}
		}
		fmt.Printf("%s: invalid record %q\n", from, msg)
	}
}

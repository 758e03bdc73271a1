// Package serial talks to the dual-channel load-cell bridge over its USB
// serial link. The firmware speaks a line protocol at 8N1: each command
// is a single letter terminated by LF, each reply one line echoing the
// command letter.
package serial

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	goserial "github.com/tarm/serial"

	"github.com/CK6170/cgscale-go/models"
)

// Commands understood by the bridge firmware.
const (
	cmdVersion = "V" // -> "V CGS2 <major>.<minor>"
	cmdRead    = "R" // -> "R <frontCounts> <rearCounts>"
)

const (
	portTimeout   = 300 * time.Millisecond
	replyDeadline = 800 * time.Millisecond
)

// Device is the byte stream the bridge protocol runs over. The real one
// is *goserial.Port; Read must return io.EOF when a read slice times out
// with no data, which is how the port behaves with ReadTimeout set.
type Device interface {
	io.ReadWriteCloser
	Flush() error
}

type Bridge struct {
	Dev          Device
	SerialConfig *models.SERIAL

	mu sync.Mutex // one command in flight at a time
}

// Open opens the configured port. The caller owns Close.
func Open(ser *models.SERIAL) (*Bridge, error) {
	if ser == nil || strings.TrimSpace(ser.PORT) == "" {
		return nil, fmt.Errorf("serial port not configured")
	}
	config := &goserial.Config{
		Name:        ser.PORT,
		Baud:        ser.BAUDRATE,
		Parity:      goserial.ParityNone,
		Size:        8,
		StopBits:    goserial.Stop1,
		ReadTimeout: portTimeout,
	}
	port, err := goserial.OpenPort(config)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", ser.PORT, err)
	}
	return &Bridge{Dev: port, SerialConfig: ser}, nil
}

func (b *Bridge) Close() error { return b.Dev.Close() }

// GetVersion asks the firmware for its identity line and returns the
// board name with the firmware major/minor.
func (b *Bridge) GetVersion() (string, int, int, error) {
	resp, err := b.command(cmdVersion)
	if err != nil {
		return "", 0, 0, err
	}
	fields := strings.Fields(resp)
	if len(fields) != 3 || fields[0] != cmdVersion {
		return "", 0, 0, fmt.Errorf("unexpected version reply %q", resp)
	}
	parts := strings.Split(fields[2], ".")
	if len(parts) != 2 {
		return "", 0, 0, fmt.Errorf("invalid version %q", fields[2])
	}
	major, _ := strconv.Atoi(parts[0])
	minor, _ := strconv.Atoi(parts[1])
	return fields[1], major, minor, nil
}

// ReadCounts polls one raw frame: the latest signed converter counts for
// both cells, front first.
func (b *Bridge) ReadCounts() (front, rear int64, err error) {
	resp, err := b.command(cmdRead)
	if err != nil {
		return 0, 0, err
	}
	fields := strings.Fields(resp)
	if len(fields) != 3 || fields[0] != cmdRead {
		return 0, 0, fmt.Errorf("malformed frame %q", resp)
	}
	front, err = strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("front counts %q: %w", fields[1], err)
	}
	rear, err = strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("rear counts %q: %w", fields[2], err)
	}
	return front, rear, nil
}

// command writes one command line and collects the reply line.
func (b *Bridge) command(cmd string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.Dev.Flush(); err != nil {
		return "", fmt.Errorf("flush: %w", err)
	}
	if _, err := b.Dev.Write([]byte(cmd + "\n")); err != nil {
		return "", fmt.Errorf("write %s: %w", cmd, err)
	}
	return b.readLine()
}

// readLine collects bytes until LF. The port read times out in slices of
// portTimeout; an overall deadline bounds a silent device.
func (b *Bridge) readLine() (string, error) {
	var sb strings.Builder
	buf := make([]byte, 64)
	deadline := time.Now().Add(replyDeadline)
	for time.Now().Before(deadline) {
		n, err := b.Dev.Read(buf)
		for _, c := range buf[:n] {
			if c == '\n' {
				return strings.TrimSpace(sb.String()), nil
			}
			sb.WriteByte(c)
		}
		if err != nil && err != io.EOF {
			return "", fmt.Errorf("read: %w", err)
		}
		// io.EOF is the port timeout slice; a reply without a trailing
		// LF is still usable once bytes stop coming.
		if err == io.EOF && sb.Len() > 0 {
			return strings.TrimSpace(sb.String()), nil
		}
	}
	return "", fmt.Errorf("no reply within %s", replyDeadline)
}

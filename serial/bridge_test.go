package serial

import (
	"io"
	"strings"
	"testing"
)

// scriptDevice answers each written command line with a canned reply and
// returns io.EOF once the reply bytes run out, the way the real port's
// read timeout surfaces.
type scriptDevice struct {
	replies map[string]string
	pending []byte
	wrote   []string
}

func (d *scriptDevice) Flush() error { d.pending = nil; return nil }

func (d *scriptDevice) Write(p []byte) (int, error) {
	cmd := strings.TrimSpace(string(p))
	d.wrote = append(d.wrote, cmd)
	d.pending = append(d.pending, d.replies[cmd]...)
	return len(p), nil
}

func (d *scriptDevice) Read(p []byte) (int, error) {
	if len(d.pending) == 0 {
		return 0, io.EOF
	}
	n := copy(p, d.pending)
	d.pending = d.pending[n:]
	return n, nil
}

func (d *scriptDevice) Close() error { return nil }

func scripted(replies map[string]string) (*Bridge, *scriptDevice) {
	d := &scriptDevice{replies: replies}
	return &Bridge{Dev: d}, d
}

func TestBridgeGetVersion(t *testing.T) {
	b, d := scripted(map[string]string{"V": "V CGS2 2.1\n"})
	name, major, minor, err := b.GetVersion()
	if err != nil {
		t.Fatalf("GetVersion: %v", err)
	}
	if name != "CGS2" || major != 2 || minor != 1 {
		t.Errorf("version = %s %d.%d, want CGS2 2.1", name, major, minor)
	}
	if len(d.wrote) != 1 || d.wrote[0] != "V" {
		t.Errorf("wrote %v, want single V command", d.wrote)
	}
}

func TestBridgeGetVersionRejectsMalformed(t *testing.T) {
	cases := []struct {
		name  string
		reply string
	}{
		{"missing field", "V CGS2\n"},
		{"wrong echo", "X CGS2 2.1\n"},
		{"bad version format", "V CGS2 2\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, _ := scripted(map[string]string{"V": tc.reply})
			if _, _, _, err := b.GetVersion(); err == nil {
				t.Errorf("reply %q accepted, want error", tc.reply)
			}
		})
	}
}

func TestBridgeReadCounts(t *testing.T) {
	b, _ := scripted(map[string]string{"R": "R 431250 -4548\n"})
	front, rear, err := b.ReadCounts()
	if err != nil {
		t.Fatalf("ReadCounts: %v", err)
	}
	if front != 431250 || rear != -4548 {
		t.Errorf("counts = %d %d, want 431250 -4548", front, rear)
	}
}

func TestBridgeReadCountsRejectsMalformed(t *testing.T) {
	cases := []struct {
		name  string
		reply string
	}{
		{"missing rear", "R 100\n"},
		{"wrong echo", "Q 100 200\n"},
		{"non-numeric", "R abc def\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, _ := scripted(map[string]string{"R": tc.reply})
			if _, _, err := b.ReadCounts(); err == nil {
				t.Errorf("reply %q accepted, want error", tc.reply)
			}
		})
	}
}

func TestBridgeReplyWithoutTrailingLF(t *testing.T) {
	// Some firmware builds drop the final LF; the reply is still usable
	// once the stream goes quiet.
	b, _ := scripted(map[string]string{"R": "R 150 250"})
	front, rear, err := b.ReadCounts()
	if err != nil {
		t.Fatalf("ReadCounts: %v", err)
	}
	if front != 150 || rear != 250 {
		t.Errorf("counts = %d %d, want 150 250", front, rear)
	}
}

func TestBridgeSilentDevice(t *testing.T) {
	b, _ := scripted(map[string]string{})
	if _, _, _, err := b.GetVersion(); err == nil {
		t.Fatal("silent device accepted, want deadline error")
	}
}

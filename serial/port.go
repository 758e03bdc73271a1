package serial

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/CK6170/cgscale-go/models"
)

// AutoDetectPort scans common ports for a bridge answering the version
// command.
func AutoDetectPort(baud int) string {
	if runtime.GOOS == "windows" {
		// Scan COM1..COM64
		for i := 1; i <= 64; i++ {
			portName := fmt.Sprintf("COM%d", i)
			if TestPort(portName, baud) {
				return portName
			}
		}
		return ""
	}

	// Unix-like: try common device paths.
	candidates := make([]string, 0, 32)
	for _, pat := range []string{"/dev/ttyUSB*", "/dev/ttyACM*", "/dev/ttyS*", "/dev/cu.*"} {
		matches, _ := filepath.Glob(pat)
		for _, m := range matches {
			if _, err := os.Stat(m); err == nil {
				candidates = append(candidates, m)
			}
		}
	}
	for _, portName := range candidates {
		if TestPort(portName, baud) {
			return portName
		}
	}
	return ""
}

// TestPort tries to open the port and get a version reply.
func TestPort(name string, baud int) bool {
	b, err := Open(&models.SERIAL{PORT: name, BAUDRATE: baud})
	if err != nil {
		return false
	}
	defer func() { _ = b.Close() }()

	_, _, _, err = b.GetVersion()
	return err == nil
}

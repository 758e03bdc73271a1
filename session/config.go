// Package session holds the UI-agnostic flows shared by the CLI, the
// TUI and the live server: config handling, device connection, and the
// guided calibration-factor fit.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/CK6170/cgscale-go/models"
	serialpkg "github.com/CK6170/cgscale-go/serial"
)

// LoadConfig reads and validates the JSON config, filling defaults for
// everything a minimal file may leave out.
func LoadConfig(path string) (*models.CONFIG, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c models.CONFIG
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	if c.SERIAL == nil {
		c.SERIAL = &models.SERIAL{}
	}
	if c.FRONT == nil || c.REAR == nil {
		return nil, fmt.Errorf("missing FRONT or REAR channel in JSON")
	}
	if c.GEOMETRY == nil {
		return nil, fmt.Errorf("missing GEOMETRY section in JSON")
	}
	if c.GEOMETRY.WINGPEG <= 0 {
		return nil, fmt.Errorf("GEOMETRY.WINGPEG must be positive, got %d", c.GEOMETRY.WINGPEG)
	}
	if c.GEOMETRY.STOPPER < 0 {
		return nil, fmt.Errorf("GEOMETRY.STOPPER must not be negative, got %d", c.GEOMETRY.STOPPER)
	}
	if c.SERIAL.BAUDRATE <= 0 {
		c.SERIAL.BAUDRATE = 115200
	}
	// an uncalibrated rig runs with unit factors until the fit flow
	// writes real ones
	if c.FRONT.FACTOR == 0 {
		c.FRONT.FACTOR = 1
	}
	if c.REAR.FACTOR == 0 {
		c.REAR.FACTOR = 1
	}
	if c.STABILIZE <= 0 {
		c.STABILIZE = 3000
	}
	if c.REFRESH <= 0 {
		c.REFRESH = 500
	}
	if c.POLL <= 0 {
		c.POLL = 2
	}
	if c.AVG <= 0 {
		c.AVG = 50
	}
	// match CLI behavior: if IGNORE not provided, use AVG
	if c.IGNORE <= 0 {
		c.IGNORE = c.AVG
	}
	c.OUTPUT = strings.ToLower(strings.TrimSpace(c.OUTPUT))
	switch c.OUTPUT {
	case "":
		c.OUTPUT = models.OutputConsole
	case models.OutputConsole, models.OutputDisplay:
	default:
		return nil, fmt.Errorf("OUTPUT must be %q or %q, got %q",
			models.OutputConsole, models.OutputDisplay, c.OUTPUT)
	}
	return &c, nil
}

// PersistConfig writes the config back where it came from.
func PersistConfig(path string, c *models.CONFIG) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EnsureSerialPort auto-detects the serial port if the config leaves it
// empty and optionally persists the detected port back into the file.
func EnsureSerialPort(configPath string, c *models.CONFIG, persist bool) (changed bool, err error) {
	if c == nil || c.SERIAL == nil {
		return false, fmt.Errorf("missing SERIAL section")
	}
	if strings.TrimSpace(c.SERIAL.PORT) != "" {
		return false, nil
	}
	port := serialpkg.AutoDetectPort(c.SERIAL.BAUDRATE)
	if port == "" {
		return false, fmt.Errorf("could not auto-detect serial port")
	}
	c.SERIAL.PORT = port
	if persist {
		if err := PersistConfig(configPath, c); err != nil {
			return true, err
		}
	}
	return true, nil
}

// CalibratedPath derives the sibling _calibrated.json path from the base
// config path.
func CalibratedPath(configPath string) string {
	if strings.HasSuffix(strings.ToLower(configPath), "_calibrated.json") {
		return configPath
	}
	if strings.HasSuffix(strings.ToLower(configPath), ".json") {
		return strings.TrimSuffix(configPath, ".json") + "_calibrated.json"
	}
	return configPath + "_calibrated.json"
}

// SaveCalibratedConfig writes the fitted factors to the sibling
// _calibrated.json, never over the original file. It does not print;
// the UI surfaces errors itself.
func SaveCalibratedConfig(path string, c *models.CONFIG) error {
	if c == nil {
		return fmt.Errorf("config nil")
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

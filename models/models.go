package models

// CONFIG is the on-disk configuration schema. Field names double as the
// JSON keys of the config file.
type CONFIG struct {
	SERIAL    *SERIAL
	FRONT     *CHANNEL
	REAR      *CHANNEL
	GEOMETRY  *GEOMETRY
	STABILIZE int    // tare window, ms
	TIMEOUT   int    // stabilization timeout, ms; 0 waits forever
	REFRESH   int    // compute/display cadence, ms
	POLL      int    // control-loop sleep between sensor polls, ms
	AVG       int    // samples averaged per calibration step
	IGNORE    int    // samples discarded before averaging
	OUTPUT    string // "console" or "display"
	DEBUG     bool
}

type SERIAL struct {
	PORT     string
	BAUDRATE int
}

// CHANNEL describes one load cell. FACTOR is converter counts per gram.
type CHANNEL struct {
	ID     int
	FACTOR float64
}

// GEOMETRY holds the rig distances in tenths of a millimeter.
type GEOMETRY struct {
	WINGPEG int64
	STOPPER int64
}

// Output target selector values.
const (
	OutputConsole = "console"
	OutputDisplay = "display"
)

// Channels returns the two channels in wire order (front first).
func (c *CONFIG) Channels() [2]*CHANNEL {
	return [2]*CHANNEL{c.FRONT, c.REAR}
}

// Side names a support point for prompts and logs.
func Side(i int) string {
	if i == 0 {
		return "front"
	}
	return "rear"
}

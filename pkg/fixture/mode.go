package fixture

import (
	"fmt"
	"strings"
)

// Mode selects how the Transport treats each request. It is fixed for the
// lifetime of a Transport.
type Mode string

const (
	// ModeOnline forwards every request to the live transport unmodified.
	ModeOnline Mode = "online"
	// ModeCapture always performs the live call, persists the response and
	// serves it back from storage.
	ModeCapture Mode = "capture"
	// ModeReplay serves from storage only and never touches the network.
	ModeReplay Mode = "replay"
	// ModeAutomatic replays when a fixture exists and captures otherwise.
	ModeAutomatic Mode = "automatic"
)

// IsValid checks if the mode is valid.
func (m Mode) IsValid() bool {
	switch m {
	case ModeOnline, ModeCapture, ModeReplay, ModeAutomatic:
		return true
	default:
		return false
	}
}

// writes reports whether the mode persists captures.
func (m Mode) writes() bool {
	return m == ModeCapture || m == ModeAutomatic
}

// ParseMode parses a mode name, case-insensitively. Common aliases from
// other record/replay tools are accepted.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "online", "passthrough", "live":
		return ModeOnline, nil
	case "capture", "record":
		return ModeCapture, nil
	case "replay", "fake", "playback":
		return ModeReplay, nil
	case "automatic", "auto":
		return ModeAutomatic, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

package model

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Side identifies one of the two stores being reconciled.
type Side string

const (
	// Local is the copy held on this device.
	Local Side = "local"
	// Remote is the copy received from the sync peer.
	Remote Side = "remote"
)

// IsValid returns true if the side is recognized.
func (s Side) IsValid() bool {
	switch s {
	case Local, Remote:
		return true
	default:
		return false
	}
}

// AllSides returns both sides in a stable order.
func AllSides() []Side {
	return []Side{Local, Remote}
}

// String returns the string representation of the side.
func (s Side) String() string {
	return string(s)
}

// DisplayName returns the title-cased side name for UI output.
func (s Side) DisplayName() string {
	return cases.Title(language.English).String(string(s))
}

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == Remote {
		return Local
	}
	return Remote
}

// ParseSide parses a side name, accepting a few common aliases.
func ParseSide(s string) (Side, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))

	side := Side(normalized)
	if side.IsValid() {
		return side, nil
	}

	switch normalized {
	case "l", "device", "client":
		return Local, nil
	case "r", "server", "peer":
		return Remote, nil
	default:
		return "", fmt.Errorf("unknown side %q (valid: local, remote)", s)
	}
}

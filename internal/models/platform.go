package models

import (
	"fmt"
	"strings"
)

// Platform identifies an external chess platform.
type Platform string

const (
	PlatformChessCom Platform = "chess.com"
	PlatformLichess  Platform = "lichess.org"
)

// ParsePlatform parses a platform name case-insensitively. Only chess.com and
// lichess.org are supported.
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(PlatformChessCom):
		return PlatformChessCom, nil
	case string(PlatformLichess):
		return PlatformLichess, nil
	default:
		return "", fmt.Errorf("unsupported platform %q", s)
	}
}

func (p Platform) String() string {
	return string(p)
}

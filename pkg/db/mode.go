package db

import (
	"fmt"
	"strings"
)

// Mode is the open-time policy deciding whether a database must, must not or
// may already exist.
type Mode uint8

const (
	// ModeOpen opens an existing database and fails if it is absent.
	ModeOpen Mode = iota
	// ModeNew creates a database and fails if one already exists.
	ModeNew
	// ModeCreate opens the database if present and creates it otherwise.
	ModeCreate
)

func (m Mode) Valid() bool {
	return m <= ModeCreate
}

func (m Mode) String() string {
	switch m {
	case ModeOpen:
		return "open"
	case ModeNew:
		return "new"
	case ModeCreate:
		return "create"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// ParseMode parses the textual form of a mode as produced by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open":
		return ModeOpen, nil
	case "new":
		return ModeNew, nil
	case "create":
		return ModeCreate, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// ValidateKey reports ErrInvalidKey if key holds a NUL byte, which the
// engines use as the key terminator.
func ValidateKey(key string) error {
	if i := strings.IndexByte(key, 0); i >= 0 {
		return fmt.Errorf("%w: NUL byte at offset %d", ErrInvalidKey, i)
	}
	return nil
}

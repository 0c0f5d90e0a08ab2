package laindb

import (
	"fmt"
	"strings"

	"github.com/eigerco/laindb/pkg/db"
)

// encodeKey returns key as a NUL-terminated byte string. Keys holding a NUL
// byte are rejected, the engine would silently truncate them.
func encodeKey(key string) ([]byte, error) {
	if err := db.ValidateKey(key); err != nil {
		return nil, err
	}
	return cString(key), nil
}

func encodeName(name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if i := strings.IndexByte(name, 0); i >= 0 {
		return nil, fmt.Errorf("%w: NUL byte at offset %d", ErrInvalidName, i)
	}
	return cString(name), nil
}

func cString(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

package db

// KVStore represents a key-value storage interface providing the basic
// operations the laindb engines share.
//
// Keys are text and must not contain a NUL byte. Values are arbitrary bytes,
// including empty values and values containing NUL bytes.
type KVStore interface {
	Writer
	// Get returns the value stored under key. A missing key is reported with
	// found == false and a nil error; it is not an error condition.
	Get(key string) (value []byte, found bool, err error)
	// Erase removes key. Erasing a key that does not exist is a no-op.
	Erase(key string) error
	// Close releases the underlying engine. Calling Close more than once is
	// allowed and returns nil after the first call.
	Close() error
}

type Writer interface {
	// Put stores value under key, replacing any previous value.
	Put(key string, value []byte) error
}

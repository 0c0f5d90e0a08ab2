package pebble

import "errors"

var ErrOpenFailed = errors.New("pebble: failed to open database")

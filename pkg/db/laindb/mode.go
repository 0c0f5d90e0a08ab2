package laindb

import "github.com/eigerco/laindb/pkg/db"

// modeCode translates a Mode into the integer laindb_new expects. It returns 0
// for values outside the enumeration; Open rejects those beforehand.
func modeCode(m db.Mode) int32 {
	switch m {
	case db.ModeOpen:
		return 1
	case db.ModeNew:
		return 2
	case db.ModeCreate:
		return 3
	default:
		return 0
	}
}

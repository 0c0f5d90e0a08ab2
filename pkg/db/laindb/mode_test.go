package laindb

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eigerco/laindb/pkg/db"
)

func TestModeCode(t *testing.T) {
	assert.Equal(t, int32(1), modeCode(db.ModeOpen))
	assert.Equal(t, int32(2), modeCode(db.ModeNew))
	assert.Equal(t, int32(3), modeCode(db.ModeCreate))
	assert.Equal(t, int32(0), modeCode(db.Mode(42)))
}

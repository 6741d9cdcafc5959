package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusCreated, StatusPaid))
	assert.True(t, CanTransition(StatusCreated, StatusFailed))
	assert.True(t, CanTransition(StatusPaid, StatusPaid), "redelivered webhook must stay a no-op")

	assert.False(t, CanTransition(StatusPaid, StatusCreated))
	assert.False(t, CanTransition(StatusPaid, StatusFailed))
	assert.False(t, CanTransition(StatusFailed, StatusPaid))
	assert.False(t, CanTransition(StatusFailed, StatusCreated))
	assert.False(t, CanTransition(StatusCreated, StatusCreated))
	assert.False(t, CanTransition(OrderStatus("shipped"), StatusPaid))
}

package sentry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInit_TelemetryOff(t *testing.T) {
	err := Init("0.3.0", false)
	assert.NoError(t, err)
	assert.False(t, IsEnabled())

	// All entry points are no-ops while disabled.
	Flush()
	SetContext(true, false)
}

func TestInit_EmptyDSN(t *testing.T) {
	origDSN := dsn
	dsn = ""
	defer func() { dsn = origDSN }()

	err := Init("0.3.0", true)
	assert.NoError(t, err)
	assert.False(t, IsEnabled())
}

func TestIsEnabled(t *testing.T) {
	enabled = false
	assert.False(t, IsEnabled())
	enabled = true
	assert.True(t, IsEnabled())
	enabled = false
}

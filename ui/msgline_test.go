package ui

import (
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestMsgLine_ShowAndClear(t *testing.T) {
	m := NewMsgLine()
	m.SetWidth(80)

	m.Info("cartero 0.3.0")
	assert.True(t, m.Active())
	assert.Contains(t, ansi.Strip(m.View()), "cartero 0.3.0")

	m.Clear()
	assert.False(t, m.Active())
	assert.Equal(t, "", m.View())
}

func TestMsgLine_Replace(t *testing.T) {
	m := NewMsgLine()
	m.SetWidth(80)

	m.Info("first")
	m.Error("second")

	plain := ansi.Strip(m.View())
	assert.Equal(t, "second", plain)
}

func TestMsgLine_Expiry(t *testing.T) {
	m := NewMsgLine()
	m.SetWidth(80)

	m.Error("boom")
	// Rewind the clock instead of sleeping out the dismiss delay.
	m.shownAt = time.Now().Add(-ErrorDismissAfter)
	assert.False(t, m.Active())
	assert.Equal(t, "", m.View())
}

func TestMsgLine_TruncatesToWidth(t *testing.T) {
	m := NewMsgLine()
	m.SetWidth(10)

	m.Info("a message far too long for the line")
	plain := ansi.Strip(m.View())
	assert.LessOrEqual(t, len([]rune(plain)), 10)
	assert.Contains(t, plain, "…")
}

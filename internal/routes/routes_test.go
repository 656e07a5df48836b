package routes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRefreshTTLFromDays(t *testing.T) {
	assert.Equal(t, 30*24*time.Hour, refreshTTLFromDays("30"))
	assert.Equal(t, 24*time.Hour, refreshTTLFromDays("1"))
	assert.Equal(t, 7*24*time.Hour, refreshTTLFromDays("7"))

	// Bad input falls back to 30 days.
	assert.Equal(t, 30*24*time.Hour, refreshTTLFromDays(""))
	assert.Equal(t, 30*24*time.Hour, refreshTTLFromDays("-2"))
	assert.Equal(t, 30*24*time.Hour, refreshTTLFromDays("monthly"))
}

package proctor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscalationToTermination(t *testing.T) {
	s := NewSession()
	assert.Equal(t, StateIdle, s.State())

	s.Activate()
	require.Equal(t, StateActive, s.State())

	v1 := s.RecordViolation(ViolationCopyPaste)
	assert.Equal(t, 1, v1.Count)
	assert.Equal(t, 2, v1.Remaining)
	assert.Equal(t, StateWarned, v1.State)
	assert.False(t, v1.Terminate)

	v2 := s.RecordViolation(ViolationContextMenu)
	assert.Equal(t, 2, v2.Count)
	assert.Equal(t, 1, v2.Remaining)
	assert.False(t, v2.Terminate)

	v3 := s.RecordViolation(ViolationScreenshot)
	assert.Equal(t, 3, v3.Count)
	assert.Equal(t, 0, v3.Remaining)
	assert.Equal(t, StateTerminated, v3.State)
	assert.True(t, v3.Terminate, "termination fires on the violation that reaches the limit")
}

func TestTerminateFiresExactlyOnce(t *testing.T) {
	s := NewSession()
	s.Activate()

	terminations := 0
	for i := 0; i < 10; i++ {
		if s.RecordViolation(ViolationDevtools).Terminate {
			terminations++
		}
	}
	assert.Equal(t, 1, terminations)
	assert.Equal(t, MaxViolations, s.Count())
	assert.Equal(t, StateTerminated, s.State())
}

func TestCounterNeverDecreases(t *testing.T) {
	s := NewSession()
	s.Activate()

	prev := 0
	for i := 0; i < 6; i++ {
		s.RecordViolation(ViolationSelection)
		s.Acknowledge()
		count := s.Count()
		assert.GreaterOrEqual(t, count, prev)
		prev = count
	}
}

func TestIdleSessionIgnoresViolations(t *testing.T) {
	// Asesor reviewing a transcript never activate; nothing is counted.
	s := NewSession()
	v := s.RecordViolation(ViolationCopyPaste)
	assert.Equal(t, 0, v.Count)
	assert.Equal(t, StateIdle, v.State)
	assert.False(t, v.Terminate)
	assert.Equal(t, 0, s.Count())
}

func TestAcknowledgeReturnsToActiveWithoutReset(t *testing.T) {
	s := NewSession()
	s.Activate()

	s.RecordViolation(ViolationContextMenu)
	require.Equal(t, StateWarned, s.State())

	s.Acknowledge()
	assert.Equal(t, StateActive, s.State())
	assert.Equal(t, 1, s.Count())
}

func TestWarningAutoDismissesAfterDisplayDuration(t *testing.T) {
	now := time.Now()
	s := NewSession()
	s.now = func() time.Time { return now }
	s.Activate()

	s.RecordViolation(ViolationDevtools)
	assert.Equal(t, StateWarned, s.State())

	now = now.Add(warnDisplay - time.Millisecond)
	assert.Equal(t, StateWarned, s.State())

	now = now.Add(2 * time.Millisecond)
	assert.Equal(t, StateActive, s.State())
	assert.Equal(t, 1, s.Count())
}

func TestActivateIsIdempotentAndFinal(t *testing.T) {
	s := NewSession()
	s.Activate()
	s.RecordViolation(ViolationCopyPaste)
	s.Activate() // must not clear a warning or the counter
	assert.Equal(t, 1, s.Count())

	for i := 0; i < 2; i++ {
		s.RecordViolation(ViolationCopyPaste)
	}
	s.Activate() // must not revive a terminated session
	assert.Equal(t, StateTerminated, s.State())
}

func TestRegistryDropResetsForNextEntry(t *testing.T) {
	r := NewRegistry()
	s := r.Session("izin-1")
	s.Activate()
	s.RecordViolation(ViolationScreenshot)
	require.Equal(t, 1, s.Count())

	// Same izin id returns the same live session.
	assert.Same(t, s, r.Session("izin-1"))

	// Leaving the exam screen discards local state; re-entry starts fresh.
	r.Drop("izin-1")
	fresh := r.Session("izin-1")
	assert.NotSame(t, s, fresh)
	assert.Equal(t, 0, fresh.Count())
	assert.Equal(t, StateIdle, fresh.State())
}

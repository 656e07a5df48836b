package controllers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSaveOrderStrictOrdering(t *testing.T) {
	var calls []string
	warn, err := runSaveOrder(
		func() error { calls = append(calls, "save"); return nil },
		func() error { calls = append(calls, "countersign"); return nil },
		func() { calls = append(calls, "navigate") },
	)
	require.NoError(t, err)
	assert.False(t, warn)
	assert.Equal(t, []string{"save", "countersign", "navigate"}, calls)
}

func TestRunSaveOrderSaveFailureStopsEverything(t *testing.T) {
	var calls []string
	_, err := runSaveOrder(
		func() error { return errors.New("db down") },
		func() error { calls = append(calls, "countersign"); return nil },
		func() { calls = append(calls, "navigate") },
	)
	require.Error(t, err)
	assert.Empty(t, calls, "a failed save must neither countersign nor advance")
}

func TestRunSaveOrderAttestationFailureTolerated(t *testing.T) {
	var calls []string
	warn, err := runSaveOrder(
		func() error { calls = append(calls, "save"); return nil },
		func() error { return errors.New("signing service down") },
		func() { calls = append(calls, "navigate") },
	)
	require.NoError(t, err)
	assert.True(t, warn, "issuance failure surfaces as a warning, not an error")
	assert.Equal(t, []string{"save", "navigate"}, calls, "navigation proceeds past a failed issuance")
}

func TestRunSaveOrderEditOnlyRoleSkipsCountersign(t *testing.T) {
	navigated := false
	warn, err := runSaveOrder(func() error { return nil }, nil, func() { navigated = true })
	require.NoError(t, err)
	assert.False(t, warn)
	assert.True(t, navigated)
}

package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keysOf(steps []Step) []string {
	keys := make([]string, 0, len(steps))
	for _, s := range steps {
		keys = append(keys, s.Key)
	}
	return keys
}

func TestStepsOrdinalsContiguous(t *testing.T) {
	roles := []Role{RoleAsesi, RoleAsesorUtama, RoleAsesorKedua}
	for _, role := range roles {
		for _, count := range []int{1, 2} {
			steps := Steps(role, count)
			require.NotEmpty(t, steps)
			seen := map[string]bool{}
			for i, s := range steps {
				assert.Equal(t, i+1, s.Number, "role %s count %d", role, count)
				assert.False(t, seen[s.Key], "duplicate key %s for role %s", s.Key, role)
				seen[s.Key] = true
			}
		}
	}
}

func TestStepsAsesorUtamaFullSequence(t *testing.T) {
	steps := Steps(RoleAsesorUtama, 1)
	assert.Equal(t, []string{
		StepIA04A, StepUploadTugas, StepIA04B, StepUjian,
		StepAK02, StepAK03, StepAK06, StepSelesai,
	}, keysOf(steps))
}

func TestStepsAsesiEndsAfterUjian(t *testing.T) {
	steps := Steps(RoleAsesi, 1)
	assert.Equal(t, []string{
		StepIA04A, StepUploadTugas, StepIA04B, StepUjian, StepSelesai,
	}, keysOf(steps))
}

func TestStepsAsesorKeduaSkipsAK03(t *testing.T) {
	steps := Steps(RoleAsesorKedua, 2)
	assert.Equal(t, []string{
		StepIA04A, StepUploadTugas, StepIA04B, StepUjian, StepAK06, StepSelesai,
	}, keysOf(steps))
	assert.NotContains(t, keysOf(steps), StepAK03)
}

func TestStepsLonePrimaryAlwaysHasAK03(t *testing.T) {
	steps := Steps(RoleAsesorUtama, 1)
	assert.Contains(t, keysOf(steps), StepAK03)
}

func TestStepsSecondaryBranchUnreachableWithOneAsesor(t *testing.T) {
	// With one asesor the kedua-specific closing collapses entirely: no ak06.
	steps := Steps(RoleAsesorKedua, 1)
	assert.Equal(t, []string{
		StepIA04A, StepUploadTugas, StepIA04B, StepUjian, StepSelesai,
	}, keysOf(steps))
}

func TestStepForRejectsKeysOutsideSequence(t *testing.T) {
	_, ok := StepFor(StepAK03, RoleAsesorKedua, 2)
	assert.False(t, ok)

	_, ok = StepFor(StepAK02, RoleAsesi, 2)
	assert.False(t, ok)

	step, ok := StepFor(StepAK03, RoleAsesorUtama, 2)
	require.True(t, ok)
	assert.Equal(t, StepAK03, step.Key)
}

func TestAdvancesNeverMovesPointerBackward(t *testing.T) {
	// A primary asesor countersigning an intake step must not rewind a
	// candidate who has already reached the exam.
	next, ok := NextStep(StepIA04A, RoleAsesorUtama, 2)
	require.True(t, ok)
	assert.Equal(t, StepUploadTugas, next.Key)
	assert.False(t, Advances(StepUjian, next.Key))

	assert.True(t, Advances(StepIA04A, StepUploadTugas))
	assert.True(t, Advances("", StepIA04A))
	assert.False(t, Advances(StepUjian, StepUjian))
	assert.False(t, Advances(StepSelesai, StepAK06))
	assert.True(t, Advances(StepAK03, StepAK06))
	assert.False(t, Advances(StepUjian, "bogus"))
}

func TestNextStep(t *testing.T) {
	next, ok := NextStep(StepUjian, RoleAsesi, 1)
	require.True(t, ok)
	assert.Equal(t, StepSelesai, next.Key)

	next, ok = NextStep(StepUjian, RoleAsesorUtama, 2)
	require.True(t, ok)
	assert.Equal(t, StepAK02, next.Key)

	next, ok = NextStep(StepUjian, RoleAsesorKedua, 2)
	require.True(t, ok)
	assert.Equal(t, StepAK06, next.Key)

	_, ok = NextStep(StepSelesai, RoleAsesi, 1)
	assert.False(t, ok)
}

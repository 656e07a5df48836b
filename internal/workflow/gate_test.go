package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapabilitiesUnauthorizedGetsNothing(t *testing.T) {
	steps := []string{StepIA04A, StepUploadTugas, StepIA04B, StepUjian, StepAK02, StepAK03, StepAK06, StepSelesai}
	for _, key := range steps {
		for _, hasKedua := range []bool{false, true} {
			cap := Capabilities(key, RoleUnauthorized, hasKedua)
			assert.Equal(t, Capability{}, cap, "step %s", key)
		}
	}
}

func TestCapabilitiesAsesiNeverEditsClosingSteps(t *testing.T) {
	for _, key := range []string{StepAK02, StepAK03, StepAK06} {
		for _, hasKedua := range []bool{false, true} {
			cap := Capabilities(key, RoleAsesi, hasKedua)
			assert.False(t, cap.CanEdit, "asesi must not edit %s", key)
			assert.False(t, cap.CanView, "asesi must not even view %s", key)
		}
	}
}

func TestCapabilitiesIA04A(t *testing.T) {
	utama := Capabilities(StepIA04A, RoleAsesorUtama, true)
	assert.True(t, utama.CanEdit)
	assert.True(t, utama.CanCountersign)

	// asesi and kedua sign without editing the feedback field
	for _, role := range []Role{RoleAsesi, RoleAsesorKedua} {
		cap := Capabilities(StepIA04A, role, true)
		assert.False(t, cap.CanEdit, "role %s", role)
		assert.True(t, cap.CanView, "role %s", role)
		assert.True(t, cap.CanCountersign, "role %s", role)
	}
}

func TestCapabilitiesUploadTugas(t *testing.T) {
	asesi := Capabilities(StepUploadTugas, RoleAsesi, false)
	assert.True(t, asesi.CanEdit)

	for _, role := range []Role{RoleAsesorUtama, RoleAsesorKedua} {
		cap := Capabilities(StepUploadTugas, role, true)
		assert.False(t, cap.CanEdit, "role %s", role)
		assert.True(t, cap.CanView, "role %s", role)
	}
}

func TestCapabilitiesUjianTranscriptReadOnly(t *testing.T) {
	asesi := Capabilities(StepUjian, RoleAsesi, false)
	assert.True(t, asesi.CanEdit)

	for _, role := range []Role{RoleAsesorUtama, RoleAsesorKedua} {
		cap := Capabilities(StepUjian, role, true)
		assert.False(t, cap.CanEdit, "role %s", role)
		assert.True(t, cap.CanView, "role %s", role)
	}
}

func TestCapabilitiesAK06SingleWriter(t *testing.T) {
	// Without a secondary, the primary writes ak06.
	utamaAlone := Capabilities(StepAK06, RoleAsesorUtama, false)
	assert.True(t, utamaAlone.CanEdit)

	// With a secondary, the secondary takes over and the primary is locked out.
	utamaPaired := Capabilities(StepAK06, RoleAsesorUtama, true)
	assert.False(t, utamaPaired.CanEdit)
	assert.True(t, utamaPaired.CanView)

	keduaPaired := Capabilities(StepAK06, RoleAsesorKedua, true)
	assert.True(t, keduaPaired.CanEdit)

	// Exactly one editor per configuration.
	for _, hasKedua := range []bool{false, true} {
		editors := 0
		for _, role := range []Role{RoleAsesorUtama, RoleAsesorKedua} {
			if Capabilities(StepAK06, role, hasKedua).CanEdit {
				editors++
			}
		}
		assert.Equal(t, 1, editors, "hasKedua=%v", hasKedua)
	}
}

func TestCapabilitiesAK02AK03PrimaryOnly(t *testing.T) {
	for _, key := range []string{StepAK02, StepAK03} {
		utama := Capabilities(key, RoleAsesorUtama, true)
		assert.True(t, utama.CanEdit, "step %s", key)

		kedua := Capabilities(key, RoleAsesorKedua, true)
		assert.Equal(t, Capability{}, kedua, "step %s", key)
	}
}

func TestCapabilitiesUnknownStep(t *testing.T) {
	cap := Capabilities("ia05", RoleAsesorUtama, false)
	assert.Equal(t, Capability{}, cap)
}

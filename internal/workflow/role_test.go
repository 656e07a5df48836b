package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zaqqye/lsp_backend_v1/internal/models"
)

func kegiatanWith(utama string, kedua *string) models.Kegiatan {
	return models.Kegiatan{ID: "keg-1", AsesorUtamaID: utama, AsesorKeduaID: kedua}
}

func TestResolveRoleAsesiAlwaysAsesi(t *testing.T) {
	kedua := "asesor-2"
	user := models.User{UserID: "asesor-1", Role: "asesi"}
	// Even if the asesi's id happened to match an asesor seat, the role class wins.
	role := ResolveRole(user, kegiatanWith("asesor-1", &kedua))
	assert.Equal(t, RoleAsesi, role)
}

func TestResolveRoleAsesorSeats(t *testing.T) {
	kedua := "asesor-2"
	keg := kegiatanWith("asesor-1", &kedua)

	assert.Equal(t, RoleAsesorUtama, ResolveRole(models.User{UserID: "asesor-1", Role: "asesor"}, keg))
	assert.Equal(t, RoleAsesorKedua, ResolveRole(models.User{UserID: "asesor-2", Role: "asesor"}, keg))
	assert.Equal(t, RoleUnauthorized, ResolveRole(models.User{UserID: "asesor-3", Role: "asesor"}, keg))
}

func TestResolveRoleNoSecondarySeat(t *testing.T) {
	keg := kegiatanWith("asesor-1", nil)
	assert.Equal(t, RoleUnauthorized, ResolveRole(models.User{UserID: "asesor-2", Role: "asesor"}, keg))
}

func TestResolveRoleOtherRoleClasses(t *testing.T) {
	keg := kegiatanWith("asesor-1", nil)
	assert.Equal(t, RoleUnauthorized, ResolveRole(models.User{UserID: "admin-1", Role: "admin"}, keg))
	assert.Equal(t, RoleUnauthorized, ResolveRole(models.User{UserID: "x", Role: ""}, keg))
}

func TestRoleString(t *testing.T) {
	assert.Equal(t, "asesi", RoleAsesi.String())
	assert.Equal(t, "asesor_utama", RoleAsesorUtama.String())
	assert.Equal(t, "asesor_kedua", RoleAsesorKedua.String())
	assert.Equal(t, "unauthorized", RoleUnauthorized.String())
	assert.True(t, RoleAsesorKedua.IsAsesor())
	assert.False(t, RoleAsesi.IsAsesor())
}

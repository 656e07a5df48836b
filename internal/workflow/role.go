package workflow

import (
	"github.com/zaqqye/lsp_backend_v1/internal/models"
)

// Role is the actor's resolved role within one workflow instance. It is a
// closed set produced only by ResolveRole; handlers never compare raw role
// strings against session fields themselves.
type Role int

const (
	RoleUnauthorized Role = iota
	RoleAsesi
	RoleAsesorUtama
	RoleAsesorKedua
)

func (r Role) String() string {
	switch r {
	case RoleAsesi:
		return "asesi"
	case RoleAsesorUtama:
		return "asesor_utama"
	case RoleAsesorKedua:
		return "asesor_kedua"
	default:
		return "unauthorized"
	}
}

// IsAsesor reports whether the role is either evaluator seat.
func (r Role) IsAsesor() bool {
	return r == RoleAsesorUtama || r == RoleAsesorKedua
}

// ResolveRole determines the acting user's role within the kegiatan. An asesi
// role class always resolves to RoleAsesi. An asesor is matched against the
// primary seat first, then the secondary; the two are never both true for one
// user within one kegiatan. Anything else is RoleUnauthorized — callers must
// block, never fall back to the most permissive role.
func ResolveRole(user models.User, kegiatan models.Kegiatan) Role {
	switch user.Role {
	case "asesi":
		return RoleAsesi
	case "asesor":
		if user.UserID == kegiatan.AsesorUtamaID {
			return RoleAsesorUtama
		}
		if kegiatan.AsesorKeduaID != nil && user.UserID == *kegiatan.AsesorKeduaID {
			return RoleAsesorKedua
		}
	}
	return RoleUnauthorized
}

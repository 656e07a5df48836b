package workflow

// Capability is what the resolved role may do on one step.
type Capability struct {
	CanEdit        bool `json:"can_edit"`
	CanView        bool `json:"can_view"`
	CanCountersign bool `json:"can_countersign"`
}

var capNone = Capability{}

// Capabilities returns the edit/view/countersign tuple for the step and role.
// hasAsesorKedua comes from the kegiatan's asesor count at request time; it
// drives the ak06 single-writer rule: the secondary asesor takes over ak06
// when one is assigned, otherwise the primary writes it. An unresolved role
// gets nothing — the caller must present a forbidden state, not a disabled
// form.
func Capabilities(stepKey string, role Role, hasAsesorKedua bool) Capability {
	if role == RoleUnauthorized {
		return capNone
	}
	switch stepKey {
	case StepIA04A:
		// Only the primary edits the feedback field; everyone countersigns.
		if role == RoleAsesorUtama {
			return Capability{CanEdit: true, CanView: true, CanCountersign: true}
		}
		return Capability{CanView: true, CanCountersign: true}
	case StepUploadTugas:
		if role == RoleAsesi {
			return Capability{CanEdit: true, CanView: true}
		}
		return Capability{CanView: true}
	case StepIA04B:
		if role == RoleAsesorUtama {
			return Capability{CanEdit: true, CanView: true, CanCountersign: true}
		}
		// Asesi answer fields stay locked here.
		return Capability{CanView: true}
	case StepUjian:
		if role == RoleAsesi {
			return Capability{CanEdit: true, CanView: true}
		}
		// Asesor read the transcript only.
		return Capability{CanView: true}
	case StepAK02, StepAK03:
		if role == RoleAsesorUtama {
			return Capability{CanEdit: true, CanView: true, CanCountersign: true}
		}
		return capNone
	case StepAK06:
		// Single-writer: exactly one asesor seat may mutate ak06 per session.
		switch role {
		case RoleAsesorUtama:
			if hasAsesorKedua {
				return Capability{CanView: true}
			}
			return Capability{CanEdit: true, CanView: true, CanCountersign: true}
		case RoleAsesorKedua:
			if hasAsesorKedua {
				return Capability{CanEdit: true, CanView: true, CanCountersign: true}
			}
		}
		return capNone
	case StepSelesai:
		return Capability{CanView: true}
	}
	return capNone
}

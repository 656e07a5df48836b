package workflow

// Step keys. "ujian" is the canonical key for the timed exam step; route paths
// derive from the key.
const (
	StepIA04A       = "ia04a"
	StepUploadTugas = "upload-tugas"
	StepIA04B       = "ia04b"
	StepUjian       = "ujian"
	StepAK02        = "ak02"
	StepAK03        = "ak03"
	StepAK06        = "ak06"
	StepSelesai     = "selesai"
)

// Step is one ordinal position in the workflow of a given role. Descriptors
// are computed fresh per request and never persisted.
type Step struct {
	Number int    `json:"number"`
	Key    string `json:"key"`
	Path   string `json:"path"`
}

// Steps returns the ordered step list for the role within a session having the
// given number of asesor (1 or 2). Ordinals are contiguous from 1.
//
// Every sequence opens with the document-intake steps and the timed exam. The
// closing steps differ per role: an asesi finishes right after the exam, the
// asesor utama works through ak02, ak03 and ak06, and an asesor kedua skips
// ak03 because peer feedback is exclusively the primary's responsibility.
func Steps(role Role, jumlahAsesor int) []Step {
	keys := []string{StepIA04A, StepUploadTugas, StepIA04B, StepUjian}
	switch role {
	case RoleAsesorUtama:
		keys = append(keys, StepAK02, StepAK03, StepAK06)
	case RoleAsesorKedua:
		if jumlahAsesor >= 2 {
			keys = append(keys, StepAK06)
		}
	}
	keys = append(keys, StepSelesai)

	steps := make([]Step, 0, len(keys))
	for i, k := range keys {
		steps = append(steps, Step{Number: i + 1, Key: k, Path: "/asesmen/" + k})
	}
	return steps
}

// StepFor looks the key up in the computed sequence for the role. A key that
// is not part of the role's sequence is an authorization failure for the
// caller, not a candidate for redirection to the nearest valid step.
func StepFor(key string, role Role, jumlahAsesor int) (Step, bool) {
	for _, s := range Steps(role, jumlahAsesor) {
		if s.Key == key {
			return s, true
		}
	}
	return Step{}, false
}

// stepOrder ranks every key across the union of the role sequences. The izin
// step pointer is shared by all actors, so it may only move to a higher rank.
var stepOrder = map[string]int{
	StepIA04A:       1,
	StepUploadTugas: 2,
	StepIA04B:       3,
	StepUjian:       4,
	StepAK02:        5,
	StepAK03:        6,
	StepAK06:        7,
	StepSelesai:     8,
}

// Advances reports whether moving the shared step pointer from current to
// next is a forward move. Roles have divergent sequences but write the same
// pointer; a save on an already-passed step must leave it alone.
func Advances(current, next string) bool {
	return stepOrder[next] > stepOrder[current]
}

// NextStep returns the step following key in the role's sequence.
func NextStep(key string, role Role, jumlahAsesor int) (Step, bool) {
	steps := Steps(role, jumlahAsesor)
	for i, s := range steps {
		if s.Key == key && i+1 < len(steps) {
			return steps[i+1], true
		}
	}
	return Step{}, false
}

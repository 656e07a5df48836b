package controllers

// runSaveOrder executes the fixed ordering of a step save: business data
// first, attestation second, navigation last. A save failure stops
// everything. An attestation failure is tolerated — the saved data stands and
// navigation still runs — and is reported back as a warning. countersign is
// nil for roles that only edit.
func runSaveOrder(save func() error, countersign func() error, navigate func()) (attWarning bool, err error) {
	if err := save(); err != nil {
		return false, err
	}
	if countersign != nil {
		if err := countersign(); err != nil {
			attWarning = true
		}
	}
	if navigate != nil {
		navigate()
	}
	return attWarning, nil
}

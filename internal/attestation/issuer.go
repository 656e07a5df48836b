package attestation

import (
	"context"
	"errors"
	"time"

	"github.com/zaqqye/lsp_backend_v1/internal/models"
	"github.com/zaqqye/lsp_backend_v1/internal/workflow"
)

// Issuer stamps a workflow step as countersigned by one actor role, exactly
// once per (izin, step, role). An existing artifact is returned unchanged
// without touching the network, so revisiting a step never re-issues.
type Issuer struct {
	Store  Store
	Signer Signer
	Now    func() time.Time
}

func NewIssuer(store Store, signer Signer) *Issuer {
	return &Issuer{Store: store, Signer: signer, Now: time.Now}
}

// Issue returns the attestation for (izinID, stepKey, role), issuing a new
// artifact from the signing collaborator only when none exists yet. reused is
// true when an existing artifact was returned. Callers must have durably
// saved the step's business data before calling; an issuance failure is
// tolerated upstream and must not block forward navigation.
func (i *Issuer) Issue(ctx context.Context, izinID, stepKey string, role workflow.Role, jadwalID, actorName string) (*models.Attestation, bool, error) {
	existing, err := i.Store.Find(izinID, stepKey, role.String())
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, true, nil
	}

	art, err := i.Signer.IssueQR(ctx, izinID, stepKey, jadwalID)
	if err != nil {
		return nil, false, err
	}

	rec := &models.Attestation{
		IzinIDRef: izinID,
		StepKey:   stepKey,
		ActorRole: role.String(),
		URLImage:  art.URLImage,
		ActorName: actorName,
		IssuedAt:  i.Now().UTC(),
	}
	if err := i.Store.Create(rec); err != nil {
		if errors.Is(err, ErrDuplicate) {
			// Lost a race with a concurrent issuance; the stored row wins.
			winner, ferr := i.Store.Find(izinID, stepKey, role.String())
			if ferr == nil && winner != nil {
				return winner, true, nil
			}
		}
		return nil, false, err
	}
	return rec, false, nil
}

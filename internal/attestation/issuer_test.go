package attestation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaqqye/lsp_backend_v1/internal/models"
	"github.com/zaqqye/lsp_backend_v1/internal/workflow"
)

type memStore struct {
	records []*models.Attestation
}

func (m *memStore) Find(izinID, stepKey, role string) (*models.Attestation, error) {
	for _, r := range m.records {
		if r.IzinIDRef == izinID && r.StepKey == stepKey && r.ActorRole == role {
			return r, nil
		}
	}
	return nil, nil
}

func (m *memStore) Create(rec *models.Attestation) error {
	if existing, _ := m.Find(rec.IzinIDRef, rec.StepKey, rec.ActorRole); existing != nil {
		return ErrDuplicate
	}
	m.records = append(m.records, rec)
	return nil
}

type fakeSigner struct {
	calls int
	fail  bool
}

func (f *fakeSigner) IssueQR(ctx context.Context, izinID, stepKey, jadwalID string) (SignedArtifact, error) {
	f.calls++
	if f.fail {
		return SignedArtifact{}, errors.New("signing service down")
	}
	return SignedArtifact{URLImage: "https://sign.example/qr/" + izinID + "/" + stepKey + ".png"}, nil
}

func TestIssueCreatesArtifactOnce(t *testing.T) {
	store := &memStore{}
	signer := &fakeSigner{}
	issuer := NewIssuer(store, signer)

	first, reused, err := issuer.Issue(context.Background(), "izin-1", "ia04a", workflow.RoleAsesorUtama, "jadwal-9", "Budi")
	require.NoError(t, err)
	assert.False(t, reused)
	assert.Equal(t, 1, signer.calls)
	assert.Equal(t, "asesor_utama", first.ActorRole)
	assert.Equal(t, "Budi", first.ActorName)
	assert.NotEmpty(t, first.URLImage)

	// Revisiting the step must not touch the network again.
	second, reused, err := issuer.Issue(context.Background(), "izin-1", "ia04a", workflow.RoleAsesorUtama, "jadwal-9", "Budi")
	require.NoError(t, err)
	assert.True(t, reused)
	assert.Equal(t, 1, signer.calls)
	assert.Equal(t, first.URLImage, second.URLImage)
}

func TestIssuePerRoleIndependence(t *testing.T) {
	store := &memStore{}
	signer := &fakeSigner{}
	issuer := NewIssuer(store, signer)

	utama, _, err := issuer.Issue(context.Background(), "izin-1", "ia04a", workflow.RoleAsesorUtama, "jadwal-9", "Budi")
	require.NoError(t, err)
	kedua, _, err := issuer.Issue(context.Background(), "izin-1", "ia04a", workflow.RoleAsesorKedua, "jadwal-9", "Sari")
	require.NoError(t, err)

	// Two seats on the same step produce two records, never overwriting.
	assert.Equal(t, 2, signer.calls)
	assert.Len(t, store.records, 2)
	assert.NotEqual(t, utama.ActorRole, kedua.ActorRole)
}

func TestIssueFailurePersistsNothing(t *testing.T) {
	store := &memStore{}
	signer := &fakeSigner{fail: true}
	issuer := NewIssuer(store, signer)

	_, _, err := issuer.Issue(context.Background(), "izin-1", "ak02", workflow.RoleAsesorUtama, "jadwal-9", "Budi")
	require.Error(t, err)
	assert.Empty(t, store.records)

	// Recovery: once the collaborator is back the issuance goes through.
	signer.fail = false
	att, reused, err := issuer.Issue(context.Background(), "izin-1", "ak02", workflow.RoleAsesorUtama, "jadwal-9", "Budi")
	require.NoError(t, err)
	assert.False(t, reused)
	assert.NotEmpty(t, att.URLImage)
}

type racingStore struct {
	memStore
	raced bool
}

func (r *racingStore) Create(rec *models.Attestation) error {
	if !r.raced {
		// Simulate a concurrent request winning the insert between Find and Create.
		r.raced = true
		winner := *rec
		winner.URLImage = "https://sign.example/winner.png"
		r.records = append(r.records, &winner)
		return ErrDuplicate
	}
	return r.memStore.Create(rec)
}

func TestIssueDuplicateRaceReturnsWinner(t *testing.T) {
	store := &racingStore{}
	signer := &fakeSigner{}
	issuer := NewIssuer(store, signer)

	att, reused, err := issuer.Issue(context.Background(), "izin-1", "ia04b", workflow.RoleAsesorUtama, "jadwal-9", "Budi")
	require.NoError(t, err)
	assert.True(t, reused)
	assert.Equal(t, "https://sign.example/winner.png", att.URLImage)
}

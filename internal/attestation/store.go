package attestation

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/zaqqye/lsp_backend_v1/internal/models"
)

// ErrDuplicate is returned by Create when an attestation for the same
// (izin, step, role) already exists.
var ErrDuplicate = errors.New("attestation already exists")

// Store is the write-through cache of issued artifacts consulted before every
// issuance call. The signing collaborator stays the source of truth; the
// store only shields against the collaborator failing to echo back an
// artifact it already issued.
type Store interface {
	Find(izinID, stepKey, role string) (*models.Attestation, error)
	Create(rec *models.Attestation) error
}

// GormStore persists attestations in Postgres. The unique index on
// (izin, step, role) is the idempotence guarantee under races.
type GormStore struct {
	DB *gorm.DB
}

func (s *GormStore) Find(izinID, stepKey, role string) (*models.Attestation, error) {
	var rec models.Attestation
	err := s.DB.Where("izin_id_ref = ? AND step_key = ? AND actor_role = ?", izinID, stepKey, role).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *GormStore) Create(rec *models.Attestation) error {
	if err := s.DB.Create(rec).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

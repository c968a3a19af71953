package repository

import (
	"context"

	"achatshub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditRepository interface {
	CreateTx(tx *gorm.DB, entry *model.AuditLog) error
	ListForDemande(ctx context.Context, demandeID uuid.UUID) ([]model.AuditLog, error)
	ListForCommande(ctx context.Context, commandeID uuid.UUID) ([]model.AuditLog, error)
}

type auditRepo struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) AuditRepository { return &auditRepo{db: db} }

// CreateTx appends an audit entry inside the caller's transaction so the
// trail commits or rolls back with the state change it describes.
func (r *auditRepo) CreateTx(tx *gorm.DB, entry *model.AuditLog) error {
	return tx.Create(entry).Error
}

func (r *auditRepo) ListForDemande(ctx context.Context, demandeID uuid.UUID) ([]model.AuditLog, error) {
	var entries []model.AuditLog
	err := r.db.WithContext(ctx).
		Where("id_demande_achat = ?", demandeID).
		Order("date_creation ASC").
		Find(&entries).Error
	return entries, err
}

func (r *auditRepo) ListForCommande(ctx context.Context, commandeID uuid.UUID) ([]model.AuditLog, error) {
	var entries []model.AuditLog
	err := r.db.WithContext(ctx).
		Where("id_bon_commande = ?", commandeID).
		Order("date_creation ASC").
		Find(&entries).Error
	return entries, err
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is append-only. One row is written per state-changing operation,
// inside the same transaction as the mutation it documents. Rows are never
// updated or deleted.
type AuditLog struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IDDemandeAchat   *uuid.UUID `gorm:"column:id_demande_achat;type:uuid;index"`
	IDBonCommande    *uuid.UUID `gorm:"column:id_bon_commande;type:uuid;index"`
	Action           string     `gorm:"not null"`
	Description      string     `gorm:"not null"`
	EmailUtilisateur string     `gorm:"column:email_utilisateur;not null"`
	CreatedAt        time.Time  `gorm:"column:date_creation"`
}

func (AuditLog) TableName() string { return "audit_logs" }

package model

import (
	"time"

	"github.com/google/uuid"
)

// Activite is read-only billing reference data seeded from CSV. Invalid
// activities stay in the table (soft-disable via Valid) so historical PR
// lines keep their FK.
type Activite struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroActivite    string    `gorm:"column:numero_activite;index;not null"`
	Valid             bool      `gorm:"not null;default:false"`
	DescriptionFR     string    `gorm:"column:description_fr"`
	DescriptionEN     string    `gorm:"column:description_en"`
	CodeInterne       *string   `gorm:"column:code_interne"`
	NumeroFournisseur *string   `gorm:"column:numero_fournisseur"`
	NumeroGLAchat     *string   `gorm:"column:numero_gl_achat"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (Activite) TableName() string { return "activites" }

package model

import (
	"time"

	"github.com/google/uuid"
)

// Fournisseur is a supplier record. NumeroFournisseur is assigned by the
// external accounting system (Avantage) and is exactly 10 characters.
type Fournisseur struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroFournisseur string    `gorm:"column:numero_fournisseur;uniqueIndex;not null"`
	NomFournisseur    *string   `gorm:"column:nom_fournisseur"`
	AdresseLigne1     *string   `gorm:"column:adresse_ligne1"`
	Ville             *string
	CodePostal        *string `gorm:"column:code_postal"`
	Telephone1        *string
	PosteTelephone1   *string `gorm:"column:poste_telephone1"`
	Telephone2        *string
	Telecopieur       *string
	TelephoneAutre    *string `gorm:"column:telephone_autre"`
	NomResponsable    *string `gorm:"column:nom_responsable"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (Fournisseur) TableName() string { return "fournisseurs" }

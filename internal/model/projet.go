package model

import (
	"time"

	"github.com/google/uuid"
)

// Projet is a construction project; numero_projet is assigned by a human and
// must match the accounting system. Projects are never hard-deleted in the
// normal flow.
type Projet struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroProjet      string    `gorm:"column:numero_projet;uniqueIndex;not null"`
	Nom               string    `gorm:"not null"`
	Addresse          string
	AddresseLivraison *string `gorm:"column:addresse_livraison"`
	IDDossierCommande *string `gorm:"column:id_dossier_commande"`
	Surintendant      *string
	CoordonateurProjet *string `gorm:"column:coordonateur_projet"`
	ChargeDeProjet     *string `gorm:"column:charge_de_projet"`
	DirecteurDeProjet  *string `gorm:"column:directeur_de_projet"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (Projet) TableName() string { return "projets" }

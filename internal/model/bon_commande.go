package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BonCommande is the purchase order generated when a PR reaches Approuvé.
// Delivery fields are snapshots copied from the PR at creation. Total always
// equals the sum of its lines; revisions keep the original number as a
// prefix and append -R1, -R2, …
type BonCommande struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroBonCommande  string         `gorm:"column:numero_bon_commande;uniqueIndex;not null"`
	Statut             StatutCommande `gorm:"type:varchar(20);not null;default:'En cours'"`
	Total              decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DateLivraison      *time.Time      `gorm:"column:date_livraison"`
	DeliveryOption     string          `gorm:"column:delivery_option;type:varchar(20)"`
	TypeLivraison      string          `gorm:"column:type_livraison;type:varchar(20)"`
	Envoye             bool            `gorm:"column:envoye;not null;default:false"`
	IDDemandeAchat     uuid.UUID       `gorm:"column:id_demande_achat;type:uuid;uniqueIndex;not null"`
	CreatedAt          time.Time       `gorm:"column:date_creation"`
	UpdatedAt          time.Time

	DemandeAchat *DemandeAchat      `gorm:"foreignKey:IDDemandeAchat"`
	Lignes       []LigneBonCommande `gorm:"foreignKey:IDBonCommande"`
}

func (BonCommande) TableName() string { return "bons_commande" }

// LigneBonCommande snapshots a PR line at approval time. IDLigneDemande
// back-references the originating PR line for traceability (activity lookups
// in the PDF and in the Avantage export go through it).
type LigneBonCommande struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IDBonCommande      uuid.UUID       `gorm:"column:id_bon_commande;type:uuid;index;not null"`
	IDLigneDemande     *uuid.UUID      `gorm:"column:id_ligne_demande;type:uuid;index"`
	DescriptionArticle string          `gorm:"column:description_article;not null"`
	Quantite           int             `gorm:"not null"`
	PrixUnitaire       decimal.Decimal `gorm:"column:prix_unitaire;type:decimal(12,2);not null;default:0"`
	Commentaire        *string
	CreatedAt          time.Time

	LigneDemande *LigneDemandeAchat `gorm:"foreignKey:IDLigneDemande"`
}

func (LigneBonCommande) TableName() string { return "lignes_bon_commande" }

// TotalLignesCommande sums quantité × prix unitaire over PO lines.
func TotalLignesCommande(lignes []LigneBonCommande) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lignes {
		total = total.Add(l.PrixUnitaire.Mul(decimal.NewFromInt(int64(l.Quantite))))
	}
	return total
}

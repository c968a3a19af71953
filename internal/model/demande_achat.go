package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryOption: "pickup" | "siege_social" | "projet"
// TypeLivraison: "Boomtruck" | "Flatbed" | "Moffet" | "Camion_Cube" | "Non Applicable"
// RelationCompagnie: "fournisseur" | "sous-traitant"

// DemandeAchat is a purchase request subject to two-tier approval.
// TotalEstime is always derived from the lines, never taken from client
// input.
type DemandeAchat struct {
	ID                  uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroDemandeAchat  string        `gorm:"column:numero_demande_achat;uniqueIndex;not null"`
	Statut              StatutDemande `gorm:"type:varchar(20);not null;default:'Brouillon'"`
	Demandeur           *string
	Commentaire         *string
	RelationCompagnie   string     `gorm:"column:relation_compagnie;type:varchar(20);not null;default:'fournisseur'"`
	DeliveryOption      string     `gorm:"column:delivery_option;type:varchar(20);not null;default:'projet'"`
	TypeLivraison       string     `gorm:"column:type_livraison;type:varchar(20);not null;default:'Non Applicable'"`
	DateLivraisonSouhaitee *time.Time      `gorm:"column:date_livraison_souhaitee"`
	TotalEstime            decimal.Decimal `gorm:"column:total_estime;type:decimal(12,2);not null;default:0"`
	IDProjet               *uuid.UUID      `gorm:"column:id_projet;type:uuid;index"`
	IDFournisseur          *uuid.UUID      `gorm:"column:id_fournisseur;type:uuid;index"`
	DateModification       time.Time       `gorm:"column:date_modification"`
	CreatedAt              time.Time       `gorm:"column:date_creation"`
	UpdatedAt              time.Time

	Projet        *Projet            `gorm:"foreignKey:IDProjet"`
	Fournisseur   *Fournisseur       `gorm:"foreignKey:IDFournisseur"`
	Lignes        []LigneDemandeAchat `gorm:"foreignKey:IDDemandeAchat"`
	PiecesJointes []PieceJointe       `gorm:"foreignKey:IDDemandeAchat"`
}

func (DemandeAchat) TableName() string { return "demandes_achat" }

type LigneDemandeAchat struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IDDemandeAchat     uuid.UUID       `gorm:"column:id_demande_achat;type:uuid;index;not null"`
	DescriptionArticle string          `gorm:"column:description_article;not null"`
	Quantite           int             `gorm:"not null"`
	PrixUnitaireEstime decimal.Decimal `gorm:"column:prix_unitaire_estime;type:decimal(12,2);not null;default:0"`
	CommentaireLigne   *string         `gorm:"column:commentaire_ligne"`
	IDActivite         uuid.UUID       `gorm:"column:id_activite;type:uuid;index;not null"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Activite *Activite `gorm:"foreignKey:IDActivite"`
}

func (LigneDemandeAchat) TableName() string { return "lignes_demande_achat" }

type PieceJointe struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IDDemandeAchat uuid.UUID `gorm:"column:id_demande_achat;type:uuid;index;not null"`
	Type           string    `gorm:"not null"`
	URL            string    `gorm:"column:url;not null"`
	CreatedAt      time.Time `gorm:"column:date_creation"`
}

func (PieceJointe) TableName() string { return "pieces_jointes" }

// TotalLignes sums quantité × prix unitaire over the given lines.
func TotalLignes(lignes []LigneDemandeAchat) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lignes {
		total = total.Add(l.PrixUnitaireEstime.Mul(decimal.NewFromInt(int64(l.Quantite))))
	}
	return total
}

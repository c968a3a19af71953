package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LigneDemandeInput struct {
	DescriptionArticle string          `json:"description_article" validate:"required,min=1"`
	Quantite           int             `json:"quantite"            validate:"required,min=1"`
	PrixUnitaireEstime decimal.Decimal `json:"prix_unitaire_estime" validate:"min=0"`
	CommentaireLigne   *string         `json:"commentaire_ligne"`
	IDActivite         string          `json:"id_activite"         validate:"required,uuid"`
}

type LigneDemandeUpdate struct {
	ID string `json:"id" validate:"required,uuid"`
	LigneDemandeInput
}

type PieceJointeInput struct {
	Type string `json:"type" validate:"required"`
	URL  string `json:"url"  validate:"required,url"`
}

type CreerDemandeRequest struct {
	IDProjet               *string            `json:"id_projet"      validate:"omitempty,uuid"`
	IDFournisseur          *string            `json:"id_fournisseur" validate:"omitempty,uuid"`
	Commentaire            *string            `json:"commentaire"`
	RelationCompagnie      string             `json:"relation_compagnie" validate:"required,oneof=fournisseur sous-traitant"`
	DeliveryOption         string             `json:"delivery_option"    validate:"required,oneof=pickup siege_social projet"`
	TypeLivraison          string             `json:"type_livraison"     validate:"required,oneof=Boomtruck Flatbed Moffet Camion_Cube 'Non Applicable'"`
	DateLivraisonSouhaitee *string            `json:"date_livraison_souhaitee" validate:"omitempty,datetime=2006-01-02"`
	Soumettre              bool               `json:"soumettre"` // true: created directly in En Attente N1
	Lignes                 []LigneDemandeInput `json:"lignes" validate:"required,min=1,dive"`
	PiecesJointes          []PieceJointeInput  `json:"pieces_jointes" validate:"dive"`
}

// LignesDiff replaces-or-merges the PR line set: explicit create/update/delete
// groups, never a wholesale collection swap; PO line back-references stay
// intact for the surviving lines.
type LignesDiff struct {
	Create []LigneDemandeInput  `json:"create" validate:"dive"`
	Update []LigneDemandeUpdate `json:"update" validate:"dive"`
	Delete []string             `json:"delete" validate:"dive,uuid"`
}

type ModifierDemandeRequest struct {
	IDProjet               *string             `json:"id_projet"      validate:"omitempty,uuid"`
	IDFournisseur          *string             `json:"id_fournisseur" validate:"omitempty,uuid"`
	Commentaire            *string             `json:"commentaire"`
	RelationCompagnie      *string             `json:"relation_compagnie" validate:"omitempty,oneof=fournisseur sous-traitant"`
	DeliveryOption         *string             `json:"delivery_option"    validate:"omitempty,oneof=pickup siege_social projet"`
	TypeLivraison          *string             `json:"type_livraison"     validate:"omitempty,oneof=Boomtruck Flatbed Moffet Camion_Cube 'Non Applicable'"`
	DateLivraisonSouhaitee *string             `json:"date_livraison_souhaitee" validate:"omitempty,datetime=2006-01-02"`
	Lignes                 *LignesDiff         `json:"lignes"`
	PiecesJointes          *[]PieceJointeInput `json:"pieces_jointes"`
}

type RefuserDemandeRequest struct {
	Motif string `json:"motif"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LigneDemandeResponse struct {
	ID                 string          `json:"id"`
	DescriptionArticle string          `json:"description_article"`
	Quantite           int             `json:"quantite"`
	PrixUnitaireEstime decimal.Decimal `json:"prix_unitaire_estime"`
	CommentaireLigne   *string         `json:"commentaire_ligne,omitempty"`
	NumeroActivite     string          `json:"numero_activite"`
}

type PieceJointeResponse struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	URL  string `json:"url"`
}

type DemandeResponse struct {
	ID                     string                 `json:"id"`
	NumeroDemandeAchat     string                 `json:"numero_demande_achat"`
	Statut                 string                 `json:"statut"`
	Demandeur              *string                `json:"demandeur,omitempty"`
	Commentaire            *string                `json:"commentaire,omitempty"`
	RelationCompagnie      string                 `json:"relation_compagnie"`
	DeliveryOption         string                 `json:"delivery_option"`
	TypeLivraison          string                 `json:"type_livraison"`
	DateLivraisonSouhaitee *string                `json:"date_livraison_souhaitee,omitempty"`
	TotalEstime            decimal.Decimal        `json:"total_estime"`
	NumeroProjet           *string                `json:"numero_projet,omitempty"`
	NumeroFournisseur      *string                `json:"numero_fournisseur,omitempty"`
	NomFournisseur         *string                `json:"nom_fournisseur,omitempty"`
	Lignes                 []LigneDemandeResponse `json:"lignes"`
	PiecesJointes          []PieceJointeResponse  `json:"pieces_jointes"`
	DateCreation           string                 `json:"date_creation"`
}

type DemandeListItem struct {
	ID                 string          `json:"id"`
	NumeroDemandeAchat string          `json:"numero_demande_achat"`
	Statut             string          `json:"statut"`
	Demandeur          *string         `json:"demandeur,omitempty"`
	TotalEstime        decimal.Decimal `json:"total_estime"`
	NumeroProjet       *string         `json:"numero_projet,omitempty"`
	NomFournisseur     *string         `json:"nom_fournisseur,omitempty"`
	DateCreation       string          `json:"date_creation"`
}

type DemandeFilter struct {
	Statut    string `form:"statut"`
	Demandeur string `form:"demandeur"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
}

type DemandeListResponse struct {
	Data  []DemandeListItem `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// FormDataResponse bundles the reference data the PR form needs in one call.
type FormDataResponse struct {
	Projets      []ProjetResponse      `json:"projets"`
	Fournisseurs []FournisseurResponse `json:"fournisseurs"`
	Activites    []ActiviteResponse    `json:"activites"`
}

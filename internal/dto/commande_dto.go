package dto

import "github.com/shopspring/decimal"

type LigneCommandeResponse struct {
	ID                 string          `json:"id"`
	DescriptionArticle string          `json:"description_article"`
	Quantite           int             `json:"quantite"`
	PrixUnitaire       decimal.Decimal `json:"prix_unitaire"`
	Commentaire        *string         `json:"commentaire,omitempty"`
	NumeroActivite     string          `json:"numero_activite"`
}

type CommandeResponse struct {
	ID                 string                  `json:"id"`
	NumeroBonCommande  string                  `json:"numero_bon_commande"`
	Statut             string                  `json:"statut"`
	Total              decimal.Decimal         `json:"total"`
	DateLivraison      *string                 `json:"date_livraison,omitempty"`
	DeliveryOption     string                  `json:"delivery_option"`
	TypeLivraison      string                  `json:"type_livraison"`
	Envoye             bool                    `json:"envoye"`
	NumeroDemandeAchat string                  `json:"numero_demande_achat"`
	NumeroProjet       *string                 `json:"numero_projet,omitempty"`
	NomFournisseur     *string                 `json:"nom_fournisseur,omitempty"`
	Lignes             []LigneCommandeResponse `json:"lignes"`
	DateCreation       string                  `json:"date_creation"`
}

type CommandeListItem struct {
	ID                string          `json:"id"`
	NumeroBonCommande string          `json:"numero_bon_commande"`
	Statut            string          `json:"statut"`
	Total             decimal.Decimal `json:"total"`
	Envoye            bool            `json:"envoye"`
	NumeroProjet      *string         `json:"numero_projet,omitempty"`
	NomFournisseur    *string         `json:"nom_fournisseur,omitempty"`
	DateCreation      string          `json:"date_creation"`
}

type CommandeFilter struct {
	Statut string `form:"statut"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

type CommandeListResponse struct {
	Data  []CommandeListItem `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

type AuditLogResponse struct {
	Action           string `json:"action"`
	Description      string `json:"description"`
	EmailUtilisateur string `json:"email_utilisateur"`
	DateCreation     string `json:"date_creation"`
}

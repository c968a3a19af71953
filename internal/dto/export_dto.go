package dto

import "github.com/shopspring/decimal"

// LigneExport is one exportable PO line on the Avantage screen, grouped by
// the Monday of the PO's creation week.
type LigneExport struct {
	NumeroBonCommande string          `json:"numero_bon_commande"`
	DateCreation      string          `json:"date_creation"`
	Semaine           string          `json:"semaine"` // Monday, YYYY-MM-DD
	NumeroFournisseur string          `json:"numero_fournisseur"`
	NumeroActivite    string          `json:"numero_activite"`
	NumeroProjet      string          `json:"numero_projet"`
	Quantite          int             `json:"quantite"`
	PrixUnitaire      decimal.Decimal `json:"prix_unitaire"`
	Montant           decimal.Decimal `json:"montant"`
}

type ExportListResponse struct {
	Semaines []string      `json:"semaines"`
	Lignes   []LigneExport `json:"lignes"`
}

type ConfirmerImportRequest struct {
	NumerosBonCommande []string `json:"numeros_bon_commande" validate:"required,min=1"`
}

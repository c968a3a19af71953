package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type FournisseurRequest struct {
	NumeroFournisseur string  `json:"numero_fournisseur" validate:"required,len=10"`
	NomFournisseur    *string `json:"nom_fournisseur"`
	AdresseLigne1     *string `json:"adresse_ligne1"`
	Ville             *string `json:"ville"`
	CodePostal        *string `json:"code_postal"`
	Telephone1        *string `json:"telephone1"`
	PosteTelephone1   *string `json:"poste_telephone1"`
	Telephone2        *string `json:"telephone2"`
	Telecopieur       *string `json:"telecopieur"`
	TelephoneAutre    *string `json:"telephone_autre"`
	NomResponsable    *string `json:"nom_responsable"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type FournisseurResponse struct {
	ID                string  `json:"id"`
	NumeroFournisseur string  `json:"numero_fournisseur"`
	NomFournisseur    *string `json:"nom_fournisseur,omitempty"`
	AdresseLigne1     *string `json:"adresse_ligne1,omitempty"`
	Ville             *string `json:"ville,omitempty"`
	CodePostal        *string `json:"code_postal,omitempty"`
	Telephone1        *string `json:"telephone1,omitempty"`
	PosteTelephone1   *string `json:"poste_telephone1,omitempty"`
	Telephone2        *string `json:"telephone2,omitempty"`
	Telecopieur       *string `json:"telecopieur,omitempty"`
	TelephoneAutre    *string `json:"telephone_autre,omitempty"`
	NomResponsable    *string `json:"nom_responsable,omitempty"`
}

// CSVImportResponse reports a supplier bulk import. Warnings carry
// unrecognized-column notices; they never fail the import by themselves.
type CSVImportResponse struct {
	Imported int      `json:"imported"`
	Updated  int      `json:"updated"`
	Warnings []string `json:"warnings,omitempty"`
}

package dto

type ProjetRequest struct {
	NumeroProjet       string  `json:"numero_projet" validate:"required,min=1"`
	Nom                string  `json:"nom"           validate:"required,min=1"`
	Addresse           string  `json:"addresse"`
	AddresseLivraison  *string `json:"addresse_livraison"`
	IDDossierCommande  *string `json:"id_dossier_commande"`
	Surintendant       *string `json:"surintendant"        validate:"omitempty,email"`
	CoordonateurProjet *string `json:"coordonateur_projet" validate:"omitempty,email"`
	ChargeDeProjet     *string `json:"charge_de_projet"    validate:"omitempty,email"`
	DirecteurDeProjet  *string `json:"directeur_de_projet" validate:"omitempty,email"`
}

type ProjetResponse struct {
	ID                 string  `json:"id"`
	NumeroProjet       string  `json:"numero_projet"`
	Nom                string  `json:"nom"`
	Addresse           string  `json:"addresse"`
	AddresseLivraison  *string `json:"addresse_livraison,omitempty"`
	IDDossierCommande  *string `json:"id_dossier_commande,omitempty"`
	Surintendant       *string `json:"surintendant,omitempty"`
	CoordonateurProjet *string `json:"coordonateur_projet,omitempty"`
	ChargeDeProjet     *string `json:"charge_de_projet,omitempty"`
	DirecteurDeProjet  *string `json:"directeur_de_projet,omitempty"`
}

type ActiviteResponse struct {
	ID             string `json:"id"`
	NumeroActivite string `json:"numero_activite"`
	DescriptionFR  string `json:"description_fr"`
	DescriptionEN  string `json:"description_en"`
}

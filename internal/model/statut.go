package model

import (
	"errors"
	"fmt"
)

// Statuses are closed enums with an explicit transition table. Anything not
// listed in the table is rejected before any row is touched.

type StatutDemande string

const (
	DemandeBrouillon  StatutDemande = "Brouillon"
	DemandeAttenteN1  StatutDemande = "En Attente N1"
	DemandeAttenteN2  StatutDemande = "En Attente N2"
	DemandeApprouvee  StatutDemande = "Approuvé"
	DemandeRefusee    StatutDemande = "Refusé"
	DemandeObsolete   StatutDemande = "Obsolète"
)

type StatutCommande string

const (
	CommandeEnCours    StatutCommande = "En cours"
	CommandeAnnulee    StatutCommande = "Annulé"
	CommandeEnRevision StatutCommande = "En révision"
	CommandeImportee   StatutCommande = "Importé"
)

// Workflow events.

type EvenementDemande string

const (
	EvSoumettre     EvenementDemande = "soumettre"
	EvApprouverN1   EvenementDemande = "approuver_n1"
	EvApprouverN2   EvenementDemande = "approuver_n2"
	EvRefuser       EvenementDemande = "refuser"
	EvResoumettre   EvenementDemande = "resoumettre"
	EvRendreObsolet EvenementDemande = "rendre_obsolete"
	EvRouvrir       EvenementDemande = "rouvrir" // PO sent back for edits
)

type EvenementCommande string

const (
	EvAnnuler   EvenementCommande = "annuler"
	EvReviser   EvenementCommande = "reviser"
	EvReemettre EvenementCommande = "reemettre" // re-approval regenerates the PO
	EvImporter  EvenementCommande = "importer"
)

var ErrTransitionInvalide = errors.New("transition de statut non définie")

type cleDemande struct {
	statut StatutDemande
	ev     EvenementDemande
}

var transitionsDemande = map[cleDemande]StatutDemande{
	{DemandeBrouillon, EvSoumettre}:      DemandeAttenteN1,
	{DemandeAttenteN1, EvApprouverN1}:    DemandeAttenteN2,
	{DemandeAttenteN2, EvApprouverN2}:    DemandeApprouvee,
	{DemandeAttenteN1, EvRefuser}:        DemandeRefusee,
	{DemandeAttenteN2, EvRefuser}:        DemandeRefusee,
	{DemandeRefusee, EvResoumettre}:      DemandeAttenteN1,
	{DemandeApprouvee, EvRendreObsolet}:  DemandeObsolete,
	{DemandeApprouvee, EvRouvrir}:        DemandeBrouillon,
}

// TransitionDemande returns the state reached from statut on ev, or
// ErrTransitionInvalide when the pair is not in the table.
func TransitionDemande(statut StatutDemande, ev EvenementDemande) (StatutDemande, error) {
	next, ok := transitionsDemande[cleDemande{statut, ev}]
	if !ok {
		return "", fmt.Errorf("%w: %q + %q", ErrTransitionInvalide, statut, ev)
	}
	return next, nil
}

type cleCommande struct {
	statut StatutCommande
	ev     EvenementCommande
}

var transitionsCommande = map[cleCommande]StatutCommande{
	{CommandeEnCours, EvAnnuler}:      CommandeAnnulee,
	{CommandeEnCours, EvReviser}:      CommandeEnRevision,
	{CommandeEnRevision, EvReemettre}: CommandeEnCours,
	{CommandeEnCours, EvImporter}:     CommandeImportee,
}

func TransitionCommande(statut StatutCommande, ev EvenementCommande) (StatutCommande, error) {
	next, ok := transitionsCommande[cleCommande{statut, ev}]
	if !ok {
		return "", fmt.Errorf("%w: %q + %q", ErrTransitionInvalide, statut, ev)
	}
	return next, nil
}

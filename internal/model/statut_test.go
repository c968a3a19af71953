package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestTransitionDemande_CircuitComplet(t *testing.T) {
	statut := DemandeBrouillon

	statut, err := TransitionDemande(statut, EvSoumettre)
	require.NoError(t, err)
	assert.Equal(t, DemandeAttenteN1, statut)

	statut, err = TransitionDemande(statut, EvApprouverN1)
	require.NoError(t, err)
	assert.Equal(t, DemandeAttenteN2, statut)

	statut, err = TransitionDemande(statut, EvApprouverN2)
	require.NoError(t, err)
	assert.Equal(t, DemandeApprouvee, statut)
}

func TestTransitionDemande_RefusEtResoumission(t *testing.T) {
	statut, err := TransitionDemande(DemandeAttenteN1, EvRefuser)
	require.NoError(t, err)
	assert.Equal(t, DemandeRefusee, statut)

	statut, err = TransitionDemande(DemandeAttenteN2, EvRefuser)
	require.NoError(t, err)
	assert.Equal(t, DemandeRefusee, statut)

	statut, err = TransitionDemande(DemandeRefusee, EvResoumettre)
	require.NoError(t, err)
	assert.Equal(t, DemandeAttenteN1, statut)
}

func TestTransitionDemande_Cascades(t *testing.T) {
	statut, err := TransitionDemande(DemandeApprouvee, EvRendreObsolet)
	require.NoError(t, err)
	assert.Equal(t, DemandeObsolete, statut)

	statut, err = TransitionDemande(DemandeApprouvee, EvRouvrir)
	require.NoError(t, err)
	assert.Equal(t, DemandeBrouillon, statut)
}

func TestTransitionDemande_Invalide(t *testing.T) {
	cas := []struct {
		statut StatutDemande
		ev     EvenementDemande
	}{
		{DemandeBrouillon, EvApprouverN1},
		{DemandeBrouillon, EvApprouverN2},
		{DemandeAttenteN1, EvApprouverN2}, // no skipping the first tier
		{DemandeApprouvee, EvSoumettre},
		{DemandeObsolete, EvResoumettre},
		{DemandeRefusee, EvSoumettre},
	}
	for _, c := range cas {
		_, err := TransitionDemande(c.statut, c.ev)
		assert.ErrorIs(t, err, ErrTransitionInvalide, "%s + %s", c.statut, c.ev)
	}
}

func TestTransitionCommande(t *testing.T) {
	statut, err := TransitionCommande(CommandeEnCours, EvAnnuler)
	require.NoError(t, err)
	assert.Equal(t, CommandeAnnulee, statut)

	statut, err = TransitionCommande(CommandeEnCours, EvReviser)
	require.NoError(t, err)
	assert.Equal(t, CommandeEnRevision, statut)

	statut, err = TransitionCommande(CommandeEnRevision, EvReemettre)
	require.NoError(t, err)
	assert.Equal(t, CommandeEnCours, statut)

	statut, err = TransitionCommande(CommandeEnCours, EvImporter)
	require.NoError(t, err)
	assert.Equal(t, CommandeImportee, statut)
}

func TestTransitionCommande_Invalide(t *testing.T) {
	// Terminal states stay terminal.
	_, err := TransitionCommande(CommandeAnnulee, EvReemettre)
	assert.ErrorIs(t, err, ErrTransitionInvalide)

	_, err = TransitionCommande(CommandeImportee, EvAnnuler)
	assert.ErrorIs(t, err, ErrTransitionInvalide)

	_, err = TransitionCommande(CommandeEnRevision, EvImporter)
	assert.ErrorIs(t, err, ErrTransitionInvalide)
}

func TestTotalLignes(t *testing.T) {
	lignes := []LigneDemandeAchat{
		{Quantite: 3, PrixUnitaireEstime: dec("10.50")},
		{Quantite: 2, PrixUnitaireEstime: dec("0.25")},
	}
	assert.Equal(t, "32.00", TotalLignes(lignes).StringFixed(2))
}

func TestTotalLignesCommande(t *testing.T) {
	lignes := []LigneBonCommande{
		{Quantite: 10, PrixUnitaire: dec("99.99")},
		{Quantite: 1, PrixUnitaire: dec("0.01")},
	}
	assert.Equal(t, "1000.00", TotalLignesCommande(lignes).StringFixed(2))
}

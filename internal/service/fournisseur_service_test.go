package service

import (
	"context"
	"errors"
	"testing"

	"achatshub/internal/apierror"
	"achatshub/internal/dto"
	"achatshub/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFournisseurFixture(t *testing.T) (FournisseurService, *stubFournisseurRepo) {
	t.Helper()
	repo := newStubFournisseurRepo()
	return NewFournisseurService(repo), repo
}

func TestCreerFournisseur_DoublonNumero(t *testing.T) {
	svc, _ := newFournisseurFixture(t)
	ctx := context.Background()

	_, err := svc.Creer(ctx, dto.FournisseurRequest{NumeroFournisseur: "0000012345"})
	require.NoError(t, err)

	_, err = svc.Creer(ctx, dto.FournisseurRequest{NumeroFournisseur: "0000012345"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "existe déjà")
}

func TestSupprimerFournisseur_Introuvable(t *testing.T) {
	svc, _ := newFournisseurFixture(t)

	err := svc.Supprimer(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrFournisseurIntrouvable)
}

func TestImporterCSV(t *testing.T) {
	svc, repo := newFournisseurFixture(t)
	ctx := context.Background()

	// An existing supplier sharing a number with a file row gets updated.
	ancien := "Ancien nom"
	existant := &model.Fournisseur{NumeroFournisseur: "0000000001", NomFournisseur: &ancien}
	require.NoError(t, repo.Create(ctx, existant))

	csv := "numero_fournisseur;nom_fournisseur;ville\n" +
		"0000000001;Aciers Beaulac;Laval\n" +
		"0000000002;Béton Lachance;Longueuil\n" +
		"0000000003;Quincaillerie Nord;Montréal\n"

	resp, err := svc.ImporterCSV(ctx, csv)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Imported)
	assert.Equal(t, 1, resp.Updated)
	assert.Empty(t, resp.Warnings)

	maj, err := repo.FindByNumero(ctx, "0000000001")
	require.NoError(t, err)
	assert.Equal(t, existant.ID, maj.ID)
	require.NotNil(t, maj.NomFournisseur)
	assert.Equal(t, "Aciers Beaulac", *maj.NomFournisseur)
}

func TestImporterCSV_BOMEtCRLF(t *testing.T) {
	svc, _ := newFournisseurFixture(t)

	csv := "\ufeffnumero_fournisseur;nom_fournisseur\r\n0000000001;Aciers Beaulac\r\n"
	resp, err := svc.ImporterCSV(context.Background(), csv)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Imported)
}

func TestImporterCSV_ColonneInconnue(t *testing.T) {
	svc, _ := newFournisseurFixture(t)

	csv := "numero_fournisseur;couleur_preferee\n0000000001;bleu\n"
	resp, err := svc.ImporterCSV(context.Background(), csv)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Imported)
	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0], "couleur_preferee")
}

func TestImporterCSV_LignesInvalides(t *testing.T) {
	svc, repo := newFournisseurFixture(t)

	csv := "numero_fournisseur;nom_fournisseur\n" +
		"0000000001;Aciers Beaulac\n" +
		"123;Numéro trop court\n" +
		";Numéro manquant\n" +
		"0000000002;Trop;De;Colonnes\n"

	_, err := svc.ImporterCSV(context.Background(), csv)
	require.Error(t, err)

	var impErr *apierror.ImportError
	require.ErrorAs(t, err, &impErr)
	require.Len(t, impErr.Rows, 3)
	assert.Contains(t, impErr.Rows[0], "Ligne 3")
	assert.Contains(t, impErr.Rows[0], "10 caractères")
	assert.Contains(t, impErr.Rows[1], "Ligne 4")
	assert.Contains(t, impErr.Rows[1], "manquant")
	assert.Contains(t, impErr.Rows[2], "Ligne 5")
	assert.Contains(t, impErr.Rows[2], "colonnes incorrect")

	// One bad row rejects the whole file; the valid row did not slip through.
	assert.Empty(t, repo.fournisseurs)
}

func TestImporterCSV_ColonneNumeroManquante(t *testing.T) {
	svc, _ := newFournisseurFixture(t)

	_, err := svc.ImporterCSV(context.Background(), "nom_fournisseur;ville\nAciers Beaulac;Laval\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "numero_fournisseur")
}

func TestImporterCSV_FichierVide(t *testing.T) {
	svc, _ := newFournisseurFixture(t)

	for _, contenu := range []string{"", "numero_fournisseur;nom_fournisseur\n"} {
		_, err := svc.ImporterCSV(context.Background(), contenu)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "vide")
	}
}

func TestImporterCSV_ChampsVidesOptionnels(t *testing.T) {
	svc, repo := newFournisseurFixture(t)

	csv := "numero_fournisseur;nom_fournisseur;ville\n0000000001;;Laval\n"
	_, err := svc.ImporterCSV(context.Background(), csv)
	require.NoError(t, err)

	f, err := repo.FindByNumero(context.Background(), "0000000001")
	require.NoError(t, err)
	assert.Nil(t, f.NomFournisseur)
	require.NotNil(t, f.Ville)
	assert.Equal(t, "Laval", *f.Ville)
}

func TestImporterCSV_PasDImportError(t *testing.T) {
	svc, _ := newFournisseurFixture(t)

	// A structural failure is a plain error, not a row report.
	_, err := svc.ImporterCSV(context.Background(), "")
	var impErr *apierror.ImportError
	assert.False(t, errors.As(err, &impErr))
}

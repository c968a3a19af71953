package service

import (
	"context"
	"testing"
	"time"

	"achatshub/internal/cache"
	"achatshub/internal/dto"
	"achatshub/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commandeFixture struct {
	svc  CommandeService
	repo *stubCommandeRepo
	pdf  *stubPDF
}

func newCommandeFixture(t *testing.T) *commandeFixture {
	t.Helper()
	f := &commandeFixture{
		repo: newStubCommandeRepo(),
		pdf:  &stubPDF{},
	}
	f.svc = NewCommandeService(f.repo, newStubAuditRepo(), f.pdf, cache.NewMemory())
	return f
}

func (f *commandeFixture) seed(t *testing.T, numeroBC string, statut model.StatutCommande) *model.BonCommande {
	t.Helper()
	c := &model.BonCommande{
		NumeroBonCommande: numeroBC,
		Statut:            statut,
		Total:             dec("1250.00"),
		IDDemandeAchat:    uuid.New(),
		CreatedAt:         time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC),
		Lignes: []model.LigneBonCommande{
			{DescriptionArticle: "Acier", Quantite: 10, PrixUnitaire: dec("125.00")},
		},
	}
	require.NoError(t, f.repo.CreateTx(context.Background(), nil, c))
	return c
}

func TestCommandeGetByNumero(t *testing.T) {
	f := newCommandeFixture(t)
	f.seed(t, "PO-000-001", model.CommandeEnCours)
	ctx := context.Background()

	resp, err := f.svc.GetByNumero(ctx, "PO-000-001")
	require.NoError(t, err)
	assert.Equal(t, "PO-000-001", resp.NumeroBonCommande)
	assert.Equal(t, "1250.00", resp.Total.StringFixed(2))
	assert.Len(t, resp.Lignes, 1)

	_, err = f.svc.GetByNumero(ctx, "PO-999-999")
	assert.ErrorIs(t, err, ErrCommandeIntrouvable)
}

func TestCommandePDF_MiseEnCache(t *testing.T) {
	f := newCommandeFixture(t)
	f.seed(t, "PO-000-001", model.CommandeEnCours)
	ctx := context.Background()

	premier, _, err := f.svc.PDF(ctx, "PO-000-001")
	require.NoError(t, err)
	assert.Equal(t, 1, f.pdf.rendus)

	// The second download hits the cache, not the renderer.
	second, _, err := f.svc.PDF(ctx, "PO-000-001")
	require.NoError(t, err)
	assert.Equal(t, premier, second)
	assert.Equal(t, 1, f.pdf.rendus)
}

func TestCommandePDF_NomDeFichier(t *testing.T) {
	f := newCommandeFixture(t)
	c := f.seed(t, "PO-000-001", model.CommandeEnCours)
	nom := "Aciers  A. Beaulac"
	c.DemandeAchat = &model.DemandeAchat{
		Projet:      &model.Projet{NumeroProjet: "22-104"},
		Fournisseur: &model.Fournisseur{NomFournisseur: &nom},
	}

	// Project number, cleaned supplier name, PO number. Runs of spaces and
	// dots in the supplier name collapse to a single space.
	_, fichier, err := f.svc.PDF(context.Background(), "PO-000-001")
	require.NoError(t, err)
	assert.Equal(t, "22-104-Aciers A Beaulac-PO-000-001.pdf", fichier)
}

func TestCommandePDF_NomDeFichierSansRelations(t *testing.T) {
	f := newCommandeFixture(t)
	f.seed(t, "PO-000-002", model.CommandeEnCours)

	_, fichier, err := f.svc.PDF(context.Background(), "PO-000-002")
	require.NoError(t, err)
	assert.Equal(t, "NO-PROJECT-NO-SUPPLIER-PO-000-002.pdf", fichier)
}

func TestCommandePDF_ChangementDeStatutInvalideLaCache(t *testing.T) {
	f := newCommandeFixture(t)
	c := f.seed(t, "PO-000-001", model.CommandeEnCours)
	ctx := context.Background()

	_, _, err := f.svc.PDF(ctx, "PO-000-001")
	require.NoError(t, err)

	// Cancelling changes the watermark; the key carries the status so the
	// next download re-renders instead of serving the stale copy.
	require.NoError(t, f.repo.UpdateStatutTx(nil, c.ID, model.CommandeAnnulee))
	_, _, err = f.svc.PDF(ctx, "PO-000-001")
	require.NoError(t, err)
	assert.Equal(t, 2, f.pdf.rendus)
}

func TestCommandeList_Defauts(t *testing.T) {
	f := newCommandeFixture(t)
	f.seed(t, "PO-000-001", model.CommandeEnCours)
	f.seed(t, "PO-000-002", model.CommandeAnnulee)

	tout, err := f.svc.List(context.Background(), dto.CommandeFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), tout.Total)
	assert.Equal(t, 1, tout.Page)
	assert.Equal(t, 50, tout.Limit)

	annulees, err := f.svc.List(context.Background(), dto.CommandeFilter{Statut: string(model.CommandeAnnulee)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), annulees.Total)
}

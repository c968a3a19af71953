package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"achatshub/internal/dto"
	"achatshub/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLundiDeLaSemaine(t *testing.T) {
	// Wednesday, March 11 2026 belongs to the week of Monday the 9th.
	mercredi := time.Date(2026, 3, 11, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-09", lundiDeLaSemaine(mercredi))

	lundi := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-09", lundiDeLaSemaine(lundi))

	// Sunday rolls forward to the next Monday, not back.
	dimanche := time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-16", lundiDeLaSemaine(dimanche))
}

func TestOrdreExport(t *testing.T) {
	assert.Equal(t, 5002, ordreExport("PO-005-002"))
	// Revisions sort alongside their base number.
	assert.Equal(t, 5002, ordreExport("PO-005-002-R1"))
	assert.Equal(t, 10, ordreExport("PO-000-010"))
}

func TestNumeroCommandePourAvantage(t *testing.T) {
	assert.Equal(t, "005002", numeroCommandePourAvantage("PO-005-002"))
	assert.Equal(t, "005002-R1", numeroCommandePourAvantage("PO-005-002-R1"))
}

type exportFixture struct {
	svc          ExportService
	commandeRepo *stubCommandeRepo
	auditRepo    *stubAuditRepo
}

func newExportFixture(t *testing.T) *exportFixture {
	t.Helper()
	f := &exportFixture{
		commandeRepo: newStubCommandeRepo(),
		auditRepo:    newStubAuditRepo(),
	}
	f.svc = NewExportService(f.commandeRepo, f.auditRepo)
	return f
}

func (f *exportFixture) seedCommande(t *testing.T, numeroBC string, creation time.Time, lignes []model.LigneBonCommande) *model.BonCommande {
	t.Helper()
	c := &model.BonCommande{
		NumeroBonCommande: numeroBC,
		Statut:            model.CommandeEnCours,
		CreatedAt:         creation,
		IDDemandeAchat:    uuid.New(),
		Lignes:            lignes,
		DemandeAchat: &model.DemandeAchat{
			ID: uuid.New(),
			Fournisseur: &model.Fournisseur{
				NumeroFournisseur: "0000012345",
			},
			Projet: &model.Projet{NumeroProjet: "22-104"},
		},
	}
	require.NoError(t, f.commandeRepo.CreateTx(context.Background(), nil, c))
	return c
}

func ligneExportable(quantite int, prix string, numeroActivite string) model.LigneBonCommande {
	return model.LigneBonCommande{
		DescriptionArticle: "Acier",
		Quantite:           quantite,
		PrixUnitaire:       dec(prix),
		LigneDemande: &model.LigneDemandeAchat{
			Activite: &model.Activite{NumeroActivite: numeroActivite},
		},
	}
}

func TestLignesExportables(t *testing.T) {
	f := newExportFixture(t)
	semaine1 := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC) // week of 03-09
	semaine2 := time.Date(2026, 3, 18, 10, 0, 0, 0, time.UTC) // week of 03-16

	f.seedCommande(t, "PO-000-002", semaine2, []model.LigneBonCommande{
		ligneExportable(5, "100.00", "03-100"),
	})
	f.seedCommande(t, "PO-000-001", semaine1, []model.LigneBonCommande{
		ligneExportable(10, "125.00", "03-100"),
		// Zero-price lines are not billable and never export.
		ligneExportable(1, "0", "03-100"),
	})

	resp, err := f.svc.LignesExportables(context.Background())
	require.NoError(t, err)

	// Newest week first.
	assert.Equal(t, []string{"2026-03-16", "2026-03-09"}, resp.Semaines)

	require.Len(t, resp.Lignes, 2)
	// Lines follow the numeric order of the PO number, not insertion order.
	assert.Equal(t, "PO-000-001", resp.Lignes[0].NumeroBonCommande)
	assert.Equal(t, "PO-000-002", resp.Lignes[1].NumeroBonCommande)
	assert.Equal(t, "1250.00", resp.Lignes[0].Montant.StringFixed(2))
	assert.Equal(t, "0000012345", resp.Lignes[0].NumeroFournisseur)
	assert.Equal(t, "03-100", resp.Lignes[0].NumeroActivite)
	assert.Equal(t, "22-104", resp.Lignes[0].NumeroProjet)
}

func TestComposerFichier(t *testing.T) {
	f := newExportFixture(t)
	creation := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)
	f.seedCommande(t, "PO-000-001", creation, []model.LigneBonCommande{
		ligneExportable(10, "125.00", "03-100"),
		ligneExportable(200, "0.85", "03-200"),
	})

	data, nom, err := f.svc.ComposerFichier(context.Background(), "2026-03-09")
	require.NoError(t, err)
	assert.Equal(t, "avantage_export_2026-03-09.txt", nom)

	records := strings.Split(string(data), "\r\n")
	require.Len(t, records, 2)
	assert.Equal(t,
		`RQ01,W09,01,3,2026/03/11,,COMNO="000001",COMFRN="0000012345",COMACT="03-100",COMCNT="22-104",COMQTE="1250.00"`,
		records[0])
	assert.Equal(t,
		`RQ02,W09,01,3,2026/03/11,,COMNO="000001",COMFRN="0000012345",COMACT="03-200",COMCNT="22-104",COMQTE="170.00"`,
		records[1])
}

func TestComposerFichier_Revision(t *testing.T) {
	f := newExportFixture(t)
	creation := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)
	f.seedCommande(t, "PO-000-001-R1", creation, []model.LigneBonCommande{
		ligneExportable(1, "50.00", "03-100"),
	})

	data, _, err := f.svc.ComposerFichier(context.Background(), "2026-03-09")
	require.NoError(t, err)
	assert.Contains(t, string(data), `COMNO="000001-R1"`)
}

func TestComposerFichier_SemaineVide(t *testing.T) {
	f := newExportFixture(t)

	_, _, err := f.svc.ComposerFichier(context.Background(), "2026-03-09")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aucune ligne exportable")
}

func TestComposerClasseur(t *testing.T) {
	f := newExportFixture(t)
	creation := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)
	f.seedCommande(t, "PO-000-001", creation, []model.LigneBonCommande{
		ligneExportable(10, "125.00", "03-100"),
	})

	data, nom, err := f.svc.ComposerClasseur(context.Background(), "2026-03-09")
	require.NoError(t, err)
	assert.Equal(t, "avantage_export_2026-03-09.xlsx", nom)
	// xlsx is a zip container.
	require.Greater(t, len(data), 4)
	assert.Equal(t, "PK", string(data[:2]))
}

func TestConfirmerImport(t *testing.T) {
	f := newExportFixture(t)
	creation := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)
	c1 := f.seedCommande(t, "PO-000-001", creation, []model.LigneBonCommande{ligneExportable(1, "10.00", "03-100")})
	c2 := f.seedCommande(t, "PO-000-002", creation, []model.LigneBonCommande{ligneExportable(1, "10.00", "03-100")})

	err := f.svc.ConfirmerImport(context.Background(), "admin@example.com", dto.ConfirmerImportRequest{
		NumerosBonCommande: []string{"PO-000-001", "PO-000-002"},
	})
	require.NoError(t, err)

	assert.Equal(t, model.CommandeImportee, c1.Statut)
	assert.Equal(t, model.CommandeImportee, c2.Statut)
	assert.Equal(t, []string{"importation", "importation"}, f.auditRepo.actions())
}

func TestConfirmerImport_NumeroInconnu(t *testing.T) {
	f := newExportFixture(t)
	creation := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)
	f.seedCommande(t, "PO-000-001", creation, []model.LigneBonCommande{ligneExportable(1, "10.00", "03-100")})

	err := f.svc.ConfirmerImport(context.Background(), "admin@example.com", dto.ConfirmerImportRequest{
		NumerosBonCommande: []string{"PO-000-001", "PO-999-999"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "introuvables")
}

func TestConfirmerImport_StatutInvalide(t *testing.T) {
	f := newExportFixture(t)
	creation := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)
	c := f.seedCommande(t, "PO-000-001", creation, []model.LigneBonCommande{ligneExportable(1, "10.00", "03-100")})
	require.NoError(t, f.commandeRepo.UpdateStatutTx(nil, c.ID, model.CommandeAnnulee))

	err := f.svc.ConfirmerImport(context.Background(), "admin@example.com", dto.ConfirmerImportRequest{
		NumerosBonCommande: []string{"PO-000-001"},
	})
	assert.ErrorIs(t, err, model.ErrTransitionInvalide)
}

package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"achatshub/internal/dto"
	"achatshub/internal/model"
	"achatshub/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type ExportService interface {
	LignesExportables(ctx context.Context) (*dto.ExportListResponse, error)
	ComposerFichier(ctx context.Context, semaine string) ([]byte, string, error)
	ComposerClasseur(ctx context.Context, semaine string) ([]byte, string, error)
	ConfirmerImport(ctx context.Context, email string, req dto.ConfirmerImportRequest) error
}

type exportService struct {
	commandeRepo repository.CommandeRepository
	auditRepo    repository.AuditRepository
}

func NewExportService(
	commandeRepo repository.CommandeRepository,
	auditRepo repository.AuditRepository,
) ExportService {
	return &exportService{commandeRepo: commandeRepo, auditRepo: auditRepo}
}

// lundiDeLaSemaine maps a creation date to the Monday of its week, which is
// how export batches are grouped. Sunday rolls forward to the next Monday,
// matching how the accounting side cuts its weeks.
func lundiDeLaSemaine(t time.Time) string {
	jour := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return jour.AddDate(0, 0, 1-int(jour.Weekday())).Format("2006-01-02")
}

// ordreExport sorts lines the way the accounting clerk expects: by the
// numeric body of the PO number (PO-005-002 → 5002), revisions alongside
// their base number.
func ordreExport(numeroBC string) int {
	s := strings.TrimPrefix(numeroBC, "PO-")
	if i := strings.Index(s, "-R"); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, "-", "")
	n, _ := strconv.Atoi(s)
	return n
}

// numeroCommandePourAvantage strips the prefix and the first separator only:
// PO-005-002 → 005002, PO-005-002-R1 → 005002-R1.
func numeroCommandePourAvantage(numeroBC string) string {
	s := strings.Replace(numeroBC, "PO-", "", 1)
	return strings.Replace(s, "-", "", 1)
}

// LignesExportables flattens En cours orders into billable lines (unit price
// above zero) with their week group, newest weeks first.
func (s *exportService) LignesExportables(ctx context.Context) (*dto.ExportListResponse, error) {
	lignes, err := s.collecter(ctx, "")
	if err != nil {
		return nil, err
	}

	vues := map[string]bool{}
	var semaines []string
	for _, l := range lignes {
		if !vues[l.Semaine] {
			vues[l.Semaine] = true
			semaines = append(semaines, l.Semaine)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(semaines)))

	return &dto.ExportListResponse{Semaines: semaines, Lignes: lignes}, nil
}

// collecter gathers exportable lines, optionally restricted to one week.
func (s *exportService) collecter(ctx context.Context, semaine string) ([]dto.LigneExport, error) {
	commandes, err := s.commandeRepo.ExportablesEnCours(ctx)
	if err != nil {
		return nil, err
	}

	var lignes []dto.LigneExport
	for _, c := range commandes {
		sem := lundiDeLaSemaine(c.CreatedAt)
		if semaine != "" && sem != semaine {
			continue
		}

		numeroFournisseur := ""
		numeroProjet := ""
		if c.DemandeAchat != nil {
			if c.DemandeAchat.Fournisseur != nil {
				numeroFournisseur = c.DemandeAchat.Fournisseur.NumeroFournisseur
			}
			if c.DemandeAchat.Projet != nil {
				numeroProjet = c.DemandeAchat.Projet.NumeroProjet
			}
		}

		for _, l := range c.Lignes {
			if !l.PrixUnitaire.IsPositive() {
				continue
			}
			numeroActivite := ""
			if l.LigneDemande != nil && l.LigneDemande.Activite != nil {
				numeroActivite = l.LigneDemande.Activite.NumeroActivite
			}
			lignes = append(lignes, dto.LigneExport{
				NumeroBonCommande: c.NumeroBonCommande,
				DateCreation:      c.CreatedAt.Format("2006-01-02"),
				Semaine:           sem,
				NumeroFournisseur: numeroFournisseur,
				NumeroActivite:    numeroActivite,
				NumeroProjet:      numeroProjet,
				Quantite:          l.Quantite,
				PrixUnitaire:      l.PrixUnitaire,
				Montant:           l.PrixUnitaire.Mul(decimal.NewFromInt(int64(l.Quantite))),
			})
		}
	}

	sort.SliceStable(lignes, func(i, j int) bool {
		return ordreExport(lignes[i].NumeroBonCommande) < ordreExport(lignes[j].NumeroBonCommande)
	})
	return lignes, nil
}

// ── ComposerFichier ───────────────────────────────────────────────────────────
// One record per billable line, CRLF-joined since the consumer runs on
// Windows. RQ numbers restart at 01 for each file.

func (s *exportService) ComposerFichier(ctx context.Context, semaine string) ([]byte, string, error) {
	lignes, err := s.collecter(ctx, semaine)
	if err != nil {
		return nil, "", err
	}
	if len(lignes) == 0 {
		return nil, "", fmt.Errorf("aucune ligne exportable pour la semaine %s", semaine)
	}

	records := make([]string, 0, len(lignes))
	for i, l := range lignes {
		date, _ := time.Parse("2006-01-02", l.DateCreation)
		records = append(records, fmt.Sprintf(
			`RQ%02d,W09,01,3,%s,,COMNO=%q,COMFRN=%q,COMACT=%q,COMCNT=%q,COMQTE=%q`,
			i+1,
			date.Format("2006/01/02"),
			numeroCommandePourAvantage(l.NumeroBonCommande),
			l.NumeroFournisseur,
			l.NumeroActivite,
			l.NumeroProjet,
			l.Montant.StringFixed(2),
		))
	}

	nom := fmt.Sprintf("avantage_export_%s.txt", semaine)
	return []byte(strings.Join(records, "\r\n")), nom, nil
}

// ── ComposerClasseur ──────────────────────────────────────────────────────────
// Excel rendition of the same batch for human review before the text file is
// pushed into Avantage.

func (s *exportService) ComposerClasseur(ctx context.Context, semaine string) ([]byte, string, error) {
	lignes, err := s.collecter(ctx, semaine)
	if err != nil {
		return nil, "", err
	}
	if len(lignes) == 0 {
		return nil, "", fmt.Errorf("aucune ligne exportable pour la semaine %s", semaine)
	}

	f := excelize.NewFile()
	defer f.Close()
	const feuille = "Sheet1"

	entete := []interface{}{
		"No. Requête", "Bon de commande", "Date", "Fournisseur",
		"Activité", "Projet", "Quantité", "Prix unitaire", "Montant",
	}
	if err := f.SetSheetRow(feuille, "A1", &entete); err != nil {
		return nil, "", err
	}
	for i, l := range lignes {
		row := []interface{}{
			fmt.Sprintf("RQ%02d", i+1),
			l.NumeroBonCommande,
			l.DateCreation,
			l.NumeroFournisseur,
			l.NumeroActivite,
			l.NumeroProjet,
			l.Quantite,
			l.PrixUnitaire.InexactFloat64(),
			l.Montant.InexactFloat64(),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(feuille, cell, &row); err != nil {
			return nil, "", err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", err
	}
	nom := fmt.Sprintf("avantage_export_%s.xlsx", semaine)
	return buf.Bytes(), nom, nil
}

// ── ConfirmerImport ───────────────────────────────────────────────────────────
// Marks a batch of orders as Importé after the clerk has loaded the file into
// Avantage. All-or-nothing: one order failing its transition rolls the whole
// batch back, so a batch can never end up half-imported.

func (s *exportService) ConfirmerImport(ctx context.Context, email string, req dto.ConfirmerImportRequest) error {
	return runTx(ctx, s.commandeRepo.DB(), func(tx *gorm.DB) error {
		commandes, err := s.commandeRepo.FindByNumerosTx(tx, req.NumerosBonCommande)
		if err != nil {
			return err
		}
		if len(commandes) != len(req.NumerosBonCommande) {
			return fmt.Errorf("bons de commande introuvables: %d demandés, %d trouvés",
				len(req.NumerosBonCommande), len(commandes))
		}

		for _, c := range commandes {
			next, err := model.TransitionCommande(c.Statut, model.EvImporter)
			if err != nil {
				return fmt.Errorf("%s: %w", c.NumeroBonCommande, err)
			}
			if err := s.commandeRepo.UpdateStatutTx(tx, c.ID, next); err != nil {
				return err
			}
			entry := &model.AuditLog{
				IDBonCommande:    &c.ID,
				Action:           "importation",
				Description:      fmt.Sprintf("Statut du bon de commande %s changé à %q", c.NumeroBonCommande, next),
				EmailUtilisateur: email,
			}
			if c.DemandeAchat != nil {
				entry.IDDemandeAchat = &c.DemandeAchat.ID
			}
			if err := s.auditRepo.CreateTx(tx, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

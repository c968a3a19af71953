package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"achatshub/internal/cache"
	"achatshub/internal/dto"
	"achatshub/internal/model"
	"achatshub/internal/repository"

	"github.com/google/uuid"
)

// pdfCacheTTL keeps freshly rendered orders around for repeat downloads
// without re-rendering on every click.
const pdfCacheTTL = 5 * time.Minute

type CommandeService interface {
	Get(ctx context.Context, id uuid.UUID) (*dto.CommandeResponse, error)
	GetByNumero(ctx context.Context, numero string) (*dto.CommandeResponse, error)
	List(ctx context.Context, filter dto.CommandeFilter) (*dto.CommandeListResponse, error)
	Historique(ctx context.Context, id uuid.UUID) ([]dto.AuditLogResponse, error)
	PDF(ctx context.Context, numero string) ([]byte, string, error)
}

type commandeService struct {
	repo      repository.CommandeRepository
	auditRepo repository.AuditRepository
	pdf       PDFComposer
	cache     cache.Cache
}

func NewCommandeService(
	repo repository.CommandeRepository,
	auditRepo repository.AuditRepository,
	pdf PDFComposer,
	c cache.Cache,
) CommandeService {
	return &commandeService{repo: repo, auditRepo: auditRepo, pdf: pdf, cache: c}
}

func (s *commandeService) Get(ctx context.Context, id uuid.UUID) (*dto.CommandeResponse, error) {
	commande, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrCommandeIntrouvable
	}
	return commandeToResponse(commande), nil
}

func (s *commandeService) GetByNumero(ctx context.Context, numero string) (*dto.CommandeResponse, error) {
	commande, err := s.repo.FindByNumero(ctx, numero)
	if err != nil {
		return nil, ErrCommandeIntrouvable
	}
	return commandeToResponse(commande), nil
}

func (s *commandeService) List(ctx context.Context, filter dto.CommandeFilter) (*dto.CommandeListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	commandes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CommandeListItem, 0, len(commandes))
	for _, c := range commandes {
		items = append(items, *commandeToListItem(&c))
	}
	return &dto.CommandeListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *commandeService) Historique(ctx context.Context, id uuid.UUID) ([]dto.AuditLogResponse, error) {
	entries, err := s.auditRepo.ListForCommande(ctx, id)
	if err != nil {
		return nil, err
	}
	return auditToResponses(entries), nil
}

// PDF renders the order, serving from cache when a fresh copy exists. The
// cache key carries the status so a cancellation or revision (which changes
// the watermark) never serves a stale render.
func (s *commandeService) PDF(ctx context.Context, numero string) ([]byte, string, error) {
	commande, err := s.repo.FindByNumero(ctx, numero)
	if err != nil {
		return nil, "", ErrCommandeIntrouvable
	}
	nomFichier := nomFichierPDF(commande)

	cle := fmt.Sprintf("pdf:%s:%s", commande.NumeroBonCommande, commande.Statut)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cle); err == nil && len(data) > 0 {
			return data, nomFichier, nil
		}
	}

	data, err := s.pdf.Composer(ctx, commande)
	if err != nil {
		return nil, "", fmt.Errorf("génération du PDF: %w", err)
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, cle, data, pdfCacheTTL)
	}
	return data, nomFichier, nil
}

var espacesEtPoints = regexp.MustCompile(`[\s.]+`)

// nomFichierPDF builds "<projet>-<fournisseur>-<numéro>.pdf" so the download
// lands in the comptabilité folders already sorted. Runs of whitespace and
// dots in the supplier name collapse to a single space; accents survive, the
// HTTP layer handles the ASCII fallback.
func nomFichierPDF(c *model.BonCommande) string {
	projet := "NO-PROJECT"
	fournisseur := "NO-SUPPLIER"
	if c.DemandeAchat != nil {
		if p := c.DemandeAchat.Projet; p != nil && p.NumeroProjet != "" {
			projet = p.NumeroProjet
		}
		if f := c.DemandeAchat.Fournisseur; f != nil && f.NomFournisseur != nil && *f.NomFournisseur != "" {
			fournisseur = espacesEtPoints.ReplaceAllString(strings.TrimSpace(*f.NomFournisseur), " ")
		}
	}
	return projet + "-" + fournisseur + "-" + c.NumeroBonCommande + ".pdf"
}

func commandeToResponse(c *model.BonCommande) *dto.CommandeResponse {
	lignes := make([]dto.LigneCommandeResponse, 0, len(c.Lignes))
	for _, l := range c.Lignes {
		numeroActivite := ""
		if l.LigneDemande != nil && l.LigneDemande.Activite != nil {
			numeroActivite = l.LigneDemande.Activite.NumeroActivite
		}
		lignes = append(lignes, dto.LigneCommandeResponse{
			ID:                 l.ID.String(),
			DescriptionArticle: l.DescriptionArticle,
			Quantite:           l.Quantite,
			PrixUnitaire:       l.PrixUnitaire,
			Commentaire:        l.Commentaire,
			NumeroActivite:     numeroActivite,
		})
	}

	resp := &dto.CommandeResponse{
		ID:                c.ID.String(),
		NumeroBonCommande: c.NumeroBonCommande,
		Statut:            string(c.Statut),
		Total:             c.Total,
		DeliveryOption:    c.DeliveryOption,
		TypeLivraison:     c.TypeLivraison,
		Envoye:            c.Envoye,
		Lignes:            lignes,
		DateCreation:      c.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if c.DateLivraison != nil {
		v := c.DateLivraison.Format("2006-01-02")
		resp.DateLivraison = &v
	}
	if c.DemandeAchat != nil {
		resp.NumeroDemandeAchat = c.DemandeAchat.NumeroDemandeAchat
		if c.DemandeAchat.Projet != nil {
			resp.NumeroProjet = &c.DemandeAchat.Projet.NumeroProjet
		}
		if c.DemandeAchat.Fournisseur != nil {
			resp.NomFournisseur = c.DemandeAchat.Fournisseur.NomFournisseur
		}
	}
	return resp
}

func commandeToListItem(c *model.BonCommande) *dto.CommandeListItem {
	item := &dto.CommandeListItem{
		ID:                c.ID.String(),
		NumeroBonCommande: c.NumeroBonCommande,
		Statut:            string(c.Statut),
		Total:             c.Total,
		Envoye:            c.Envoye,
		DateCreation:      c.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if c.DemandeAchat != nil {
		if c.DemandeAchat.Projet != nil {
			item.NumeroProjet = &c.DemandeAchat.Projet.NumeroProjet
		}
		if c.DemandeAchat.Fournisseur != nil {
			item.NomFournisseur = c.DemandeAchat.Fournisseur.NomFournisseur
		}
	}
	return item
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"achatshub/internal/dto"
	"achatshub/internal/model"
	"achatshub/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrDemandeIntrouvable  = errors.New("demande d'achat introuvable")
	ErrCommandeIntrouvable = errors.New("bon de commande introuvable")
)

type DemandeService interface {
	Creer(ctx context.Context, email string, req dto.CreerDemandeRequest) (*dto.DemandeResponse, error)
	Modifier(ctx context.Context, id uuid.UUID, email string, req dto.ModifierDemandeRequest) (*dto.DemandeResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.DemandeResponse, error)
	GetByNumero(ctx context.Context, numero string) (*dto.DemandeResponse, error)
	List(ctx context.Context, filter dto.DemandeFilter) (*dto.DemandeListResponse, error)
	Historique(ctx context.Context, id uuid.UUID) ([]dto.AuditLogResponse, error)
	FormData(ctx context.Context) (*dto.FormDataResponse, error)
}

type demandeService struct {
	repo            repository.DemandeRepository
	projetRepo      repository.ProjetRepository
	fournisseurRepo repository.FournisseurRepository
	activiteRepo    repository.ActiviteRepository
	auditRepo       repository.AuditRepository
}

func NewDemandeService(
	repo repository.DemandeRepository,
	projetRepo repository.ProjetRepository,
	fournisseurRepo repository.FournisseurRepository,
	activiteRepo repository.ActiviteRepository,
	auditRepo repository.AuditRepository,
) DemandeService {
	return &demandeService{
		repo:            repo,
		projetRepo:      projetRepo,
		fournisseurRepo: fournisseurRepo,
		activiteRepo:    activiteRepo,
		auditRepo:       auditRepo,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func parseOptionalUUID(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ── Creer ─────────────────────────────────────────────────────────────────────
// Number allocation, header, lines, attachments and the audit entry all land
// in one transaction; a failed line insert never leaks a consumed number into
// a half-created request.

func (s *demandeService) Creer(ctx context.Context, email string, req dto.CreerDemandeRequest) (*dto.DemandeResponse, error) {
	idProjet, err := parseOptionalUUID(req.IDProjet)
	if err != nil {
		return nil, fmt.Errorf("id_projet invalide: %w", err)
	}
	idFournisseur, err := parseOptionalUUID(req.IDFournisseur)
	if err != nil {
		return nil, fmt.Errorf("id_fournisseur invalide: %w", err)
	}
	dateLivraison, err := parseOptionalDate(req.DateLivraisonSouhaitee)
	if err != nil {
		return nil, fmt.Errorf("date_livraison_souhaitee invalide: %w", err)
	}

	lignes := make([]model.LigneDemandeAchat, 0, len(req.Lignes))
	for _, l := range req.Lignes {
		idActivite, err := uuid.Parse(l.IDActivite)
		if err != nil {
			return nil, fmt.Errorf("id_activite invalide: %w", err)
		}
		lignes = append(lignes, model.LigneDemandeAchat{
			DescriptionArticle: l.DescriptionArticle,
			Quantite:           l.Quantite,
			PrixUnitaireEstime: l.PrixUnitaireEstime,
			CommentaireLigne:   l.CommentaireLigne,
			IDActivite:         idActivite,
		})
	}

	statut := model.DemandeBrouillon
	if req.Soumettre {
		statut = model.DemandeAttenteN1
	}

	var demande model.DemandeAchat
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		numero, err := s.repo.ProchainNumero(ctx, tx)
		if err != nil {
			return err
		}

		demande = model.DemandeAchat{
			NumeroDemandeAchat:     numero,
			Statut:                 statut,
			Demandeur:              &email,
			Commentaire:            req.Commentaire,
			RelationCompagnie:      req.RelationCompagnie,
			DeliveryOption:         req.DeliveryOption,
			TypeLivraison:          req.TypeLivraison,
			DateLivraisonSouhaitee: dateLivraison,
			TotalEstime:            model.TotalLignes(lignes),
			IDProjet:               idProjet,
			IDFournisseur:          idFournisseur,
			DateModification:       time.Now(),
			Lignes:                 lignes,
		}
		for _, pj := range req.PiecesJointes {
			demande.PiecesJointes = append(demande.PiecesJointes, model.PieceJointe{
				Type: pj.Type,
				URL:  pj.URL,
			})
		}
		if err := s.repo.CreateTx(ctx, tx, &demande); err != nil {
			return err
		}

		action := "creation"
		description := fmt.Sprintf("Demande %s créée (%s)", numero, statut)
		if req.Soumettre {
			action = "soumission"
			description = fmt.Sprintf("Demande %s créée et soumise pour approbation", numero)
		}
		return s.auditRepo.CreateTx(tx, &model.AuditLog{
			IDDemandeAchat:   &demande.ID,
			Action:           action,
			Description:      description,
			EmailUtilisateur: email,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.Get(ctx, demande.ID)
}

// ── Modifier ──────────────────────────────────────────────────────────────────
// The line set changes through explicit create/update/delete groups rather
// than a wholesale swap, so PO lines keep their back-references to surviving
// PR lines. TotalEstime is recomputed from the lines as stored, never trusted
// from the client.

func (s *demandeService) Modifier(ctx context.Context, id uuid.UUID, email string, req dto.ModifierDemandeRequest) (*dto.DemandeResponse, error) {
	demande, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrDemandeIntrouvable
	}
	if demande.Statut != model.DemandeBrouillon && demande.Statut != model.DemandeRefusee {
		return nil, fmt.Errorf("la demande %s n'est pas modifiable (statut %s)", demande.NumeroDemandeAchat, demande.Statut)
	}

	idProjet, err := parseOptionalUUID(req.IDProjet)
	if err != nil {
		return nil, fmt.Errorf("id_projet invalide: %w", err)
	}
	idFournisseur, err := parseOptionalUUID(req.IDFournisseur)
	if err != nil {
		return nil, fmt.Errorf("id_fournisseur invalide: %w", err)
	}
	dateLivraison, err := parseOptionalDate(req.DateLivraisonSouhaitee)
	if err != nil {
		return nil, fmt.Errorf("date_livraison_souhaitee invalide: %w", err)
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if req.Lignes != nil {
			deleteIDs := make([]uuid.UUID, 0, len(req.Lignes.Delete))
			for _, raw := range req.Lignes.Delete {
				lid, err := uuid.Parse(raw)
				if err != nil {
					return fmt.Errorf("id de ligne invalide: %w", err)
				}
				deleteIDs = append(deleteIDs, lid)
			}
			if err := s.repo.DeleteLignesTx(tx, demande.ID, deleteIDs); err != nil {
				return err
			}

			for _, u := range req.Lignes.Update {
				lid, err := uuid.Parse(u.ID)
				if err != nil {
					return fmt.Errorf("id de ligne invalide: %w", err)
				}
				idActivite, err := uuid.Parse(u.IDActivite)
				if err != nil {
					return fmt.Errorf("id_activite invalide: %w", err)
				}
				if err := s.repo.UpdateLigneTx(tx, &model.LigneDemandeAchat{
					ID:                 lid,
					IDDemandeAchat:     demande.ID,
					DescriptionArticle: u.DescriptionArticle,
					Quantite:           u.Quantite,
					PrixUnitaireEstime: u.PrixUnitaireEstime,
					CommentaireLigne:   u.CommentaireLigne,
					IDActivite:         idActivite,
				}); err != nil {
					return err
				}
			}

			for _, c := range req.Lignes.Create {
				idActivite, err := uuid.Parse(c.IDActivite)
				if err != nil {
					return fmt.Errorf("id_activite invalide: %w", err)
				}
				if err := s.repo.CreateLigneTx(tx, &model.LigneDemandeAchat{
					IDDemandeAchat:     demande.ID,
					DescriptionArticle: c.DescriptionArticle,
					Quantite:           c.Quantite,
					PrixUnitaireEstime: c.PrixUnitaireEstime,
					CommentaireLigne:   c.CommentaireLigne,
					IDActivite:         idActivite,
				}); err != nil {
					return err
				}
			}
		}

		if req.PiecesJointes != nil {
			pieces := make([]model.PieceJointe, 0, len(*req.PiecesJointes))
			for _, pj := range *req.PiecesJointes {
				pieces = append(pieces, model.PieceJointe{
					IDDemandeAchat: demande.ID,
					Type:           pj.Type,
					URL:            pj.URL,
				})
			}
			if err := s.repo.ReplacePiecesJointesTx(tx, demande.ID, pieces); err != nil {
				return err
			}
		}

		if req.IDProjet != nil {
			demande.IDProjet = idProjet
		}
		if req.IDFournisseur != nil {
			demande.IDFournisseur = idFournisseur
		}
		if req.Commentaire != nil {
			demande.Commentaire = req.Commentaire
		}
		if req.RelationCompagnie != nil {
			demande.RelationCompagnie = *req.RelationCompagnie
		}
		if req.DeliveryOption != nil {
			demande.DeliveryOption = *req.DeliveryOption
		}
		if req.TypeLivraison != nil {
			demande.TypeLivraison = *req.TypeLivraison
		}
		if req.DateLivraisonSouhaitee != nil {
			demande.DateLivraisonSouhaitee = dateLivraison
		}

		// Recompute the total from the lines as they now stand in the DB.
		lignes, err := s.repo.LignesTx(tx, demande.ID)
		if err != nil {
			return err
		}
		demande.TotalEstime = model.TotalLignes(lignes)
		demande.DateModification = time.Now()
		demande.Lignes = nil
		demande.PiecesJointes = nil

		if err := s.repo.UpdateTx(tx, demande); err != nil {
			return err
		}

		return s.auditRepo.CreateTx(tx, &model.AuditLog{
			IDDemandeAchat:   &demande.ID,
			Action:           "modification",
			Description:      fmt.Sprintf("Demande %s modifiée", demande.NumeroDemandeAchat),
			EmailUtilisateur: email,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.Get(ctx, demande.ID)
}

func (s *demandeService) Get(ctx context.Context, id uuid.UUID) (*dto.DemandeResponse, error) {
	demande, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrDemandeIntrouvable
	}
	return demandeToResponse(demande), nil
}

func (s *demandeService) GetByNumero(ctx context.Context, numero string) (*dto.DemandeResponse, error) {
	demande, err := s.repo.FindByNumero(ctx, numero)
	if err != nil {
		return nil, ErrDemandeIntrouvable
	}
	return demandeToResponse(demande), nil
}

func (s *demandeService) List(ctx context.Context, filter dto.DemandeFilter) (*dto.DemandeListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	demandes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DemandeListItem, 0, len(demandes))
	for _, d := range demandes {
		items = append(items, *demandeToListItem(&d))
	}
	return &dto.DemandeListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *demandeService) Historique(ctx context.Context, id uuid.UUID) ([]dto.AuditLogResponse, error) {
	entries, err := s.auditRepo.ListForDemande(ctx, id)
	if err != nil {
		return nil, err
	}
	return auditToResponses(entries), nil
}

// FormData bundles reference lists for the PR form in one round trip.
func (s *demandeService) FormData(ctx context.Context) (*dto.FormDataResponse, error) {
	projets, err := s.projetRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	fournisseurs, err := s.fournisseurRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	activites, err := s.activiteRepo.ListValides(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.FormDataResponse{
		Projets:      make([]dto.ProjetResponse, 0, len(projets)),
		Fournisseurs: make([]dto.FournisseurResponse, 0, len(fournisseurs)),
		Activites:    make([]dto.ActiviteResponse, 0, len(activites)),
	}
	for _, p := range projets {
		resp.Projets = append(resp.Projets, *projetToResponse(&p))
	}
	for _, f := range fournisseurs {
		resp.Fournisseurs = append(resp.Fournisseurs, *fournisseurToResponse(&f))
	}
	for _, a := range activites {
		resp.Activites = append(resp.Activites, dto.ActiviteResponse{
			ID:             a.ID.String(),
			NumeroActivite: a.NumeroActivite,
			DescriptionFR:  a.DescriptionFR,
			DescriptionEN:  a.DescriptionEN,
		})
	}
	return resp, nil
}

func demandeToResponse(d *model.DemandeAchat) *dto.DemandeResponse {
	lignes := make([]dto.LigneDemandeResponse, 0, len(d.Lignes))
	for _, l := range d.Lignes {
		numeroActivite := ""
		if l.Activite != nil {
			numeroActivite = l.Activite.NumeroActivite
		}
		lignes = append(lignes, dto.LigneDemandeResponse{
			ID:                 l.ID.String(),
			DescriptionArticle: l.DescriptionArticle,
			Quantite:           l.Quantite,
			PrixUnitaireEstime: l.PrixUnitaireEstime,
			CommentaireLigne:   l.CommentaireLigne,
			NumeroActivite:     numeroActivite,
		})
	}
	pieces := make([]dto.PieceJointeResponse, 0, len(d.PiecesJointes))
	for _, pj := range d.PiecesJointes {
		pieces = append(pieces, dto.PieceJointeResponse{
			ID:   pj.ID.String(),
			Type: pj.Type,
			URL:  pj.URL,
		})
	}

	resp := &dto.DemandeResponse{
		ID:                 d.ID.String(),
		NumeroDemandeAchat: d.NumeroDemandeAchat,
		Statut:             string(d.Statut),
		Demandeur:          d.Demandeur,
		Commentaire:        d.Commentaire,
		RelationCompagnie:  d.RelationCompagnie,
		DeliveryOption:     d.DeliveryOption,
		TypeLivraison:      d.TypeLivraison,
		TotalEstime:        d.TotalEstime,
		Lignes:             lignes,
		PiecesJointes:      pieces,
		DateCreation:       d.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if d.DateLivraisonSouhaitee != nil {
		v := d.DateLivraisonSouhaitee.Format("2006-01-02")
		resp.DateLivraisonSouhaitee = &v
	}
	if d.Projet != nil {
		resp.NumeroProjet = &d.Projet.NumeroProjet
	}
	if d.Fournisseur != nil {
		resp.NumeroFournisseur = &d.Fournisseur.NumeroFournisseur
		resp.NomFournisseur = d.Fournisseur.NomFournisseur
	}
	return resp
}

func demandeToListItem(d *model.DemandeAchat) *dto.DemandeListItem {
	item := &dto.DemandeListItem{
		ID:                 d.ID.String(),
		NumeroDemandeAchat: d.NumeroDemandeAchat,
		Statut:             string(d.Statut),
		Demandeur:          d.Demandeur,
		TotalEstime:        d.TotalEstime,
		DateCreation:       d.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if d.Projet != nil {
		item.NumeroProjet = &d.Projet.NumeroProjet
	}
	if d.Fournisseur != nil {
		item.NomFournisseur = d.Fournisseur.NomFournisseur
	}
	return item
}

func auditToResponses(entries []model.AuditLog) []dto.AuditLogResponse {
	out := make([]dto.AuditLogResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.AuditLogResponse{
			Action:           e.Action,
			Description:      e.Description,
			EmailUtilisateur: e.EmailUtilisateur,
			DateCreation:     e.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return out
}

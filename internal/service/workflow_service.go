package service

import (
	"context"
	"errors"
	"fmt"

	"achatshub/internal/dto"
	"achatshub/internal/model"
	"achatshub/internal/numero"
	"achatshub/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PDFComposer renders a bon de commande into its printable form.
type PDFComposer interface {
	Composer(ctx context.Context, c *model.BonCommande) ([]byte, error)
}

// Mailer delivers the signed bon de commande to the supplier.
type Mailer interface {
	Envoyer(to []string, sujet, corps string, piece []byte, nomFichier string) error
}

type WorkflowService interface {
	Soumettre(ctx context.Context, id uuid.UUID, email string) (*dto.DemandeResponse, error)
	ApprouverN1(ctx context.Context, id uuid.UUID, email string) (*dto.DemandeResponse, error)
	ApprouverN2(ctx context.Context, id uuid.UUID, email string) (*dto.DemandeResponse, error)
	Refuser(ctx context.Context, id uuid.UUID, email, motif string) (*dto.DemandeResponse, error)
	Resoumettre(ctx context.Context, id uuid.UUID, email string) (*dto.DemandeResponse, error)
	AnnulerCommande(ctx context.Context, commandeID uuid.UUID, email string) error
	ReviserCommande(ctx context.Context, commandeID uuid.UUID, email string) error
	ConfirmerEnvoi(ctx context.Context, commandeID uuid.UUID, email string, destinataires []string) error
}

type workflowService struct {
	demandeRepo  repository.DemandeRepository
	commandeRepo repository.CommandeRepository
	auditRepo    repository.AuditRepository
	pdf          PDFComposer
	mailer       Mailer
	billingEmail string
}

func NewWorkflowService(
	demandeRepo repository.DemandeRepository,
	commandeRepo repository.CommandeRepository,
	auditRepo repository.AuditRepository,
	pdf PDFComposer,
	mailer Mailer,
	billingEmail string,
) WorkflowService {
	return &workflowService{
		demandeRepo:  demandeRepo,
		commandeRepo: commandeRepo,
		auditRepo:    auditRepo,
		pdf:          pdf,
		mailer:       mailer,
		billingEmail: billingEmail,
	}
}

// transitionDemande re-reads the PR inside the transaction, validates the
// event against the transition table and persists the new status with an
// audit entry. Re-reading under the tx makes concurrent double-approvals
// lose on the table check instead of both winning.
func (s *workflowService) transitionDemande(
	ctx context.Context,
	id uuid.UUID,
	ev model.EvenementDemande,
	email, action, description string,
) error {
	return runTx(ctx, s.demandeRepo.DB(), func(tx *gorm.DB) error {
		demande, err := s.demandeRepo.FindByIDTx(tx, id)
		if err != nil {
			return ErrDemandeIntrouvable
		}
		next, err := model.TransitionDemande(demande.Statut, ev)
		if err != nil {
			return err
		}
		if err := s.demandeRepo.UpdateStatutTx(tx, id, next); err != nil {
			return err
		}
		return s.auditRepo.CreateTx(tx, &model.AuditLog{
			IDDemandeAchat:   &id,
			Action:           action,
			Description:      fmt.Sprintf(description, demande.NumeroDemandeAchat),
			EmailUtilisateur: email,
		})
	})
}

func (s *workflowService) Soumettre(ctx context.Context, id uuid.UUID, email string) (*dto.DemandeResponse, error) {
	err := s.transitionDemande(ctx, id, model.EvSoumettre, email,
		"soumission", "Demande %s soumise pour approbation")
	if err != nil {
		return nil, err
	}
	return s.reponse(ctx, id)
}

func (s *workflowService) ApprouverN1(ctx context.Context, id uuid.UUID, email string) (*dto.DemandeResponse, error) {
	err := s.transitionDemande(ctx, id, model.EvApprouverN1, email,
		"approbation_n1", "Demande %s approuvée au niveau 1")
	if err != nil {
		return nil, err
	}
	return s.reponse(ctx, id)
}

func (s *workflowService) Refuser(ctx context.Context, id uuid.UUID, email, motif string) (*dto.DemandeResponse, error) {
	description := "Demande %s refusée"
	if motif != "" {
		description = "Demande %s refusée: " + motif
	}
	err := s.transitionDemande(ctx, id, model.EvRefuser, email, "refus", description)
	if err != nil {
		return nil, err
	}
	return s.reponse(ctx, id)
}

func (s *workflowService) Resoumettre(ctx context.Context, id uuid.UUID, email string) (*dto.DemandeResponse, error) {
	err := s.transitionDemande(ctx, id, model.EvResoumettre, email,
		"resoumission", "Demande %s corrigée et resoumise")
	if err != nil {
		return nil, err
	}
	return s.reponse(ctx, id)
}

// ── ApprouverN2 ───────────────────────────────────────────────────────────────
// Final approval and PO emission are one transaction. First approval creates
// the order; a re-approval after revision updates the existing order in place
// (same row, revision-suffixed number) so a PR never owns two orders.

func (s *workflowService) ApprouverN2(ctx context.Context, id uuid.UUID, email string) (*dto.DemandeResponse, error) {
	txErr := runTx(ctx, s.demandeRepo.DB(), func(tx *gorm.DB) error {
		demande, err := s.demandeRepo.FindByIDTx(tx, id)
		if err != nil {
			return ErrDemandeIntrouvable
		}
		next, err := model.TransitionDemande(demande.Statut, model.EvApprouverN2)
		if err != nil {
			return err
		}
		if err := s.demandeRepo.UpdateStatutTx(tx, id, next); err != nil {
			return err
		}
		if err := s.auditRepo.CreateTx(tx, &model.AuditLog{
			IDDemandeAchat:   &id,
			Action:           "approbation_n2",
			Description:      fmt.Sprintf("Demande %s approuvée au niveau 2", demande.NumeroDemandeAchat),
			EmailUtilisateur: email,
		}); err != nil {
			return err
		}

		lignes := make([]model.LigneBonCommande, 0, len(demande.Lignes))
		for _, l := range demande.Lignes {
			ligneID := l.ID
			lignes = append(lignes, model.LigneBonCommande{
				IDLigneDemande:     &ligneID,
				DescriptionArticle: l.DescriptionArticle,
				Quantite:           l.Quantite,
				PrixUnitaire:       l.PrixUnitaireEstime,
				Commentaire:        l.CommentaireLigne,
			})
		}
		total := model.TotalLignesCommande(lignes)

		existante, err := s.commandeRepo.FindByDemandeTx(tx, demande.ID)
		switch {
		case err == nil:
			// Re-approval: the order already exists, reissue it.
			statutSuivant, err := model.TransitionCommande(existante.Statut, model.EvReemettre)
			if err != nil {
				return err
			}
			if err := s.commandeRepo.DeleteLignesTx(tx, existante.ID); err != nil {
				return err
			}
			existante.NumeroBonCommande = numero.Revision(existante.NumeroBonCommande)
			existante.Statut = statutSuivant
			existante.Total = total
			existante.Envoye = false
			existante.DateLivraison = demande.DateLivraisonSouhaitee
			existante.DeliveryOption = demande.DeliveryOption
			existante.TypeLivraison = demande.TypeLivraison
			existante.Lignes = lignes
			if err := s.commandeRepo.UpdateTx(tx, existante); err != nil {
				return err
			}
			return s.auditRepo.CreateTx(tx, &model.AuditLog{
				IDDemandeAchat:   &id,
				IDBonCommande:    &existante.ID,
				Action:           "reemission",
				Description:      fmt.Sprintf("Bon de commande réémis sous le numéro %s", existante.NumeroBonCommande),
				EmailUtilisateur: email,
			})

		case errors.Is(err, gorm.ErrRecordNotFound):
			numeroBC, err := s.commandeRepo.ProchainNumero(ctx, tx)
			if err != nil {
				return err
			}
			commande := model.BonCommande{
				NumeroBonCommande: numeroBC,
				Statut:            model.CommandeEnCours,
				Total:             total,
				DateLivraison:     demande.DateLivraisonSouhaitee,
				DeliveryOption:    demande.DeliveryOption,
				TypeLivraison:     demande.TypeLivraison,
				IDDemandeAchat:    demande.ID,
				Lignes:            lignes,
			}
			if err := s.commandeRepo.CreateTx(ctx, tx, &commande); err != nil {
				return err
			}
			return s.auditRepo.CreateTx(tx, &model.AuditLog{
				IDDemandeAchat:   &id,
				IDBonCommande:    &commande.ID,
				Action:           "emission",
				Description:      fmt.Sprintf("Bon de commande %s émis pour la demande %s", numeroBC, demande.NumeroDemandeAchat),
				EmailUtilisateur: email,
			})

		default:
			return err
		}
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.reponse(ctx, id)
}

// ── AnnulerCommande ───────────────────────────────────────────────────────────
// Cancelling an order pulls its PR out of circulation too: the order becomes
// Annulé and the PR Obsolète, atomically, with one audit entry on each side.

func (s *workflowService) AnnulerCommande(ctx context.Context, commandeID uuid.UUID, email string) error {
	return s.cascadeCommande(ctx, commandeID, email, false,
		model.EvAnnuler, model.EvRendreObsolet,
		"annulation", "Bon de commande %s annulé",
		"obsolescence", "Demande %s rendue obsolète suite à l'annulation du bon de commande")
}

// ── ReviserCommande ───────────────────────────────────────────────────────────
// Revision sends the order to En révision and reopens its PR as Brouillon so
// the requester can edit lines before the approval cycle runs again. The
// order's lines are dropped here; the next final approval rebuilds them from
// the reworked PR.

func (s *workflowService) ReviserCommande(ctx context.Context, commandeID uuid.UUID, email string) error {
	return s.cascadeCommande(ctx, commandeID, email, true,
		model.EvReviser, model.EvRouvrir,
		"revision", "Bon de commande %s mis en révision",
		"reouverture", "Demande %s rouverte pour modification")
}

func (s *workflowService) cascadeCommande(
	ctx context.Context,
	commandeID uuid.UUID,
	email string,
	purgerLignes bool,
	evCommande model.EvenementCommande,
	evDemande model.EvenementDemande,
	actionCommande, descCommande, actionDemande, descDemande string,
) error {
	return runTx(ctx, s.commandeRepo.DB(), func(tx *gorm.DB) error {
		commande, err := s.commandeRepo.FindByIDTx(tx, commandeID)
		if err != nil {
			return ErrCommandeIntrouvable
		}
		statutCommande, err := model.TransitionCommande(commande.Statut, evCommande)
		if err != nil {
			return err
		}

		demande, err := s.demandeRepo.FindByIDTx(tx, commande.IDDemandeAchat)
		if err != nil {
			return err
		}
		statutDemande, err := model.TransitionDemande(demande.Statut, evDemande)
		if err != nil {
			return err
		}

		if purgerLignes {
			if err := s.commandeRepo.DeleteLignesTx(tx, commande.ID); err != nil {
				return err
			}
		}
		if err := s.commandeRepo.UpdateStatutTx(tx, commande.ID, statutCommande); err != nil {
			return err
		}
		if err := s.demandeRepo.UpdateStatutTx(tx, demande.ID, statutDemande); err != nil {
			return err
		}

		if err := s.auditRepo.CreateTx(tx, &model.AuditLog{
			IDBonCommande:    &commande.ID,
			Action:           actionCommande,
			Description:      fmt.Sprintf(descCommande, commande.NumeroBonCommande),
			EmailUtilisateur: email,
		}); err != nil {
			return err
		}
		return s.auditRepo.CreateTx(tx, &model.AuditLog{
			IDDemandeAchat:   &demande.ID,
			Action:           actionDemande,
			Description:      fmt.Sprintf(descDemande, demande.NumeroDemandeAchat),
			EmailUtilisateur: email,
		})
	})
}

// ── ConfirmerEnvoi ────────────────────────────────────────────────────────────
// Marks the order as sent and mails the PDF to the supplier, with the billing
// address in copy. The mail leaves after the flag commits; a mail failure is
// reported but does not roll the flag back.

func (s *workflowService) ConfirmerEnvoi(ctx context.Context, commandeID uuid.UUID, email string, destinataires []string) error {
	commande, err := s.commandeRepo.FindByID(ctx, commandeID)
	if err != nil {
		return ErrCommandeIntrouvable
	}
	if commande.Statut != model.CommandeEnCours {
		return fmt.Errorf("le bon de commande %s n'est pas en cours (statut %s)", commande.NumeroBonCommande, commande.Statut)
	}

	txErr := runTx(ctx, s.commandeRepo.DB(), func(tx *gorm.DB) error {
		if err := s.commandeRepo.SetEnvoyeTx(tx, commande.ID, true); err != nil {
			return err
		}
		return s.auditRepo.CreateTx(tx, &model.AuditLog{
			IDBonCommande:    &commande.ID,
			Action:           "envoi",
			Description:      fmt.Sprintf("Bon de commande %s envoyé au fournisseur", commande.NumeroBonCommande),
			EmailUtilisateur: email,
		})
	})
	if txErr != nil {
		return txErr
	}

	if s.mailer == nil || len(destinataires) == 0 {
		return nil
	}
	piece, err := s.pdf.Composer(ctx, commande)
	if err != nil {
		return fmt.Errorf("génération du PDF: %w", err)
	}
	to := append(destinataires, s.billingEmail)
	sujet := fmt.Sprintf("Bon de commande %s", commande.NumeroBonCommande)
	corps := fmt.Sprintf("Bonjour,\n\nVeuillez trouver ci-joint le bon de commande %s.\n\nMerci.", commande.NumeroBonCommande)
	if err := s.mailer.Envoyer(to, sujet, corps, piece, commande.NumeroBonCommande+".pdf"); err != nil {
		return fmt.Errorf("envoi du courriel: %w", err)
	}
	return nil
}

func (s *workflowService) reponse(ctx context.Context, id uuid.UUID) (*dto.DemandeResponse, error) {
	demande, err := s.demandeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrDemandeIntrouvable
	}
	return demandeToResponse(demande), nil
}

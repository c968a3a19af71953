package service

import (
	"context"
	"errors"
	"fmt"

	"achatshub/internal/dto"
	"achatshub/internal/model"
	"achatshub/internal/repository"

	"github.com/google/uuid"
)

var ErrProjetIntrouvable = errors.New("projet introuvable")

type ProjetService interface {
	Creer(ctx context.Context, req dto.ProjetRequest) (*dto.ProjetResponse, error)
	Modifier(ctx context.Context, id uuid.UUID, req dto.ProjetRequest) (*dto.ProjetResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProjetResponse, error)
	List(ctx context.Context) ([]dto.ProjetResponse, error)
	Supprimer(ctx context.Context, id uuid.UUID) error
}

type projetService struct {
	repo repository.ProjetRepository
}

func NewProjetService(repo repository.ProjetRepository) ProjetService {
	return &projetService{repo: repo}
}

func (s *projetService) Creer(ctx context.Context, req dto.ProjetRequest) (*dto.ProjetResponse, error) {
	if _, err := s.repo.FindByNumero(ctx, req.NumeroProjet); err == nil {
		return nil, fmt.Errorf("le projet %s existe déjà", req.NumeroProjet)
	}
	p := projetFromRequest(req)
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return projetToResponse(p), nil
}

func (s *projetService) Modifier(ctx context.Context, id uuid.UUID, req dto.ProjetRequest) (*dto.ProjetResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProjetIntrouvable
	}
	maj := projetFromRequest(req)
	maj.ID = p.ID
	maj.CreatedAt = p.CreatedAt
	if err := s.repo.Update(ctx, maj); err != nil {
		return nil, err
	}
	return projetToResponse(maj), nil
}

func (s *projetService) Get(ctx context.Context, id uuid.UUID) (*dto.ProjetResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProjetIntrouvable
	}
	return projetToResponse(p), nil
}

func (s *projetService) List(ctx context.Context) ([]dto.ProjetResponse, error) {
	projets, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProjetResponse, 0, len(projets))
	for _, p := range projets {
		out = append(out, *projetToResponse(&p))
	}
	return out, nil
}

func (s *projetService) Supprimer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrProjetIntrouvable
	}
	return s.repo.Delete(ctx, id)
}

func projetFromRequest(req dto.ProjetRequest) *model.Projet {
	return &model.Projet{
		NumeroProjet:       req.NumeroProjet,
		Nom:                req.Nom,
		Addresse:           req.Addresse,
		AddresseLivraison:  req.AddresseLivraison,
		IDDossierCommande:  req.IDDossierCommande,
		Surintendant:       req.Surintendant,
		CoordonateurProjet: req.CoordonateurProjet,
		ChargeDeProjet:     req.ChargeDeProjet,
		DirecteurDeProjet:  req.DirecteurDeProjet,
	}
}

func projetToResponse(p *model.Projet) *dto.ProjetResponse {
	return &dto.ProjetResponse{
		ID:                 p.ID.String(),
		NumeroProjet:       p.NumeroProjet,
		Nom:                p.Nom,
		Addresse:           p.Addresse,
		AddresseLivraison:  p.AddresseLivraison,
		IDDossierCommande:  p.IDDossierCommande,
		Surintendant:       p.Surintendant,
		CoordonateurProjet: p.CoordonateurProjet,
		ChargeDeProjet:     p.ChargeDeProjet,
		DirecteurDeProjet:  p.DirecteurDeProjet,
	}
}

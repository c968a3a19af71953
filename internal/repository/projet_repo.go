package repository

import (
	"context"

	"achatshub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjetRepository interface {
	Create(ctx context.Context, p *model.Projet) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Projet, error)
	FindByNumero(ctx context.Context, numero string) (*model.Projet, error)
	List(ctx context.Context) ([]model.Projet, error)
	Update(ctx context.Context, p *model.Projet) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type projetRepo struct{ db *gorm.DB }

func NewProjetRepository(db *gorm.DB) ProjetRepository { return &projetRepo{db: db} }

func (r *projetRepo) Create(ctx context.Context, p *model.Projet) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *projetRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Projet, error) {
	var p model.Projet
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *projetRepo) FindByNumero(ctx context.Context, numero string) (*model.Projet, error) {
	var p model.Projet
	err := r.db.WithContext(ctx).First(&p, "numero_projet = ?", numero).Error
	return &p, err
}

func (r *projetRepo) List(ctx context.Context) ([]model.Projet, error) {
	var projets []model.Projet
	err := r.db.WithContext(ctx).Order("numero_projet").Find(&projets).Error
	return projets, err
}

func (r *projetRepo) Update(ctx context.Context, p *model.Projet) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *projetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Projet{}, "id = ?", id).Error
}

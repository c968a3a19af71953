package repository

import (
	"context"

	"achatshub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActiviteRepository interface {
	Create(ctx context.Context, a *model.Activite) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Activite, error)
	ListValides(ctx context.Context) ([]model.Activite, error)
}

type activiteRepo struct{ db *gorm.DB }

func NewActiviteRepository(db *gorm.DB) ActiviteRepository { return &activiteRepo{db: db} }

func (r *activiteRepo) Create(ctx context.Context, a *model.Activite) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *activiteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Activite, error) {
	var a model.Activite
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *activiteRepo) ListValides(ctx context.Context) ([]model.Activite, error) {
	var activites []model.Activite
	err := r.db.WithContext(ctx).Where("valid = true").Order("numero_activite").Find(&activites).Error
	return activites, err
}

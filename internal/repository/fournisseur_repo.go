package repository

import (
	"context"

	"achatshub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FournisseurRepository interface {
	Create(ctx context.Context, f *model.Fournisseur) error
	CreateTx(tx *gorm.DB, f *model.Fournisseur) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Fournisseur, error)
	FindByNumero(ctx context.Context, numero string) (*model.Fournisseur, error)
	List(ctx context.Context) ([]model.Fournisseur, error)
	Update(ctx context.Context, f *model.Fournisseur) error
	UpdateTx(tx *gorm.DB, f *model.Fournisseur) error
	Delete(ctx context.Context, id uuid.UUID) error
	DB() *gorm.DB
}

type fournisseurRepo struct{ db *gorm.DB }

func NewFournisseurRepository(db *gorm.DB) FournisseurRepository { return &fournisseurRepo{db: db} }

func (r *fournisseurRepo) DB() *gorm.DB { return r.db }

func (r *fournisseurRepo) Create(ctx context.Context, f *model.Fournisseur) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *fournisseurRepo) CreateTx(tx *gorm.DB, f *model.Fournisseur) error {
	return tx.Create(f).Error
}

func (r *fournisseurRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Fournisseur, error) {
	var f model.Fournisseur
	err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error
	return &f, err
}

func (r *fournisseurRepo) FindByNumero(ctx context.Context, numero string) (*model.Fournisseur, error) {
	var f model.Fournisseur
	err := r.db.WithContext(ctx).First(&f, "numero_fournisseur = ?", numero).Error
	return &f, err
}

func (r *fournisseurRepo) List(ctx context.Context) ([]model.Fournisseur, error) {
	var fournisseurs []model.Fournisseur
	err := r.db.WithContext(ctx).Order("numero_fournisseur").Find(&fournisseurs).Error
	return fournisseurs, err
}

func (r *fournisseurRepo) Update(ctx context.Context, f *model.Fournisseur) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *fournisseurRepo) UpdateTx(tx *gorm.DB, f *model.Fournisseur) error {
	return tx.Save(f).Error
}

func (r *fournisseurRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Fournisseur{}, "id = ?", id).Error
}

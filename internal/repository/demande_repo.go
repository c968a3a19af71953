package repository

import (
	"context"

	"achatshub/internal/dto"
	"achatshub/internal/model"
	"achatshub/internal/numero"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DemandeRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, d *model.DemandeAchat) error
	UpdateTx(tx *gorm.DB, d *model.DemandeAchat) error
	UpdateStatutTx(tx *gorm.DB, id uuid.UUID, statut model.StatutDemande) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.DemandeAchat, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.DemandeAchat, error)
	FindByNumero(ctx context.Context, numeroDemande string) (*model.DemandeAchat, error)
	List(ctx context.Context, filter dto.DemandeFilter) ([]model.DemandeAchat, int64, error)

	CreateLigneTx(tx *gorm.DB, l *model.LigneDemandeAchat) error
	UpdateLigneTx(tx *gorm.DB, l *model.LigneDemandeAchat) error
	DeleteLignesTx(tx *gorm.DB, demandeID uuid.UUID, ids []uuid.UUID) error
	LignesTx(tx *gorm.DB, demandeID uuid.UUID) ([]model.LigneDemandeAchat, error)
	ReplacePiecesJointesTx(tx *gorm.DB, demandeID uuid.UUID, pieces []model.PieceJointe) error

	ProchainNumero(ctx context.Context, tx *gorm.DB) (string, error)
	DB() *gorm.DB
}

type demandeRepo struct{ db *gorm.DB }

func NewDemandeRepository(db *gorm.DB) DemandeRepository { return &demandeRepo{db: db} }

func (r *demandeRepo) DB() *gorm.DB { return r.db }

func (r *demandeRepo) CreateTx(ctx context.Context, tx *gorm.DB, d *model.DemandeAchat) error {
	return tx.WithContext(ctx).Create(d).Error
}

func (r *demandeRepo) UpdateTx(tx *gorm.DB, d *model.DemandeAchat) error {
	return tx.Save(d).Error
}

func (r *demandeRepo) UpdateStatutTx(tx *gorm.DB, id uuid.UUID, statut model.StatutDemande) error {
	return tx.Model(&model.DemandeAchat{}).Where("id = ?", id).Update("statut", statut).Error
}

func (r *demandeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.DemandeAchat, error) {
	var d model.DemandeAchat
	err := r.db.WithContext(ctx).
		Preload("Lignes.Activite").
		Preload("PiecesJointes", func(db *gorm.DB) *gorm.DB { return db.Order("date_creation DESC") }).
		Preload("Projet").
		Preload("Fournisseur").
		First(&d, "id = ?", id).Error
	return &d, err
}

func (r *demandeRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.DemandeAchat, error) {
	var d model.DemandeAchat
	err := tx.Preload("Lignes").First(&d, "id = ?", id).Error
	return &d, err
}

func (r *demandeRepo) FindByNumero(ctx context.Context, numeroDemande string) (*model.DemandeAchat, error) {
	var d model.DemandeAchat
	err := r.db.WithContext(ctx).
		Preload("Lignes.Activite").
		Preload("PiecesJointes").
		Preload("Projet").
		Preload("Fournisseur").
		First(&d, "numero_demande_achat = ?", numeroDemande).Error
	return &d, err
}

func (r *demandeRepo) List(ctx context.Context, filter dto.DemandeFilter) ([]model.DemandeAchat, int64, error) {
	var demandes []model.DemandeAchat
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.DemandeAchat{})
	if filter.Statut != "" && filter.Statut != "all" {
		q = q.Where("statut = ?", filter.Statut)
	}
	if filter.Demandeur != "" {
		q = q.Where("demandeur = ?", filter.Demandeur)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Projet").Preload("Fournisseur").
		Order("numero_demande_achat DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&demandes).Error
	return demandes, total, err
}

func (r *demandeRepo) CreateLigneTx(tx *gorm.DB, l *model.LigneDemandeAchat) error {
	return tx.Create(l).Error
}

func (r *demandeRepo) UpdateLigneTx(tx *gorm.DB, l *model.LigneDemandeAchat) error {
	return tx.Model(&model.LigneDemandeAchat{}).
		Where("id = ? AND id_demande_achat = ?", l.ID, l.IDDemandeAchat).
		Updates(map[string]interface{}{
			"description_article":  l.DescriptionArticle,
			"quantite":             l.Quantite,
			"prix_unitaire_estime": l.PrixUnitaireEstime,
			"commentaire_ligne":    l.CommentaireLigne,
			"id_activite":          l.IDActivite,
		}).Error
}

func (r *demandeRepo) DeleteLignesTx(tx *gorm.DB, demandeID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.Where("id IN ? AND id_demande_achat = ?", ids, demandeID).
		Delete(&model.LigneDemandeAchat{}).Error
}

func (r *demandeRepo) LignesTx(tx *gorm.DB, demandeID uuid.UUID) ([]model.LigneDemandeAchat, error) {
	var lignes []model.LigneDemandeAchat
	err := tx.Where("id_demande_achat = ?", demandeID).Find(&lignes).Error
	return lignes, err
}

func (r *demandeRepo) ReplacePiecesJointesTx(tx *gorm.DB, demandeID uuid.UUID, pieces []model.PieceJointe) error {
	if err := tx.Where("id_demande_achat = ?", demandeID).Delete(&model.PieceJointe{}).Error; err != nil {
		return err
	}
	if len(pieces) == 0 {
		return nil
	}
	return tx.Create(&pieces).Error
}

// ProchainNumero allocates the next PR number. Allocation is an atomic
// nextval() on a dedicated sequence so concurrent creations cannot mint the
// same number; databases predating the sequence migration fall back to
// parse-and-increment of the last issued number.
func (r *demandeRepo) ProchainNumero(ctx context.Context, tx *gorm.DB) (string, error) {
	var regclass *string
	if err := tx.WithContext(ctx).Raw("SELECT to_regclass('demandes_achat_numero_seq')::text").Scan(&regclass).Error; err != nil {
		return "", err
	}
	if regclass != nil {
		var n int64
		if err := tx.WithContext(ctx).Raw("SELECT nextval('demandes_achat_numero_seq')").Scan(&n).Error; err != nil {
			return "", err
		}
		return numero.Format(numero.PrefixeDemande, n), nil
	}

	var dernier string
	err := tx.WithContext(ctx).Model(&model.DemandeAchat{}).
		Select("numero_demande_achat").
		Order("numero_demande_achat DESC").
		Limit(1).
		Scan(&dernier).Error
	if err != nil {
		return "", err
	}
	return numero.Depuis(numero.PrefixeDemande, dernier), nil
}

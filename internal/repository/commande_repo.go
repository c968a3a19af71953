package repository

import (
	"context"

	"achatshub/internal/dto"
	"achatshub/internal/model"
	"achatshub/internal/numero"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommandeRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, c *model.BonCommande) error
	UpdateTx(tx *gorm.DB, c *model.BonCommande) error
	UpdateStatutTx(tx *gorm.DB, id uuid.UUID, statut model.StatutCommande) error
	SetEnvoyeTx(tx *gorm.DB, id uuid.UUID, envoye bool) error
	DeleteLignesTx(tx *gorm.DB, commandeID uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.BonCommande, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.BonCommande, error)
	FindByNumero(ctx context.Context, numeroCommande string) (*model.BonCommande, error)
	FindByDemandeTx(tx *gorm.DB, demandeID uuid.UUID) (*model.BonCommande, error)
	FindByNumerosTx(tx *gorm.DB, numeros []string) ([]model.BonCommande, error)
	List(ctx context.Context, filter dto.CommandeFilter) ([]model.BonCommande, int64, error)
	ExportablesEnCours(ctx context.Context) ([]model.BonCommande, error)
	ProchainNumero(ctx context.Context, tx *gorm.DB) (string, error)
	DB() *gorm.DB
}

type commandeRepo struct{ db *gorm.DB }

func NewCommandeRepository(db *gorm.DB) CommandeRepository { return &commandeRepo{db: db} }

func (r *commandeRepo) DB() *gorm.DB { return r.db }

func (r *commandeRepo) CreateTx(ctx context.Context, tx *gorm.DB, c *model.BonCommande) error {
	return tx.WithContext(ctx).Create(c).Error
}

func (r *commandeRepo) UpdateTx(tx *gorm.DB, c *model.BonCommande) error {
	return tx.Save(c).Error
}

func (r *commandeRepo) UpdateStatutTx(tx *gorm.DB, id uuid.UUID, statut model.StatutCommande) error {
	return tx.Model(&model.BonCommande{}).Where("id = ?", id).Update("statut", statut).Error
}

func (r *commandeRepo) SetEnvoyeTx(tx *gorm.DB, id uuid.UUID, envoye bool) error {
	return tx.Model(&model.BonCommande{}).Where("id = ?", id).Update("envoye", envoye).Error
}

func (r *commandeRepo) DeleteLignesTx(tx *gorm.DB, commandeID uuid.UUID) error {
	return tx.Where("id_bon_commande = ?", commandeID).Delete(&model.LigneBonCommande{}).Error
}

func (r *commandeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.BonCommande, error) {
	var c model.BonCommande
	err := r.db.WithContext(ctx).
		Preload("Lignes.LigneDemande.Activite").
		Preload("DemandeAchat.Projet").
		Preload("DemandeAchat.Fournisseur").
		First(&c, "id = ?", id).Error
	return &c, err
}

func (r *commandeRepo) FindByNumero(ctx context.Context, numeroCommande string) (*model.BonCommande, error) {
	var c model.BonCommande
	err := r.db.WithContext(ctx).
		Preload("Lignes.LigneDemande.Activite").
		Preload("DemandeAchat.Projet").
		Preload("DemandeAchat.Fournisseur").
		First(&c, "numero_bon_commande = ?", numeroCommande).Error
	return &c, err
}

func (r *commandeRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.BonCommande, error) {
	var c model.BonCommande
	err := tx.First(&c, "id = ?", id).Error
	return &c, err
}

func (r *commandeRepo) FindByDemandeTx(tx *gorm.DB, demandeID uuid.UUID) (*model.BonCommande, error) {
	var c model.BonCommande
	err := tx.First(&c, "id_demande_achat = ?", demandeID).Error
	return &c, err
}

func (r *commandeRepo) FindByNumerosTx(tx *gorm.DB, numeros []string) ([]model.BonCommande, error) {
	var commandes []model.BonCommande
	err := tx.Preload("DemandeAchat").
		Where("numero_bon_commande IN ?", numeros).
		Find(&commandes).Error
	return commandes, err
}

func (r *commandeRepo) List(ctx context.Context, filter dto.CommandeFilter) ([]model.BonCommande, int64, error) {
	var commandes []model.BonCommande
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.BonCommande{})
	if filter.Statut != "" && filter.Statut != "all" {
		q = q.Where("statut = ?", filter.Statut)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("DemandeAchat.Projet").Preload("DemandeAchat.Fournisseur").
		Order("numero_bon_commande DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&commandes).Error
	return commandes, total, err
}

// ExportablesEnCours returns En cours orders with everything the Avantage
// export needs preloaded. Lines without a billable unit price are filtered
// out by the export service, not here.
func (r *commandeRepo) ExportablesEnCours(ctx context.Context) ([]model.BonCommande, error) {
	var commandes []model.BonCommande
	err := r.db.WithContext(ctx).
		Preload("Lignes.LigneDemande.Activite").
		Preload("DemandeAchat.Projet").
		Preload("DemandeAchat.Fournisseur").
		Where("statut = ?", model.CommandeEnCours).
		Order("numero_bon_commande DESC").
		Find(&commandes).Error
	return commandes, err
}

// ProchainNumero allocates the next PO number: atomic nextval() with the
// pre-migration parse-and-increment fallback, same contract as the PR side.
func (r *commandeRepo) ProchainNumero(ctx context.Context, tx *gorm.DB) (string, error) {
	var regclass *string
	if err := tx.WithContext(ctx).Raw("SELECT to_regclass('bons_commande_numero_seq')::text").Scan(&regclass).Error; err != nil {
		return "", err
	}
	if regclass != nil {
		var n int64
		if err := tx.WithContext(ctx).Raw("SELECT nextval('bons_commande_numero_seq')").Scan(&n).Error; err != nil {
			return "", err
		}
		return numero.Format(numero.PrefixeCommande, n), nil
	}

	var dernier string
	err := tx.WithContext(ctx).Model(&model.BonCommande{}).
		Select("numero_bon_commande").
		Order("numero_bon_commande DESC").
		Limit(1).
		Scan(&dernier).Error
	if err != nil {
		return "", err
	}
	return numero.Depuis(numero.PrefixeCommande, dernier), nil
}

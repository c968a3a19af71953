package repository

import (
	"context"

	"achatshub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UtilisateurRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Utilisateur, error)
	FindByEmail(ctx context.Context, email string) (*model.Utilisateur, error)
	CreateWithDefaultRole(ctx context.Context, u *model.Utilisateur, roleName string) error
	RolesOf(ctx context.Context, id uuid.UUID) ([]string, error)
	PermissionsOf(ctx context.Context, id uuid.UUID) ([]string, error)
	UpsertPermission(ctx context.Context, p *model.Permission) error
	UpsertRole(ctx context.Context, r *model.Role, actions []string) error
}

type utilisateurRepo struct{ db *gorm.DB }

func NewUtilisateurRepository(db *gorm.DB) UtilisateurRepository { return &utilisateurRepo{db: db} }

func (r *utilisateurRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Utilisateur, error) {
	var u model.Utilisateur
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *utilisateurRepo) FindByEmail(ctx context.Context, email string) (*model.Utilisateur, error) {
	var u model.Utilisateur
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	return &u, err
}

// CreateWithDefaultRole inserts a first-seen identity and attaches the
// minimal role in one transaction, so role lookups that follow always find a
// user row.
func (r *utilisateurRepo) CreateWithDefaultRole(ctx context.Context, u *model.Utilisateur, roleName string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		var role model.Role
		if err := tx.First(&role, "name = ?", roleName).Error; err != nil {
			return err
		}
		return tx.Model(u).Association("Roles").Append(&role)
	})
}

func (r *utilisateurRepo) RolesOf(ctx context.Context, id uuid.UUID) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Table("roles").
		Select("roles.name").
		Joins("JOIN roles_utilisateurs ru ON ru.role_id = roles.id").
		Where("ru.utilisateur_id = ?", id).
		Scan(&names).Error
	return names, err
}

func (r *utilisateurRepo) PermissionsOf(ctx context.Context, id uuid.UUID) ([]string, error) {
	var actions []string
	err := r.db.WithContext(ctx).
		Table("permissions").
		Select("DISTINCT permissions.action").
		Joins("JOIN permissions_roles pr ON pr.permission_id = permissions.id").
		Joins("JOIN roles_utilisateurs ru ON ru.role_id = pr.role_id").
		Where("ru.utilisateur_id = ?", id).
		Scan(&actions).Error
	return actions, err
}

func (r *utilisateurRepo) UpsertPermission(ctx context.Context, p *model.Permission) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "action"}},
		DoUpdates: clause.AssignmentColumns([]string{"description", "updated_at"}),
	}).Create(p).Error
}

// UpsertRole creates or updates a role and resets its permission set to the
// given actions ("*" expands to every known permission).
func (r *utilisateurRepo) UpsertRole(ctx context.Context, role *model.Role, actions []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"description", "updated_at"}),
		}).Create(role).Error; err != nil {
			return err
		}
		if err := tx.First(role, "name = ?", role.Name).Error; err != nil {
			return err
		}

		var perms []model.Permission
		q := tx.Model(&model.Permission{})
		if !(len(actions) == 1 && actions[0] == model.PermissionToutes) {
			q = q.Where("action IN ?", actions)
		}
		if err := q.Find(&perms).Error; err != nil {
			return err
		}
		return tx.Model(role).Association("Permissions").Replace(&perms)
	})
}

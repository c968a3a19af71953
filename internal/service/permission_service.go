package service

import (
	"context"
	"errors"

	"achatshub/internal/model"
	"achatshub/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// RoleParDefaut is attached to identities on first sight so that a new hire
// can at least open the app before an admin assigns real roles.
const RoleParDefaut = "adjointe_projet"

type PermissionService interface {
	EnsureUtilisateur(ctx context.Context, email string) (*model.Utilisateur, error)
	ResolveRoles(ctx context.Context, email string) []string
	ResolvePermissions(ctx context.Context, email string) []string
	HasPermission(ctx context.Context, email, action string) bool
	SeedRolesEtPermissions(ctx context.Context) error
}

type permissionService struct {
	repo repository.UtilisateurRepository
}

func NewPermissionService(repo repository.UtilisateurRepository) PermissionService {
	return &permissionService{repo: repo}
}

// EnsureUtilisateur returns the user row for an authenticated email, lazily
// inserting it with the default role the first time the identity shows up.
func (s *permissionService) EnsureUtilisateur(ctx context.Context, email string) (*model.Utilisateur, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	nouveau := &model.Utilisateur{Email: email}
	if err := s.repo.CreateWithDefaultRole(ctx, nouveau, RoleParDefaut); err != nil {
		return nil, err
	}
	return nouveau, nil
}

// ResolveRoles returns the role names of an email. Lookup failures resolve to
// the empty set: an authorization check must never grant on error, and a
// half-broken DB should degrade to "no access", not a 500 on every page.
func (s *permissionService) ResolveRoles(ctx context.Context, email string) []string {
	u, err := s.EnsureUtilisateur(ctx, email)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("résolution des rôles: utilisateur introuvable")
		return nil
	}
	roles, err := s.repo.RolesOf(ctx, u.ID)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("résolution des rôles: lecture impossible")
		return nil
	}
	return roles
}

// ResolvePermissions returns the union of actions over the email's roles,
// deduplicated. Same empty-set-on-error policy as ResolveRoles.
func (s *permissionService) ResolvePermissions(ctx context.Context, email string) []string {
	u, err := s.EnsureUtilisateur(ctx, email)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("résolution des permissions: utilisateur introuvable")
		return nil
	}
	perms, err := s.repo.PermissionsOf(ctx, u.ID)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("résolution des permissions: lecture impossible")
		return nil
	}
	return perms
}

// HasPermission is the single yes/no gate: true when the user holds action
// or the wildcard.
func (s *permissionService) HasPermission(ctx context.Context, email, action string) bool {
	for _, p := range s.ResolvePermissions(ctx, email) {
		if p == action || p == model.PermissionToutes {
			return true
		}
	}
	return false
}

// Known actions. Route guards reference these constants, never raw strings.
// "aprobation" garde l'orthographe historique de la base existante.
const (
	PermDemandeCreer    = "create:pr"
	PermDemandeLire     = "read:pr"
	PermDemandeModifier = "update:pr"
	PermApprobation     = "pr:aprobation"

	PermCommandeLire     = "po:read"
	PermCommandeCreer    = "po:create"
	PermCommandeModifier = "po:update"
	PermCommandeAnnuler  = "po:cancel"
	PermCommandeEnvoyer  = "po:envoi"
	PermExporter         = "po:export"

	PermProjetLire     = "projects:read"
	PermProjetCreer    = "projects:create"
	PermProjetModifier = "projects:update"

	PermFournisseurLire      = "suppliers:read"
	PermFournisseurCreer     = "suppliers:create"
	PermFournisseurModifier  = "suppliers:update"
	PermFournisseurSupprimer = "suppliers:delete"
	PermFournisseurImporter  = "suppliers:import"
)

var toutesActions = []string{
	PermDemandeCreer, PermDemandeLire, PermDemandeModifier, PermApprobation,
	PermCommandeLire, PermCommandeCreer, PermCommandeModifier,
	PermCommandeAnnuler, PermCommandeEnvoyer, PermExporter,
	PermProjetLire, PermProjetCreer, PermProjetModifier,
	PermFournisseurLire, PermFournisseurCreer, PermFournisseurModifier,
	PermFournisseurSupprimer, PermFournisseurImporter,
}

// rolesSeed maps each role to its action set. "*" expands to everything.
// L'annulation, la suppression de fournisseurs et l'import CSV restent
// réservés au joker admin.
var rolesSeed = map[string][]string{
	"admin": {model.PermissionToutes},
	"directeur_projet": {
		PermDemandeCreer, PermDemandeLire, PermDemandeModifier, PermApprobation,
		PermCommandeLire, PermCommandeCreer, PermCommandeModifier,
		PermCommandeAnnuler, PermCommandeEnvoyer, PermExporter,
		PermProjetLire, PermProjetCreer, PermProjetModifier,
		PermFournisseurLire, PermFournisseurCreer, PermFournisseurModifier,
	},
	"gestionnaire_projet": {
		PermDemandeCreer, PermDemandeLire, PermDemandeModifier, PermApprobation,
		PermCommandeLire, PermCommandeCreer, PermCommandeEnvoyer,
		PermProjetLire, PermProjetModifier,
		PermFournisseurLire, PermFournisseurCreer,
	},
	"coordonateur_projet": {
		PermDemandeCreer, PermDemandeLire, PermDemandeModifier,
		PermCommandeLire,
		PermProjetLire, PermProjetModifier,
		PermFournisseurLire,
	},
	RoleParDefaut: {
		PermDemandeCreer, PermDemandeLire,
		PermCommandeLire, PermProjetLire, PermFournisseurLire,
	},
}

// SeedRolesEtPermissions upserts the permission catalog and the standard
// roles. Runs at startup; safe to run on every boot.
func (s *permissionService) SeedRolesEtPermissions(ctx context.Context) error {
	for _, action := range append(toutesActions, model.PermissionToutes) {
		if err := s.repo.UpsertPermission(ctx, &model.Permission{Action: action}); err != nil {
			return err
		}
	}
	for name, actions := range rolesSeed {
		if err := s.repo.UpsertRole(ctx, &model.Role{Name: name}, actions); err != nil {
			return err
		}
	}
	return nil
}

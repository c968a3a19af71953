package service

import (
	"context"
	"testing"

	"achatshub/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompte(t *testing.T) {
	repo := newStubUtilisateurRepo()
	repo.seedUtilisateur("gest@example.com", []string{"gestionnaire_projet"},
		[]string{PermDemandeCreer, PermDemandeLire, PermApprobation})
	svc := NewAuthService(repo, NewPermissionService(repo), &config.Config{})

	// Roles and permissions are independent reads and resolve concurrently;
	// the response still carries both.
	resp, err := svc.Compte(context.Background(), "gest@example.com")
	require.NoError(t, err)
	assert.Equal(t, "gest@example.com", resp.Email)
	assert.Equal(t, []string{"gestionnaire_projet"}, resp.Roles)
	assert.ElementsMatch(t,
		[]string{PermDemandeCreer, PermDemandeLire, PermApprobation},
		resp.Permissions)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"achatshub/internal/apierror"
	"achatshub/internal/dto"
	"achatshub/internal/model"
	"achatshub/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrFournisseurIntrouvable = errors.New("fournisseur introuvable")

type FournisseurService interface {
	Creer(ctx context.Context, req dto.FournisseurRequest) (*dto.FournisseurResponse, error)
	Modifier(ctx context.Context, id uuid.UUID, req dto.FournisseurRequest) (*dto.FournisseurResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.FournisseurResponse, error)
	List(ctx context.Context) ([]dto.FournisseurResponse, error)
	Supprimer(ctx context.Context, id uuid.UUID) error
	ImporterCSV(ctx context.Context, contenu string) (*dto.CSVImportResponse, error)
}

type fournisseurService struct {
	repo repository.FournisseurRepository
}

func NewFournisseurService(repo repository.FournisseurRepository) FournisseurService {
	return &fournisseurService{repo: repo}
}

func (s *fournisseurService) Creer(ctx context.Context, req dto.FournisseurRequest) (*dto.FournisseurResponse, error) {
	if _, err := s.repo.FindByNumero(ctx, req.NumeroFournisseur); err == nil {
		return nil, fmt.Errorf("le fournisseur %s existe déjà", req.NumeroFournisseur)
	}
	f := fournisseurFromRequest(req)
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	return fournisseurToResponse(f), nil
}

func (s *fournisseurService) Modifier(ctx context.Context, id uuid.UUID, req dto.FournisseurRequest) (*dto.FournisseurResponse, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrFournisseurIntrouvable
	}
	maj := fournisseurFromRequest(req)
	maj.ID = f.ID
	maj.CreatedAt = f.CreatedAt
	if err := s.repo.Update(ctx, maj); err != nil {
		return nil, err
	}
	return fournisseurToResponse(maj), nil
}

func (s *fournisseurService) Get(ctx context.Context, id uuid.UUID) (*dto.FournisseurResponse, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrFournisseurIntrouvable
	}
	return fournisseurToResponse(f), nil
}

func (s *fournisseurService) List(ctx context.Context) ([]dto.FournisseurResponse, error) {
	fournisseurs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FournisseurResponse, 0, len(fournisseurs))
	for _, f := range fournisseurs {
		out = append(out, *fournisseurToResponse(&f))
	}
	return out, nil
}

func (s *fournisseurService) Supprimer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrFournisseurIntrouvable
	}
	return s.repo.Delete(ctx, id)
}

// ── ImporterCSV ───────────────────────────────────────────────────────────────
// Semicolon-delimited, header row first. Every bad row is accumulated and the
// whole file is rejected in one report, so the user fixes the file in a single
// pass. Unknown columns only warn. Valid files apply atomically: known
// supplier numbers are updated, new ones inserted.

var colonnesConnues = []string{
	"numero_fournisseur",
	"nom_fournisseur",
	"adresse_ligne1",
	"ville",
	"code_postal",
	"telephone1",
	"poste_telephone1",
	"telephone2",
	"telecopieur",
	"telephone_autre",
	"nom_responsable",
}

func (s *fournisseurService) ImporterCSV(ctx context.Context, contenu string) (*dto.CSVImportResponse, error) {
	contenu = strings.TrimPrefix(contenu, "\ufeff")
	contenu = strings.ReplaceAll(contenu, "\r\n", "\n")

	var lignes []string
	for _, l := range strings.Split(contenu, "\n") {
		if strings.TrimSpace(l) != "" {
			lignes = append(lignes, l)
		}
	}
	if len(lignes) < 2 {
		return nil, errors.New("le fichier CSV est vide")
	}

	entetes := strings.Split(lignes[0], ";")
	for i := range entetes {
		entetes[i] = strings.ToLower(strings.TrimSpace(entetes[i]))
	}

	colNumero := -1
	var warnings []string
	for i, h := range entetes {
		if h == "numero_fournisseur" {
			colNumero = i
		}
		connu := false
		for _, c := range colonnesConnues {
			if h == c {
				connu = true
				break
			}
		}
		if !connu {
			warnings = append(warnings, fmt.Sprintf("Colonnes non reconnues: %s", h))
		}
	}
	if colNumero < 0 {
		return nil, errors.New("colonne requise manquante: numero_fournisseur")
	}

	var nouveaux []*model.Fournisseur
	var misesAJour []*model.Fournisseur
	var erreurs []string

	for i := 1; i < len(lignes); i++ {
		valeurs := strings.Split(lignes[i], ";")
		if len(valeurs) != len(entetes) {
			erreurs = append(erreurs, fmt.Sprintf(
				"Ligne %d: Nombre de colonnes incorrect (attendu: %d, reçu: %d)",
				i+1, len(entetes), len(valeurs)))
			continue
		}

		champs := map[string]string{}
		for j, h := range entetes {
			v := strings.TrimSpace(valeurs[j])
			if v != "" {
				champs[h] = v
			}
		}

		numero := champs["numero_fournisseur"]
		if numero == "" {
			erreurs = append(erreurs, fmt.Sprintf("Ligne %d: Numéro de fournisseur manquant", i+1))
			continue
		}
		if len(numero) != 10 {
			erreurs = append(erreurs, fmt.Sprintf("Ligne %d: Le numéro de fournisseur doit avoir 10 caractères", i+1))
			continue
		}

		f := &model.Fournisseur{
			NumeroFournisseur: numero,
			NomFournisseur:    champOptionnel(champs, "nom_fournisseur"),
			AdresseLigne1:     champOptionnel(champs, "adresse_ligne1"),
			Ville:             champOptionnel(champs, "ville"),
			CodePostal:        champOptionnel(champs, "code_postal"),
			Telephone1:        champOptionnel(champs, "telephone1"),
			PosteTelephone1:   champOptionnel(champs, "poste_telephone1"),
			Telephone2:        champOptionnel(champs, "telephone2"),
			Telecopieur:       champOptionnel(champs, "telecopieur"),
			TelephoneAutre:    champOptionnel(champs, "telephone_autre"),
			NomResponsable:    champOptionnel(champs, "nom_responsable"),
		}

		existant, err := s.repo.FindByNumero(ctx, numero)
		if err == nil {
			f.ID = existant.ID
			f.CreatedAt = existant.CreatedAt
			misesAJour = append(misesAJour, f)
		} else {
			nouveaux = append(nouveaux, f)
		}
	}

	if len(erreurs) > 0 {
		return nil, apierror.NewImport(warnings, erreurs)
	}
	if len(nouveaux) == 0 && len(misesAJour) == 0 {
		return nil, errors.New("aucun fournisseur valide à importer")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, f := range nouveaux {
			if err := s.repo.CreateTx(tx, f); err != nil {
				return err
			}
		}
		for _, f := range misesAJour {
			if err := s.repo.UpdateTx(tx, f); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.CSVImportResponse{
		Imported: len(nouveaux),
		Updated:  len(misesAJour),
		Warnings: warnings,
	}, nil
}

func champOptionnel(champs map[string]string, cle string) *string {
	v, ok := champs[cle]
	if !ok {
		return nil
	}
	return &v
}

func fournisseurFromRequest(req dto.FournisseurRequest) *model.Fournisseur {
	return &model.Fournisseur{
		NumeroFournisseur: req.NumeroFournisseur,
		NomFournisseur:    req.NomFournisseur,
		AdresseLigne1:     req.AdresseLigne1,
		Ville:             req.Ville,
		CodePostal:        req.CodePostal,
		Telephone1:        req.Telephone1,
		PosteTelephone1:   req.PosteTelephone1,
		Telephone2:        req.Telephone2,
		Telecopieur:       req.Telecopieur,
		TelephoneAutre:    req.TelephoneAutre,
		NomResponsable:    req.NomResponsable,
	}
}

func fournisseurToResponse(f *model.Fournisseur) *dto.FournisseurResponse {
	return &dto.FournisseurResponse{
		ID:                f.ID.String(),
		NumeroFournisseur: f.NumeroFournisseur,
		NomFournisseur:    f.NomFournisseur,
		AdresseLigne1:     f.AdresseLigne1,
		Ville:             f.Ville,
		CodePostal:        f.CodePostal,
		Telephone1:        f.Telephone1,
		PosteTelephone1:   f.PosteTelephone1,
		Telephone2:        f.Telephone2,
		Telecopieur:       f.Telecopieur,
		TelephoneAutre:    f.TelephoneAutre,
		NomResponsable:    f.NomResponsable,
	}
}

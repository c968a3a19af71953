package service

import (
	"context"
	"sort"
	"strings"

	"achatshub/internal/dto"
	"achatshub/internal/model"
	"achatshub/internal/numero"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository stubs. The services run their transactions through
// runTx, which short-circuits to fn(nil) when DB() returns nil, so the stubs
// never see a real *gorm.DB.

// ── DemandeRepository ─────────────────────────────────────────────────────────

type stubDemandeRepo struct {
	demandes map[uuid.UUID]*model.DemandeAchat
	compteur int64
}

func newStubDemandeRepo() *stubDemandeRepo {
	return &stubDemandeRepo{demandes: make(map[uuid.UUID]*model.DemandeAchat)}
}

func (r *stubDemandeRepo) DB() *gorm.DB { return nil }

func (r *stubDemandeRepo) CreateTx(_ context.Context, _ *gorm.DB, d *model.DemandeAchat) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	for i := range d.Lignes {
		if d.Lignes[i].ID == uuid.Nil {
			d.Lignes[i].ID = uuid.New()
		}
		d.Lignes[i].IDDemandeAchat = d.ID
	}
	for i := range d.PiecesJointes {
		if d.PiecesJointes[i].ID == uuid.Nil {
			d.PiecesJointes[i].ID = uuid.New()
		}
		d.PiecesJointes[i].IDDemandeAchat = d.ID
	}
	r.demandes[d.ID] = d
	return nil
}

func (r *stubDemandeRepo) UpdateTx(_ *gorm.DB, d *model.DemandeAchat) error {
	if existant, ok := r.demandes[d.ID]; ok {
		// Save with nil associations leaves the child rows alone.
		if d.Lignes == nil {
			d.Lignes = existant.Lignes
		}
		if d.PiecesJointes == nil {
			d.PiecesJointes = existant.PiecesJointes
		}
	}
	r.demandes[d.ID] = d
	return nil
}

func (r *stubDemandeRepo) UpdateStatutTx(_ *gorm.DB, id uuid.UUID, statut model.StatutDemande) error {
	d, ok := r.demandes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	d.Statut = statut
	return nil
}

// FindByID hands out a copy, like a fresh gorm read would. The service is
// free to mutate it (Modifier nils the associations before Update) without
// touching the stored row.
func (r *stubDemandeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.DemandeAchat, error) {
	d, ok := r.demandes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *d
	cp.Lignes = append([]model.LigneDemandeAchat(nil), d.Lignes...)
	cp.PiecesJointes = append([]model.PieceJointe(nil), d.PiecesJointes...)
	return &cp, nil
}

func (r *stubDemandeRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.DemandeAchat, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubDemandeRepo) FindByNumero(_ context.Context, numeroDemande string) (*model.DemandeAchat, error) {
	for _, d := range r.demandes {
		if d.NumeroDemandeAchat == numeroDemande {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubDemandeRepo) List(_ context.Context, filter dto.DemandeFilter) ([]model.DemandeAchat, int64, error) {
	var out []model.DemandeAchat
	for _, d := range r.demandes {
		if filter.Statut != "" && filter.Statut != "all" && string(d.Statut) != filter.Statut {
			continue
		}
		if filter.Demandeur != "" && (d.Demandeur == nil || *d.Demandeur != filter.Demandeur) {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].NumeroDemandeAchat > out[j].NumeroDemandeAchat
	})
	return out, int64(len(out)), nil
}

func (r *stubDemandeRepo) CreateLigneTx(_ *gorm.DB, l *model.LigneDemandeAchat) error {
	d, ok := r.demandes[l.IDDemandeAchat]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	d.Lignes = append(d.Lignes, *l)
	return nil
}

func (r *stubDemandeRepo) UpdateLigneTx(_ *gorm.DB, l *model.LigneDemandeAchat) error {
	d, ok := r.demandes[l.IDDemandeAchat]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range d.Lignes {
		if d.Lignes[i].ID == l.ID {
			d.Lignes[i].DescriptionArticle = l.DescriptionArticle
			d.Lignes[i].Quantite = l.Quantite
			d.Lignes[i].PrixUnitaireEstime = l.PrixUnitaireEstime
			d.Lignes[i].CommentaireLigne = l.CommentaireLigne
			d.Lignes[i].IDActivite = l.IDActivite
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubDemandeRepo) DeleteLignesTx(_ *gorm.DB, demandeID uuid.UUID, ids []uuid.UUID) error {
	d, ok := r.demandes[demandeID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	garde := d.Lignes[:0]
	for _, l := range d.Lignes {
		supprime := false
		for _, id := range ids {
			if l.ID == id {
				supprime = true
				break
			}
		}
		if !supprime {
			garde = append(garde, l)
		}
	}
	d.Lignes = garde
	return nil
}

func (r *stubDemandeRepo) LignesTx(_ *gorm.DB, demandeID uuid.UUID) ([]model.LigneDemandeAchat, error) {
	d, ok := r.demandes[demandeID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return d.Lignes, nil
}

func (r *stubDemandeRepo) ReplacePiecesJointesTx(_ *gorm.DB, demandeID uuid.UUID, pieces []model.PieceJointe) error {
	d, ok := r.demandes[demandeID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	d.PiecesJointes = pieces
	return nil
}

func (r *stubDemandeRepo) ProchainNumero(_ context.Context, _ *gorm.DB) (string, error) {
	r.compteur++
	return numero.Format(numero.PrefixeDemande, r.compteur), nil
}

// ── CommandeRepository ────────────────────────────────────────────────────────

type stubCommandeRepo struct {
	commandes map[uuid.UUID]*model.BonCommande
	compteur  int64
}

func newStubCommandeRepo() *stubCommandeRepo {
	return &stubCommandeRepo{commandes: make(map[uuid.UUID]*model.BonCommande)}
}

func (r *stubCommandeRepo) DB() *gorm.DB { return nil }

func (r *stubCommandeRepo) CreateTx(_ context.Context, _ *gorm.DB, c *model.BonCommande) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	for i := range c.Lignes {
		if c.Lignes[i].ID == uuid.Nil {
			c.Lignes[i].ID = uuid.New()
		}
		c.Lignes[i].IDBonCommande = c.ID
	}
	r.commandes[c.ID] = c
	return nil
}

func (r *stubCommandeRepo) UpdateTx(_ *gorm.DB, c *model.BonCommande) error {
	for i := range c.Lignes {
		if c.Lignes[i].ID == uuid.Nil {
			c.Lignes[i].ID = uuid.New()
		}
		c.Lignes[i].IDBonCommande = c.ID
	}
	r.commandes[c.ID] = c
	return nil
}

func (r *stubCommandeRepo) UpdateStatutTx(_ *gorm.DB, id uuid.UUID, statut model.StatutCommande) error {
	c, ok := r.commandes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Statut = statut
	return nil
}

func (r *stubCommandeRepo) SetEnvoyeTx(_ *gorm.DB, id uuid.UUID, envoye bool) error {
	c, ok := r.commandes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Envoye = envoye
	return nil
}

func (r *stubCommandeRepo) DeleteLignesTx(_ *gorm.DB, commandeID uuid.UUID) error {
	c, ok := r.commandes[commandeID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Lignes = nil
	return nil
}

func (r *stubCommandeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.BonCommande, error) {
	c, ok := r.commandes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCommandeRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.BonCommande, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubCommandeRepo) FindByNumero(_ context.Context, numeroCommande string) (*model.BonCommande, error) {
	for _, c := range r.commandes {
		if c.NumeroBonCommande == numeroCommande {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCommandeRepo) FindByDemandeTx(_ *gorm.DB, demandeID uuid.UUID) (*model.BonCommande, error) {
	for _, c := range r.commandes {
		if c.IDDemandeAchat == demandeID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCommandeRepo) FindByNumerosTx(_ *gorm.DB, numeros []string) ([]model.BonCommande, error) {
	var out []model.BonCommande
	for _, n := range numeros {
		for _, c := range r.commandes {
			if c.NumeroBonCommande == n {
				out = append(out, *c)
			}
		}
	}
	return out, nil
}

func (r *stubCommandeRepo) List(_ context.Context, filter dto.CommandeFilter) ([]model.BonCommande, int64, error) {
	var out []model.BonCommande
	for _, c := range r.commandes {
		if filter.Statut != "" && filter.Statut != "all" && string(c.Statut) != filter.Statut {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].NumeroBonCommande > out[j].NumeroBonCommande
	})
	return out, int64(len(out)), nil
}

func (r *stubCommandeRepo) ExportablesEnCours(_ context.Context) ([]model.BonCommande, error) {
	var out []model.BonCommande
	for _, c := range r.commandes {
		if c.Statut == model.CommandeEnCours {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].NumeroBonCommande > out[j].NumeroBonCommande
	})
	return out, nil
}

func (r *stubCommandeRepo) ProchainNumero(_ context.Context, _ *gorm.DB) (string, error) {
	r.compteur++
	return numero.Format(numero.PrefixeCommande, r.compteur), nil
}

// ── AuditRepository ───────────────────────────────────────────────────────────

type stubAuditRepo struct {
	entries []model.AuditLog
}

func newStubAuditRepo() *stubAuditRepo { return &stubAuditRepo{} }

func (r *stubAuditRepo) CreateTx(_ *gorm.DB, entry *model.AuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *stubAuditRepo) ListForDemande(_ context.Context, demandeID uuid.UUID) ([]model.AuditLog, error) {
	var out []model.AuditLog
	for _, e := range r.entries {
		if e.IDDemandeAchat != nil && *e.IDDemandeAchat == demandeID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *stubAuditRepo) ListForCommande(_ context.Context, commandeID uuid.UUID) ([]model.AuditLog, error) {
	var out []model.AuditLog
	for _, e := range r.entries {
		if e.IDBonCommande != nil && *e.IDBonCommande == commandeID {
			out = append(out, e)
		}
	}
	return out, nil
}

// actions returns the action names in insertion order, for assertions.
func (r *stubAuditRepo) actions() []string {
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

// ── FournisseurRepository ─────────────────────────────────────────────────────

type stubFournisseurRepo struct {
	fournisseurs map[uuid.UUID]*model.Fournisseur
}

func newStubFournisseurRepo() *stubFournisseurRepo {
	return &stubFournisseurRepo{fournisseurs: make(map[uuid.UUID]*model.Fournisseur)}
}

func (r *stubFournisseurRepo) DB() *gorm.DB { return nil }

func (r *stubFournisseurRepo) Create(_ context.Context, f *model.Fournisseur) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	r.fournisseurs[f.ID] = f
	return nil
}

func (r *stubFournisseurRepo) CreateTx(_ *gorm.DB, f *model.Fournisseur) error {
	return r.Create(context.Background(), f)
}

func (r *stubFournisseurRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Fournisseur, error) {
	f, ok := r.fournisseurs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return f, nil
}

func (r *stubFournisseurRepo) FindByNumero(_ context.Context, numeroFournisseur string) (*model.Fournisseur, error) {
	for _, f := range r.fournisseurs {
		if f.NumeroFournisseur == numeroFournisseur {
			return f, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubFournisseurRepo) List(_ context.Context) ([]model.Fournisseur, error) {
	out := make([]model.Fournisseur, 0, len(r.fournisseurs))
	for _, f := range r.fournisseurs {
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].NumeroFournisseur < out[j].NumeroFournisseur
	})
	return out, nil
}

func (r *stubFournisseurRepo) Update(_ context.Context, f *model.Fournisseur) error {
	r.fournisseurs[f.ID] = f
	return nil
}

func (r *stubFournisseurRepo) UpdateTx(_ *gorm.DB, f *model.Fournisseur) error {
	return r.Update(context.Background(), f)
}

func (r *stubFournisseurRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.fournisseurs, id)
	return nil
}

// ── ProjetRepository ──────────────────────────────────────────────────────────

type stubProjetRepo struct {
	projets map[uuid.UUID]*model.Projet
}

func newStubProjetRepo() *stubProjetRepo {
	return &stubProjetRepo{projets: make(map[uuid.UUID]*model.Projet)}
}

func (r *stubProjetRepo) Create(_ context.Context, p *model.Projet) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.projets[p.ID] = p
	return nil
}

func (r *stubProjetRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Projet, error) {
	p, ok := r.projets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProjetRepo) FindByNumero(_ context.Context, numeroProjet string) (*model.Projet, error) {
	for _, p := range r.projets {
		if p.NumeroProjet == numeroProjet {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProjetRepo) List(_ context.Context) ([]model.Projet, error) {
	out := make([]model.Projet, 0, len(r.projets))
	for _, p := range r.projets {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NumeroProjet < out[j].NumeroProjet })
	return out, nil
}

func (r *stubProjetRepo) Update(_ context.Context, p *model.Projet) error {
	r.projets[p.ID] = p
	return nil
}

func (r *stubProjetRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.projets, id)
	return nil
}

// ── ActiviteRepository ────────────────────────────────────────────────────────

type stubActiviteRepo struct {
	activites map[uuid.UUID]*model.Activite
}

func newStubActiviteRepo() *stubActiviteRepo {
	return &stubActiviteRepo{activites: make(map[uuid.UUID]*model.Activite)}
}

func (r *stubActiviteRepo) Create(_ context.Context, a *model.Activite) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.activites[a.ID] = a
	return nil
}

func (r *stubActiviteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Activite, error) {
	a, ok := r.activites[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *stubActiviteRepo) ListValides(_ context.Context) ([]model.Activite, error) {
	var out []model.Activite
	for _, a := range r.activites {
		if a.Valid {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NumeroActivite < out[j].NumeroActivite })
	return out, nil
}

// ── UtilisateurRepository ─────────────────────────────────────────────────────

type stubUtilisateurRepo struct {
	users        map[string]*model.Utilisateur // by email
	rolesParID   map[uuid.UUID][]string
	permsParID   map[uuid.UUID][]string
	permsParRole map[string][]string
	pannePerms   bool

	permissionsCatalogue []string
	rolesCatalogue       map[string][]string
}

func newStubUtilisateurRepo() *stubUtilisateurRepo {
	return &stubUtilisateurRepo{
		users:          make(map[string]*model.Utilisateur),
		rolesParID:     make(map[uuid.UUID][]string),
		permsParID:     make(map[uuid.UUID][]string),
		permsParRole:   make(map[string][]string),
		rolesCatalogue: make(map[string][]string),
	}
}

func (r *stubUtilisateurRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Utilisateur, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUtilisateurRepo) FindByEmail(_ context.Context, email string) (*model.Utilisateur, error) {
	u, ok := r.users[strings.ToLower(email)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUtilisateurRepo) CreateWithDefaultRole(_ context.Context, u *model.Utilisateur, roleName string) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[strings.ToLower(u.Email)] = u
	r.rolesParID[u.ID] = []string{roleName}
	r.permsParID[u.ID] = r.permsParRole[roleName]
	return nil
}

func (r *stubUtilisateurRepo) RolesOf(_ context.Context, id uuid.UUID) ([]string, error) {
	return r.rolesParID[id], nil
}

func (r *stubUtilisateurRepo) PermissionsOf(_ context.Context, id uuid.UUID) ([]string, error) {
	if r.pannePerms {
		return nil, gorm.ErrInvalidDB
	}
	return r.permsParID[id], nil
}

func (r *stubUtilisateurRepo) UpsertPermission(_ context.Context, p *model.Permission) error {
	r.permissionsCatalogue = append(r.permissionsCatalogue, p.Action)
	return nil
}

func (r *stubUtilisateurRepo) UpsertRole(_ context.Context, role *model.Role, actions []string) error {
	r.rolesCatalogue[role.Name] = actions
	return nil
}

// seedUtilisateur registers an existing identity with explicit permissions.
func (r *stubUtilisateurRepo) seedUtilisateur(email string, roles, perms []string) *model.Utilisateur {
	u := &model.Utilisateur{ID: uuid.New(), Email: email}
	r.users[strings.ToLower(email)] = u
	r.rolesParID[u.ID] = roles
	r.permsParID[u.ID] = perms
	return u
}

// ── PDFComposer / Mailer ──────────────────────────────────────────────────────

type stubPDF struct {
	rendus int
}

func (p *stubPDF) Composer(_ context.Context, c *model.BonCommande) ([]byte, error) {
	p.rendus++
	return []byte("%PDF " + c.NumeroBonCommande), nil
}

type envoi struct {
	to         []string
	sujet      string
	nomFichier string
}

type stubMailer struct {
	envois []envoi
}

func (m *stubMailer) Envoyer(to []string, sujet, _ string, _ []byte, nomFichier string) error {
	m.envois = append(m.envois, envoi{to: to, sujet: sujet, nomFichier: nomFichier})
	return nil
}

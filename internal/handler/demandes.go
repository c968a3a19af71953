package handler

import (
	"net/http"

	"achatshub/internal/apierror"
	"achatshub/internal/dto"
	"achatshub/internal/middleware"
	"achatshub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DemandesHandler struct {
	svc      service.DemandeService
	workflow service.WorkflowService
}

func NewDemandesHandler(svc service.DemandeService, workflow service.WorkflowService) *DemandesHandler {
	return &DemandesHandler{svc: svc, workflow: workflow}
}

// Creer godoc
// @Summary      Créer une demande d'achat
// @Description  Crée une demande avec ses lignes; soumettre=true la place directement en attente d'approbation.
// @Tags         demandes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreerDemandeRequest true "Demande"
// @Success      201  {object} dto.DemandeResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/demandes [post]
func (h *DemandesHandler) Creer(c *gin.Context) {
	var req dto.CreerDemandeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Creer(c.Request.Context(), middleware.GetEmail(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Modifier godoc
// @Summary      Modifier une demande d'achat
// @Description  Modifiable en Brouillon ou Refusé seulement. Les lignes changent par groupes create/update/delete.
// @Tags         demandes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la demande"
// @Param        body body dto.ModifierDemandeRequest true "Champs à modifier"
// @Success      200  {object} dto.DemandeResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/demandes/{id} [patch]
func (h *DemandesHandler) Modifier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var req dto.ModifierDemandeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Modifier(c.Request.Context(), id, middleware.GetEmail(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get retourne une demande par UUID.
func (h *DemandesHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByNumero retourne une demande par son numéro (PR-000-001).
func (h *DemandesHandler) GetByNumero(c *gin.Context) {
	resp, err := h.svc.GetByNumero(c.Request.Context(), c.Param("numero"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      Lister les demandes d'achat
// @Tags         demandes
// @Produce      json
// @Security     BearerAuth
// @Param        statut    query string false "Statut ou all"
// @Param        demandeur query string false "Courriel du demandeur"
// @Param        page      query int    false "Page (défaut 1)"
// @Param        limit     query int    false "Par page (défaut 50)"
// @Success      200 {object} dto.DemandeListResponse
// @Router       /v1/demandes [get]
func (h *DemandesHandler) List(c *gin.Context) {
	var filter dto.DemandeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors de la lecture des demandes"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historique liste les entrées d'audit d'une demande.
func (h *DemandesHandler) Historique(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	resp, err := h.svc.Historique(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors de la lecture de l'historique"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// FormData retourne projets, fournisseurs et activités pour le formulaire.
func (h *DemandesHandler) FormData(c *gin.Context) {
	resp, err := h.svc.FormData(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors de la lecture des données de référence"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Workflow ──────────────────────────────────────────────────────────────────

func (h *DemandesHandler) transition(c *gin.Context, fn func(uuid.UUID, string) (*dto.DemandeResponse, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	resp, err := fn(id, middleware.GetEmail(c))
	if err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Soumettre passe un Brouillon en attente d'approbation N1.
func (h *DemandesHandler) Soumettre(c *gin.Context) {
	h.transition(c, func(id uuid.UUID, email string) (*dto.DemandeResponse, error) {
		return h.workflow.Soumettre(c.Request.Context(), id, email)
	})
}

// ApprouverN1 approuve au premier niveau.
func (h *DemandesHandler) ApprouverN1(c *gin.Context) {
	h.transition(c, func(id uuid.UUID, email string) (*dto.DemandeResponse, error) {
		return h.workflow.ApprouverN1(c.Request.Context(), id, email)
	})
}

// ApprouverN2 godoc
// @Summary      Approbation finale
// @Description  Approuve au second niveau et émet (ou réémet) le bon de commande dans la même transaction.
// @Tags         demandes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la demande"
// @Success      200 {object} dto.DemandeResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/demandes/{id}/approuver-n2 [post]
func (h *DemandesHandler) ApprouverN2(c *gin.Context) {
	h.transition(c, func(id uuid.UUID, email string) (*dto.DemandeResponse, error) {
		return h.workflow.ApprouverN2(c.Request.Context(), id, email)
	})
}

// Refuser refuse une demande en attente, avec motif facultatif.
func (h *DemandesHandler) Refuser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var req dto.RefuserDemandeRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalide: "+err.Error()))
		return
	}
	resp, err := h.workflow.Refuser(c.Request.Context(), id, middleware.GetEmail(c), req.Motif)
	if err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Resoumettre replace une demande refusée dans le circuit d'approbation.
func (h *DemandesHandler) Resoumettre(c *gin.Context) {
	h.transition(c, func(id uuid.UUID, email string) (*dto.DemandeResponse, error) {
		return h.workflow.Resoumettre(c.Request.Context(), id, email)
	})
}

package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"unicode"

	"achatshub/internal/apierror"
	"achatshub/internal/dto"
	"achatshub/internal/middleware"
	"achatshub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

type CommandesHandler struct {
	svc      service.CommandeService
	workflow service.WorkflowService
}

func NewCommandesHandler(svc service.CommandeService, workflow service.WorkflowService) *CommandesHandler {
	return &CommandesHandler{svc: svc, workflow: workflow}
}

// List godoc
// @Summary      Lister les bons de commande
// @Tags         commandes
// @Produce      json
// @Security     BearerAuth
// @Param        statut query string false "Statut ou all"
// @Param        page   query int    false "Page (défaut 1)"
// @Param        limit  query int    false "Par page (défaut 50)"
// @Success      200 {object} dto.CommandeListResponse
// @Router       /v1/commandes [get]
func (h *CommandesHandler) List(c *gin.Context) {
	var filter dto.CommandeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors de la lecture des bons de commande"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get retourne un bon de commande par UUID.
func (h *CommandesHandler) Get(c *gin.Context) {
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

// GetByNumero retourne un bon de commande par son numéro (PO-000-001).
func (h *CommandesHandler) GetByNumero(c *gin.Context) {
	resp, err := h.svc.GetByNumero(c.Request.Context(), c.Param("numero"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historique liste les entrées d'audit d'un bon de commande.
func (h *CommandesHandler) Historique(c *gin.Context) {
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

// PDF godoc
// @Summary      Télécharger le PDF
// @Description  Rend le bon de commande en PDF (filigrane selon le statut), servi depuis un cache court.
// @Tags         commandes
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        numero path string true "Numéro du bon de commande"
// @Success      200 {file} binary
// @Failure      404 {object} apierror.APIError
// @Router       /v1/commandes/numero/{numero}/pdf [get]
func (h *CommandesHandler) PDF(c *gin.Context) {
	data, nomFichier, err := h.svc.PDF(c.Request.Context(), c.Param("numero"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	// RFC 5987 filename* carries the accented UTF-8 name; the plain
	// filename= gets an accent-stripped ASCII form for older clients.
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q; filename*=UTF-8''%s`,
		sansAccents(nomFichier), url.PathEscape(nomFichier)))
	c.Data(http.StatusOK, "application/pdf", data)
}

// sansAccents decomposes the string (NFD) and drops the combining marks, so
// "Bétonnière" becomes "Betonniere".
func sansAccents(s string) string {
	decomposee := norm.NFD.String(s)
	out := make([]rune, 0, len(decomposee))
	for _, r := range decomposee {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// Annuler godoc
// @Summary      Annuler un bon de commande
// @Description  Annule le bon et rend sa demande obsolète, atomiquement.
// @Tags         commandes
// @Security     BearerAuth
// @Param        id path string true "UUID du bon de commande"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/commandes/{id}/annuler [post]
func (h *CommandesHandler) Annuler(c *gin.Context) {
	h.cascade(c, h.workflow.AnnulerCommande)
}

// Reviser met le bon en révision et rouvre sa demande en Brouillon.
func (h *CommandesHandler) Reviser(c *gin.Context) {
	h.cascade(c, h.workflow.ReviserCommande)
}

func (h *CommandesHandler) cascade(c *gin.Context, fn func(ctx context.Context, id uuid.UUID, email string) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	if err := fn(c.Request.Context(), id, middleware.GetEmail(c)); err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// ConfirmerEnvoi marque le bon comme envoyé et expédie le PDF au fournisseur.
func (h *CommandesHandler) ConfirmerEnvoi(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var req struct {
		Destinataires []string `json:"destinataires" validate:"dive,email"`
	}
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.workflow.ConfirmerEnvoi(c.Request.Context(), id, middleware.GetEmail(c), req.Destinataires); err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

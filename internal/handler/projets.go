package handler

import (
	"net/http"

	"achatshub/internal/apierror"
	"achatshub/internal/dto"
	"achatshub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProjetsHandler struct {
	svc service.ProjetService
}

func NewProjetsHandler(svc service.ProjetService) *ProjetsHandler {
	return &ProjetsHandler{svc: svc}
}

// Creer godoc
// @Summary      Créer un projet
// @Tags         projets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ProjetRequest true "Projet"
// @Success      201  {object} dto.ProjetResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/projets [post]
func (h *ProjetsHandler) Creer(c *gin.Context) {
	var req dto.ProjetRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Creer(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Modifier met à jour un projet existant.
func (h *ProjetsHandler) Modifier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var req dto.ProjetRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Modifier(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get retourne un projet par UUID.
func (h *ProjetsHandler) Get(c *gin.Context) {
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

// List retourne tous les projets.
func (h *ProjetsHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors de la lecture des projets"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Supprimer retire un projet du référentiel.
func (h *ProjetsHandler) Supprimer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	if err := h.svc.Supprimer(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

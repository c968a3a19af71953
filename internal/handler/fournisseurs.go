package handler

import (
	"errors"
	"io"
	"net/http"

	"achatshub/internal/apierror"
	"achatshub/internal/dto"
	"achatshub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FournisseursHandler struct {
	svc service.FournisseurService
}

func NewFournisseursHandler(svc service.FournisseurService) *FournisseursHandler {
	return &FournisseursHandler{svc: svc}
}

// Creer godoc
// @Summary      Créer un fournisseur
// @Tags         fournisseurs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.FournisseurRequest true "Fournisseur"
// @Success      201  {object} dto.FournisseurResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/fournisseurs [post]
func (h *FournisseursHandler) Creer(c *gin.Context) {
	var req dto.FournisseurRequest
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

// Modifier met à jour un fournisseur existant.
func (h *FournisseursHandler) Modifier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var req dto.FournisseurRequest
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

// Get retourne un fournisseur par UUID.
func (h *FournisseursHandler) Get(c *gin.Context) {
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

// List retourne tous les fournisseurs, triés par numéro.
func (h *FournisseursHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors de la lecture des fournisseurs"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Supprimer retire un fournisseur du référentiel.
func (h *FournisseursHandler) Supprimer(c *gin.Context) {
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

// ImporterCSV godoc
// @Summary      Importer des fournisseurs (CSV)
// @Description  CSV délimité par point-virgule, en-tête obligatoire avec numero_fournisseur. L'import est atomique: toute erreur de ligne annule le lot complet et la liste des erreurs est retournée.
// @Tags         fournisseurs
// @Accept       text/csv
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.CSVImportResponse
// @Failure      422 {object} apierror.ImportError
// @Router       /v1/fournisseurs/import [post]
func (h *FournisseursHandler) ImporterCSV(c *gin.Context) {
	contenu, err := lireCSV(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}

	resp, err := h.svc.ImporterCSV(c.Request.Context(), contenu)
	if err != nil {
		var impErr *apierror.ImportError
		if errors.As(err, &impErr) {
			c.JSON(http.StatusUnprocessableEntity, impErr)
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// lireCSV accepts either a multipart upload (field "fichier") or the raw
// request body as the CSV payload.
func lireCSV(c *gin.Context) (string, error) {
	if file, err := c.FormFile("fichier"); err == nil {
		f, err := file.Open()
		if err != nil {
			return "", errors.New("impossible de lire le fichier téléversé")
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return "", errors.New("impossible de lire le fichier téléversé")
		}
		return string(data), nil
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil || len(data) == 0 {
		return "", errors.New("aucun contenu CSV reçu")
	}
	return string(data), nil
}

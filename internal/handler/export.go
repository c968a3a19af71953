package handler

import (
	"fmt"
	"net/http"

	"achatshub/internal/apierror"
	"achatshub/internal/dto"
	"achatshub/internal/middleware"
	"achatshub/internal/service"

	"github.com/gin-gonic/gin"
)

type ExportHandler struct {
	svc service.ExportService
}

func NewExportHandler(svc service.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// Lignes godoc
// @Summary      Lignes exportables vers Avantage
// @Description  Toutes les lignes de bons En cours à prix positif, groupées par lundi de semaine.
// @Tags         export
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.ExportListResponse
// @Router       /v1/export/avantage [get]
func (h *ExportHandler) Lignes(c *gin.Context) {
	resp, err := h.svc.LignesExportables(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors de la lecture des lignes exportables"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Fichier godoc
// @Summary      Fichier texte Avantage
// @Description  Compose le fichier d'import comptable (enregistrements RQnn, CRLF) pour la semaine donnée.
// @Tags         export
// @Produce      text/plain
// @Security     BearerAuth
// @Param        semaine query string true "Lundi de la semaine (YYYY-MM-DD)"
// @Success      200 {file} binary
// @Failure      400 {object} apierror.APIError
// @Router       /v1/export/avantage/fichier [get]
func (h *ExportHandler) Fichier(c *gin.Context) {
	semaine := c.Query("semaine")
	if semaine == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Le paramètre semaine est requis"))
		return
	}
	data, nomFichier, err := h.svc.ComposerFichier(c.Request.Context(), semaine)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", nomFichier))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", data)
}

// Classeur godoc
// @Summary      Classeur Excel de contrôle
// @Description  Les mêmes lignes que le fichier Avantage, en .xlsx pour vérification avant import.
// @Tags         export
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        semaine query string true "Lundi de la semaine (YYYY-MM-DD)"
// @Success      200 {file} binary
// @Failure      400 {object} apierror.APIError
// @Router       /v1/export/avantage/classeur [get]
func (h *ExportHandler) Classeur(c *gin.Context) {
	semaine := c.Query("semaine")
	if semaine == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Le paramètre semaine est requis"))
		return
	}
	data, nomFichier, err := h.svc.ComposerClasseur(c.Request.Context(), semaine)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", nomFichier))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// Confirmer godoc
// @Summary      Confirmer l'import Avantage
// @Description  Marque les bons listés comme Importé, en bloc et atomiquement, après l'import réussi côté comptabilité.
// @Tags         export
// @Accept       json
// @Security     BearerAuth
// @Param        body body dto.ConfirmerImportRequest true "Numéros de bons importés"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/export/avantage/confirmer [post]
func (h *ExportHandler) Confirmer(c *gin.Context) {
	var req dto.ConfirmerImportRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.ConfirmerImport(c.Request.Context(), middleware.GetEmail(c), req); err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

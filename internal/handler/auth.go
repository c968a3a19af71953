package handler

import (
	"net/http"

	"achatshub/internal/apierror"
	"achatshub/internal/dto"
	"achatshub/internal/middleware"
	"achatshub/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary      Connexion
// @Description  Authentifie un utilisateur et retourne un couple access/refresh token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body dto.LoginRequest true "Identifiants"
// @Success      200  {object} dto.LoginResponse
// @Failure      401  {object} apierror.APIError
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh godoc
// @Summary      Rafraîchir le token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body dto.RefreshRequest true "Refresh token"
// @Success      200  {object} dto.LoginResponse
// @Failure      401  {object} apierror.APIError
// @Router       /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Compte godoc
// @Summary      Mon compte
// @Description  Retourne les rôles et permissions effectives de l'utilisateur authentifié.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.CompteResponse
// @Router       /v1/compte [get]
func (h *AuthHandler) Compte(c *gin.Context) {
	resp, err := h.svc.Compte(c.Request.Context(), middleware.GetEmail(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors de la lecture du compte"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

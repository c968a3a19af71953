package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"achatshub/internal/config"
	"achatshub/internal/dto"
	"achatshub/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	Compte(ctx context.Context, email string) (*dto.CompteResponse, error)
}

type authService struct {
	repo        repository.UtilisateurRepository
	permissions PermissionService
	cfg         *config.Config
}

func NewAuthService(repo repository.UtilisateurRepository, permissions PermissionService, cfg *config.Config) AuthService {
	return &authService{repo: repo, permissions: permissions, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("identifiants invalides")
	}
	if user.PasswordHash == nil {
		return nil, errors.New("identifiants invalides")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("identifiants invalides")
	}
	return s.issueTokens(user.Email)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("refresh token invalide ou expiré")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("claims invalides")
	}
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return nil, errors.New("token mal formé")
	}
	if _, err := s.repo.FindByEmail(ctx, email); err != nil {
		return nil, errors.New("utilisateur introuvable")
	}
	return s.issueTokens(email)
}

// Compte backs the account page: the caller's roles and effective actions.
// The two reads are independent, so they run side by side.
func (s *authService) Compte(ctx context.Context, email string) (*dto.CompteResponse, error) {
	var (
		wg          sync.WaitGroup
		roles       []string
		permissions []string
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		roles = s.permissions.ResolveRoles(ctx, email)
	}()
	go func() {
		defer wg.Done()
		permissions = s.permissions.ResolvePermissions(ctx, email)
	}()
	wg.Wait()
	return &dto.CompteResponse{
		Email:       email,
		Roles:       roles,
		Permissions: permissions,
	}, nil
}

func (s *authService) issueTokens(email string) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(email, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(email, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		Email:        email,
	}, nil
}

func (s *authService) generateToken(email string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(duration).Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

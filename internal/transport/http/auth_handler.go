package httptransport

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/govindup63/Ghstmail.me/internal/auth"
	jwtpkg "github.com/govindup63/Ghstmail.me/internal/auth/jwt"
	"github.com/govindup63/Ghstmail.me/internal/domain"
)

// AuthHandler serves registration, login, and token refresh.
type AuthHandler struct {
	auth       *auth.Service
	jwtManager *jwtpkg.Manager
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(authService *auth.Service, jwtManager *jwtpkg.Manager) *AuthHandler {
	return &AuthHandler{auth: authService, jwtManager: jwtManager}
}

// authResponse bundles the user with a fresh token pair.
type authResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
}

// Register creates an account and returns tokens.
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "email and password are required")
		return
	}

	user, err := h.auth.Register(auth.RegisterInput{Email: req.Email, Password: req.Password})
	if err != nil {
		if errors.Is(err, auth.ErrEmailExists) {
			Conflict(c, err.Error())
			return
		}
		BadRequest(c, err.Error())
		return
	}

	h.respondWithTokens(c, user, true)
}

// Login checks credentials and returns tokens.
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "email and password are required")
		return
	}

	user, err := h.auth.Login(auth.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		Unauthorized(c, err.Error())
		return
	}

	h.respondWithTokens(c, user, false)
}

// Refresh exchanges a refresh token for a new pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req domain.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "refresh_token is required")
		return
	}

	claims, err := h.jwtManager.ValidateToken(req.RefreshToken)
	if err != nil {
		Unauthorized(c, "invalid or expired refresh token")
		return
	}

	pair, err := h.jwtManager.GenerateTokenPair(claims.UserID, claims.Email)
	if err != nil {
		InternalError(c, "failed to issue tokens")
		return
	}
	Success(c, pair)
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetString("userID")

	user, err := h.auth.GetUserByID(userID)
	if err != nil {
		NotFound(c, "user not found")
		return
	}
	Success(c, user)
}

func (h *AuthHandler) respondWithTokens(c *gin.Context, user *domain.User, created bool) {
	pair, err := h.jwtManager.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		InternalError(c, "failed to issue tokens")
		return
	}

	resp := authResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    pair.ExpiresIn,
	}
	if created {
		Created(c, resp)
		return
	}
	Success(c, resp)
}

package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/nived-m/chathaven/internal/auth"
	"github.com/nived-m/chathaven/internal/repository"
)

const tokenTTL = 24 * time.Hour

// UserHandler serves the public identity-boundary routes: profile
// creation, profile lookup and login. Everything past this boundary
// trusts only the bearer token.
type UserHandler struct {
	repo      repository.UserRepository
	jwtSecret string
	logger    *zap.Logger
}

func NewUserHandler(repo repository.UserRepository, jwtSecret string, logger *zap.Logger) *UserHandler {
	return &UserHandler{repo: repo, jwtSecret: jwtSecret, logger: logger}
}

type createUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"displayName" binding:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Create handles POST /api/createUser: store the profile with a bcrypt
// hash and hand back a token so the client can start talking to
// /channel/* immediately.
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Envelope{Status: "error", Error: "signup failed"})
		return
	}

	user, err := h.repo.Create(c.Request.Context(), req.Email, req.DisplayName, string(hash))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}

	token, err := auth.GenerateToken(user.Email, user.DisplayName, h.jwtSecret, tokenTTL)
	if err != nil {
		h.logger.Error("generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Envelope{Status: "error", Error: "signup failed"})
		return
	}
	respondCreated(c, tokenResponse{Token: token})
}

// GetByEmail handles GET /api/getUserByEmail/:email. It only reports
// whether the profile exists; the profile body never leaves the server
// unauthenticated.
func (h *UserHandler) GetByEmail(c *gin.Context) {
	user, err := h.repo.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, Envelope{Status: "error", Error: "user not found"})
		return
	}
	respondOK(c, "user found")
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/login. The same message covers a missing user
// and a wrong password so the endpoint doesn't confirm which emails exist.
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	user, err := h.repo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, Envelope{Status: "error", Error: "invalid email or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, Envelope{Status: "error", Error: "invalid email or password"})
		return
	}

	token, err := auth.GenerateToken(user.Email, user.DisplayName, h.jwtSecret, tokenTTL)
	if err != nil {
		h.logger.Error("generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Envelope{Status: "error", Error: "login failed"})
		return
	}
	respondOK(c, tokenResponse{Token: token})
}

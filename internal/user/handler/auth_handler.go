// Package handler exposes the auth endpoints.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pelicanmedia/pelican/internal/httpx"
	"github.com/pelicanmedia/pelican/internal/user/service"
	"github.com/pelicanmedia/pelican/pkg/interfaces"
	"github.com/pelicanmedia/pelican/pkg/models"
)

// AuthHandler serves the /api/auth routes.
type AuthHandler struct {
	auth   *service.AuthService
	logger interfaces.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(auth *service.AuthService, logger interfaces.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// Routes mounts the auth endpoints on a router.
func (h *AuthHandler) Routes(r chi.Router) {
	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
	r.Post("/logout", h.Logout)
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type loginResponse struct {
	User   *models.User       `json:"user"`
	Tokens *models.AuthTokens `json:"tokens"`
}

// Signup registers a new account.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	user, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, user)
}

// Login verifies credentials and returns the user with a token pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	user, tokens, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, loginResponse{User: user, Tokens: tokens})
}

// Refresh exchanges a refresh token for a fresh token pair.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	tokens, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, tokens)
}

// Logout revokes the session behind the refresh token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	if err := h.auth.Logout(r.Context(), req.RefreshToken); err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.Message(w, http.StatusOK, "logged out")
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/san360/gh-demo/internal/auth"
	"github.com/san360/gh-demo/internal/model"
)

// AuthHandler handles login and logout requests against the auth gate.
type AuthHandler struct {
	gate   auth.Gate
	logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(gate auth.Gate, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		gate:   gate,
		logger: logger,
	}
}

// RegisterRoutes registers the auth routes with the router.
func (h *AuthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/auth/login", h.Login).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/logout", h.Logout).Methods(http.MethodPost)
}

// Login handles POST /api/auth/login requests. On success the response
// carries the signed access token and the authenticated identity.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		h.writeError(w, http.StatusBadRequest, "Username and password required")
		return
	}

	token, info, err := h.gate.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.logger.Warn("login failed",
				zap.String("username", req.Username),
				zap.String("remote_addr", r.RemoteAddr),
			)
			h.writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		h.logger.Error("login error", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.logger.Info("user logged in",
		zap.String("username", info.Subject),
		zap.String("role", info.Role),
	)

	h.writeJSON(w, http.StatusOK, LoginResponse{
		AccessToken: token,
		User: UserInfo{
			Username: info.Subject,
			Role:     info.Role,
		},
	})
}

// Logout handles POST /api/auth/logout requests by adding the bearer
// token to the revocation blocklist. Revoking an already-revoked token
// succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, err := auth.BearerToken(r)
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "Authentication token required")
		return
	}

	h.gate.Revoke(token)

	h.writeJSON(w, http.StatusOK, MessageResponse{
		Message: "Successfully logged out",
	})
}

// writeJSON writes a JSON response with the given status code.
func (h *AuthHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, data, h.logger)
}

// writeError writes an error response with the given status code and
// message.
func (h *AuthHandler) writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, model.ErrorResponse{Error: message}, h.logger)
}

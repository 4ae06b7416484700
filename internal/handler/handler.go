// Package handler provides HTTP request handlers for the catalog API.
package handler

import "github.com/san360/gh-demo/internal/model"

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// DeleteResponse confirms a successful deletion and echoes the removed
// product.
type DeleteResponse struct {
	Message string        `json:"message"`
	Product model.Product `json:"deleted_product"`
}

// LoginRequest is the credential payload for POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token and the authenticated user.
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	User        UserInfo `json:"user"`
}

// UserInfo identifies the authenticated user.
type UserInfo struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// MessageResponse is a simple confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/xelth-com/ecksvcgo/internal/models"
	"github.com/xelth-com/ecksvcgo/internal/utils"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login handles back-office user login
func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	var loginReq LoginRequest
	if err := json.NewDecoder(req.Body).Decode(&loginReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	// 1. Find User
	var user models.UserAuth
	if err := r.db.Where("email = ?", loginReq.Email).First(&user).Error; err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// 2. Check Password
	if !user.IsActive || !utils.CheckPasswordHash(loginReq.Password, user.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// 3. Update Last Login
	now := time.Now()
	user.LastLogin = &now
	r.db.Save(&user)

	// 4. Generate Tokens
	accessToken, refreshToken, err := utils.GenerateTokens(&user, r.cfg.JWTSecret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate tokens")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tokens": map[string]string{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
		},
		"user": user,
	})
}

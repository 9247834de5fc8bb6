// handlers/auth.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"dzwave.net/regdoc/middleware"
	"dzwave.net/regdoc/models"
)

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userPayload struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// Login handles POST /api/auth/login.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var user models.User
	err := a.db.Where("username = ?", req.Username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	if !user.IsActive {
		writeError(w, http.StatusUnauthorized, "Account disabled")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := middleware.GenerateToken(user.ID.String(), user.Username, user.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not issue token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
		"user": userPayload{
			ID:       user.ID.String(),
			Username: user.Username,
			FullName: user.FullName,
			Role:     user.Role,
		},
	})
}

// Me handles GET /api/auth/me: echoes the authenticated session.
func (a *API) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user": map[string]string{
			"id":       claims.UserID,
			"username": claims.Username,
			"role":     claims.Role,
		},
	})
}

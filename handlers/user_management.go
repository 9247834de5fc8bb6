package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"dzwave.net/regdoc/models"
)

// Admin-only user administration endpoints.

type createUserReq struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	FullName string `json:"full_name"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=admin user"`
}

type updateUserReq struct {
	FullName *string `json:"full_name"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// ListUsers handles GET /api/users.
func (a *API) ListUsers(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := a.db.Order("username ASC").Find(&users).Error; err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "users": users})
}

// CreateUser handles POST /api/users.
func (a *API) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "username, password (min 8 chars) and role are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error hashing password")
		return
	}

	user := models.User{
		Username:     req.Username,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		Role:         req.Role,
		IsActive:     true,
	}
	if err := a.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			writeError(w, http.StatusConflict, "username already taken")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "user": user})
}

// UpdateUser handles PUT /api/users/{id}.
func (a *API) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := a.db.First(&user, "id = ?", mux.Vars(r)["id"]).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var req updateUserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Role != nil {
		if *req.Role != models.RoleAdmin && *req.Role != models.RoleUser {
			writeError(w, http.StatusBadRequest, "invalid role")
			return
		}
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "error hashing password")
			return
		}
		user.PasswordHash = string(hash)
	}

	if err := a.db.Save(&user).Error; err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "user": user})
}

// DeleteUser handles DELETE /api/users/{id}.
func (a *API) DeleteUser(w http.ResponseWriter, r *http.Request) {
	res := a.db.Delete(&models.User{}, "id = ?", mux.Vars(r)["id"])
	if res.Error != nil {
		writeError(w, http.StatusInternalServerError, res.Error.Error())
		return
	}
	if res.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

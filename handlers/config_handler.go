package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/gorm/clause"

	"dzwave.net/regdoc/models"
)

// Lookup-table endpoints backing the form dropdowns: equipment models and
// internet offers. Creation is an upsert by name so re-submitting an existing
// entry is harmless.

type lookupPayload struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// ListCpeModels handles GET /api/config/models.
func (a *API) ListCpeModels(w http.ResponseWriter, r *http.Request) {
	var items []models.CpeModel
	if err := a.db.Order("name ASC").Find(&items).Error; err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateCpeModel handles POST /api/config/models.
func (a *API) CreateCpeModel(w http.ResponseWriter, r *http.Request) {
	var req lookupPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || validate.Struct(&req) != nil {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	item := models.CpeModel{Name: req.Name}
	if err := a.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(&item).Error; err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// DeleteCpeModel handles DELETE /api/config/models/{id}.
func (a *API) DeleteCpeModel(w http.ResponseWriter, r *http.Request) {
	res := a.db.Delete(&models.CpeModel{}, "id = ?", mux.Vars(r)["id"])
	if res.Error != nil {
		writeError(w, http.StatusInternalServerError, res.Error.Error())
		return
	}
	if res.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "Model not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// ListInternetOffers handles GET /api/config/offers.
func (a *API) ListInternetOffers(w http.ResponseWriter, r *http.Request) {
	var items []models.InternetOffer
	if err := a.db.Order("name ASC").Find(&items).Error; err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateInternetOffer handles POST /api/config/offers.
func (a *API) CreateInternetOffer(w http.ResponseWriter, r *http.Request) {
	var req lookupPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || validate.Struct(&req) != nil {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	item := models.InternetOffer{Name: req.Name}
	if err := a.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(&item).Error; err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// DeleteInternetOffer handles DELETE /api/config/offers/{id}.
func (a *API) DeleteInternetOffer(w http.ResponseWriter, r *http.Request) {
	res := a.db.Delete(&models.InternetOffer{}, "id = ?", mux.Vars(r)["id"])
	if res.Error != nil {
		writeError(w, http.StatusInternalServerError, res.Error.Error())
		return
	}
	if res.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "Offer not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

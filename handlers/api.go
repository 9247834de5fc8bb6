// Package handlers exposes the HTTP surface. Handlers only parse requests and
// map workflow errors to status codes; all document logic lives in pkg/docgen.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"dzwave.net/regdoc/pkg/docgen"
	"dzwave.net/regdoc/pkg/dolibarr"
	"dzwave.net/regdoc/pkg/storage"
)

var validate = validator.New()

// API bundles the injected collaborators every handler needs.
type API struct {
	db       *gorm.DB
	docs     *docgen.Service
	files    *storage.Store
	dolibarr *dolibarr.Client
	log      *zap.Logger
}

func New(db *gorm.DB, docs *docgen.Service, files *storage.Store, dolibarr *dolibarr.Client, logger *zap.Logger) *API {
	return &API{db: db, docs: docs, files: files, dolibarr: dolibarr, log: logger}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{"error": msg})
}

// workflowError maps a docgen error to the right client/server status.
func (a *API) workflowError(w http.ResponseWriter, err error) {
	var syntaxErr *docgen.TemplateSyntaxError
	var missingErr *docgen.TemplateNotFoundError

	switch {
	case errors.Is(err, docgen.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, docgen.ErrNotFound):
		writeError(w, http.StatusNotFound, "Document not found")
	case errors.As(err, &syntaxErr):
		a.log.Error("template syntax error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error":  "Template is invalid",
			"issues": syntaxErr.Issues,
		})
	case errors.As(err, &missingErr):
		a.log.Error("template missing", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Template not configured on server")
	default:
		a.log.Error("document operation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to process documents")
	}
}

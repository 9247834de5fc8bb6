package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"dzwave.net/regdoc/pkg/docgen"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// GenerateRequest is the body of POST /api/generate.
type GenerateRequest struct {
	Type string            `json:"type" validate:"required,oneof=particuliers entreprise"`
	Data map[string]string `json:"data" validate:"required,min=1"`
}

// GenerateDocuments handles POST /api/generate.
func (a *API) GenerateDocuments(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing or invalid fields: type and data are required")
		return
	}

	result, err := a.docs.Generate(docgen.DocumentType(req.Type), req.Data)
	if err != nil {
		a.workflowError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":    true,
		"reference":  result.Reference,
		"frenchDoc":  result.FrenchDoc,
		"arabicDoc":  result.ArabicDoc,
		"createdAt":  result.CreatedAt,
		"dolibarrId": result.DolibarrID,
		"codeClient": result.CodeClient,
	})
}

// CheckDuplicate handles POST /api/check-duplicate. Advisory only: the
// endpoint never fails, it answers with whatever the directory and the local
// history could tell.
func (a *API) CheckDuplicate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	check := a.docs.CheckDuplicate(docgen.DocumentType(req.Type), req.Data)
	writeJSON(w, http.StatusOK, check)
}

// ListDocuments handles GET /api/documents with optional type and date-range
// filters plus limit/offset pagination.
func (a *API) ListDocuments(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptionsFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	docs, total, err := a.docs.List(opts)
	if err != nil {
		a.log.Error("document listing failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch documents")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"documents": docs,
		"pagination": map[string]interface{}{
			"total":   total,
			"limit":   opts.Limit,
			"offset":  opts.Offset,
			"hasMore": int64(opts.Offset+opts.Limit) < total,
		},
	})
}

func listOptionsFromQuery(r *http.Request) (docgen.ListOptions, error) {
	q := r.URL.Query()
	opts := docgen.ListOptions{Type: q.Get("type"), Limit: 20}

	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.Offset = n
		}
	}
	for _, span := range []struct {
		key  string
		dest **time.Time
	}{
		{"startDate", &opts.StartDate},
		{"endDate", &opts.EndDate},
	} {
		if v := q.Get(span.key); v != "" {
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				return opts, err
			}
			*span.dest = &t
		}
	}
	return opts, nil
}

// GetDocument handles GET /api/documents/{reference}.
func (a *API) GetDocument(w http.ResponseWriter, r *http.Request) {
	reference := mux.Vars(r)["reference"]
	doc, err := a.docs.Get(reference)
	if err != nil {
		a.workflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "document": doc})
}

// UpdateRequest is the body of PUT /api/documents/{reference}.
type UpdateRequest struct {
	Data map[string]string `json:"data" validate:"required,min=1"`
}

// UpdateDocument handles PUT /api/documents/{reference}: regenerate both
// files from new form data under the original reference.
func (a *API) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	reference := mux.Vars(r)["reference"]

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing required field: data")
		return
	}

	doc, err := a.docs.Update(reference, req.Data)
	if err != nil {
		a.workflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "document": doc})
}

// DeleteDocument handles DELETE /api/documents/{reference}.
func (a *API) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	reference := mux.Vars(r)["reference"]
	if err := a.docs.Delete(reference); err != nil {
		a.workflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// DownloadDocument handles GET /api/download/{reference}/{language}. The
// stored relative path is tried first; when the tree was reorganized the
// partition walk finds the file by name.
func (a *API) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	reference := vars["reference"]
	language := vars["language"]

	if language != "fr" && language != "ar" {
		writeError(w, http.StatusBadRequest, `Invalid language. Must be "fr" or "ar"`)
		return
	}

	doc, err := a.docs.Get(reference)
	if err != nil {
		a.workflowError(w, err)
		return
	}

	rel := doc.FilePathFr
	if language == "ar" {
		rel = doc.FilePathAr
	}
	if !a.files.Exists(rel) {
		found, ok := a.files.FindByReference(reference, language)
		if !ok {
			writeError(w, http.StatusNotFound, "File not found on server")
			return
		}
		rel = found
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(rel)+`"`)
	w.Header().Set("Content-Type", docxContentType)
	http.ServeFile(w, r, a.files.Abs(rel))
}

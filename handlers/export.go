package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"dzwave.net/regdoc/models"
	"dzwave.net/regdoc/pkg/docgen"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportDocuments handles GET /api/documents/export: the filtered document
// history as an .xlsx workbook, same filters as the list endpoint.
func (a *API) ExportDocuments(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptionsFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	// Exports ignore pagination; cap at a size Excel still opens comfortably.
	opts.Offset = 0
	opts.Limit = 100

	var all []models.Document
	for {
		page, _, err := a.docs.List(opts)
		if err != nil {
			a.log.Error("document export query failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to export documents")
			return
		}
		all = append(all, page...)
		if len(page) < opts.Limit || len(all) >= 10000 {
			break
		}
		opts.Offset += opts.Limit
	}

	file, err := buildExportWorkbook(all)
	if err != nil {
		a.log.Error("export workbook build failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}

	buffer, err := file.WriteToBuffer()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to write Excel file")
		return
	}

	filename := fmt.Sprintf("documents_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}

func buildExportWorkbook(docs []models.Document) (*excelize.File, error) {
	file := excelize.NewFile()
	sheet := "Documents"
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{"Référence", "Type", "Client", "Identifiant", "Offre", "Créé le", "Fichier FR", "Fichier AR"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(sheet, cell, h)
	}

	for row, doc := range docs {
		data := doc.Data()
		name := data["raison_sociale"]
		offer := data["internet_offer_entreprise"]
		if doc.DocumentType == string(docgen.TypeParticuliers) {
			name = data["Prenom"] + " " + data["Nom"]
			offer = data["internet_offer"]
		}

		values := []interface{}{
			doc.Reference,
			doc.DocumentType,
			name,
			data[docgen.IdentityField(docgen.DocumentType(doc.DocumentType))],
			offer,
			doc.CreatedAt.Format("02-01-2006 15:04"),
			doc.FilePathFr,
			doc.FilePathAr,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			file.SetCellValue(sheet, cell, v)
		}
	}
	return file, nil
}

// Package docgen owns the contract generation workflow: canonical form data,
// reference numbers, .docx template rendering, and the generate / regenerate /
// duplicate-check / delete operations the HTTP layer exposes.
package docgen

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"dzwave.net/regdoc/models"
	"dzwave.net/regdoc/pkg/dolibarr"
	"dzwave.net/regdoc/pkg/storage"
	"dzwave.net/regdoc/utils"
)

// DirectoryClient is the slice of the Dolibarr client the workflow needs.
// Every method is best-effort and returns nil instead of failing.
type DirectoryClient interface {
	SearchByCIN(cin string) *dolibarr.ThirdParty
	SearchByNIF(nif, raisonSociale string) *dolibarr.ThirdParty
	CreateThirdParty(form map[string]string, clientType, reference string) *dolibarr.CreateResult
}

// Service orchestrates document generation. All collaborators are injected;
// now and rnd exist so tests can pin the clock and the reference suffix.
type Service struct {
	db        *gorm.DB
	files     *storage.Store
	directory DirectoryClient
	renderer  *Renderer
	log       *zap.Logger

	now   func() time.Time
	rnd   *rand.Rand
	rndMu sync.Mutex
}

// mintReference draws the next reference. rand.Rand is not safe for
// concurrent use and generations run on concurrent requests.
func (s *Service) mintReference(t time.Time) string {
	s.rndMu.Lock()
	defer s.rndMu.Unlock()
	return GenerateReference(t, s.rnd)
}

func NewService(db *gorm.DB, files *storage.Store, directory DirectoryClient, renderer *Renderer, logger *zap.Logger) *Service {
	return &Service{
		db:        db,
		files:     files,
		directory: directory,
		renderer:  renderer,
		log:       logger,
		now:       time.Now,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GenerateResult describes one successful generation.
type GenerateResult struct {
	Reference  string    `json:"reference"`
	FrenchDoc  string    `json:"frenchDoc"`
	ArabicDoc  string    `json:"arabicDoc"`
	CreatedAt  time.Time `json:"createdAt"`
	DolibarrID *int64    `json:"dolibarrId"`
	CodeClient string    `json:"codeClient,omitempty"`
}

// Generate runs the full workflow for one submission:
// validate input, mint the reference, build canonical data, pre-validate both
// language templates, best-effort ERP registration, final render, file
// writes, row insert. The template validation deliberately runs before the
// ERP call: never create an external side effect the operation cannot finish.
func (s *Service) Generate(docType DocumentType, form map[string]string) (*GenerateResult, error) {
	if !ValidType(docType) {
		return nil, fmt.Errorf("%w: type must be %q or %q", ErrInvalidInput, TypeParticuliers, TypeEntreprise)
	}
	if len(form) == 0 {
		return nil, fmt.Errorf("%w: missing submission data", ErrInvalidInput)
	}

	now := s.now()
	reference := s.mintReference(now)

	data, err := BuildCanonical(docType, form, reference)
	if err != nil {
		return nil, err
	}

	if lat, lng := form["latitude"], form["longitude"]; lat != "" && lng != "" {
		if !utils.InServiceArea(lat, lng) {
			s.log.Warn("submitted coordinates outside the service area",
				zap.String("reference", reference), zap.String("lat", lat), zap.String("lng", lng))
		}
	}

	// Pre-flight render with the client code still empty: surfaces template
	// problems before any file or ERP record exists.
	for _, lang := range Languages {
		if err := s.renderer.Validate(docType, lang, data); err != nil {
			return nil, err
		}
	}

	var dolibarrID *int64
	codeClient := ""
	if s.directory != nil {
		if res := s.directory.CreateThirdParty(form, string(docType), reference); res != nil {
			id := res.ID
			dolibarrID = &id
			if res.CodeClient != "" {
				codeClient = res.CodeClient
				data["Code_client"] = res.CodeClient
			}
		}
	}

	rendered := make(map[string][]byte, len(Languages))
	for _, lang := range Languages {
		out, err := s.renderer.Render(docType, lang, data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s/%s: %v", ErrRender, docType, lang, err)
		}
		rendered[lang] = out
	}

	dir := s.files.DirFor(now)
	relFr := filepath.Join(dir, s.files.FileName(reference, "fr"))
	relAr := filepath.Join(dir, s.files.FileName(reference, "ar"))
	if err := s.files.Write(relFr, rendered["fr"]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	if err := s.files.Write(relAr, rendered["ar"]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: encode canonical data: %v", ErrStoreWrite, err)
	}
	doc := models.Document{
		Reference:    reference,
		DocumentType: string(docType),
		UserData:     datatypes.JSON(payload),
		FilePathFr:   relFr,
		FilePathAr:   relAr,
		DolibarrID:   dolibarrID,
	}
	if err := s.db.Create(&doc).Error; err != nil {
		// Files already on disk are orphaned: accepted, not reconciled.
		s.log.Error("document row insert failed, generated files orphaned",
			zap.String("reference", reference), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}

	s.log.Info("documents generated",
		zap.String("reference", reference), zap.String("type", string(docType)))

	return &GenerateResult{
		Reference:  reference,
		FrenchDoc:  relFr,
		ArabicDoc:  relAr,
		CreatedAt:  doc.CreatedAt,
		DolibarrID: dolibarrID,
		CodeClient: codeClient,
	}, nil
}

// Update regenerates the documents of an existing reference from new form
// data. The reference and created_at never change, no new ERP record is
// created, and the client code obtained at generation time is carried over.
// The update timestamp is captured once up front and decides the new
// partition directory.
func (s *Service) Update(reference string, form map[string]string) (*models.Document, error) {
	if len(form) == 0 {
		return nil, fmt.Errorf("%w: missing submission data", ErrInvalidInput)
	}

	var doc models.Document
	if err := s.db.Where("reference = ?", reference).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}

	docType := DocumentType(doc.DocumentType)
	updateTime := s.now()

	data, err := BuildCanonical(docType, form, reference)
	if err != nil {
		return nil, err
	}
	data["Code_client"] = doc.Data()["Code_client"]

	s.files.Delete(doc.FilePathFr)
	s.files.Delete(doc.FilePathAr)

	rendered := make(map[string][]byte, len(Languages))
	for _, lang := range Languages {
		out, err := s.renderer.Render(docType, lang, data)
		if err != nil {
			return nil, err
		}
		rendered[lang] = out
	}

	dir := s.files.DirFor(updateTime)
	relFr := filepath.Join(dir, s.files.FileName(reference, "fr"))
	relAr := filepath.Join(dir, s.files.FileName(reference, "ar"))
	if err := s.files.Write(relFr, rendered["fr"]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	if err := s.files.Write(relAr, rendered["ar"]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: encode canonical data: %v", ErrStoreWrite, err)
	}
	updates := map[string]interface{}{
		"user_data":    datatypes.JSON(payload),
		"file_path_fr": relFr,
		"file_path_ar": relAr,
	}
	if err := s.db.Model(&doc).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}

	s.log.Info("documents regenerated", zap.String("reference", reference))
	return &doc, nil
}

// Delete removes the row and both files of a reference. File deletion is
// best-effort; the row removal is what counts.
func (s *Service) Delete(reference string) error {
	var doc models.Document
	if err := s.db.Where("reference = ?", reference).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}

	s.files.Delete(doc.FilePathFr)
	s.files.Delete(doc.FilePathAr)

	if err := s.db.Delete(&doc).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	s.log.Info("documents deleted", zap.String("reference", reference))
	return nil
}

// DuplicateCheck is the advisory result shown to staff before they submit a
// form for a subscriber that may already exist.
type DuplicateCheck struct {
	IsDuplicate    bool                 `json:"isDuplicate"`
	DirectoryMatch *dolibarr.ThirdParty `json:"directoryMatch,omitempty"`
	LocalMatches   []models.Document    `json:"localMatches"`
}

// CheckDuplicate looks for the submitted identity number in the ERP directory
// and in the local document history. Purely advisory: every failure along the
// way is swallowed, the result is a hint for the UI, never a gate.
func (s *Service) CheckDuplicate(docType DocumentType, form map[string]string) *DuplicateCheck {
	check := &DuplicateCheck{LocalMatches: []models.Document{}}
	if !ValidType(docType) || len(form) == 0 {
		return check
	}

	idField := IdentityField(docType)
	idValue := form[idField]
	if idValue == "" {
		return check
	}

	if s.directory != nil {
		if docType == TypeEntreprise {
			check.DirectoryMatch = s.directory.SearchByNIF(idValue, form["raison_sociale"])
		} else {
			check.DirectoryMatch = s.directory.SearchByCIN(idValue)
		}
	}

	var matches []models.Document
	err := s.db.
		Where("document_type = ?", string(docType)).
		Where(datatypes.JSONQuery("user_data").Equals(idValue, idField)).
		Order("created_at DESC").
		Limit(5).
		Find(&matches).Error
	if err != nil {
		s.log.Warn("duplicate check store query failed",
			zap.String("field", idField), zap.Error(err))
	} else {
		check.LocalMatches = matches
	}

	check.IsDuplicate = check.DirectoryMatch != nil || len(check.LocalMatches) > 0
	return check
}

// Get returns one document row by reference.
func (s *Service) Get(reference string) (*models.Document, error) {
	var doc models.Document
	if err := s.db.Where("reference = ?", reference).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// ListOptions filters the document history.
type ListOptions struct {
	Type      string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// List returns a page of document rows, newest first, plus the total count
// for the applied filters.
func (s *Service) List(opts ListOptions) ([]models.Document, int64, error) {
	if opts.Limit < 1 || opts.Limit > 100 {
		opts.Limit = 20
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	query := s.db.Model(&models.Document{})
	if opts.Type != "" {
		query = query.Where("document_type = ?", opts.Type)
	}
	if opts.StartDate != nil {
		query = query.Where("created_at >= ?", *opts.StartDate)
	}
	if opts.EndDate != nil {
		query = query.Where("created_at <= ?", *opts.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var docs []models.Document
	if err := query.Order("created_at DESC").Limit(opts.Limit).Offset(opts.Offset).Find(&docs).Error; err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

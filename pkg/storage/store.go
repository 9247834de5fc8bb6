// Package storage owns the on-disk tree of generated documents:
// {root}/{YYYY}/{MM}/{DD}/{reference}_{lang}.docx. All paths stored in the
// database are relative to the root so the tree can be moved or mounted
// elsewhere without rewriting rows.
package storage

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Store is a date-partitioned file store rooted at a configured directory.
type Store struct {
	root string
}

func New(root string) *Store {
	return &Store{root: root}
}

// Root returns the configured root directory.
func (s *Store) Root() string {
	return s.root
}

// DirFor returns the relative partition directory for t. The timestamp is an
// explicit parameter: generation uses the generation time, regeneration the
// update time, each captured once at the start of the operation.
func (s *Store) DirFor(t time.Time) string {
	return filepath.Join(t.Format("2006"), t.Format("01"), t.Format("02"))
}

// FileName returns the canonical file name for one generated document.
func (s *Store) FileName(reference, lang string) string {
	return fmt.Sprintf("%s_%s.docx", reference, lang)
}

// Abs resolves a stored relative path against the root.
func (s *Store) Abs(rel string) string {
	return filepath.Join(s.root, rel)
}

// Write persists one generated document at the given relative path, creating
// the partition directory when absent.
func (s *Store) Write(rel string, data []byte) error {
	abs := s.Abs(rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return nil
}

// Exists reports whether the file at the relative path is on disk.
func (s *Store) Exists(rel string) bool {
	_, err := os.Stat(s.Abs(rel))
	return err == nil
}

// Delete removes the file at the relative path. A missing file is not an
// error; deletion during regeneration and removal is best-effort.
func (s *Store) Delete(rel string) bool {
	if rel == "" {
		return false
	}
	if err := os.Remove(s.Abs(rel)); err != nil {
		return false
	}
	return true
}

// FindByReference walks the partition tree looking for a document by
// reference and language, for rows whose stored path no longer matches the
// disk layout. Returns the relative path.
func (s *Store) FindByReference(reference, lang string) (string, bool) {
	target := s.FileName(reference, lang)
	var found string
	filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && d.Name() == target {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if found == "" {
		return "", false
	}
	rel, err := filepath.Rel(s.root, found)
	if err != nil {
		return "", false
	}
	return rel, true
}

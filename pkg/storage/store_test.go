package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDirForLayout(t *testing.T) {
	s := New(t.TempDir())
	got := s.DirFor(time.Date(2025, 3, 4, 9, 30, 0, 0, time.UTC))
	want := filepath.Join("2025", "03", "04")
	if got != want {
		t.Fatalf("DirFor = %q, want %q", got, want)
	}
}

func TestFileName(t *testing.T) {
	s := New(t.TempDir())
	got := s.FileName("REG-20250304-00042", "ar")
	if got != "REG-20250304-00042_ar.docx" {
		t.Fatalf("FileName = %q", got)
	}
}

func TestWriteExistsDelete(t *testing.T) {
	s := New(t.TempDir())
	rel := filepath.Join("2025", "03", "04", "REG-20250304-00042_fr.docx")

	if s.Exists(rel) {
		t.Fatal("file should not exist before write")
	}
	if err := s.Write(rel, []byte("content")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !s.Exists(rel) {
		t.Fatal("file should exist after write")
	}

	data, err := os.ReadFile(s.Abs(rel))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "content" {
		t.Fatalf("read back %q", data)
	}

	if !s.Delete(rel) {
		t.Fatal("Delete should report success")
	}
	if s.Exists(rel) {
		t.Fatal("file should be gone after delete")
	}
	if s.Delete(rel) {
		t.Fatal("deleting a missing file should report false")
	}
	if s.Delete("") {
		t.Fatal("deleting an empty path should report false")
	}
}

func TestWriteOverwrites(t *testing.T) {
	s := New(t.TempDir())
	rel := filepath.Join("2025", "03", "04", "REG-20250304-00042_fr.docx")
	if err := s.Write(rel, []byte("old")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Write(rel, []byte("new")); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	data, _ := os.ReadFile(s.Abs(rel))
	if string(data) != "new" {
		t.Fatalf("read back %q after rewrite", data)
	}
}

func TestFindByReference(t *testing.T) {
	s := New(t.TempDir())
	// the row says one partition, the disk another
	rel := filepath.Join("2024", "12", "31", "REG-20241231-00007_ar.docx")
	if err := s.Write(rel, []byte("doc")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Write(filepath.Join("2024", "12", "31", "REG-20241231-00007_fr.docx"), []byte("doc")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	found, ok := s.FindByReference("REG-20241231-00007", "ar")
	if !ok {
		t.Fatal("FindByReference should locate the file")
	}
	if found != rel {
		t.Fatalf("FindByReference = %q, want %q", found, rel)
	}

	if _, ok := s.FindByReference("REG-20241231-00007", "en"); ok {
		t.Fatal("unknown language should not match")
	}
	if _, ok := s.FindByReference("REG-19990101-00001", "fr"); ok {
		t.Fatal("unknown reference should not match")
	}
}

package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Document is one generated contract pair: the metadata row behind the two
// .docx files on disk. Exactly one row exists per reference; the unique index
// is the final guard against colliding references minted the same day.
type Document struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Reference    string         `gorm:"size:32;uniqueIndex;not null" json:"reference"`
	DocumentType string         `gorm:"size:20;not null;index" json:"document_type"`
	UserData     datatypes.JSON `gorm:"not null" json:"user_data"`
	FilePathFr   string         `gorm:"size:255;not null" json:"file_path_fr"`
	FilePathAr   string         `gorm:"size:255;not null" json:"file_path_ar"`
	DolibarrID   *int64         `json:"dolibarr_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Data decodes the stored canonical payload. Returns an empty map on rows
// written by older builds with malformed payloads.
func (d *Document) Data() map[string]string {
	out := map[string]string{}
	if len(d.UserData) > 0 {
		json.Unmarshal(d.UserData, &out)
	}
	return out
}

package model

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// UploadFile is the metadata row registered for every stored media asset.
type UploadFile struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name            string    `json:"name" gorm:"not null"`
	AlternativeText string    `json:"alternative_text"`
	Caption         string    `json:"caption"`
	Hash            string    `json:"hash" gorm:"uniqueIndex;not null"`
	Ext             string    `json:"ext"`
	Mime            string    `json:"mime"`
	Size            float64   `json:"size"` // kilobytes, two decimals
	URL             string    `json:"url"`
	Provider        string    `json:"provider"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName returns the table name.
func (UploadFile) TableName() string {
	return "upload_files"
}

// FileDescriptor is handed to a storage provider for a single upload.
// Providers may set URL once the blob is durable.
type FileDescriptor struct {
	Name            string
	AlternativeText string
	Caption         string
	Hash            string
	Ext             string
	Mime            string
	SizeKB          float64
	SizeBytes       int64
	Buffer          []byte
	Stream          io.Reader
	TmpPath         string

	URL string
}

// Key returns the object name used by storage providers.
func (d *FileDescriptor) Key() string {
	return d.Hash + d.Ext
}

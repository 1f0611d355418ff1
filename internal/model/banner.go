package model

import (
	"time"

	"github.com/google/uuid"
)

// Banner represents a homepage banner managed by the CMS.
type Banner struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string     `json:"title" gorm:"not null"`
	CTALabel    string     `json:"cta_label" gorm:"column:cta_label"`
	CTAURL      string     `json:"cta_url" gorm:"column:cta_url"`
	ImageID     *uuid.UUID `json:"image_id,omitempty" gorm:"type:uuid"`
	PublishedAt time.Time  `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName returns the table name.
func (Banner) TableName() string {
	return "banners"
}

// HasImage reports whether the banner references an uploaded file.
func (b *Banner) HasImage() bool {
	return b.ImageID != nil
}

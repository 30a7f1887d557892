package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GenerationHistory is the permanent record of one completed redesign:
// original and generated image, the budget, and the resulting bill of
// materials attached as BOMDetail rows.
type GenerationHistory struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestID         *uuid.UUID      `gorm:"type:uuid;index"`
	ClientIP          string          `gorm:"type:varchar(45);index;not null"`
	OriginalImageURL  string          `gorm:"not null"`
	GeneratedImageURL string          `gorm:"not null"`
	Style             string          `gorm:"type:varchar(30);not null"`
	Budget            decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalCost         decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	// Fallback marks results where no catalog item qualified and the fixed
	// soil item was substituted
	Fallback bool `gorm:"not null;default:false"`
	// PDFPath is relative to PDF_STORAGE_PATH
	PDFPath   *string `gorm:"column:pdf_path"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Details []BOMDetail `gorm:"foreignKey:HistoryID"`
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GardenRequest tracks one asynchronous redesign job from upload to result.
// Status: "pending" | "processing" | "completed" | "failed"
type GardenRequest struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClientIP string          `gorm:"type:varchar(45);index;not null"`
	ImageURL string          `gorm:"not null"`
	Style    string          `gorm:"type:varchar(30);not null"`
	Budget   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status   string          `gorm:"type:varchar(20);not null;default:'pending'"`
	// Prompt overrides the style prompt for this request when set
	Prompt *string `gorm:"type:varchar(500)"`
	// MaskBBox is the normalized "x1,y1,x2,y2" repaint region, nil = full photo
	MaskBBox *string `gorm:"column:mask_bbox;type:varchar(60)"`
	// HistoryID is set when the job completes and links to the stored result
	HistoryID *uuid.UUID `gorm:"type:uuid"`
	// Retry fields — used by retry_cron to re-attempt failed generations
	RetryCount  int        `gorm:"not null;default:0"`
	NextRetryAt *time.Time `gorm:"column:next_retry_at"`
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

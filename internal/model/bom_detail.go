package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BOMDetail is one line of a generated bill of materials. Rows are immutable
// once written — a regenerated plan gets a new GenerationHistory with fresh
// rows.
type BOMDetail struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	HistoryID uuid.UUID `gorm:"type:uuid;index;not null"`
	// MaterialID is nil for the fallback item, which has no catalog row
	MaterialID    *uuid.UUID      `gorm:"type:uuid"`
	Name          string          `gorm:"not null"`
	Category      string          `gorm:"type:varchar(30);not null"`
	Quantity      int             `gorm:"not null"`
	Unit          string          `gorm:"type:varchar(20);not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	EstimatedCost decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	VendorName    string
	ProductURL    string
	// IsSuggestion marks alternatives offered alongside the plan; they carry
	// quantity 0 and do not count toward the total
	IsSuggestion bool `gorm:"not null;default:false"`
	// GroupName is the sub-group a suggestion belongs to, e.g. "large trees"
	GroupName *string `gorm:"type:varchar(40)"`
	CreatedAt time.Time
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Vendor is a marketplace or shop that sells catalog materials.
type Vendor struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name    string    `gorm:"uniqueIndex;not null"`
	Website *string
	// AffiliateTag is appended to product URLs when set
	AffiliateTag *string
	Active       bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// VendorListing is one vendor's priced offer for a material. A material may
// carry several listings; selection uses whichever the catalog query returns.
type VendorListing struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MaterialID uuid.UUID       `gorm:"type:uuid;index;not null"`
	VendorID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ProductURL string          `gorm:"not null"`
	InStock    bool            `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Material *Material `gorm:"foreignKey:MaterialID"`
	Vendor   *Vendor   `gorm:"foreignKey:VendorID"`
}

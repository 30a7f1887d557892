package model

import (
	"time"

	"github.com/google/uuid"
)

// Material is one purchasable catalog entry: a plant, a hardscape material or
// a garden system. Prices live on VendorListing; the material itself is
// vendor-neutral.
// Category: "plant_large" | "plant_medium" | "plant_small" | "hardscape_path" |
// "hardscape_edge" | "soil_system" | "irrigation_system" | "decor"
type Material struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name string    `gorm:"index;not null"`
	// NameTH is the Thai display name shown in shopping lists
	NameTH    *string `gorm:"column:name_th"`
	Category  string  `gorm:"type:varchar(30);index;not null"`
	Unit      string  `gorm:"type:varchar(20);not null;default:'piece'"`
	ImageURL  *string
	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Listings []VendorListing `gorm:"foreignKey:MaterialID"`
}

package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateMaterialRequest struct {
	Name     string  `json:"name"     validate:"required,min=2,max=120"`
	NameTH   *string `json:"name_th"`
	Category string  `json:"category" validate:"required,oneof=plant_large plant_medium plant_small hardscape_path hardscape_edge soil_system irrigation_system decor"`
	Unit     string  `json:"unit"     validate:"omitempty,max=20"`
	ImageURL *string `json:"image_url" validate:"omitempty,url"`
}

type UpdateMaterialRequest struct {
	Name     *string `json:"name"     validate:"omitempty,min=2,max=120"`
	NameTH   *string `json:"name_th"`
	Category *string `json:"category" validate:"omitempty,oneof=plant_large plant_medium plant_small hardscape_path hardscape_edge soil_system irrigation_system decor"`
	Unit     *string `json:"unit"     validate:"omitempty,max=20"`
	ImageURL *string `json:"image_url" validate:"omitempty,url"`
	Active   *bool   `json:"active"`
}

type CreateVendorRequest struct {
	Name         string  `json:"name"          validate:"required,min=2,max=120"`
	Website      *string `json:"website"       validate:"omitempty,url"`
	AffiliateTag *string `json:"affiliate_tag"`
}

type CreateListingRequest struct {
	MaterialID string          `json:"material_id" validate:"required,uuid"`
	VendorID   string          `json:"vendor_id"   validate:"required,uuid"`
	Price      decimal.Decimal `json:"price"       validate:"required"`
	ProductURL string          `json:"product_url" validate:"required,url"`
	InStock    *bool           `json:"in_stock"`
}

type MaterialFilter struct {
	Name     string `form:"name"`
	Category string `form:"category"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MaterialResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	NameTH   *string           `json:"name_th"`
	Category string            `json:"category"`
	Unit     string            `json:"unit"`
	ImageURL *string           `json:"image_url"`
	Active   bool              `json:"active"`
	Listings []ListingResponse `json:"listings,omitempty"`
}

type ListingResponse struct {
	ID         string          `json:"id"`
	VendorID   string          `json:"vendor_id"`
	VendorName string          `json:"vendor_name,omitempty"`
	Price      decimal.Decimal `json:"price"`
	ProductURL string          `json:"product_url"`
	InStock    bool            `json:"in_stock"`
}

type VendorResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Website      *string `json:"website"`
	AffiliateTag *string `json:"affiliate_tag"`
	Active       bool    `json:"active"`
}

type MaterialListResponse struct {
	Data       []MaterialResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

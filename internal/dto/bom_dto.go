package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AssembleBOMRequest struct {
	// Budget in THB; omitted or zero falls back to the configured default
	Budget *decimal.Decimal `json:"budget"  validate:"omitempty"`
	Style  string           `json:"style"   validate:"omitempty,oneof=english tropical japanese modern minimal"`
	// HistoryID links the plan to an earlier generation when set
	HistoryID *string `json:"history_id" validate:"omitempty,uuid"`
}

type EmailBOMRequest struct {
	To string `json:"to" validate:"required,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type BOMItemResponse struct {
	MaterialID    *string         `json:"material_id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Quantity      int             `json:"quantity"`
	Unit          string          `json:"unit"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	VendorName    string          `json:"vendor_name,omitempty"`
	ProductURL    string          `json:"product_url,omitempty"`
}

type BOMSuggestionResponse struct {
	GroupName  string          `json:"group_name"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	VendorName string          `json:"vendor_name,omitempty"`
	ProductURL string          `json:"product_url,omitempty"`
}

type BOMResponse struct {
	HistoryID   *string                 `json:"history_id,omitempty"`
	Items       []BOMItemResponse       `json:"items"`
	Suggestions []BOMSuggestionResponse `json:"suggestions"`
	TotalCost   decimal.Decimal         `json:"total_cost"`
	Budget      decimal.Decimal         `json:"budget"`
	Remaining   decimal.Decimal         `json:"remaining"`
	Fallback    bool                    `json:"fallback"`
}

package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// GenerateGardenRequest accompanies the uploaded photo as multipart form
// fields; the image itself arrives under the "image" file key.
type GenerateGardenRequest struct {
	Style  string           `form:"style"  validate:"required,oneof=english tropical japanese modern minimal"`
	Budget *decimal.Decimal `form:"budget" validate:"omitempty"`
	// Prompt replaces the style's built-in inpainting prompt when set
	Prompt string `form:"prompt" validate:"omitempty,max=500"`
	// BoundingBox limits repainting to a normalized "x1,y1,x2,y2" region;
	// omitted means the whole photo is repainted
	BoundingBox string `form:"bounding_box" validate:"omitempty"`
}

type AnalyzeGardenRequest struct {
	ImageURL string `json:"image_url" validate:"required,url"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// GenerateGardenResponse acknowledges the queued job; poll the status
// endpoint with RequestID until it completes.
type GenerateGardenResponse struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
}

type GardenStatusResponse struct {
	RequestID         string       `json:"request_id"`
	Status            string       `json:"status"`
	HistoryID         *string      `json:"history_id,omitempty"`
	GeneratedImageURL *string      `json:"generated_image_url,omitempty"`
	BOM               *BOMResponse `json:"bom,omitempty"`
	Error             *string      `json:"error,omitempty"`
}

type AnalyzeGardenResponse struct {
	Summary      string   `json:"summary"`
	Observations []string `json:"observations"`
	Suitability  string   `json:"suitability"`
}

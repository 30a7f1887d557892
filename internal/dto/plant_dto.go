package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// Identify and diagnose accept the photo as a multipart file under "image";
// no extra form fields are required.

type PlantSearchFilter struct {
	Query    string `form:"q"        validate:"required,min=2"`
	Category string `form:"category" validate:"omitempty"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type IdentifyPlantResponse struct {
	Name           string   `json:"name"`
	ScientificName string   `json:"scientific_name"`
	NameTH         string   `json:"name_th,omitempty"`
	Confidence     string   `json:"confidence"`
	CareTips       []string `json:"care_tips"`
}

type DiagnosePlantResponse struct {
	DiseaseID   string   `json:"disease_id"`
	DiseaseName string   `json:"disease_name"`
	Confidence  string   `json:"confidence"`
	Symptoms    []string `json:"symptoms"`
	Treatments  []string `json:"treatments"`
}

type DiseaseResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	NameTH      string   `json:"name_th"`
	Symptoms    []string `json:"symptoms"`
	Causes      []string `json:"causes"`
	Treatments  []string `json:"treatments"`
	Preventions []string `json:"preventions"`
}

type PlantSearchItem struct {
	MaterialID string          `json:"material_id"`
	Name       string          `json:"name"`
	NameTH     *string         `json:"name_th"`
	Category   string          `json:"category"`
	Unit       string          `json:"unit"`
	Price      decimal.Decimal `json:"price"`
	VendorName string          `json:"vendor_name"`
	ProductURL string          `json:"product_url"`
}

type PlantSearchResponse struct {
	Data       []PlantSearchItem `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

type PlantLookupFilter struct {
	Name string `form:"name" validate:"required,min=2"`
}

// PlantProfile is the model-written fact sheet for a named plant. Textual
// fields come back in Thai for the shopping audience.
type PlantProfile struct {
	Name             string `json:"name"`
	Price            string `json:"price"`
	Description      string `json:"description"`
	CareInstructions string `json:"care_instructions"`
	GardenIdeas      string `json:"garden_ideas"`
}

type PlantLookupResponse struct {
	Profile  PlantProfile             `json:"profile"`
	BestDeal *AffiliateOfferResponse  `json:"best_deal,omitempty"`
	Offers   []AffiliateOfferResponse `json:"offers"`
}

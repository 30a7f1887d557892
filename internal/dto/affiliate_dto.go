package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AffiliateSearchRequest struct {
	Keyword string `json:"keyword" validate:"required,min=2,max=120"`
	Limit   int    `json:"limit"   validate:"omitempty,min=1,max=50"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AffiliateOfferResponse struct {
	ProductName string `json:"product_name"`
	Price       string `json:"price"`
	ImageURL    string `json:"image_url"`
	OfferLink   string `json:"offer_link"`
	ShopName    string `json:"shop_name"`
	Commission  string `json:"commission"`
}

type AffiliateSearchResponse struct {
	Keyword string                   `json:"keyword"`
	Offers  []AffiliateOfferResponse `json:"offers"`
}

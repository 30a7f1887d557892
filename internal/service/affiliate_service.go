package service

import (
	"context"

	"github.com/NuttWarunyu/PlantPick-Backend/internal/dto"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/infra"
)

// AffiliateService exposes raw product search for the storefront widgets.
type AffiliateService interface {
	Search(ctx context.Context, req dto.AffiliateSearchRequest) (*dto.AffiliateSearchResponse, error)
	Enabled() bool
}

type affiliateService struct {
	client AffiliateSearcher
}

func NewAffiliateService(client AffiliateSearcher) AffiliateService {
	return &affiliateService{client: client}
}

func (s *affiliateService) Enabled() bool { return s.client.Enabled() }

func (s *affiliateService) Search(ctx context.Context, req dto.AffiliateSearchRequest) (*dto.AffiliateSearchResponse, error) {
	if !s.client.Enabled() {
		return &dto.AffiliateSearchResponse{Keyword: req.Keyword, Offers: []dto.AffiliateOfferResponse{}}, nil
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}
	offers, err := s.client.SearchProducts(ctx, req.Keyword, 1, limit)
	if err != nil {
		return nil, err
	}
	return &dto.AffiliateSearchResponse{Keyword: req.Keyword, Offers: mapOffers(offers)}, nil
}

func mapOffers(offers []infra.ShopeeOffer) []dto.AffiliateOfferResponse {
	out := make([]dto.AffiliateOfferResponse, len(offers))
	for i, o := range offers {
		out[i] = dto.AffiliateOfferResponse{
			ProductName: o.ProductName,
			Price:       o.Price,
			ImageURL:    o.ImageURL,
			OfferLink:   o.OfferLink,
			ShopName:    o.ShopName,
			Commission:  o.Commission,
		}
	}
	return out
}

package service

import (
	"context"
	"errors"

	"github.com/NuttWarunyu/PlantPick-Backend/internal/dto"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/model"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrMaterialNotFound = errors.New("material not found")
	ErrVendorNotFound   = errors.New("vendor not found")
	ErrVendorExists     = errors.New("vendor with this name already exists")
)

// CatalogService manages the priced material catalog the allocator draws from.
type CatalogService interface {
	CreateMaterial(ctx context.Context, req dto.CreateMaterialRequest) (*dto.MaterialResponse, error)
	GetMaterial(ctx context.Context, id uuid.UUID) (*dto.MaterialResponse, error)
	ListMaterials(ctx context.Context, filter dto.MaterialFilter) (*dto.MaterialListResponse, error)
	UpdateMaterial(ctx context.Context, id uuid.UUID, req dto.UpdateMaterialRequest) (*dto.MaterialResponse, error)
	DeleteMaterial(ctx context.Context, id uuid.UUID) error

	CreateVendor(ctx context.Context, req dto.CreateVendorRequest) (*dto.VendorResponse, error)
	ListVendors(ctx context.Context) ([]dto.VendorResponse, error)
	CreateListing(ctx context.Context, req dto.CreateListingRequest) (*dto.ListingResponse, error)
}

type catalogService struct {
	repo repository.CatalogRepository
}

func NewCatalogService(repo repository.CatalogRepository) CatalogService {
	return &catalogService{repo: repo}
}

// ── Materials ────────────────────────────────────────────────────────────────

func (s *catalogService) CreateMaterial(ctx context.Context, req dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	unit := req.Unit
	if unit == "" {
		unit = "piece"
	}
	m := &model.Material{
		Name:     req.Name,
		NameTH:   req.NameTH,
		Category: req.Category,
		Unit:     unit,
		ImageURL: req.ImageURL,
		Active:   true,
	}
	if err := s.repo.CreateMaterial(ctx, m); err != nil {
		return nil, err
	}
	resp := mapMaterial(m)
	return &resp, nil
}

func (s *catalogService) GetMaterial(ctx context.Context, id uuid.UUID) (*dto.MaterialResponse, error) {
	m, err := s.repo.FindMaterialByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, err
	}
	resp := mapMaterial(m)
	return &resp, nil
}

func (s *catalogService) ListMaterials(ctx context.Context, filter dto.MaterialFilter) (*dto.MaterialListResponse, error) {
	materials, total, err := s.repo.ListMaterials(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := make([]dto.MaterialResponse, len(materials))
	for i := range materials {
		data[i] = mapMaterial(&materials[i])
	}
	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit != 0 {
		totalPages++
	}
	return &dto.MaterialListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *catalogService) UpdateMaterial(ctx context.Context, id uuid.UUID, req dto.UpdateMaterialRequest) (*dto.MaterialResponse, error) {
	m, err := s.repo.FindMaterialByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.NameTH != nil {
		m.NameTH = req.NameTH
	}
	if req.Category != nil {
		m.Category = *req.Category
	}
	if req.Unit != nil {
		m.Unit = *req.Unit
	}
	if req.ImageURL != nil {
		m.ImageURL = req.ImageURL
	}
	if req.Active != nil {
		m.Active = *req.Active
	}

	if err := s.repo.UpdateMaterial(ctx, m); err != nil {
		return nil, err
	}
	resp := mapMaterial(m)
	return &resp, nil
}

func (s *catalogService) DeleteMaterial(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindMaterialByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMaterialNotFound
		}
		return err
	}
	return s.repo.SoftDeleteMaterial(ctx, id)
}

// ── Vendors and listings ─────────────────────────────────────────────────────

func (s *catalogService) CreateVendor(ctx context.Context, req dto.CreateVendorRequest) (*dto.VendorResponse, error) {
	if _, err := s.repo.FindVendorByName(ctx, req.Name); err == nil {
		return nil, ErrVendorExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	v := &model.Vendor{
		Name:         req.Name,
		Website:      req.Website,
		AffiliateTag: req.AffiliateTag,
		Active:       true,
	}
	if err := s.repo.CreateVendor(ctx, v); err != nil {
		return nil, err
	}
	resp := mapVendor(v)
	return &resp, nil
}

func (s *catalogService) ListVendors(ctx context.Context) ([]dto.VendorResponse, error) {
	vendors, err := s.repo.ListVendors(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VendorResponse, len(vendors))
	for i := range vendors {
		out[i] = mapVendor(&vendors[i])
	}
	return out, nil
}

func (s *catalogService) CreateListing(ctx context.Context, req dto.CreateListingRequest) (*dto.ListingResponse, error) {
	materialID, err := uuid.Parse(req.MaterialID)
	if err != nil {
		return nil, ErrMaterialNotFound
	}
	vendorID, err := uuid.Parse(req.VendorID)
	if err != nil {
		return nil, ErrVendorNotFound
	}

	if _, err := s.repo.FindMaterialByID(ctx, materialID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, err
	}
	if _, err := s.repo.FindVendorByID(ctx, vendorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}

	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}
	l := &model.VendorListing{
		MaterialID: materialID,
		VendorID:   vendorID,
		Price:      req.Price,
		ProductURL: req.ProductURL,
		InStock:    inStock,
	}
	if err := s.repo.CreateListing(ctx, l); err != nil {
		return nil, err
	}
	resp := mapListing(l, "")
	return &resp, nil
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func mapMaterial(m *model.Material) dto.MaterialResponse {
	resp := dto.MaterialResponse{
		ID:       m.ID.String(),
		Name:     m.Name,
		NameTH:   m.NameTH,
		Category: m.Category,
		Unit:     m.Unit,
		ImageURL: m.ImageURL,
		Active:   m.Active,
	}
	for i := range m.Listings {
		l := &m.Listings[i]
		resp.Listings = append(resp.Listings, mapListing(l, l.Vendor.Name))
	}
	return resp
}

func mapListing(l *model.VendorListing, vendorName string) dto.ListingResponse {
	return dto.ListingResponse{
		ID:         l.ID.String(),
		VendorID:   l.VendorID.String(),
		VendorName: vendorName,
		Price:      l.Price,
		ProductURL: l.ProductURL,
		InStock:    l.InStock,
	}
}

func mapVendor(v *model.Vendor) dto.VendorResponse {
	return dto.VendorResponse{
		ID:           v.ID.String(),
		Name:         v.Name,
		Website:      v.Website,
		AffiliateTag: v.AffiliateTag,
		Active:       v.Active,
	}
}

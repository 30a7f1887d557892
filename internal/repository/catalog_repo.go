package repository

import (
	"context"

	"github.com/NuttWarunyu/PlantPick-Backend/internal/bom"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/dto"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CandidateQuery narrows the priced-catalog lookup that feeds a bill of
// materials: category set plus optional price band and unit label.
type CandidateQuery struct {
	Categories []string
	MinPrice   *decimal.Decimal // inclusive
	MaxPrice   *decimal.Decimal // exclusive
	Unit       string
}

// CatalogRepository defines the data access contract for materials, vendors
// and listings. Services depend on this interface, not on the concrete GORM
// implementation, enabling clean unit testing via mocks.
type CatalogRepository interface {
	// Materials
	CreateMaterial(ctx context.Context, m *model.Material) error
	FindMaterialByID(ctx context.Context, id uuid.UUID) (*model.Material, error)
	ListMaterials(ctx context.Context, filter dto.MaterialFilter) ([]model.Material, int64, error)
	UpdateMaterial(ctx context.Context, m *model.Material) error
	SoftDeleteMaterial(ctx context.Context, id uuid.UUID) error

	// Vendors and listings
	CreateVendor(ctx context.Context, v *model.Vendor) error
	FindVendorByID(ctx context.Context, id uuid.UUID) (*model.Vendor, error)
	FindVendorByName(ctx context.Context, name string) (*model.Vendor, error)
	ListVendors(ctx context.Context) ([]model.Vendor, error)
	CreateListing(ctx context.Context, l *model.VendorListing) error

	// FindCandidates returns in-stock priced entries matching the query,
	// one per listing, cheapest first.
	FindCandidates(ctx context.Context, q CandidateQuery) ([]bom.Candidate, error)

	// SearchCandidates is the free-text variant behind plant search.
	SearchCandidates(ctx context.Context, filter dto.PlantSearchFilter) ([]dto.PlantSearchItem, int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type catalogRepo struct{ db *gorm.DB }

func NewCatalogRepository(db *gorm.DB) CatalogRepository { return &catalogRepo{db: db} }

func (r *catalogRepo) CreateMaterial(ctx context.Context, m *model.Material) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *catalogRepo) FindMaterialByID(ctx context.Context, id uuid.UUID) (*model.Material, error) {
	var m model.Material
	err := r.db.WithContext(ctx).Preload("Listings").Preload("Listings.Vendor").First(&m, id).Error
	return &m, err
}

func (r *catalogRepo) ListMaterials(ctx context.Context, filter dto.MaterialFilter) ([]model.Material, int64, error) {
	var materials []model.Material
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Material{}).Where("active = true")
	if filter.Name != "" {
		q = q.Where("name ILIKE ? OR name_th ILIKE ?", "%"+filter.Name+"%", "%"+filter.Name+"%")
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).
		Preload("Listings").Preload("Listings.Vendor").Find(&materials).Error
	return materials, total, err
}

func (r *catalogRepo) UpdateMaterial(ctx context.Context, m *model.Material) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *catalogRepo) SoftDeleteMaterial(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Material{}).Where("id = ?", id).Update("active", false).Error
}

func (r *catalogRepo) CreateVendor(ctx context.Context, v *model.Vendor) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *catalogRepo) FindVendorByID(ctx context.Context, id uuid.UUID) (*model.Vendor, error) {
	var v model.Vendor
	err := r.db.WithContext(ctx).First(&v, id).Error
	return &v, err
}

func (r *catalogRepo) FindVendorByName(ctx context.Context, name string) (*model.Vendor, error) {
	var v model.Vendor
	err := r.db.WithContext(ctx).Where("name = ? AND active = true", name).First(&v).Error
	return &v, err
}

func (r *catalogRepo) ListVendors(ctx context.Context) ([]model.Vendor, error) {
	var vendors []model.Vendor
	err := r.db.WithContext(ctx).Where("active = true").Order("name ASC").Find(&vendors).Error
	return vendors, err
}

func (r *catalogRepo) CreateListing(ctx context.Context, l *model.VendorListing) error {
	return r.db.WithContext(ctx).Create(l).Error
}

// candidateRow is the flattened join of listing, material and vendor.
type candidateRow struct {
	MaterialID uuid.UUID
	Name       string
	Category   string
	Price      decimal.Decimal
	Unit       string
	VendorName string
	ProductURL string
}

func (row candidateRow) toCandidate() bom.Candidate {
	return bom.Candidate{
		MaterialID: row.MaterialID,
		Name:       row.Name,
		Category:   bom.Category(row.Category),
		UnitPrice:  row.Price,
		Unit:       row.Unit,
		VendorName: row.VendorName,
		ProductURL: row.ProductURL,
	}
}

// searchRow adds the Thai name column for free-text search results.
type searchRow struct {
	MaterialID uuid.UUID
	Name       string
	NameTH     *string
	Category   string
	Price      decimal.Decimal
	Unit       string
	VendorName string
	ProductURL string
}

func (r *catalogRepo) FindCandidates(ctx context.Context, q CandidateQuery) ([]bom.Candidate, error) {
	query := r.db.WithContext(ctx).
		Table("vendor_listings AS l").
		Select("m.id AS material_id, m.name, m.category, l.price, m.unit, v.name AS vendor_name, l.product_url").
		Joins("JOIN materials m ON m.id = l.material_id").
		Joins("JOIN vendors v ON v.id = l.vendor_id").
		Where("m.active = true AND v.active = true AND l.in_stock = true").
		Where("m.category IN ?", q.Categories)

	if q.MinPrice != nil {
		query = query.Where("l.price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		query = query.Where("l.price < ?", *q.MaxPrice)
	}
	if q.Unit != "" {
		query = query.Where("m.unit = ?", q.Unit)
	}

	var rows []candidateRow
	if err := query.Order("l.price ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]bom.Candidate, len(rows))
	for i, row := range rows {
		out[i] = row.toCandidate()
	}
	return out, nil
}

func (r *catalogRepo) SearchCandidates(ctx context.Context, filter dto.PlantSearchFilter) ([]dto.PlantSearchItem, int64, error) {
	base := r.db.WithContext(ctx).
		Table("vendor_listings AS l").
		Joins("JOIN materials m ON m.id = l.material_id").
		Joins("JOIN vendors v ON v.id = l.vendor_id").
		Where("m.active = true AND v.active = true AND l.in_stock = true").
		Where("m.name ILIKE ? OR m.name_th ILIKE ?", "%"+filter.Query+"%", "%"+filter.Query+"%")
	if filter.Category != "" {
		base = base.Where("m.category = ?", filter.Category)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var rows []searchRow
	err := base.
		Select("m.id AS material_id, m.name, m.name_th, m.category, l.price, m.unit, v.name AS vendor_name, l.product_url").
		Order("l.price ASC").Limit(filter.Limit).Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.PlantSearchItem, len(rows))
	for i, row := range rows {
		out[i] = dto.PlantSearchItem{
			MaterialID: row.MaterialID.String(),
			Name:       row.Name,
			NameTH:     row.NameTH,
			Category:   row.Category,
			Unit:       row.Unit,
			Price:      row.Price,
			VendorName: row.VendorName,
			ProductURL: row.ProductURL,
		}
	}
	return out, total, nil
}

func (r *catalogRepo) DB() *gorm.DB { return r.db }

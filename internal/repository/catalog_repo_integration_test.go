//go:build integration

package repository

// Integration tests for the catalog repository against real Postgres via
// testcontainers. Run with: go test -tags integration ./internal/repository/... -v

import (
	"context"
	"testing"

	"github.com/NuttWarunyu/PlantPick-Backend/internal/dto"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/infra"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("plantpick_test"),
		tcPostgres.WithUsername("plantpick"),
		tcPostgres.WithPassword("plantpick"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := infra.NewDatabase(dsn)
	require.NoError(t, err)
	return db
}

func strPtr(s string) *string { return &s }

// seedCatalog inserts two vendors and a small priced catalog:
//
//	golden shower tree  plant_large   5500 (in stock) / 5200 (out of stock)
//	hibiscus            plant_medium  2500
//	rosemary            plant_small    300
//	potting soil        soil_system    120 (unit: bag)
func seedCatalog(t *testing.T, db *gorm.DB) (model.Vendor, map[string]model.Material) {
	t.Helper()

	v1 := model.Vendor{Name: "Green Corner"}
	v2 := model.Vendor{Name: "Chatuchak Plants"}
	require.NoError(t, db.Create(&v1).Error)
	require.NoError(t, db.Create(&v2).Error)

	materials := map[string]model.Material{}
	add := func(name string, nameTH *string, category, unit string) model.Material {
		m := model.Material{Name: name, NameTH: nameTH, Category: category, Unit: unit, Active: true}
		require.NoError(t, db.Create(&m).Error)
		materials[name] = m
		return m
	}

	tree := add("golden shower tree", strPtr("ต้นราชพฤกษ์"), "plant_large", "piece")
	hibiscus := add("hibiscus", strPtr("ชบา"), "plant_medium", "piece")
	rosemary := add("rosemary", nil, "plant_small", "piece")
	soil := add("potting soil", strPtr("ดินปลูก"), "soil_system", "bag")

	listings := []model.VendorListing{
		{MaterialID: tree.ID, VendorID: v1.ID, Price: decimal.NewFromInt(5500), ProductURL: "https://shop.example.com/tree", InStock: true},
		{MaterialID: tree.ID, VendorID: v2.ID, Price: decimal.NewFromInt(5200), ProductURL: "https://shop.example.com/tree-cheap", InStock: false},
		{MaterialID: hibiscus.ID, VendorID: v1.ID, Price: decimal.NewFromInt(2500), ProductURL: "https://shop.example.com/hibiscus", InStock: true},
		{MaterialID: rosemary.ID, VendorID: v2.ID, Price: decimal.NewFromInt(300), ProductURL: "https://shop.example.com/rosemary", InStock: true},
		{MaterialID: soil.ID, VendorID: v1.ID, Price: decimal.NewFromInt(120), ProductURL: "https://shop.example.com/soil", InStock: true},
	}
	for i := range listings {
		require.NoError(t, db.Create(&listings[i]).Error)
	}
	return v1, materials
}

func TestFindCandidatesFiltersAndOrders(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	// Out-of-stock listings must not surface; e.g. the cheaper tree listing.
	min := decimal.NewFromInt(5000)
	cands, err := repo.FindCandidates(ctx, CandidateQuery{
		Categories: []string{"plant_large"},
		MinPrice:   &min,
	})
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, "golden shower tree", cands[0].Name)
	assert.True(t, cands[0].UnitPrice.Equal(decimal.NewFromInt(5500)))
	assert.Equal(t, "Green Corner", cands[0].VendorName)

	// Price band is [min, max): a 2500 listing is excluded at max 2500.
	max := decimal.NewFromInt(2500)
	cands, err = repo.FindCandidates(ctx, CandidateQuery{
		Categories: []string{"plant_medium", "plant_small"},
		MaxPrice:   &max,
	})
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, "rosemary", cands[0].Name)

	// Cheapest first across categories.
	cands, err = repo.FindCandidates(ctx, CandidateQuery{
		Categories: []string{"plant_large", "plant_medium", "plant_small", "soil_system"},
	})
	require.NoError(t, err)
	require.Len(t, cands, 4)
	assert.Equal(t, "potting soil", cands[0].Name)
	assert.Equal(t, "golden shower tree", cands[3].Name)
}

func TestFindCandidatesSkipsInactiveMaterial(t *testing.T) {
	db := setupTestDB(t)
	_, materials := seedCatalog(t, db)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.SoftDeleteMaterial(ctx, materials["rosemary"].ID))

	cands, err := repo.FindCandidates(ctx, CandidateQuery{Categories: []string{"plant_small"}})
	require.NoError(t, err)
	assert.Empty(t, cands)
}

func TestSearchCandidatesMatchesThaiName(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	items, total, err := repo.SearchCandidates(ctx, dto.PlantSearchFilter{
		Query: "ชบา",
		Page:  1,
		Limit: 20,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "hibiscus", items[0].Name)
	require.NotNil(t, items[0].NameTH)
	assert.Equal(t, "ชบา", *items[0].NameTH)
}

func TestListMaterialsPaginates(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	page1, total, err := repo.ListMaterials(ctx, dto.MaterialFilter{Page: 1, Limit: 3})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Len(t, page1, 3)

	page2, _, err := repo.ListMaterials(ctx, dto.MaterialFilter{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, page2, 1)
}

func TestCreateVendorEnforcesUniqueName(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	dup := model.Vendor{Name: "Green Corner"}
	assert.Error(t, repo.CreateVendor(ctx, &dup))
}

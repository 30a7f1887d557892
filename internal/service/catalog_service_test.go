package service

import (
	"context"
	"testing"

	"github.com/NuttWarunyu/PlantPick-Backend/internal/dto"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMaterialDefaultsUnit(t *testing.T) {
	svc := NewCatalogService(newFullCatalogRepo())

	resp, err := svc.CreateMaterial(context.Background(), dto.CreateMaterialRequest{
		Name:     "Gravel 20mm",
		Category: "hardscape_path",
	})
	require.NoError(t, err)
	assert.Equal(t, "piece", resp.Unit)
	assert.True(t, resp.Active)
}

func TestUpdateMaterialPartial(t *testing.T) {
	repo := newFullCatalogRepo()
	svc := NewCatalogService(repo)

	created, err := svc.CreateMaterial(context.Background(), dto.CreateMaterialRequest{
		Name:     "Drip kit",
		Category: "irrigation_system",
		Unit:     "set",
	})
	require.NoError(t, err)
	id, _ := uuid.Parse(created.ID)

	nameTH := "ชุดน้ำหยด"
	updated, err := svc.UpdateMaterial(context.Background(), id, dto.UpdateMaterialRequest{NameTH: &nameTH})
	require.NoError(t, err)
	assert.Equal(t, "Drip kit", updated.Name)
	assert.Equal(t, "set", updated.Unit)
	require.NotNil(t, updated.NameTH)
	assert.Equal(t, nameTH, *updated.NameTH)
}

func TestUpdateMaterialNotFound(t *testing.T) {
	svc := NewCatalogService(newFullCatalogRepo())

	_, err := svc.UpdateMaterial(context.Background(), uuid.New(), dto.UpdateMaterialRequest{})
	require.ErrorIs(t, err, ErrMaterialNotFound)
}

func TestDeleteMaterialDeactivates(t *testing.T) {
	repo := newFullCatalogRepo()
	svc := NewCatalogService(repo)

	created, err := svc.CreateMaterial(context.Background(), dto.CreateMaterialRequest{
		Name:     "Concrete edging",
		Category: "hardscape_edge",
	})
	require.NoError(t, err)
	id, _ := uuid.Parse(created.ID)

	require.NoError(t, svc.DeleteMaterial(context.Background(), id))
	m, err := repo.FindMaterialByID(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, m.Active)
}

func TestCreateVendorRejectsDuplicateName(t *testing.T) {
	svc := NewCatalogService(newFullCatalogRepo())

	_, err := svc.CreateVendor(context.Background(), dto.CreateVendorRequest{Name: "Garden Depot"})
	require.NoError(t, err)

	_, err = svc.CreateVendor(context.Background(), dto.CreateVendorRequest{Name: "Garden Depot"})
	require.ErrorIs(t, err, ErrVendorExists)
}

func TestCreateListingValidatesReferences(t *testing.T) {
	repo := newFullCatalogRepo()
	svc := NewCatalogService(repo)

	material := &model.Material{Name: "Rose", Category: "plant_small", Unit: "piece", Active: true}
	require.NoError(t, repo.CreateMaterial(context.Background(), material))
	vendor := &model.Vendor{Name: "GreenShop", Active: true}
	require.NoError(t, repo.CreateVendor(context.Background(), vendor))

	_, err := svc.CreateListing(context.Background(), dto.CreateListingRequest{
		MaterialID: material.ID.String(),
		VendorID:   uuid.New().String(),
		Price:      decimal.NewFromInt(120),
		ProductURL: "https://example.com/rose",
	})
	require.ErrorIs(t, err, ErrVendorNotFound)

	resp, err := svc.CreateListing(context.Background(), dto.CreateListingRequest{
		MaterialID: material.ID.String(),
		VendorID:   vendor.ID.String(),
		Price:      decimal.NewFromInt(120),
		ProductURL: "https://example.com/rose",
	})
	require.NoError(t, err)
	assert.True(t, resp.InStock)
	assert.True(t, resp.Price.Equal(decimal.NewFromInt(120)))
}

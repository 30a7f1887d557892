package handler

import (
	"errors"
	"net/http"

	"github.com/NuttWarunyu/PlantPick-Backend/internal/apierror"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/dto"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CatalogHandler struct{ svc service.CatalogService }

func NewCatalogHandler(svc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// CreateMaterial godoc
// @Summary Add a material to the catalog
// @Tags catalog
// @Accept json
// @Produce json
// @Param body body dto.CreateMaterialRequest true "Material"
// @Success 201 {object} dto.MaterialResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/materials [post]
func (h *CatalogHandler) CreateMaterial(c *gin.Context) {
	var req dto.CreateMaterialRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateMaterial(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetMaterial godoc
// @Summary Fetch one material with its listings
// @Tags catalog
// @Produce json
// @Param id path string true "Material ID"
// @Success 200 {object} dto.MaterialResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/materials/{id} [get]
func (h *CatalogHandler) GetMaterial(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid material ID"))
		return
	}
	resp, err := h.svc.GetMaterial(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrMaterialNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("Material not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Could not load material"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListMaterials godoc
// @Summary List catalog materials
// @Tags catalog
// @Produce json
// @Param name query string false "Name filter (English or Thai)"
// @Param category query string false "Category filter"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.MaterialListResponse
// @Router /v1/materials [get]
func (h *CatalogHandler) ListMaterials(c *gin.Context) {
	var filter dto.MaterialFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.ListMaterials(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Could not list materials"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateMaterial godoc
// @Summary Update a material
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path string true "Material ID"
// @Param body body dto.UpdateMaterialRequest true "Fields to update"
// @Success 200 {object} dto.MaterialResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/materials/{id} [put]
func (h *CatalogHandler) UpdateMaterial(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid material ID"))
		return
	}
	var req dto.UpdateMaterialRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateMaterial(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, service.ErrMaterialNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("Material not found"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteMaterial godoc
// @Summary Deactivate a material
// @Tags catalog
// @Param id path string true "Material ID"
// @Success 204 "No Content"
// @Failure 404 {object} apierror.APIError
// @Router /v1/materials/{id} [delete]
func (h *CatalogHandler) DeleteMaterial(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid material ID"))
		return
	}
	if err := h.svc.DeleteMaterial(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrMaterialNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("Material not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Could not delete material"))
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateVendor godoc
// @Summary Add a vendor
// @Tags catalog
// @Accept json
// @Produce json
// @Param body body dto.CreateVendorRequest true "Vendor"
// @Success 201 {object} dto.VendorResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/vendors [post]
func (h *CatalogHandler) CreateVendor(c *gin.Context) {
	var req dto.CreateVendorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateVendor(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrVendorExists) {
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListVendors godoc
// @Summary List active vendors
// @Tags catalog
// @Produce json
// @Success 200 {array} dto.VendorResponse
// @Router /v1/vendors [get]
func (h *CatalogHandler) ListVendors(c *gin.Context) {
	resp, err := h.svc.ListVendors(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Could not list vendors"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateListing godoc
// @Summary Attach a priced listing to a material
// @Tags catalog
// @Accept json
// @Produce json
// @Param body body dto.CreateListingRequest true "Listing"
// @Success 201 {object} dto.ListingResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/listings [post]
func (h *CatalogHandler) CreateListing(c *gin.Context) {
	var req dto.CreateListingRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateListing(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrMaterialNotFound) || errors.Is(err, service.ErrVendorNotFound) {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

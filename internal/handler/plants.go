package handler

import (
	"errors"
	"net/http"

	"github.com/NuttWarunyu/PlantPick-Backend/internal/apierror"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/dto"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/service"

	"github.com/gin-gonic/gin"
)

type PlantHandler struct{ svc service.PlantService }

func NewPlantHandler(svc service.PlantService) *PlantHandler { return &PlantHandler{svc: svc} }

// Identify godoc
// @Summary Identify the plant in a photo
// @Tags plants
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Plant photo"
// @Success 200 {object} dto.IdentifyPlantResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/plants/identify [post]
func (h *PlantHandler) Identify(c *gin.Context) {
	imageData, ok := readImageUpload(c)
	if !ok {
		return
	}
	resp, err := h.svc.Identify(c.Request.Context(), imageData)
	if err != nil {
		c.JSON(http.StatusBadGateway, apierror.New("Identification is unavailable right now"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Diagnose godoc
// @Summary Diagnose a plant health problem from a photo
// @Tags plants
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Plant photo"
// @Success 200 {object} dto.DiagnosePlantResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/plants/diagnose [post]
func (h *PlantHandler) Diagnose(c *gin.Context) {
	imageData, ok := readImageUpload(c)
	if !ok {
		return
	}
	resp, err := h.svc.Diagnose(c.Request.Context(), imageData)
	if err != nil {
		c.JSON(http.StatusBadGateway, apierror.New("Diagnosis is unavailable right now"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Search godoc
// @Summary Search the priced plant catalog
// @Tags plants
// @Produce json
// @Param q query string true "Search term (English or Thai)"
// @Param category query string false "Category filter"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.PlantSearchResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/plants/search [get]
func (h *PlantHandler) Search(c *gin.Context) {
	var filter dto.PlantSearchFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.Search(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Search failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Lookup godoc
// @Summary Look up a plant by name: model profile plus live offers
// @Tags plants
// @Produce json
// @Param name query string true "Plant name (English or Thai)"
// @Success 200 {object} dto.PlantLookupResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/plants/lookup [get]
func (h *PlantHandler) Lookup(c *gin.Context) {
	var filter dto.PlantLookupFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.Lookup(c.Request.Context(), filter.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Lookup failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListDiseases godoc
// @Summary List known plant diseases
// @Tags plants
// @Produce json
// @Success 200 {array} dto.DiseaseResponse
// @Router /v1/plants/diseases [get]
func (h *PlantHandler) ListDiseases(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ListDiseases())
}

// GetDisease godoc
// @Summary Fetch one disease by id
// @Tags plants
// @Produce json
// @Param id path string true "Disease ID"
// @Success 200 {object} dto.DiseaseResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/plants/diseases/{id} [get]
func (h *PlantHandler) GetDisease(c *gin.Context) {
	resp, err := h.svc.GetDisease(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Disease not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DiseaseProducts godoc
// @Summary Affiliate products that treat a disease
// @Tags plants
// @Produce json
// @Param id path string true "Disease ID"
// @Success 200 {array} dto.AffiliateOfferResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/plants/diseases/{id}/products [get]
func (h *PlantHandler) DiseaseProducts(c *gin.Context) {
	resp, err := h.svc.DiseaseProducts(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrDiseaseNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("Disease not found"))
			return
		}
		c.JSON(http.StatusBadGateway, apierror.New("Product search is unavailable right now"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

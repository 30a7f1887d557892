package handler

import (
	"errors"
	"net/http"

	"github.com/NuttWarunyu/PlantPick-Backend/internal/apierror"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/dto"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GardenHandler struct {
	svc   service.GardenService
	quota service.QuotaService
}

func NewGardenHandler(svc service.GardenService, quota service.QuotaService) *GardenHandler {
	return &GardenHandler{svc: svc, quota: quota}
}

// Generate godoc
// @Summary Upload a garden photo and queue a redesign
// @Tags garden
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Garden photo (JPEG or PNG)"
// @Param style formData string true "Garden style" Enums(english, tropical, japanese, modern, minimal)
// @Param budget formData number false "Budget in THB"
// @Param prompt formData string false "Custom inpainting prompt (overrides the style prompt)"
// @Param bounding_box formData string false "Normalized repaint region x1,y1,x2,y2"
// @Success 202 {object} dto.GenerateGardenResponse
// @Failure 400 {object} apierror.APIError
// @Failure 429 {object} apierror.APIError
// @Router /v1/garden/generate [post]
func (h *GardenHandler) Generate(c *gin.Context) {
	var req dto.GenerateGardenRequest
	if !bindFormAndValidate(c, &req) {
		return
	}
	imageData, ok := readImageUpload(c)
	if !ok {
		return
	}

	resp, err := h.svc.Generate(c.Request.Context(), c.ClientIP(), req, imageData)
	if err != nil {
		if errors.Is(err, service.ErrQuotaExceeded) {
			c.JSON(http.StatusTooManyRequests, apierror.New("Daily generation limit reached. Try again tomorrow."))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusAccepted, resp)
}

// Status godoc
// @Summary Poll a redesign request
// @Tags garden
// @Produce json
// @Param request_id path string true "Request ID"
// @Success 200 {object} dto.GardenStatusResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/garden/{request_id} [get]
func (h *GardenHandler) Status(c *gin.Context) {
	id, err := uuid.Parse(c.Param("request_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid request ID"))
		return
	}
	resp, err := h.svc.Status(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("Request not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Could not load request"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Analyze godoc
// @Summary Describe the current state of a garden photo
// @Tags garden
// @Accept json
// @Produce json
// @Param body body dto.AnalyzeGardenRequest true "Image URL to analyze"
// @Success 200 {object} dto.AnalyzeGardenResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/garden/analyze [post]
func (h *GardenHandler) Analyze(c *gin.Context) {
	var req dto.AnalyzeGardenRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Analyze(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadGateway, apierror.New("Analysis is unavailable right now"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Quota godoc
// @Summary Remaining generations for the caller today
// @Tags garden
// @Produce json
// @Success 200 {object} map[string]int
// @Router /v1/garden/quota [get]
func (h *GardenHandler) Quota(c *gin.Context) {
	remaining, err := h.quota.Remaining(c.Request.Context(), c.ClientIP())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Could not read quota"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"remaining": remaining})
}

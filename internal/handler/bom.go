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

type BOMHandler struct{ svc service.BOMService }

func NewBOMHandler(svc service.BOMService) *BOMHandler { return &BOMHandler{svc: svc} }

// Assemble godoc
// @Summary Assemble a bill of materials for a budget and style
// @Tags bom
// @Accept json
// @Produce json
// @Param body body dto.AssembleBOMRequest true "Budget and style"
// @Success 200 {object} dto.BOMResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/bom/assemble [post]
func (h *BOMHandler) Assemble(c *gin.Context) {
	var req dto.AssembleBOMRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Assemble(c.Request.Context(), c.ClientIP(), req)
	if err != nil {
		// The plan is still usable when only persistence failed
		if errors.Is(err, service.ErrPersistence) && resp != nil {
			c.JSON(http.StatusOK, resp)
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Fetch a previously assembled bill of materials
// @Tags bom
// @Produce json
// @Param history_id path string true "History ID"
// @Success 200 {object} dto.BOMResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/bom/{history_id} [get]
func (h *BOMHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("history_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid history ID"))
		return
	}
	resp, err := h.svc.GetByHistoryID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("Bill of materials not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Could not load bill of materials"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportPDF godoc
// @Summary Download the shopping list as a PDF
// @Tags bom
// @Produce application/pdf
// @Param history_id path string true "History ID"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /v1/bom/{history_id}/pdf [get]
func (h *BOMHandler) ExportPDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("history_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid history ID"))
		return
	}
	path, err := h.svc.ExportPDF(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("Bill of materials not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Could not generate PDF"))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="garden-shopping-list.pdf"`)
	c.File(path)
}

// Email godoc
// @Summary Email the shopping list PDF
// @Tags bom
// @Accept json
// @Produce json
// @Param history_id path string true "History ID"
// @Param body body dto.EmailBOMRequest true "Recipient"
// @Success 202 {object} map[string]string
// @Failure 404 {object} apierror.APIError
// @Router /v1/bom/{history_id}/email [post]
func (h *BOMHandler) Email(c *gin.Context) {
	id, err := uuid.Parse(c.Param("history_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid history ID"))
		return
	}
	var req dto.EmailBOMRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.EmailPDF(c.Request.Context(), id, req.To); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("Bill of materials not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Could not queue the email"))
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

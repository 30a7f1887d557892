package handler

import (
	"net/http"

	"github.com/NuttWarunyu/PlantPick-Backend/internal/apierror"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/dto"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/service"

	"github.com/gin-gonic/gin"
)

type AffiliateHandler struct{ svc service.AffiliateService }

func NewAffiliateHandler(svc service.AffiliateService) *AffiliateHandler {
	return &AffiliateHandler{svc: svc}
}

// Search godoc
// @Summary Search affiliate product offers
// @Tags affiliate
// @Accept json
// @Produce json
// @Param body body dto.AffiliateSearchRequest true "Keyword"
// @Success 200 {object} dto.AffiliateSearchResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/affiliate/search [post]
func (h *AffiliateHandler) Search(c *gin.Context) {
	var req dto.AffiliateSearchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Search(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadGateway, apierror.New("Product search is unavailable right now"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

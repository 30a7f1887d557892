package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/NuttWarunyu/PlantPick-Backend/internal/bom"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/dto"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/model"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubBOMService satisfies service.BOMService with canned responses.
type stubBOMService struct {
	assembleResp *dto.BOMResponse
	assembleErr  error
	getResp      *dto.BOMResponse
	getErr       error
	emailErr     error
}

func (s *stubBOMService) Assemble(context.Context, string, dto.AssembleBOMRequest) (*dto.BOMResponse, error) {
	return s.assembleResp, s.assembleErr
}

func (s *stubBOMService) Compute(context.Context, decimal.Decimal, string) (bom.Result, error) {
	return bom.Result{}, nil
}

func (s *stubBOMService) PersistResult(context.Context, *model.GenerationHistory, bom.Result) error {
	return nil
}

func (s *stubBOMService) GetByHistoryID(context.Context, uuid.UUID) (*dto.BOMResponse, error) {
	return s.getResp, s.getErr
}

func (s *stubBOMService) ExportPDF(context.Context, uuid.UUID) (string, error) {
	return "", s.getErr
}

func (s *stubBOMService) EmailPDF(context.Context, uuid.UUID, string) error {
	return s.emailErr
}

func bomRouter(svc service.BOMService) *gin.Engine {
	r := gin.New()
	h := NewBOMHandler(svc)
	r.POST("/v1/bom/assemble", h.Assemble)
	r.GET("/v1/bom/:history_id", h.Get)
	r.POST("/v1/bom/:history_id/email", h.Email)
	return r
}

func planResponse() *dto.BOMResponse {
	return &dto.BOMResponse{
		Items:       []dto.BOMItemResponse{{Name: "rose", Category: "plant_small", Quantity: 2, Unit: "piece"}},
		Suggestions: []dto.BOMSuggestionResponse{},
		TotalCost:   decimal.NewFromInt(2400),
		Budget:      decimal.NewFromInt(3000),
		Remaining:   decimal.NewFromInt(600),
	}
}

func TestAssembleEndpointReturnsPlan(t *testing.T) {
	r := bomRouter(&stubBOMService{assembleResp: planResponse()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/bom/assemble", strings.NewReader(`{"budget":3000,"style":"english"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.BOMResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, 1)
	assert.True(t, resp.TotalCost.Equal(decimal.NewFromInt(2400)))
}

func TestAssembleEndpointRejectsUnknownStyle(t *testing.T) {
	r := bomRouter(&stubBOMService{assembleResp: planResponse()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/bom/assemble", strings.NewReader(`{"style":"gothic"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAssembleEndpointPersistenceFailureStillServesPlan(t *testing.T) {
	r := bomRouter(&stubBOMService{assembleResp: planResponse(), assembleErr: service.ErrPersistence})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/bom/assemble", strings.NewReader(`{"budget":3000}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetEndpointValidatesID(t *testing.T) {
	r := bomRouter(&stubBOMService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/bom/not-a-uuid", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetEndpointNotFound(t *testing.T) {
	r := bomRouter(&stubBOMService{getErr: gorm.ErrRecordNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/bom/"+uuid.NewString(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEmailEndpointValidatesRecipient(t *testing.T) {
	r := bomRouter(&stubBOMService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/bom/"+uuid.NewString()+"/email", strings.NewReader(`{"to":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestEmailEndpointQueues(t *testing.T) {
	r := bomRouter(&stubBOMService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/bom/"+uuid.NewString()+"/email", strings.NewReader(`{"to":"user@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
}

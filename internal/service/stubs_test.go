package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/NuttWarunyu/PlantPick-Backend/internal/bom"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/dto"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/infra"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/model"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── In-memory CatalogRepository ──────────────────────────────────────────────

type fullCatalogRepo struct {
	materials  map[uuid.UUID]*model.Material
	vendors    map[uuid.UUID]*model.Vendor
	listings   []model.VendorListing
	candidates []bom.Candidate
	findErr    error
}

func newFullCatalogRepo() *fullCatalogRepo {
	return &fullCatalogRepo{
		materials: make(map[uuid.UUID]*model.Material),
		vendors:   make(map[uuid.UUID]*model.Vendor),
	}
}

func (r *fullCatalogRepo) CreateMaterial(_ context.Context, m *model.Material) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.materials[m.ID] = m
	return nil
}

func (r *fullCatalogRepo) FindMaterialByID(_ context.Context, id uuid.UUID) (*model.Material, error) {
	m, ok := r.materials[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *fullCatalogRepo) ListMaterials(_ context.Context, filter dto.MaterialFilter) ([]model.Material, int64, error) {
	var out []model.Material
	for _, m := range r.materials {
		if !m.Active {
			continue
		}
		if filter.Category != "" && m.Category != filter.Category {
			continue
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (r *fullCatalogRepo) UpdateMaterial(_ context.Context, m *model.Material) error {
	r.materials[m.ID] = m
	return nil
}

func (r *fullCatalogRepo) SoftDeleteMaterial(_ context.Context, id uuid.UUID) error {
	if m, ok := r.materials[id]; ok {
		m.Active = false
	}
	return nil
}

func (r *fullCatalogRepo) CreateVendor(_ context.Context, v *model.Vendor) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.vendors[v.ID] = v
	return nil
}

func (r *fullCatalogRepo) FindVendorByID(_ context.Context, id uuid.UUID) (*model.Vendor, error) {
	v, ok := r.vendors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *fullCatalogRepo) FindVendorByName(_ context.Context, name string) (*model.Vendor, error) {
	for _, v := range r.vendors {
		if v.Name == name && v.Active {
			return v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fullCatalogRepo) ListVendors(_ context.Context) ([]model.Vendor, error) {
	var out []model.Vendor
	for _, v := range r.vendors {
		if v.Active {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fullCatalogRepo) CreateListing(_ context.Context, l *model.VendorListing) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.listings = append(r.listings, *l)
	return nil
}

func (r *fullCatalogRepo) FindCandidates(_ context.Context, q repository.CandidateQuery) ([]bom.Candidate, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []bom.Candidate
	for _, c := range r.candidates {
		matched := false
		for _, cat := range q.Categories {
			if string(c.Category) == cat {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		if q.MinPrice != nil && c.UnitPrice.LessThan(*q.MinPrice) {
			continue
		}
		if q.MaxPrice != nil && c.UnitPrice.GreaterThanOrEqual(*q.MaxPrice) {
			continue
		}
		if q.Unit != "" && c.Unit != q.Unit {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UnitPrice.LessThan(out[j].UnitPrice) })
	return out, nil
}

func (r *fullCatalogRepo) SearchCandidates(_ context.Context, filter dto.PlantSearchFilter) ([]dto.PlantSearchItem, int64, error) {
	var out []dto.PlantSearchItem
	for _, c := range r.candidates {
		if !strings.Contains(strings.ToLower(c.Name), strings.ToLower(filter.Query)) {
			continue
		}
		out = append(out, dto.PlantSearchItem{
			MaterialID: c.MaterialID.String(),
			Name:       c.Name,
			Category:   string(c.Category),
			Unit:       c.Unit,
			Price:      c.UnitPrice,
			VendorName: c.VendorName,
			ProductURL: c.ProductURL,
		})
	}
	return out, int64(len(out)), nil
}

func (r *fullCatalogRepo) DB() *gorm.DB { return nil }

// ── In-memory HistoryRepository ──────────────────────────────────────────────

type fullHistoryRepo struct {
	mu         sync.Mutex
	histories  map[uuid.UUID]*model.GenerationHistory
	details    map[uuid.UUID][]model.BOMDetail
	createErr  error
}

func newFullHistoryRepo() *fullHistoryRepo {
	return &fullHistoryRepo{
		histories: make(map[uuid.UUID]*model.GenerationHistory),
		details:   make(map[uuid.UUID][]model.BOMDetail),
	}
}

func (r *fullHistoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.GenerationHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.histories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *h
	copied.Details = r.details[id]
	return &copied, nil
}

func (r *fullHistoryRepo) ListByClientIP(_ context.Context, clientIP string, limit int) ([]model.GenerationHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.GenerationHistory
	for _, h := range r.histories {
		if h.ClientIP == clientIP && len(out) < limit {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (r *fullHistoryRepo) Update(_ context.Context, h *model.GenerationHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.histories[h.ID] = h
	return nil
}

func (r *fullHistoryRepo) CreateTx(_ *gorm.DB, h *model.GenerationHistory) error {
	if r.createErr != nil {
		return r.createErr
	}
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	h.CreatedAt = time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.histories[h.ID] = h
	return nil
}

func (r *fullHistoryRepo) CreateDetailsTx(_ *gorm.DB, details []model.BOMDetail) error {
	if len(details) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.details[details[0].HistoryID] = details
	return nil
}

func (r *fullHistoryRepo) DB() *gorm.DB { return nil }

// ── In-memory RequestRepository ──────────────────────────────────────────────

type fullRequestRepo struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*model.GardenRequest
}

func newFullRequestRepo() *fullRequestRepo {
	return &fullRequestRepo{requests: make(map[uuid.UUID]*model.GardenRequest)}
}

func (r *fullRequestRepo) Create(_ context.Context, req *model.GardenRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.Status == "" {
		req.Status = "pending"
	}
	req.CreatedAt = time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[req.ID] = req
	return nil
}

func (r *fullRequestRepo) FindByID(_ context.Context, id uuid.UUID) (*model.GardenRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *req
	return &copied, nil
}

func (r *fullRequestRepo) Update(_ context.Context, req *model.GardenRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[req.ID] = req
	return nil
}

func (r *fullRequestRepo) MarkProcessing(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if req.Status != "pending" && req.Status != "failed" {
		return false, nil
	}
	req.Status = "processing"
	return true, nil
}

func (r *fullRequestRepo) MarkCompleted(_ context.Context, id, historyID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	req.Status = "completed"
	req.HistoryID = &historyID
	req.LastError = nil
	return nil
}

func (r *fullRequestRepo) MarkFailed(_ context.Context, id uuid.UUID, cause string, nextRetryAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	req.Status = "failed"
	req.LastError = &cause
	req.RetryCount++
	req.NextRetryAt = nextRetryAt
	return nil
}

func (r *fullRequestRepo) DB() *gorm.DB { return nil }

func (r *fullRequestRepo) ListPendingRetries(_ context.Context, limit int) ([]model.GardenRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.GardenRequest
	now := time.Now()
	for _, req := range r.requests {
		if req.Status == "failed" && req.NextRetryAt != nil && req.NextRetryAt.Before(now) && len(out) < limit {
			out = append(out, *req)
		}
	}
	return out, nil
}

// ── Light stubs ──────────────────────────────────────────────────────────────

type stubAffiliate struct {
	enabled  bool
	offers   []infra.ShopeeOffer
	err      error
	keywords []string
}

func (s *stubAffiliate) Enabled() bool { return s.enabled }

func (s *stubAffiliate) SearchProducts(_ context.Context, keyword string, _, _ int) ([]infra.ShopeeOffer, error) {
	s.keywords = append(s.keywords, keyword)
	if s.err != nil {
		return nil, s.err
	}
	return s.offers, nil
}

type stubDispatcher struct {
	generation []interface{}
	email      []interface{}
	err        error
}

func (s *stubDispatcher) EnqueueGeneration(_ context.Context, payload interface{}) error {
	if s.err != nil {
		return s.err
	}
	s.generation = append(s.generation, payload)
	return nil
}

func (s *stubDispatcher) EnqueueEmail(_ context.Context, payload interface{}) error {
	if s.err != nil {
		return s.err
	}
	s.email = append(s.email, payload)
	return nil
}

type stubVision struct {
	response string
	err      error
	prompts  []string
}

func (s *stubVision) CompleteVision(_ context.Context, prompt, _ string, _ int, _ bool) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubVision) Complete(_ context.Context, prompt string, _ int) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

type stubUploader struct {
	keys []string
	err  error
}

func (s *stubUploader) UploadBytes(_ context.Context, key, _ string, _ []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.keys = append(s.keys, key)
	return "https://cdn.example.com/" + key, nil
}

type stubInpainter struct {
	url   string
	err   error
	calls int
	last  infra.InpaintInput
}

func (s *stubInpainter) Inpaint(_ context.Context, in infra.InpaintInput) (string, error) {
	s.calls++
	s.last = in
	if s.err != nil {
		return "", s.err
	}
	return s.url, nil
}

type stubQuota struct {
	err      error
	consumed []string
}

func (s *stubQuota) Consume(_ context.Context, clientIP string) error {
	if s.err != nil {
		return s.err
	}
	s.consumed = append(s.consumed, clientIP)
	return nil
}

func (s *stubQuota) Remaining(_ context.Context, _ string) (int, error) { return 1, nil }

// pngBytes renders a small solid image for upload tests.
func pngBytes() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 30, G: 120, B: 60, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

var errBoom = errors.New("boom")

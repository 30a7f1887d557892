package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/NuttWarunyu/PlantPick-Backend/internal/bom"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/dto"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/infra"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/model"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/repository"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrPersistence signals that a bill of materials was computed successfully
// but could not be stored; callers may still return the computed plan.
var ErrPersistence = errors.New("bill of materials computed but not persisted")

// AffiliateSearcher is the slice of the Shopee client the BOM service needs.
type AffiliateSearcher interface {
	Enabled() bool
	SearchProducts(ctx context.Context, keyword string, page, limit int) ([]infra.ShopeeOffer, error)
}

// JobDispatcher abstracts the queue so services can be unit tested without
// Redis. *worker.Dispatcher is the production implementation.
type JobDispatcher interface {
	EnqueueGeneration(ctx context.Context, payload interface{}) error
	EnqueueEmail(ctx context.Context, payload interface{}) error
}

// BOMService defines business operations around bill-of-materials assembly.
type BOMService interface {
	// Assemble computes and persists a plan for an ad-hoc budget request.
	// On storage failure the plan is still returned together with
	// ErrPersistence.
	Assemble(ctx context.Context, clientIP string, req dto.AssembleBOMRequest) (*dto.BOMResponse, error)

	// Compute runs the pure assembly against the catalog without persisting.
	Compute(ctx context.Context, budget decimal.Decimal, style string) (bom.Result, error)

	// PersistResult stores a history row plus its detail rows atomically.
	PersistResult(ctx context.Context, h *model.GenerationHistory, result bom.Result) error

	GetByHistoryID(ctx context.Context, id uuid.UUID) (*dto.BOMResponse, error)
	ExportPDF(ctx context.Context, id uuid.UUID) (string, error)
	EmailPDF(ctx context.Context, id uuid.UUID, to string) error
}

type bomService struct {
	catalogRepo repository.CatalogRepository
	historyRepo repository.HistoryRepository
	affiliate   AffiliateSearcher
	dispatcher  JobDispatcher

	defaultBudget  decimal.Decimal
	pdfStoragePath string

	// shuffle randomizes candidate order for plan variety; replaced with a
	// no-op in unit tests
	shuffle func([]bom.Candidate)
}

func NewBOMService(
	catalogRepo repository.CatalogRepository,
	historyRepo repository.HistoryRepository,
	affiliate AffiliateSearcher,
	dispatcher JobDispatcher,
	defaultBudget int,
	pdfStoragePath string,
) BOMService {
	return &bomService{
		catalogRepo:    catalogRepo,
		historyRepo:    historyRepo,
		affiliate:      affiliate,
		dispatcher:     dispatcher,
		defaultBudget:  decimal.NewFromInt(int64(defaultBudget)),
		pdfStoragePath: pdfStoragePath,
		shuffle: func(cands []bom.Candidate) {
			rand.Shuffle(len(cands), func(i, j int) { cands[i], cands[j] = cands[j], cands[i] })
		},
	}
}

// ── Assembly ─────────────────────────────────────────────────────────────────

func (s *bomService) Compute(ctx context.Context, budget decimal.Decimal, style string) (bom.Result, error) {
	var sourceErr error
	source := func(g bom.SubGroup) []bom.Candidate {
		q := repository.CandidateQuery{
			Categories: categoryNames(g.Categories),
			MinPrice:   g.MinPrice,
			MaxPrice:   g.MaxPrice,
			Unit:       g.Unit,
		}
		cands, err := s.catalogRepo.FindCandidates(ctx, q)
		if err != nil {
			sourceErr = err
			return nil
		}
		// Sparse catalogs are backfilled from the static style list so a
		// fresh install still produces a plan.
		if len(cands) == 0 {
			cands = filterCandidates(styleCatalogCandidates(style), g)
		}
		s.shuffle(cands)
		return cands
	}

	result := bom.Assemble(budget, source)
	if sourceErr != nil {
		return bom.Result{}, fmt.Errorf("load candidates: %w", sourceErr)
	}
	return result, nil
}

func (s *bomService) Assemble(ctx context.Context, clientIP string, req dto.AssembleBOMRequest) (*dto.BOMResponse, error) {
	budget := s.defaultBudget
	if req.Budget != nil && !req.Budget.IsZero() {
		budget = *req.Budget
	}
	style := req.Style
	if style == "" {
		style = "english"
	}

	result, err := s.Compute(ctx, budget, style)
	if err != nil {
		return nil, err
	}

	s.enrichAffiliateLinks(ctx, result.Items)

	h := &model.GenerationHistory{
		ClientIP:  clientIP,
		Style:     style,
		Budget:    budget,
		TotalCost: result.TotalCost,
		Fallback:  result.Fallback,
	}
	if err := s.PersistResult(ctx, h, result); err != nil {
		log.Error().Err(err).Msg("bom_service: persist failed")
		resp := mapResult(result, budget, nil)
		return resp, ErrPersistence
	}

	id := h.ID.String()
	return mapResult(result, budget, &id), nil
}

// PersistResult writes the history row and all detail rows in one
// transaction: either the full plan lands or nothing does.
func (s *bomService) PersistResult(ctx context.Context, h *model.GenerationHistory, result bom.Result) error {
	return runTx(ctx, s.historyRepo.DB(), func(tx *gorm.DB) error {
		if err := s.historyRepo.CreateTx(tx, h); err != nil {
			return err
		}
		details := detailRows(h.ID, result)
		return s.historyRepo.CreateDetailsTx(tx, details)
	})
}

// enrichAffiliateLinks fills missing product links from the affiliate search.
// Best-effort: failures leave the item untouched.
func (s *bomService) enrichAffiliateLinks(ctx context.Context, items []bom.LineItem) {
	if s.affiliate == nil || !s.affiliate.Enabled() {
		return
	}
	for i := range items {
		if items[i].ProductURL != "" {
			continue
		}
		offers, err := s.affiliate.SearchProducts(ctx, items[i].Name, 0, 1)
		if err != nil {
			log.Warn().Err(err).Str("item", items[i].Name).Msg("bom_service: affiliate lookup failed")
			continue
		}
		if len(offers) == 0 {
			continue
		}
		items[i].ProductURL = offers[0].OfferLink
		if items[i].VendorName == "" {
			items[i].VendorName = offers[0].ShopName
		}
	}
}

// ── Lookup / export ──────────────────────────────────────────────────────────

func (s *bomService) GetByHistoryID(ctx context.Context, id uuid.UUID) (*dto.BOMResponse, error) {
	h, err := s.historyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapHistory(h), nil
}

func (s *bomService) ExportPDF(ctx context.Context, id uuid.UUID) (string, error) {
	h, err := s.historyRepo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if h.PDFPath != nil && *h.PDFPath != "" {
		return *h.PDFPath, nil
	}

	path, err := infra.GenerateBOMPDF(h, s.pdfStoragePath)
	if err != nil {
		return "", err
	}
	h.PDFPath = &path
	if err := s.historyRepo.Update(ctx, h); err != nil {
		log.Warn().Err(err).Str("history_id", id.String()).Msg("bom_service: failed to store pdf path")
	}
	return path, nil
}

func (s *bomService) EmailPDF(ctx context.Context, id uuid.UUID, to string) error {
	path, err := s.ExportPDF(ctx, id)
	if err != nil {
		return err
	}
	job := worker.EmailJobPayload{
		ToEmail: to,
		Subject: "Your PlantPick garden shopping list",
		Body:    "Attached is the shopping list for your generated garden design.",
		PDFPath: path,
	}
	return s.dispatcher.EnqueueEmail(ctx, job)
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func categoryNames(cats []bom.Category) []string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = string(c)
	}
	return out
}

// filterCandidates narrows a static candidate list to a sub-group's
// category, price band and unit constraints.
func filterCandidates(cands []bom.Candidate, g bom.SubGroup) []bom.Candidate {
	var out []bom.Candidate
	for _, c := range cands {
		matched := false
		for _, cat := range g.Categories {
			if c.Category == cat {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		if g.MinPrice != nil && c.UnitPrice.LessThan(*g.MinPrice) {
			continue
		}
		if g.MaxPrice != nil && c.UnitPrice.GreaterThanOrEqual(*g.MaxPrice) {
			continue
		}
		if g.Unit != "" && c.Unit != g.Unit {
			continue
		}
		out = append(out, c)
	}
	return out
}

func detailRows(historyID uuid.UUID, result bom.Result) []model.BOMDetail {
	var rows []model.BOMDetail
	for _, it := range result.Items {
		row := model.BOMDetail{
			HistoryID:     historyID,
			Name:          it.Name,
			Category:      string(it.Category),
			Quantity:      it.Quantity,
			Unit:          it.Unit,
			UnitPrice:     it.UnitPrice,
			EstimatedCost: it.EstimatedCost,
			VendorName:    it.VendorName,
			ProductURL:    it.ProductURL,
		}
		if it.MaterialID != uuid.Nil {
			id := it.MaterialID
			row.MaterialID = &id
		}
		rows = append(rows, row)
	}
	for group, cands := range result.Suggestions {
		for _, c := range cands {
			groupName := group
			row := model.BOMDetail{
				HistoryID:    historyID,
				Name:         c.Name,
				Category:     string(c.Category),
				Quantity:     0,
				Unit:         c.Unit,
				UnitPrice:    c.UnitPrice,
				EstimatedCost: decimal.Zero,
				VendorName:   c.VendorName,
				ProductURL:   c.ProductURL,
				IsSuggestion: true,
				GroupName:    &groupName,
			}
			if c.MaterialID != uuid.Nil {
				id := c.MaterialID
				row.MaterialID = &id
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func mapResult(result bom.Result, budget decimal.Decimal, historyID *string) *dto.BOMResponse {
	resp := &dto.BOMResponse{
		HistoryID:   historyID,
		Items:       make([]dto.BOMItemResponse, 0, len(result.Items)),
		Suggestions: make([]dto.BOMSuggestionResponse, 0, len(result.Suggestions)),
		TotalCost:   result.TotalCost,
		Budget:      budget,
		Remaining:   budget.Sub(result.TotalCost),
		Fallback:    result.Fallback,
	}
	for _, it := range result.Items {
		item := dto.BOMItemResponse{
			Name:          it.Name,
			Category:      string(it.Category),
			Quantity:      it.Quantity,
			Unit:          it.Unit,
			UnitPrice:     it.UnitPrice,
			EstimatedCost: it.EstimatedCost,
			VendorName:    it.VendorName,
			ProductURL:    it.ProductURL,
		}
		if it.MaterialID != uuid.Nil {
			id := it.MaterialID.String()
			item.MaterialID = &id
		}
		resp.Items = append(resp.Items, item)
	}
	for group, cands := range result.Suggestions {
		for _, c := range cands {
			resp.Suggestions = append(resp.Suggestions, dto.BOMSuggestionResponse{
				GroupName:  group,
				Name:       c.Name,
				Category:   string(c.Category),
				UnitPrice:  c.UnitPrice,
				VendorName: c.VendorName,
				ProductURL: c.ProductURL,
			})
		}
	}
	return resp
}

func mapHistory(h *model.GenerationHistory) *dto.BOMResponse {
	id := h.ID.String()
	resp := &dto.BOMResponse{
		HistoryID:   &id,
		Items:       []dto.BOMItemResponse{},
		Suggestions: []dto.BOMSuggestionResponse{},
		TotalCost:   h.TotalCost,
		Budget:      h.Budget,
		Remaining:   h.Budget.Sub(h.TotalCost),
		Fallback:    h.Fallback,
	}
	for _, d := range h.Details {
		if d.IsSuggestion {
			group := ""
			if d.GroupName != nil {
				group = *d.GroupName
			}
			resp.Suggestions = append(resp.Suggestions, dto.BOMSuggestionResponse{
				GroupName:  group,
				Name:       d.Name,
				Category:   d.Category,
				UnitPrice:  d.UnitPrice,
				VendorName: d.VendorName,
				ProductURL: d.ProductURL,
			})
			continue
		}
		item := dto.BOMItemResponse{
			Name:          d.Name,
			Category:      d.Category,
			Quantity:      d.Quantity,
			Unit:          d.Unit,
			UnitPrice:     d.UnitPrice,
			EstimatedCost: d.EstimatedCost,
			VendorName:    d.VendorName,
			ProductURL:    d.ProductURL,
		}
		if d.MaterialID != nil {
			mid := d.MaterialID.String()
			item.MaterialID = &mid
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}

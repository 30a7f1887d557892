package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/NuttWarunyu/PlantPick-Backend/internal/dto"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/infra"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/model"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/repository"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Uploader is the slice of the object store the garden service needs.
type Uploader interface {
	UploadBytes(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// Inpainter is the slice of the Replicate client the garden service needs.
type Inpainter interface {
	Inpaint(ctx context.Context, in infra.InpaintInput) (string, error)
}

// VisionCompleter is the slice of the OpenAI client used for image analysis.
type VisionCompleter interface {
	CompleteVision(ctx context.Context, prompt, imageB64 string, maxTokens int, useMini bool) (string, error)
}

// GardenService owns the photo-to-redesign pipeline: accepting uploads,
// queueing generation jobs, running them, and reporting their status.
type GardenService interface {
	Generate(ctx context.Context, clientIP string, req dto.GenerateGardenRequest, imageData []byte) (*dto.GenerateGardenResponse, error)
	Status(ctx context.Context, requestID uuid.UUID) (*dto.GardenStatusResponse, error)
	Analyze(ctx context.Context, req dto.AnalyzeGardenRequest) (*dto.AnalyzeGardenResponse, error)

	// ProcessRequest runs the full pipeline for one queued request; it is
	// invoked by the generation worker, never by handlers.
	ProcessRequest(ctx context.Context, requestID uuid.UUID) error
}

type gardenService struct {
	requestRepo repository.RequestRepository
	historyRepo repository.HistoryRepository
	bomSvc      BOMService
	quota       QuotaService
	store       Uploader
	inpainter   Inpainter
	vision      VisionCompleter
	cb          *infra.CircuitBreaker
	dispatcher  JobDispatcher

	defaultBudget decimal.Decimal
	httpClient    *http.Client
}

func NewGardenService(
	requestRepo repository.RequestRepository,
	historyRepo repository.HistoryRepository,
	bomSvc BOMService,
	quota QuotaService,
	store Uploader,
	inpainter Inpainter,
	vision VisionCompleter,
	cb *infra.CircuitBreaker,
	dispatcher JobDispatcher,
	defaultBudget int,
) GardenService {
	return &gardenService{
		requestRepo:   requestRepo,
		historyRepo:   historyRepo,
		bomSvc:        bomSvc,
		quota:         quota,
		store:         store,
		inpainter:     inpainter,
		vision:        vision,
		cb:            cb,
		dispatcher:    dispatcher,
		defaultBudget: decimal.NewFromInt(int64(defaultBudget)),
		httpClient:    &http.Client{Timeout: 30 * time.Second},
	}
}

// stylePrompts map each supported garden style to the inpainting prompt.
var stylePrompts = map[string]string{
	"english":  "a beautiful english cottage garden with lush flower beds, roses, neatly trimmed hedges and a winding gravel path, photorealistic",
	"tropical": "a lush tropical garden with palm trees, heliconia, dense green foliage and natural stone accents, photorealistic",
	"japanese": "a serene japanese zen garden with bonsai, bamboo, moss, raked gravel and stone lanterns, photorealistic",
	"modern":   "a modern minimalist garden with clean lines, architectural plants, concrete pavers and subtle lighting, photorealistic",
	"minimal":  "a minimal garden with a few sculptural plants, open space, smooth surfaces and restrained planting, photorealistic",
}

// parseBBox parses a normalized "x1,y1,x2,y2" repaint region.
func parseBBox(s string) ([4]float64, error) {
	var bbox [4]float64
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return bbox, fmt.Errorf("want 4 comma-separated values, got %d", len(parts))
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return bbox, fmt.Errorf("value %d: %w", i+1, err)
		}
		if v < 0 || v > 1 {
			return bbox, fmt.Errorf("value %d out of [0,1]: %g", i+1, v)
		}
		bbox[i] = v
	}
	if bbox[0] >= bbox[2] || bbox[1] >= bbox[3] {
		return bbox, fmt.Errorf("empty region %q", s)
	}
	return bbox, nil
}

// ── Upload / enqueue ─────────────────────────────────────────────────────────

func (s *gardenService) Generate(ctx context.Context, clientIP string, req dto.GenerateGardenRequest, imageData []byte) (*dto.GenerateGardenResponse, error) {
	if err := s.quota.Consume(ctx, clientIP); err != nil {
		return nil, err
	}

	// Reject non-image uploads before paying for storage
	if _, err := infra.DecodeImage(imageData); err != nil {
		return nil, fmt.Errorf("invalid image: %w", err)
	}
	if req.BoundingBox != "" {
		if _, err := parseBBox(req.BoundingBox); err != nil {
			return nil, fmt.Errorf("invalid bounding box: %w", err)
		}
	}

	budget := s.defaultBudget
	if req.Budget != nil && !req.Budget.IsZero() {
		budget = *req.Budget
	}

	key := fmt.Sprintf("uploads/%s.jpg", uuid.NewString())
	imageURL, err := s.store.UploadBytes(ctx, key, "image/jpeg", imageData)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	request := &model.GardenRequest{
		ClientIP: clientIP,
		ImageURL: imageURL,
		Style:    req.Style,
		Budget:   budget,
		Status:   "pending",
	}
	if req.Prompt != "" {
		request.Prompt = &req.Prompt
	}
	if req.BoundingBox != "" {
		request.MaskBBox = &req.BoundingBox
	}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	payload := worker.GenerationJobPayload{RequestID: request.ID.String()}
	if err := s.dispatcher.EnqueueGeneration(ctx, payload); err != nil {
		return nil, fmt.Errorf("enqueue generation: %w", err)
	}

	log.Info().
		Str("request_id", request.ID.String()).
		Str("style", req.Style).
		Str("budget", budget.String()).
		Msg("garden_service: generation queued")

	return &dto.GenerateGardenResponse{
		RequestID: request.ID.String(),
		Status:    "pending",
	}, nil
}

func (s *gardenService) Status(ctx context.Context, requestID uuid.UUID) (*dto.GardenStatusResponse, error) {
	req, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	resp := &dto.GardenStatusResponse{
		RequestID: req.ID.String(),
		Status:    req.Status,
		Error:     req.LastError,
	}
	if req.Status != "completed" || req.HistoryID == nil {
		return resp, nil
	}

	h, err := s.historyRepo.FindByID(ctx, *req.HistoryID)
	if err != nil {
		return nil, err
	}
	historyID := h.ID.String()
	resp.HistoryID = &historyID
	resp.GeneratedImageURL = &h.GeneratedImageURL
	resp.BOM = mapHistory(h)
	return resp, nil
}

// ── Pipeline ─────────────────────────────────────────────────────────────────

// ProcessRequest runs one redesign end to end:
//  1. Claim the request (pending/failed → processing)
//  2. Fetch and decode the uploaded photo
//  3. Inpaint through the circuit breaker with the style prompt
//  4. Re-host the generated image in our bucket
//  5. Assemble the bill of materials for the request budget
//  6. Persist history + details atomically, mark the request completed
func (s *gardenService) ProcessRequest(ctx context.Context, requestID uuid.UUID) error {
	claimed, err := s.requestRepo.MarkProcessing(ctx, requestID)
	if err != nil {
		return err
	}
	if !claimed {
		log.Info().Str("request_id", requestID.String()).Msg("garden_service: request already claimed, skipping")
		return nil
	}

	req, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return err
	}

	imageData, err := s.fetch(ctx, req.ImageURL)
	if err != nil {
		return fmt.Errorf("fetch original image: %w", err)
	}
	img, err := infra.DecodeImage(imageData)
	if err != nil {
		return fmt.Errorf("decode original image: %w", err)
	}

	imageB64, err := infra.EncodePNGBase64(img)
	if err != nil {
		return err
	}
	mask := infra.FullRepaintMask(img)
	if req.MaskBBox != nil {
		bbox, err := parseBBox(*req.MaskBBox)
		if err != nil {
			return fmt.Errorf("stored bounding box: %w", err)
		}
		mask = infra.MaskFromBBox(img, bbox)
	}
	maskB64, err := infra.EncodePNGBase64(mask)
	if err != nil {
		return err
	}

	prompt, ok := stylePrompts[req.Style]
	if !ok {
		prompt = stylePrompts["english"]
	}
	if req.Prompt != nil && *req.Prompt != "" {
		prompt = *req.Prompt
	}

	var generatedURL string
	cbErr := s.cb.Execute(func() error {
		url, err := s.inpainter.Inpaint(ctx, infra.InpaintInput{
			ImageB64: imageB64,
			MaskB64:  maskB64,
			Prompt:   prompt,
			Width:    img.Bounds().Dx(),
			Height:   img.Bounds().Dy(),
		})
		if err != nil {
			return err
		}
		generatedURL = url
		return nil
	})
	if cbErr != nil {
		return fmt.Errorf("inpaint: %w", cbErr)
	}

	// Re-host: upstream prediction URLs expire. Failure here is not fatal —
	// the upstream URL still works for a while.
	if data, err := s.fetch(ctx, generatedURL); err == nil {
		key := fmt.Sprintf("generated/%s.png", requestID)
		if hosted, err := s.store.UploadBytes(ctx, key, "image/png", data); err == nil {
			generatedURL = hosted
		} else {
			log.Warn().Err(err).Str("request_id", requestID.String()).Msg("garden_service: re-host failed")
		}
	}

	result, err := s.bomSvc.Compute(ctx, req.Budget, req.Style)
	if err != nil {
		return fmt.Errorf("assemble bom: %w", err)
	}

	h := &model.GenerationHistory{
		RequestID:         &req.ID,
		ClientIP:          req.ClientIP,
		OriginalImageURL:  req.ImageURL,
		GeneratedImageURL: generatedURL,
		Style:             req.Style,
		Budget:            req.Budget,
		TotalCost:         result.TotalCost,
		Fallback:          result.Fallback,
	}
	if err := s.bomSvc.PersistResult(ctx, h, result); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}

	if err := s.requestRepo.MarkCompleted(ctx, requestID, h.ID); err != nil {
		return err
	}

	log.Info().
		Str("request_id", requestID.String()).
		Str("history_id", h.ID.String()).
		Str("total_cost", result.TotalCost.String()).
		Msg("garden_service: request completed")
	return nil
}

// ── Analysis ─────────────────────────────────────────────────────────────────

const analyzePrompt = `Analyze this garden photo. Return a JSON object with:
"summary" (one paragraph describing the current state),
"observations" (array of short strings: light, soil, drainage, existing plants),
"suitability" (one of "excellent", "good", "fair", "poor" for a redesign).
Return only JSON, no explanations or markdown.`

func (s *gardenService) Analyze(ctx context.Context, req dto.AnalyzeGardenRequest) (*dto.AnalyzeGardenResponse, error) {
	imageData, err := s.fetch(ctx, req.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	img, err := infra.DecodeImage(imageData)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	imageB64, err := infra.EncodeJPEGBase64(img)
	if err != nil {
		return nil, err
	}

	raw, err := s.vision.CompleteVision(ctx, analyzePrompt, imageB64, 400, false)
	if err != nil {
		return nil, err
	}

	var resp dto.AnalyzeGardenResponse
	if err := json.Unmarshal([]byte(cleanModelJSONObject(raw)), &resp); err != nil {
		// Ill-formed model output still carries useful prose
		log.Warn().Err(err).Msg("garden_service: analysis output not valid JSON")
		return &dto.AnalyzeGardenResponse{Summary: raw, Suitability: "unknown"}, nil
	}
	return &resp, nil
}

func (s *gardenService) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

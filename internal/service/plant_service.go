package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/NuttWarunyu/PlantPick-Backend/internal/dto"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/infra"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var ErrDiseaseNotFound = errors.New("disease not found")

// ChatCompleter is the full language-model surface the plant features use:
// vision calls for photos plus plain completion for name lookups.
// *infra.OpenAIClient implements it.
type ChatCompleter interface {
	VisionCompleter
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// PlantService covers plant identification, disease diagnosis, name lookup
// and free-text search over the material catalog.
type PlantService interface {
	Identify(ctx context.Context, imageData []byte) (*dto.IdentifyPlantResponse, error)
	Diagnose(ctx context.Context, imageData []byte) (*dto.DiagnosePlantResponse, error)
	Search(ctx context.Context, filter dto.PlantSearchFilter) (*dto.PlantSearchResponse, error)
	Lookup(ctx context.Context, name string) (*dto.PlantLookupResponse, error)
	ListDiseases() []dto.DiseaseResponse
	GetDisease(id string) (*dto.DiseaseResponse, error)
	DiseaseProducts(ctx context.Context, id string) ([]dto.AffiliateOfferResponse, error)
}

type plantService struct {
	catalogRepo repository.CatalogRepository
	llm         ChatCompleter
	affiliate   AffiliateSearcher
}

func NewPlantService(catalogRepo repository.CatalogRepository, llm ChatCompleter, affiliate AffiliateSearcher) PlantService {
	return &plantService{catalogRepo: catalogRepo, llm: llm, affiliate: affiliate}
}

// ── Disease catalog ──────────────────────────────────────────────────────────

type diseaseEntry struct {
	ID          string
	Name        string
	NameTH      string
	Symptoms    []string
	Causes      []string
	Treatments  []string
	Preventions []string
	// productKeyword is the Thai affiliate search term for remedies.
	productKeyword string
}

var diseaseCatalog = []diseaseEntry{
	{
		ID:     "leaf_spot",
		Name:   "Leaf Spot",
		NameTH: "โรคใบจุด",
		Symptoms: []string{
			"Brown or black circular spots on leaves",
			"Yellow halos around the spots",
			"Premature leaf drop",
		},
		Causes:         []string{"Fungal infection", "Prolonged leaf wetness", "Poor air circulation"},
		Treatments:     []string{"Remove and destroy infected leaves", "Apply a copper-based fungicide", "Water at the base, not overhead"},
		Preventions:    []string{"Space plants for airflow", "Avoid wetting foliage in the evening"},
		productKeyword: "ยาฆ่าเชื้อราพืช",
	},
	{
		ID:     "powdery_mildew",
		Name:   "Powdery Mildew",
		NameTH: "โรคราแป้ง",
		Symptoms: []string{
			"White powdery coating on leaves and stems",
			"Distorted or stunted new growth",
		},
		Causes:         []string{"Fungal spores in warm, dry days with humid nights", "Crowded planting"},
		Treatments:     []string{"Spray with sulfur or potassium bicarbonate", "Prune affected shoots"},
		Preventions:    []string{"Plant in full sun where possible", "Improve air circulation"},
		productKeyword: "กำมะถันกำจัดราแป้ง",
	},
	{
		ID:     "root_rot",
		Name:   "Root Rot",
		NameTH: "โรครากเน่า",
		Symptoms: []string{
			"Wilting despite moist soil",
			"Yellowing lower leaves",
			"Dark, mushy roots with a sour smell",
		},
		Causes:         []string{"Overwatering", "Poorly draining soil", "Phytophthora or Pythium fungi"},
		Treatments:     []string{"Repot into fresh, well-draining mix", "Trim rotted roots with sterile shears", "Reduce watering frequency"},
		Preventions:    []string{"Use pots with drainage holes", "Let the topsoil dry between waterings"},
		productKeyword: "ดินปลูกระบายน้ำดี",
	},
	{
		ID:     "aphid_infestation",
		Name:   "Aphid Infestation",
		NameTH: "เพลี้ยอ่อน",
		Symptoms: []string{
			"Clusters of small green or black insects on new shoots",
			"Sticky honeydew on leaves",
			"Curled or yellowed leaves",
		},
		Causes:         []string{"Aphids drawn to tender new growth", "Over-fertilized, nitrogen-rich plants"},
		Treatments:     []string{"Spray with neem oil or insecticidal soap", "Knock off colonies with a strong jet of water"},
		Preventions:    []string{"Encourage ladybugs and lacewings", "Avoid excess nitrogen fertilizer"},
		productKeyword: "น้ำมันสะเดากำจัดเพลี้ย",
	},
	{
		ID:     "spider_mites",
		Name:   "Spider Mites",
		NameTH: "ไรแดง",
		Symptoms: []string{
			"Fine webbing on the underside of leaves",
			"Tiny yellow or white stippling dots",
			"Bronzed, dry-looking foliage",
		},
		Causes:         []string{"Hot, dry conditions", "Dusty foliage"},
		Treatments:     []string{"Rinse foliage thoroughly", "Apply miticide or neem oil weekly until clear"},
		Preventions:    []string{"Mist plants in dry weather", "Quarantine new plants before placing them"},
		productKeyword: "ยากำจัดไรแดง",
	},
}

func findDisease(id string) *diseaseEntry {
	for i := range diseaseCatalog {
		if diseaseCatalog[i].ID == id {
			return &diseaseCatalog[i]
		}
	}
	return nil
}

func mapDisease(e *diseaseEntry) dto.DiseaseResponse {
	return dto.DiseaseResponse{
		ID:          e.ID,
		Name:        e.Name,
		NameTH:      e.NameTH,
		Symptoms:    e.Symptoms,
		Causes:      e.Causes,
		Treatments:  e.Treatments,
		Preventions: e.Preventions,
	}
}

// ── Vision ───────────────────────────────────────────────────────────────────

const identifyPrompt = `Identify the plant in this photo. Return a JSON object with:
"name" (common English name),
"scientific_name",
"name_th" (Thai common name, empty string if unsure),
"confidence" (one of "high", "medium", "low"),
"care_tips" (array of 3-5 short care instructions).
Return only JSON, no explanations or markdown.`

var diagnosePrompt = fmt.Sprintf(`Look at this plant photo and diagnose its health problem.
Pick the closest match from this list of disease ids: %s.
Return a JSON object with:
"disease_id" (one of the ids above, or "unknown"),
"confidence" (one of "high", "medium", "low"),
"symptoms" (array of symptoms you can see in the photo).
Return only JSON, no explanations or markdown.`, diseaseIDList())

func diseaseIDList() string {
	s := ""
	for i, e := range diseaseCatalog {
		if i > 0 {
			s += ", "
		}
		s += e.ID
	}
	return s
}

func (s *plantService) Identify(ctx context.Context, imageData []byte) (*dto.IdentifyPlantResponse, error) {
	imageB64, err := encodeForVision(imageData)
	if err != nil {
		return nil, err
	}

	raw, err := s.llm.CompleteVision(ctx, identifyPrompt, imageB64, 300, true)
	if err != nil {
		return nil, err
	}

	var resp dto.IdentifyPlantResponse
	if err := json.Unmarshal([]byte(cleanModelJSONObject(raw)), &resp); err != nil {
		return nil, fmt.Errorf("parse identification: %w", err)
	}
	return &resp, nil
}

func (s *plantService) Diagnose(ctx context.Context, imageData []byte) (*dto.DiagnosePlantResponse, error) {
	imageB64, err := encodeForVision(imageData)
	if err != nil {
		return nil, err
	}

	raw, err := s.llm.CompleteVision(ctx, diagnosePrompt, imageB64, 300, true)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		DiseaseID  string   `json:"disease_id"`
		Confidence string   `json:"confidence"`
		Symptoms   []string `json:"symptoms"`
	}
	if err := json.Unmarshal([]byte(cleanModelJSONObject(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("parse diagnosis: %w", err)
	}

	resp := &dto.DiagnosePlantResponse{
		DiseaseID:   parsed.DiseaseID,
		DiseaseName: parsed.DiseaseID,
		Confidence:  parsed.Confidence,
		Symptoms:    parsed.Symptoms,
	}
	if entry := findDisease(parsed.DiseaseID); entry != nil {
		resp.DiseaseName = entry.Name
		resp.Treatments = entry.Treatments
		if len(resp.Symptoms) == 0 {
			resp.Symptoms = entry.Symptoms
		}
	}
	return resp, nil
}

func encodeForVision(imageData []byte) (string, error) {
	img, err := infra.DecodeImage(imageData)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	return infra.EncodeJPEGBase64(img)
}

// ── Lookup ───────────────────────────────────────────────────────────────────

const lookupPromptFmt = `Give information about the plant "%s" for a Thai gardening audience.
Return a JSON object with:
"name" (plant name with the scientific name in parentheses),
"price" (approximate price in THB, e.g. "~100 บาท"),
"description" (short description, in Thai),
"care_instructions" (short care guidance, in Thai),
"garden_ideas" (which garden styles it suits, in Thai).
If you do not know the plant, use "ไม่รู้จักต้นไม้" as the name and "ไม่มีข้อมูล" for every other field.
Return only JSON, no explanations or markdown.`

func unknownPlantProfile() dto.PlantProfile {
	return dto.PlantProfile{
		Name:             "ไม่รู้จักต้นไม้",
		Price:            "ไม่มีข้อมูล",
		Description:      "ไม่มีข้อมูล",
		CareInstructions: "ไม่มีข้อมูล",
		GardenIdeas:      "ไม่มีข้อมูล",
	}
}

// Lookup builds a model-written plant profile plus live offers for the name.
// Both halves are best effort: a failed model call or offer search degrades
// to the unknown-plant profile or an empty offer list instead of an error.
func (s *plantService) Lookup(ctx context.Context, name string) (*dto.PlantLookupResponse, error) {
	resp := &dto.PlantLookupResponse{Offers: []dto.AffiliateOfferResponse{}}

	raw, err := s.llm.Complete(ctx, fmt.Sprintf(lookupPromptFmt, name), 500)
	if err != nil {
		log.Warn().Err(err).Str("name", name).Msg("plant_service: profile lookup failed")
		resp.Profile = unknownPlantProfile()
	} else if err := json.Unmarshal([]byte(cleanModelJSONObject(raw)), &resp.Profile); err != nil {
		log.Warn().Err(err).Str("name", name).Msg("plant_service: profile parse failed")
		resp.Profile = unknownPlantProfile()
	}

	if s.affiliate.Enabled() {
		offers, err := s.affiliate.SearchProducts(ctx, name, 1, 10)
		if err != nil {
			log.Warn().Err(err).Str("name", name).Msg("plant_service: offer search failed")
		} else {
			resp.Offers = mapOffers(offers)
			resp.BestDeal = bestDeal(resp.Offers)
		}
	}
	return resp, nil
}

// bestDeal picks the cheapest offer; ties break on the higher commission.
func bestDeal(offers []dto.AffiliateOfferResponse) *dto.AffiliateOfferResponse {
	var best *dto.AffiliateOfferResponse
	var bestPrice, bestComm decimal.Decimal
	for i := range offers {
		price, err := decimal.NewFromString(offers[i].Price)
		if err != nil {
			continue
		}
		comm, _ := decimal.NewFromString(offers[i].Commission)
		if best == nil || price.LessThan(bestPrice) ||
			(price.Equal(bestPrice) && comm.GreaterThan(bestComm)) {
			best = &offers[i]
			bestPrice = price
			bestComm = comm
		}
	}
	return best
}

// ── Search / diseases ────────────────────────────────────────────────────────

func (s *plantService) Search(ctx context.Context, filter dto.PlantSearchFilter) (*dto.PlantSearchResponse, error) {
	items, total, err := s.catalogRepo.SearchCandidates(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit != 0 {
		totalPages++
	}
	return &dto.PlantSearchResponse{
		Data:       items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *plantService) ListDiseases() []dto.DiseaseResponse {
	out := make([]dto.DiseaseResponse, len(diseaseCatalog))
	for i := range diseaseCatalog {
		out[i] = mapDisease(&diseaseCatalog[i])
	}
	return out
}

func (s *plantService) GetDisease(id string) (*dto.DiseaseResponse, error) {
	entry := findDisease(id)
	if entry == nil {
		return nil, ErrDiseaseNotFound
	}
	resp := mapDisease(entry)
	return &resp, nil
}

func (s *plantService) DiseaseProducts(ctx context.Context, id string) ([]dto.AffiliateOfferResponse, error) {
	entry := findDisease(id)
	if entry == nil {
		return nil, ErrDiseaseNotFound
	}
	if !s.affiliate.Enabled() {
		return []dto.AffiliateOfferResponse{}, nil
	}

	offers, err := s.affiliate.SearchProducts(ctx, entry.productKeyword, 1, 10)
	if err != nil {
		log.Error().Err(err).Str("disease_id", id).Msg("plant_service: product search failed")
		return nil, err
	}
	return mapOffers(offers), nil
}

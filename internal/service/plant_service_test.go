package service

import (
	"context"
	"testing"

	"github.com/NuttWarunyu/PlantPick-Backend/internal/bom"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/dto"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifyParsesFencedOutput(t *testing.T) {
	vision := &stubVision{response: "```json\n{\"name\":\"Golden Pothos\",\"scientific_name\":\"Epipremnum aureum\",\"name_th\":\"พลูด่าง\",\"confidence\":\"high\",\"care_tips\":[\"bright indirect light\",\"water when topsoil dries\"]}\n```"}
	svc := NewPlantService(newFullCatalogRepo(), vision, &stubAffiliate{})

	resp, err := svc.Identify(context.Background(), pngBytes())
	require.NoError(t, err)
	assert.Equal(t, "Golden Pothos", resp.Name)
	assert.Equal(t, "Epipremnum aureum", resp.ScientificName)
	assert.Equal(t, "พลูด่าง", resp.NameTH)
	assert.Equal(t, "high", resp.Confidence)
	assert.Len(t, resp.CareTips, 2)
}

func TestIdentifyRejectsNonImage(t *testing.T) {
	svc := NewPlantService(newFullCatalogRepo(), &stubVision{}, &stubAffiliate{})

	_, err := svc.Identify(context.Background(), []byte("not an image"))
	require.Error(t, err)
}

func TestDiagnoseEnrichesKnownDisease(t *testing.T) {
	vision := &stubVision{response: `{"disease_id":"leaf_spot","confidence":"medium","symptoms":["dark spots with halos"]}`}
	svc := NewPlantService(newFullCatalogRepo(), vision, &stubAffiliate{})

	resp, err := svc.Diagnose(context.Background(), pngBytes())
	require.NoError(t, err)
	assert.Equal(t, "leaf_spot", resp.DiseaseID)
	assert.Equal(t, "Leaf Spot", resp.DiseaseName)
	assert.Equal(t, []string{"dark spots with halos"}, resp.Symptoms)
	assert.NotEmpty(t, resp.Treatments)
}

func TestDiagnoseUnknownDiseasePassesThrough(t *testing.T) {
	vision := &stubVision{response: `{"disease_id":"unknown","confidence":"low","symptoms":[]}`}
	svc := NewPlantService(newFullCatalogRepo(), vision, &stubAffiliate{})

	resp, err := svc.Diagnose(context.Background(), pngBytes())
	require.NoError(t, err)
	assert.Equal(t, "unknown", resp.DiseaseID)
	assert.Equal(t, "unknown", resp.DiseaseName)
	assert.Empty(t, resp.Treatments)
}

func TestSearchPaginatesResults(t *testing.T) {
	catalog := newFullCatalogRepo()
	catalog.candidates = []bom.Candidate{
		dbCandidate("golden pothos", bom.CategoryPlantSmall, 300, "piece", "https://x/pothos"),
		dbCandidate("neon pothos", bom.CategoryPlantSmall, 400, "piece", "https://x/neon"),
		dbCandidate("bird of paradise", bom.CategoryPlantSmall, 500, "piece", "https://x/bird"),
	}
	svc := NewPlantService(catalog, &stubVision{}, &stubAffiliate{})

	resp, err := svc.Search(context.Background(), dto.PlantSearchFilter{Query: "pothos", Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, 1, resp.TotalPages)
}

func TestDiseaseCatalogLookup(t *testing.T) {
	svc := NewPlantService(newFullCatalogRepo(), &stubVision{}, &stubAffiliate{})

	diseases := svc.ListDiseases()
	require.Len(t, diseases, 5)

	d, err := svc.GetDisease("root_rot")
	require.NoError(t, err)
	assert.Equal(t, "Root Rot", d.Name)
	assert.Equal(t, "โรครากเน่า", d.NameTH)
	assert.NotEmpty(t, d.Treatments)
	assert.NotEmpty(t, d.Preventions)

	_, err = svc.GetDisease("bad_vibes")
	require.ErrorIs(t, err, ErrDiseaseNotFound)
}

func TestDiseaseProducts(t *testing.T) {
	affiliate := &stubAffiliate{
		enabled: true,
		offers: []infra.ShopeeOffer{
			{ProductName: "Copper fungicide 500ml", OfferLink: "https://s.shopee.co.th/fungi", Price: "159"},
		},
	}
	svc := NewPlantService(newFullCatalogRepo(), &stubVision{}, affiliate)

	offers, err := svc.DiseaseProducts(context.Background(), "leaf_spot")
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "Copper fungicide 500ml", offers[0].ProductName)
	require.Len(t, affiliate.keywords, 1)
	assert.Equal(t, "ยาฆ่าเชื้อราพืช", affiliate.keywords[0])

	_, err = svc.DiseaseProducts(context.Background(), "bad_vibes")
	require.ErrorIs(t, err, ErrDiseaseNotFound)
}

func TestDiseaseProductsDisabledAffiliate(t *testing.T) {
	svc := NewPlantService(newFullCatalogRepo(), &stubVision{}, &stubAffiliate{})

	offers, err := svc.DiseaseProducts(context.Background(), "leaf_spot")
	require.NoError(t, err)
	assert.Empty(t, offers)
}

func TestLookupBuildsProfileAndBestDeal(t *testing.T) {
	llm := &stubVision{response: `{"name":"ลีลาวดี (Plumeria)","price":"~100 บาท","description":"ไม้ยืนต้นขนาดกลาง","care_instructions":"รดน้ำสัปดาห์ละ 2 ครั้ง","garden_ideas":"เหมาะกับสวนสไตล์ทรอปิคอล"}`}
	affiliate := &stubAffiliate{
		enabled: true,
		offers: []infra.ShopeeOffer{
			{ProductName: "Plumeria A", Price: "750", Commission: "20", OfferLink: "https://s.shopee.co.th/a"},
			{ProductName: "Plumeria B", Price: "600", Commission: "15", OfferLink: "https://s.shopee.co.th/b"},
			{ProductName: "Plumeria C", Price: "600", Commission: "30", OfferLink: "https://s.shopee.co.th/c"},
		},
	}
	svc := NewPlantService(newFullCatalogRepo(), llm, affiliate)

	resp, err := svc.Lookup(context.Background(), "ลีลาวดี")
	require.NoError(t, err)
	assert.Equal(t, "ลีลาวดี (Plumeria)", resp.Profile.Name)
	assert.Len(t, resp.Offers, 3)
	// Cheapest price wins; the tie at 600 breaks on the higher commission.
	require.NotNil(t, resp.BestDeal)
	assert.Equal(t, "Plumeria C", resp.BestDeal.ProductName)
	require.Len(t, affiliate.keywords, 1)
	assert.Equal(t, "ลีลาวดี", affiliate.keywords[0])
}

func TestLookupModelFailureFallsBackToUnknownProfile(t *testing.T) {
	llm := &stubVision{err: errBoom}
	svc := NewPlantService(newFullCatalogRepo(), llm, &stubAffiliate{})

	resp, err := svc.Lookup(context.Background(), "mystery plant")
	require.NoError(t, err)
	assert.Equal(t, "ไม่รู้จักต้นไม้", resp.Profile.Name)
	assert.Empty(t, resp.Offers)
	assert.Nil(t, resp.BestDeal)
}

func TestLookupOfferFailureKeepsProfile(t *testing.T) {
	llm := &stubVision{response: `{"name":"ชบา (Hibiscus)","price":"~150 บาท","description":"ไม้พุ่ม","care_instructions":"ชอบแดดจัด","garden_ideas":"สวนรั้ว"}`}
	affiliate := &stubAffiliate{enabled: true, err: errBoom}
	svc := NewPlantService(newFullCatalogRepo(), llm, affiliate)

	resp, err := svc.Lookup(context.Background(), "ชบา")
	require.NoError(t, err)
	assert.Equal(t, "ชบา (Hibiscus)", resp.Profile.Name)
	assert.Empty(t, resp.Offers)
	assert.Nil(t, resp.BestDeal)
}

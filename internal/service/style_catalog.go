package service

import (
	"github.com/NuttWarunyu/PlantPick-Backend/internal/bom"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Static per-style plant catalogs used when the database catalog has no
// matching entries yet. Prices are THB market averages; product links point
// at a marketplace search for the Thai name.
var styleCatalogs = map[string][]styleEntry{
	"english": {
		{"rose", "กุหลาบ", 1200},
		{"plumbago", "พยับหมอก", 600},
		{"daisy", "เดซี่", 500},
		{"rosemary", "โรสแมรี่", 300},
		{"neon pothos", "ต้นนีออน", 400},
		{"dragon juniper", "สนมังกร", 250},
		{"cypress", "สนฉัตร", 250},
	},
	"tropical": {
		{"palm", "ปาล์ม", 1500},
		{"allamanda", "บานบุรี", 800},
		{"heliconia", "เฮเลโคนีย์", 700},
		{"tamarind fern", "เฟินใบมะขาม", 350},
		{"spiral ginger", "เอื้องหมายนา", 600},
		{"calathea", "ต้นคล้า", 400},
		{"iris", "ไอริช", 300},
	},
	"japanese": {
		{"bonsai", "โบนไซ", 2000},
		{"bamboo", "ไผ่", 800},
		{"japanese pine", "ต้นสนญี่ปุ่น", 1500},
		{"paddle pine", "สนใบพาย", 400},
		{"moss", "มอส", 400},
		{"weeping willow", "หลิวลู่ลม", 500},
		{"iris", "ไอริส", 600},
	},
}

type styleEntry struct {
	name   string
	nameTH string
	price  int64
}

// styleCatalogCandidates returns the static catalog for a style as bill-of-
// materials candidates. Unknown styles fall back to the english catalog.
// Material ids are derived from the Thai name so repeated runs stay stable.
func styleCatalogCandidates(style string) []bom.Candidate {
	entries, ok := styleCatalogs[style]
	if !ok {
		entries = styleCatalogs["english"]
	}

	out := make([]bom.Candidate, 0, len(entries))
	for _, e := range entries {
		price := decimal.NewFromInt(e.price)
		category := bom.CategoryPlantSmall
		if e.price >= 2000 {
			category = bom.CategoryPlantMedium
		}
		out = append(out, bom.Candidate{
			MaterialID: uuid.NewSHA1(uuid.NameSpaceOID, []byte("style:"+e.nameTH)),
			Name:       e.name,
			Category:   category,
			UnitPrice:  price,
			Unit:       "piece",
			VendorName: "Shopee",
			ProductURL: "https://shopee.co.th/search?keyword=" + e.nameTH,
		})
	}
	return out
}

// Package bom implements budget-constrained bill-of-materials assembly:
// given a total budget and priced, categorized catalog candidates, it selects
// a diverse set of items per sub-group and assigns per-item quantities so that
// total spend approaches, but never exceeds, the budget.
//
// The package is pure: it performs no I/O and accepts already-materialized
// candidate lists. Randomization for result diversity is the caller's
// responsibility (shuffle before passing candidates in), which keeps every
// function here deterministic and unit-testable.
package bom

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category classifies a catalog material.
type Category string

const (
	CategoryPlantLarge       Category = "plant_large"
	CategoryPlantMedium      Category = "plant_medium"
	CategoryPlantSmall       Category = "plant_small"
	CategoryHardscapePath    Category = "hardscape_path"
	CategoryHardscapeEdge    Category = "hardscape_edge"
	CategorySoilSystem       Category = "soil_system"
	CategoryIrrigationSystem Category = "irrigation_system"
	CategoryDecor            Category = "decor"
)

// PlantCategories lists every plant category, in size order.
var PlantCategories = []Category{CategoryPlantLarge, CategoryPlantMedium, CategoryPlantSmall}

// IsPlant reports whether the category is one of the plant sizes.
func (c Category) IsPlant() bool {
	return c == CategoryPlantLarge || c == CategoryPlantMedium || c == CategoryPlantSmall
}

// Suggestible reports whether alternatives from this category may be offered
// to the user. Only plants and decorative items qualify.
func (c Category) Suggestible() bool {
	return c.IsPlant() || c == CategoryDecor
}

// Candidate is one priced catalog entry eligible for selection.
// Immutable for the duration of one allocation.
type Candidate struct {
	MaterialID uuid.UUID
	Name       string
	Category   Category
	UnitPrice  decimal.Decimal // non-negative
	Unit       string          // e.g. "piece", "bag", "sqm"
	VendorName string
	ProductURL string
}

const (
	// treePriceFloor is the unit price above which a piece-unit plant is
	// treated as a tree for quantity capping.
	treePriceFloor = 800
	// TreeQuantityCap bounds how many units of a single tree the quantity
	// pass may assign.
	TreeQuantityCap = 10
)

// IsTree reports whether the candidate falls under the tree quantity cap:
// a large or medium plant sold by the piece at more than 800 per unit.
func (c Candidate) IsTree() bool {
	if c.Category != CategoryPlantLarge && c.Category != CategoryPlantMedium {
		return false
	}
	return c.Unit == "piece" && c.UnitPrice.GreaterThan(decimal.NewFromInt(treePriceFloor))
}

// LineItem is a selected candidate with its final quantity and cost.
type LineItem struct {
	Candidate
	Quantity      int
	EstimatedCost decimal.Decimal // Quantity × UnitPrice
}

// SubGroup is a named, budget- and count-bounded partition of the catalog.
type SubGroup struct {
	Name       string
	Categories []Category
	Unit       string           // optional unit-label filter, "" = any
	MinPrice   *decimal.Decimal // inclusive, nil = unbounded
	MaxPrice   *decimal.Decimal // exclusive, nil = unbounded
	Budget     decimal.Decimal
	MaxItems   int
}

// Suggestible reports whether this sub-group may surface alternatives,
// i.e. every category it covers is a plant or decor category.
func (g SubGroup) Suggestible() bool {
	if len(g.Categories) == 0 {
		return false
	}
	for _, c := range g.Categories {
		if !c.Suggestible() {
			return false
		}
	}
	return true
}

// Source supplies the candidates for one sub-group. Implementations must
// return candidates already filtered to the group's category/price/unit
// constraints, with non-negative prices, in the order selection should
// consider them (shuffled by the caller for variety).
type Source func(g SubGroup) []Candidate

// Result is the outcome of one assembly run.
type Result struct {
	Items       []LineItem
	Suggestions map[string][]Candidate // sub-group display name → ≤1 alternative
	TotalCost   decimal.Decimal
	Fallback    bool // true when the fixed fallback item was used
}

package bom

import "github.com/shopspring/decimal"

// Budget split: 60% plants, 30% hardscape materials, 10% systems, each pool
// further divided into fixed sub-group shares.
var (
	sharePlants    = decimal.RequireFromString("0.6")
	shareHardscape = decimal.RequireFromString("0.3")
	shareSystems   = decimal.RequireFromString("0.1")

	sharePlantLarge  = decimal.RequireFromString("0.40")
	sharePlantMedium = decimal.RequireFromString("0.44")
	sharePlantSmall  = decimal.RequireFromString("0.16")

	shareHardPath = decimal.RequireFromString("0.667")
	shareHardEdge = decimal.RequireFromString("0.333")

	shareSoil       = decimal.RequireFromString("0.533")
	shareIrrigation = decimal.RequireFromString("0.467")
)

// Plant price bands (THB): large ≥ 5000, medium in [2000, 5000), small < 2000.
var (
	priceLargeMin  = decimal.NewFromInt(5000)
	priceMediumMin = decimal.NewFromInt(2000)
)

// Plan partitions a total budget into the fixed ordered list of sub-groups:
// plants first, then hardscape, then systems. The sub-budgets sum to exactly
// the total (60% + 30% + 10%, each pool split exactly).
func Plan(total decimal.Decimal) []SubGroup {
	plants := total.Mul(sharePlants)
	hardscape := total.Mul(shareHardscape)
	systems := total.Mul(shareSystems)

	return []SubGroup{
		{
			Name:       "large trees",
			Categories: []Category{CategoryPlantLarge},
			MinPrice:   &priceLargeMin,
			Budget:     plants.Mul(sharePlantLarge),
			MaxItems:   3,
		},
		{
			Name:       "medium trees",
			Categories: []Category{CategoryPlantMedium},
			MinPrice:   &priceMediumMin,
			MaxPrice:   &priceLargeMin,
			Budget:     plants.Mul(sharePlantMedium),
			MaxItems:   6,
		},
		{
			Name:       "small plants and flowers",
			Categories: []Category{CategoryPlantSmall},
			MaxPrice:   &priceMediumMin,
			Budget:     plants.Mul(sharePlantSmall),
			MaxItems:   15,
		},
		{
			Name:       "paths and surfaces",
			Categories: []Category{CategoryHardscapePath},
			Budget:     hardscape.Mul(shareHardPath),
			MaxItems:   2,
		},
		{
			Name:       "edging and zoning",
			Categories: []Category{CategoryHardscapeEdge},
			Budget:     hardscape.Mul(shareHardEdge),
			MaxItems:   2,
		},
		{
			Name:       "soil and fertilizer",
			Categories: []Category{CategorySoilSystem},
			Budget:     systems.Mul(shareSoil),
			MaxItems:   1,
		},
		{
			Name:       "irrigation",
			Categories: []Category{CategoryIrrigationSystem},
			Budget:     systems.Mul(shareIrrigation),
			MaxItems:   1,
		},
	}
}

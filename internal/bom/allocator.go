package bom

import (
	"github.com/shopspring/decimal"
)

// MaxLineItems caps the number of distinct line items in one bill of materials.
const MaxLineItems = 10

// allocState is the explicit allocation state threaded through every
// sub-group pass: the global item count, the set of materials already
// selected, and the running selection spend across all groups.
type allocState struct {
	count    int
	used     map[string]bool // material id → selected
	selected []Candidate
	spent    decimal.Decimal // one unit per selected candidate
}

func newAllocState() *allocState {
	return &allocState{used: make(map[string]bool), spent: decimal.Zero}
}

// selectGroup runs the selection pass for one sub-group. Candidates are
// considered in the order given; one accepted candidate costs one unit of its
// price against the group sub-budget. It returns the remainder: candidates
// that were considered but not selected here nor in any earlier group.
func (st *allocState) selectGroup(g SubGroup, cands []Candidate) []Candidate {
	var rest []Candidate
	spent := decimal.Zero
	picked := 0

	for _, c := range cands {
		key := c.MaterialID.String()
		if st.used[key] {
			continue
		}
		if picked >= g.MaxItems || st.count >= MaxLineItems || spent.Add(c.UnitPrice).GreaterThan(g.Budget) {
			rest = append(rest, c)
			continue
		}
		spent = spent.Add(c.UnitPrice)
		st.spent = st.spent.Add(c.UnitPrice)
		st.count++
		picked++
		st.used[key] = true
		st.selected = append(st.selected, c)
	}
	return rest
}

// Assemble runs the full bill-of-materials assembly: the selection pass over
// every planned sub-group in order, a top-up pass over the whole plant
// category when fewer than MaxLineItems were selected, the fallback item when
// nothing at all was selected, and finally the global quantity pass against
// the total budget.
//
// A non-positive budget yields an empty result: no items, no fallback.
func Assemble(total decimal.Decimal, source Source) Result {
	res := Result{Suggestions: make(map[string][]Candidate), TotalCost: decimal.Zero}
	if total.Sign() <= 0 {
		return res
	}

	st := newAllocState()
	for _, g := range Plan(total) {
		rest := st.selectGroup(g, source(g))
		// One alternative per plant/decor sub-group, first of the remainder.
		if g.Suggestible() && len(rest) > 0 {
			res.Suggestions[g.Name] = []Candidate{rest[0]}
		}
	}

	// Top-up pass: fill remaining slots from the full plant category, ignoring
	// price bands. The nominal budget is what is left of the total after the
	// selection spend so far, so the top-up can never push spend past the
	// original total.
	if st.count < MaxLineItems {
		topUp := SubGroup{
			Name:       "plants",
			Categories: PlantCategories,
			Budget:     total.Sub(st.spent),
			MaxItems:   MaxLineItems - st.count,
		}
		st.selectGroup(topUp, source(topUp))
	}

	// The top-up may have picked a candidate that was suggested as an
	// alternative earlier; a selected item must not also be a suggestion.
	for name, cands := range res.Suggestions {
		kept := cands[:0]
		for _, c := range cands {
			if !st.used[c.MaterialID.String()] {
				kept = append(kept, c)
			}
		}
		if len(kept) == 0 {
			delete(res.Suggestions, name)
		} else {
			res.Suggestions[name] = kept
		}
	}

	if len(st.selected) == 0 {
		item := FallbackItem(total)
		res.Items = []LineItem{item}
		res.TotalCost = item.EstimatedCost
		res.Fallback = true
		return res
	}

	res.Items = ComputeQuantities(st.selected, total)
	for _, it := range res.Items {
		res.TotalCost = res.TotalCost.Add(it.EstimatedCost)
	}
	return res
}

// fallbackUnitPriceCap bounds the fallback soil unit price (THB).
var fallbackUnitPriceCap = decimal.NewFromInt(150)

// FallbackItem is the single hardcoded line item returned when no candidate
// qualifies anywhere: 10 bags of generic planting soil priced at
// min(150, budget/10) per bag, so the item consumes at most the whole budget.
func FallbackItem(total decimal.Decimal) LineItem {
	unit := total.Div(decimal.NewFromInt(10)).Round(2)
	if unit.GreaterThan(fallbackUnitPriceCap) {
		unit = fallbackUnitPriceCap
	}
	c := Candidate{
		Name:       "soil",
		Category:   CategorySoilSystem,
		UnitPrice:  unit,
		Unit:       "bag",
		VendorName: "Shopee",
		ProductURL: "https://shopee.co.th/dirt",
	}
	return LineItem{
		Candidate:     c,
		Quantity:      10,
		EstimatedCost: unit.Mul(decimal.NewFromInt(10)),
	}
}

package bom

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ComputeQuantities assigns integer quantities to the selected candidates,
// maximizing utilization of the total budget (not the sub-budgets — this is a
// second, budget-global pass over the merged selection):
//
//  1. Sort ascending by unit price (stable, so equal prices keep input order).
//  2. Seed pass: one unit of each candidate the remaining budget still covers,
//     cheapest first, so cheap items are never crowded out entirely.
//  3. Growth loop: round-robin passes in the same order, incrementing each
//     affordable candidate by one unit per pass, spreading the remaining
//     budget instead of dumping it into a single item. Trees stop growing at
//     TreeQuantityCap units. The loop ends when a full pass adds nothing.
//  4. Candidates left at quantity zero are discarded.
func ComputeQuantities(selected []Candidate, total decimal.Decimal) []LineItem {
	if len(selected) == 0 || total.Sign() <= 0 {
		return nil
	}

	items := make([]LineItem, len(selected))
	for i, c := range selected {
		items[i] = LineItem{Candidate: c}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].UnitPrice.LessThan(items[j].UnitPrice)
	})

	remaining := total
	for i := range items {
		if remaining.GreaterThanOrEqual(items[i].UnitPrice) {
			items[i].Quantity = 1
			remaining = remaining.Sub(items[i].UnitPrice)
		}
	}

	for {
		added := false
		for i := range items {
			if items[i].Quantity == 0 {
				continue
			}
			// Zero-priced items keep their seeded unit; growing them would
			// never terminate.
			if items[i].UnitPrice.Sign() <= 0 {
				continue
			}
			if items[i].IsTree() && items[i].Quantity >= TreeQuantityCap {
				continue
			}
			if remaining.GreaterThanOrEqual(items[i].UnitPrice) {
				items[i].Quantity++
				remaining = remaining.Sub(items[i].UnitPrice)
				added = true
			}
		}
		if !added {
			break
		}
	}

	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		if it.Quantity == 0 {
			continue
		}
		it.EstimatedCost = it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		out = append(out, it)
	}
	return out
}

package core

import "sort"

// Compare reconciles a scanned snapshot against the reference inventory,
// emitting exactly one result per SKU in the union of both sides.
//
// Scanned quantities group by SKU only: pallet type is reported (first
// encountered) but does not split the comparison. A side with no entry for
// the SKU counts as 0 for the signed difference yet stays absent in the
// output, and the row classifies as Unknown.
//
// Pure and side-effect free; safe to run repeatedly and concurrently with
// ledger writes because it operates on snapshots, never the live file.
func Compare(scanned []InventoryRecord, reference []ReferenceInventoryItem) []ComparisonResult {
	type scanGroup struct {
		total       int
		description string
		palletType  string
	}

	groups := make(map[string]*scanGroup)
	var scannedOrder []string
	for _, record := range scanned {
		group, ok := groups[record.SKU]
		if !ok {
			group = &scanGroup{description: record.Description, palletType: record.PalletType}
			groups[record.SKU] = group
			scannedOrder = append(scannedOrder, record.SKU)
		}
		group.total += record.TotalPallets
	}

	refBySKU := ReferenceBySKU(reference)

	results := make([]ComparisonResult, 0, len(groups)+len(refBySKU))
	seen := make(map[string]bool, len(groups))

	for _, sku := range scannedOrder {
		group := groups[sku]
		seen[sku] = true

		result := ComparisonResult{
			SKU:         sku,
			Description: group.description,
			PalletType:  group.palletType,
			ScannedQty:  intPtr(group.total),
		}

		if ref, ok := refBySKU[sku]; ok {
			result.ReferenceQty = intPtr(ref.Available)
			result.Difference = intPtr(group.total - ref.Available)
			result.State = classify(group.total - ref.Available)
			if result.Description == "" {
				result.Description = ref.Description
			}
		} else {
			result.Difference = intPtr(group.total)
			result.State = StateUnknown
		}
		results = append(results, result)
	}

	// First-occurrence order, last-occurrence data: duplicate reference SKUs
	// resolve through the same index the scanned-side lookup uses.
	for _, item := range reference {
		if seen[item.SKU] {
			continue
		}
		seen[item.SKU] = true
		ref := refBySKU[item.SKU]
		results = append(results, ComparisonResult{
			SKU:          ref.SKU,
			Description:  ref.Description,
			ReferenceQty: intPtr(ref.Available),
			Difference:   intPtr(-ref.Available),
			State:        StateUnknown,
		})
	}

	return results
}

func classify(difference int) ReconciliationState {
	switch {
	case difference > 0:
		return StateSurplus
	case difference < 0:
		return StateShortage
	default:
		return StateMatch
	}
}

// displayRank orders states the way operators triage them.
var displayRank = map[ReconciliationState]int{
	StateShortage: 0,
	StateSurplus:  1,
	StateUnknown:  2,
	StateMatch:    3,
}

// SortForDisplay orders results shortages first, preserving the engine's
// relative order within each state. A convenience for consumers; the engine
// itself mandates no ordering.
func SortForDisplay(results []ComparisonResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return displayRank[results[i].State] < displayRank[results[j].State]
	})
}

func intPtr(v int) *int {
	return &v
}

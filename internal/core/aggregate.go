package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Aggregation views are pure projections over a ReadAll snapshot, computed on
// demand for dashboards. None of them mutate anything or touch the file.

// LedgerTotals is the headline dashboard pair.
type LedgerTotals struct {
	TotalPallets int `json:"total_pallets"`
	DistinctSKUs int `json:"distinct_skus"`
}

func Totals(records []InventoryRecord) LedgerTotals {
	skus := make(map[string]struct{})
	totals := LedgerTotals{}
	for _, r := range records {
		totals.TotalPallets += r.TotalPallets
		skus[r.SKU] = struct{}{}
	}
	totals.DistinctSKUs = len(skus)
	return totals
}

// TotalsByPalletType sums pallets per pallet type. Records with an empty type
// group under the empty key.
func TotalsByPalletType(records []InventoryRecord) map[string]int {
	totals := make(map[string]int)
	for _, r := range records {
		totals[r.PalletType] += r.TotalPallets
	}
	return totals
}

// TotalsByWarehouse sums pallets per warehouse.
func TotalsByWarehouse(records []InventoryRecord) map[string]int {
	totals := make(map[string]int)
	for _, r := range records {
		totals[r.Warehouse] += r.TotalPallets
	}
	return totals
}

// SKUTotal is one entry of the top-N view.
type SKUTotal struct {
	SKU          string `json:"sku"`
	Description  string `json:"description"`
	TotalPallets int    `json:"total_pallets"`
}

// TopSKUs returns the n SKUs with the most accumulated pallets. Ties break by
// first-encountered order in the snapshot.
func TopSKUs(records []InventoryRecord, n int) []SKUTotal {
	if n <= 0 {
		return nil
	}

	index := make(map[string]int)
	var totals []SKUTotal
	for _, r := range records {
		i, ok := index[r.SKU]
		if !ok {
			index[r.SKU] = len(totals)
			totals = append(totals, SKUTotal{SKU: r.SKU, Description: r.Description})
			i = len(totals) - 1
		}
		totals[i].TotalPallets += r.TotalPallets
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].TotalPallets > totals[j].TotalPallets
	})
	if len(totals) > n {
		totals = totals[:n]
	}
	return totals
}

// UnitTotals estimates total units per SKU as unitsPerPallet × totalPallets.
// UnitsPerPallet is legacy text; values that do not parse as a decimal number
// are skipped rather than guessed.
func UnitTotals(records []InventoryRecord) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, r := range records {
		perPallet, err := decimal.NewFromString(strings.TrimSpace(r.UnitsPerPallet))
		if err != nil {
			continue
		}
		units := perPallet.Mul(decimal.NewFromInt(int64(r.TotalPallets)))
		totals[r.SKU] = totals[r.SKU].Add(units)
	}
	return totals
}

// AlertKind tags an anomaly rule. Rules are independent and additive: one
// record can trigger several.
type AlertKind string

const (
	AlertMultiLocation   AlertKind = "MULTI_LOCATION"
	AlertHighQuantity    AlertKind = "HIGH_QUANTITY"
	AlertNonStandardType AlertKind = "NON_STANDARD_PALLET_TYPE"
)

// Alert is one anomaly surfaced to the dashboard.
type Alert struct {
	Kind   AlertKind `json:"kind"`
	SKU    string    `json:"sku"`
	Detail string    `json:"detail"`
}

// AlertConfig bounds the anomaly rules.
type AlertConfig struct {
	// HighQuantityThreshold flags any single row above this pallet count.
	HighQuantityThreshold int
	// KnownPalletTypes is the allow-list of standard types; anything else
	// (including empty) raises a non-standard alert.
	KnownPalletTypes []string
	// Cap bounds the returned slice; lowest-priority alerts drop first.
	Cap int
}

// DetectAlerts runs every anomaly rule over the snapshot and returns at most
// cfg.Cap alerts, ordered multi-location, high-quantity, then non-standard
// type, so the cap sheds the lowest-priority tail.
func DetectAlerts(records []InventoryRecord, cfg AlertConfig) []Alert {
	known := make(map[string]struct{}, len(cfg.KnownPalletTypes))
	for _, t := range cfg.KnownPalletTypes {
		known[t] = struct{}{}
	}

	var multiLocation, highQuantity, nonStandard []Alert

	locations := make(map[string]map[string]struct{})
	var skuOrder []string
	for _, r := range records {
		if _, ok := locations[r.SKU]; !ok {
			locations[r.SKU] = make(map[string]struct{})
			skuOrder = append(skuOrder, r.SKU)
		}
		if loc := strings.TrimSpace(r.Location); loc != "" {
			locations[r.SKU][loc] = struct{}{}
		}

		if cfg.HighQuantityThreshold > 0 && r.TotalPallets > cfg.HighQuantityThreshold {
			highQuantity = append(highQuantity, Alert{
				Kind:   AlertHighQuantity,
				SKU:    r.SKU,
				Detail: fmt.Sprintf("%d pallets exceeds threshold %d", r.TotalPallets, cfg.HighQuantityThreshold),
			})
		}
		if _, ok := known[r.PalletType]; !ok {
			nonStandard = append(nonStandard, Alert{
				Kind:   AlertNonStandardType,
				SKU:    r.SKU,
				Detail: fmt.Sprintf("pallet type %q is not a standard type", r.PalletType),
			})
		}
	}

	for _, sku := range skuOrder {
		if len(locations[sku]) > 1 {
			multiLocation = append(multiLocation, Alert{
				Kind:   AlertMultiLocation,
				SKU:    sku,
				Detail: fmt.Sprintf("observed at %d distinct locations", len(locations[sku])),
			})
		}
	}

	alerts := append(multiLocation, highQuantity...)
	alerts = append(alerts, nonStandard...)
	if cfg.Cap > 0 && len(alerts) > cfg.Cap {
		alerts = alerts[:cfg.Cap]
	}
	return alerts
}

package core_test

import (
	"testing"

	"scanledger/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotals(t *testing.T) {
	records := []core.InventoryRecord{
		scan("A1", "KOF", "W1", 5),
		scan("A1", "CHEP", "W1", 3),
		scan("B2", "KOF", "W2", 2),
	}

	totals := core.Totals(records)
	assert.Equal(t, 10, totals.TotalPallets)
	assert.Equal(t, 2, totals.DistinctSKUs)

	empty := core.Totals(nil)
	assert.Equal(t, 0, empty.TotalPallets)
	assert.Equal(t, 0, empty.DistinctSKUs)
}

func TestTotalsByPalletTypeAndWarehouse(t *testing.T) {
	records := []core.InventoryRecord{
		scan("A1", "KOF", "W1", 5),
		scan("B2", "KOF", "W2", 2),
		scan("C3", "CHEP", "W1", 4),
		scan("D4", "", "", 1),
	}

	byType := core.TotalsByPalletType(records)
	assert.Equal(t, map[string]int{"KOF": 7, "CHEP": 4, "": 1}, byType)

	byWarehouse := core.TotalsByWarehouse(records)
	assert.Equal(t, map[string]int{"W1": 9, "W2": 2, "": 1}, byWarehouse)
}

func TestTopSKUs(t *testing.T) {
	records := []core.InventoryRecord{
		scan("A1", "KOF", "W1", 5),
		scan("B2", "KOF", "W1", 9),
		scan("C3", "KOF", "W1", 5), // ties with A1; A1 came first
		scan("A1", "CHEP", "W2", 2),
	}

	top := core.TopSKUs(records, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "B2", top[0].SKU)
	assert.Equal(t, 9, top[0].TotalPallets)
	assert.Equal(t, "A1", top[1].SKU, "tie breaks by first-encountered order")
	assert.Equal(t, 7, top[1].TotalPallets)
	assert.Equal(t, "C3", top[2].SKU)

	assert.Len(t, core.TopSKUs(records, 2), 2)
	assert.Nil(t, core.TopSKUs(records, 0))
}

func TestUnitTotals(t *testing.T) {
	a := scan("A1", "KOF", "W1", 4)
	a.UnitsPerPallet = "12"
	b := scan("A1", "CHEP", "W1", 2)
	b.UnitsPerPallet = "10.5"
	c := scan("B2", "KOF", "W1", 3)
	c.UnitsPerPallet = "N/A" // legacy text: skipped, not guessed

	totals := core.UnitTotals([]core.InventoryRecord{a, b, c})
	require.Contains(t, totals, "A1")
	assert.True(t, totals["A1"].Equal(decimal.RequireFromString("69")), "got %s", totals["A1"])
	assert.NotContains(t, totals, "B2")
}

func alertConfig() core.AlertConfig {
	return core.AlertConfig{
		HighQuantityThreshold: 100,
		KnownPalletTypes:      []string{"KOF", "CHEP"},
		Cap:                   50,
	}
}

func TestDetectAlerts_MultiLocation(t *testing.T) {
	a := scan("A1", "KOF", "W1", 1)
	a.Location = "RACK-1"
	b := scan("A1", "KOF", "W2", 1)
	b.Location = "RACK-7"

	alerts := core.DetectAlerts([]core.InventoryRecord{a, b}, alertConfig())
	require.Len(t, alerts, 1)
	assert.Equal(t, core.AlertMultiLocation, alerts[0].Kind)
	assert.Equal(t, "A1", alerts[0].SKU)
}

func TestDetectAlerts_HighQuantity(t *testing.T) {
	alerts := core.DetectAlerts([]core.InventoryRecord{scan("A1", "KOF", "W1", 101)}, alertConfig())
	require.Len(t, alerts, 1)
	assert.Equal(t, core.AlertHighQuantity, alerts[0].Kind)

	// At the threshold is fine.
	alerts = core.DetectAlerts([]core.InventoryRecord{scan("A1", "KOF", "W1", 100)}, alertConfig())
	assert.Empty(t, alerts)
}

func TestDetectAlerts_NonStandardPalletType(t *testing.T) {
	alerts := core.DetectAlerts([]core.InventoryRecord{scan("A1", "WOOD", "W1", 1)}, alertConfig())
	require.Len(t, alerts, 1)
	assert.Equal(t, core.AlertNonStandardType, alerts[0].Kind)
}

func TestDetectAlerts_RulesAreAdditive(t *testing.T) {
	a := scan("A1", "WOOD", "W1", 150)
	a.Location = "RACK-1"
	b := scan("A1", "WOOD", "W2", 1)
	b.Location = "RACK-2"

	alerts := core.DetectAlerts([]core.InventoryRecord{a, b}, alertConfig())

	kinds := make(map[core.AlertKind]int)
	for _, alert := range alerts {
		kinds[alert.Kind]++
	}
	assert.Equal(t, 1, kinds[core.AlertMultiLocation])
	assert.Equal(t, 1, kinds[core.AlertHighQuantity])
	assert.Equal(t, 2, kinds[core.AlertNonStandardType])
}

func TestDetectAlerts_CapDropsLowestPriority(t *testing.T) {
	cfg := alertConfig()
	cfg.Cap = 2

	a := scan("A1", "WOOD", "W1", 150)
	a.Location = "RACK-1"
	b := scan("A1", "WOOD", "W2", 1)
	b.Location = "RACK-2"

	alerts := core.DetectAlerts([]core.InventoryRecord{a, b}, cfg)
	require.Len(t, alerts, 2)
	assert.Equal(t, core.AlertMultiLocation, alerts[0].Kind)
	assert.Equal(t, core.AlertHighQuantity, alerts[1].Kind)
}

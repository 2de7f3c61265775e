package app_test

import (
	"bytes"
	"strings"
	"testing"

	"scanledger/internal/app"
	"scanledger/internal/config"
	"scanledger/internal/core"
	"scanledger/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) app.ApplicationService {
	t.Helper()
	cfg := &config.Config{
		LedgerPath:            t.TempDir() + "/ledger.csv",
		HighQuantityThreshold: 100,
		KnownPalletTypes:      []string{"KOF", "CHEP"},
		AlertCap:              50,
		FeedBufferSize:        4,
	}
	return app.NewAppService(cfg, logging.NewSilent())
}

// TestScanToReconciliationFlow walks the whole path: scan, accumulate,
// reference import, reconcile.
func TestScanToReconciliationFlow(t *testing.T) {
	svc := newTestService(t)

	first, err := svc.RecordScan(app.ScanRequest{
		SKU: "A1", Description: "Widget", TotalPallets: 5, PalletType: "KOF", Warehouse: "W1",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, first.AccumulatedTotal)
	assert.False(t, first.Merged)
	assert.NotEmpty(t, first.Message)

	ledger, err := svc.GetLedger()
	require.NoError(t, err)
	require.Len(t, ledger.Records, 1)
	assert.Equal(t, 5, ledger.Records[0].TotalPallets)

	second, err := svc.RecordScan(app.ScanRequest{
		SKU: "A1", Description: "Widget", TotalPallets: 3, PalletType: "KOF", Warehouse: "W1",
	})
	require.NoError(t, err)
	assert.Equal(t, 8, second.AccumulatedTotal)
	assert.True(t, second.Merged)

	_, err = svc.ImportReferenceCSV(strings.NewReader("A1,Widget,10,W1\n"))
	require.NoError(t, err)

	recon, err := svc.GetReconciliation()
	require.NoError(t, err)
	assert.Equal(t, 1, recon.ReferenceSize)
	require.Len(t, recon.Results, 1)

	result := recon.Results[0]
	assert.Equal(t, "A1", result.SKU)
	require.NotNil(t, result.ScannedQty)
	require.NotNil(t, result.ReferenceQty)
	require.NotNil(t, result.Difference)
	assert.Equal(t, 8, *result.ScannedQty)
	assert.Equal(t, 10, *result.ReferenceQty)
	assert.Equal(t, -2, *result.Difference)
	assert.Equal(t, core.StateShortage, result.State)
}

func TestReconciliation_SortedForDisplay(t *testing.T) {
	svc := newTestService(t)

	for _, req := range []app.ScanRequest{
		{SKU: "OK1", TotalPallets: 5, PalletType: "KOF"},
		{SKU: "LOW1", TotalPallets: 1, PalletType: "KOF"},
	} {
		_, err := svc.RecordScan(req)
		require.NoError(t, err)
	}
	_, err := svc.ImportReferenceCSV(strings.NewReader("OK1,,5,\nLOW1,,4,\n"))
	require.NoError(t, err)

	recon, err := svc.GetReconciliation()
	require.NoError(t, err)
	require.Len(t, recon.Results, 2)
	assert.Equal(t, core.StateShortage, recon.Results[0].State)
}

func TestUndoLastScan(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.UndoLastScan()
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.RecordScan(app.ScanRequest{SKU: "A1", TotalPallets: 2, PalletType: "KOF"})
	require.NoError(t, err)

	res, err := svc.UndoLastScan()
	require.NoError(t, err)
	assert.NotEmpty(t, res.Message)

	ledger, err := svc.GetLedger()
	require.NoError(t, err)
	assert.Empty(t, ledger.Records)
}

func TestResetLedger(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.RecordScan(app.ScanRequest{SKU: "A1", TotalPallets: 2, PalletType: "KOF"})
	require.NoError(t, err)

	_, err = svc.ResetLedger()
	require.NoError(t, err)

	ledger, err := svc.GetLedger()
	require.NoError(t, err)
	assert.Empty(t, ledger.Records)

	_, ok := svc.LatestScan()
	assert.False(t, ok, "scan feed must not outlive the ledger")
}

func TestGetDashboard(t *testing.T) {
	svc := newTestService(t)

	for _, req := range []app.ScanRequest{
		{SKU: "A1", UnitsPerPallet: "12", TotalPallets: 5, PalletType: "KOF", Warehouse: "W1", Location: "RACK-1"},
		{SKU: "A1", UnitsPerPallet: "12", TotalPallets: 2, PalletType: "KOF", Warehouse: "W2", Location: "RACK-8"},
		{SKU: "B2", UnitsPerPallet: "8", TotalPallets: 200, PalletType: "WOOD", Warehouse: "W1", Location: "RACK-2"},
	} {
		_, err := svc.RecordScan(req)
		require.NoError(t, err)
	}

	dash, err := svc.GetDashboard()
	require.NoError(t, err)

	assert.Equal(t, 207, dash.Totals.TotalPallets)
	assert.Equal(t, 2, dash.Totals.DistinctSKUs)
	assert.Equal(t, 7, dash.TotalsByPalletType["KOF"])
	assert.Equal(t, 200, dash.TotalsByPalletType["WOOD"])
	assert.Equal(t, 205, dash.TotalsByWarehouse["W1"])
	require.NotEmpty(t, dash.TopSKUs)
	assert.Equal(t, "B2", dash.TopSKUs[0].SKU)
	assert.True(t, dash.UnitTotals["A1"].IntPart() == 84)

	kinds := make(map[core.AlertKind]bool)
	for _, alert := range dash.Alerts {
		kinds[alert.Kind] = true
	}
	assert.True(t, kinds[core.AlertMultiLocation], "A1 sits in two locations")
	assert.True(t, kinds[core.AlertHighQuantity], "B2 exceeds the threshold")
	assert.True(t, kinds[core.AlertNonStandardType], "WOOD is not a standard type")
}

func TestLedgerExportImport(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.RecordScan(app.ScanRequest{SKU: "A1", TotalPallets: 5, PalletType: "KOF", Warehouse: "W1"})
	require.NoError(t, err)

	var buf bytes.Buffer
	exported, err := svc.ExportLedger(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), exported.BytesWritten)
	assert.NotEmpty(t, exported.Fingerprint)

	other := newTestService(t)
	_, err = other.ImportLedger(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	ledger, err := other.GetLedger()
	require.NoError(t, err)
	require.Len(t, ledger.Records, 1)
	assert.Equal(t, "A1", ledger.Records[0].SKU)
	assert.Equal(t, 5, ledger.Records[0].TotalPallets)
}

func TestWatchScans(t *testing.T) {
	svc := newTestService(t)
	ch := svc.WatchScans()

	_, err := svc.RecordScan(app.ScanRequest{SKU: "A1", TotalPallets: 5, PalletType: "KOF"})
	require.NoError(t, err)

	event := <-ch
	assert.Equal(t, "A1", event.Key.SKU)
	assert.Equal(t, 5, event.AccumulatedTotal)

	latest, ok := svc.LatestScan()
	require.True(t, ok)
	assert.Equal(t, event.ID, latest.ID)
}

func TestRecordScan_ValidationSurfacesToCaller(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.RecordScan(app.ScanRequest{SKU: "", TotalPallets: 5})
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = svc.RecordScan(app.ScanRequest{SKU: "A1", TotalPallets: -2})
	assert.ErrorIs(t, err, core.ErrValidation)
}

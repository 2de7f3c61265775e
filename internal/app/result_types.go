package app

import (
	"github.com/shopspring/decimal"

	"scanledger/internal/core"
)

// OperationResult is returned by mutating operations that carry no payload.
type OperationResult struct {
	Message string
}

// ScanResult is returned by RecordScan.
type ScanResult struct {
	Record           core.InventoryRecord
	AccumulatedTotal int
	Merged           bool
	Message          string
}

// LedgerResult is returned by GetLedger.
type LedgerResult struct {
	Records []core.InventoryRecord
}

// DashboardResult is returned by GetDashboard.
type DashboardResult struct {
	Totals             core.LedgerTotals
	TotalsByPalletType map[string]int
	TotalsByWarehouse  map[string]int
	TopSKUs            []core.SKUTotal
	UnitTotals         map[string]decimal.Decimal
	Alerts             []core.Alert
}

// ReconciliationResult is returned by GetReconciliation, ordered for display
// (shortages first).
type ReconciliationResult struct {
	Results       []core.ComparisonResult
	ReferenceSize int
}

// ExportResult is returned by ExportLedger.
type ExportResult struct {
	BytesWritten int64
	Fingerprint  string
	Message      string
}

package app

import (
	"io"

	"scanledger/internal/core"
)

// ApplicationService is the single interface the surrounding scanning
// application calls. It decouples presentation from the ledger core:
// implementations contain no display logic of any kind. Screens, pickers and
// barcode capture stay on the caller's side — the service only ever sees
// decoded text and opened byte streams.
//
// Mutating operations may block on file I/O and must not be called from a
// latency-sensitive execution context; every one of them reports a
// human-readable message alongside success or failure.
type ApplicationService interface {
	// RecordScan merges one decoded scan into the ledger, accumulating when
	// the (SKU, pallet type, warehouse) key already exists.
	RecordScan(req ScanRequest) (*ScanResult, error)

	// UndoLastScan removes the most recently appended ledger row.
	UndoLastScan() (*OperationResult, error)

	// ResetLedger truncates the ledger entirely.
	ResetLedger() (*OperationResult, error)

	// GetLedger returns the materialized ledger snapshot.
	GetLedger() (*LedgerResult, error)

	// GetDashboard computes the aggregate views over a fresh snapshot.
	GetDashboard() (*DashboardResult, error)

	// GetReconciliation compares the ledger snapshot against the last
	// imported reference inventory.
	GetReconciliation() (*ReconciliationResult, error)

	// ImportLedger replaces the ledger content from an external source,
	// reformatting known legacy rows on the way in.
	ImportLedger(r io.Reader) (*OperationResult, error)

	// ExportLedger copies the raw ledger bytes to the given sink.
	ExportLedger(w io.Writer) (*ExportResult, error)

	// ImportReferenceCSV / ImportReferenceXLSX replace the reference
	// inventory wholesale from the given stream.
	ImportReferenceCSV(r io.Reader) (*OperationResult, error)
	ImportReferenceXLSX(r io.Reader) (*OperationResult, error)

	// WatchScans subscribes to the scan feed for near-real-time updates.
	WatchScans() <-chan core.ScanEvent

	// LatestScan polls the scan feed; false before the first scan.
	LatestScan() (core.ScanEvent, bool)
}

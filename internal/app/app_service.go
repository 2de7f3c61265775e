package app

import (
	"fmt"
	"io"
	"sync"

	"scanledger/internal/config"
	"scanledger/internal/core"

	"github.com/sirupsen/logrus"
)

type appService struct {
	store *core.LedgerStore
	feed  *core.ScanFeed
	cfg   *config.Config

	// reference is owned here and replaced wholesale on each import.
	refMu     sync.RWMutex
	reference []core.ReferenceInventoryItem
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(cfg *config.Config, logger *logrus.Logger) ApplicationService {
	feed := core.NewScanFeed(cfg.FeedBufferSize)
	return &appService{
		store: core.NewLedgerStore(cfg.LedgerPath, logger, feed),
		feed:  feed,
		cfg:   cfg,
	}
}

// RecordScan merges one decoded scan into the ledger.
func (s *appService) RecordScan(req ScanRequest) (*ScanResult, error) {
	record := req.toRecord()
	total, outcome, err := s.store.Upsert(record)
	if err != nil {
		return nil, err
	}
	return &ScanResult{
		Record:           record,
		AccumulatedTotal: total,
		Merged:           outcome == core.OutcomeMerged,
		Message:          fmt.Sprintf("SKU %s: %d pallets on record", record.SKU, total),
	}, nil
}

// UndoLastScan removes the most recently appended ledger row.
func (s *appService) UndoLastScan() (*OperationResult, error) {
	if err := s.store.DeleteLast(); err != nil {
		return nil, err
	}
	return &OperationResult{Message: "last scan removed"}, nil
}

// ResetLedger truncates the ledger entirely.
func (s *appService) ResetLedger() (*OperationResult, error) {
	if err := s.store.Reset(); err != nil {
		return nil, err
	}
	return &OperationResult{Message: "ledger reset"}, nil
}

// GetLedger returns the materialized ledger snapshot.
func (s *appService) GetLedger() (*LedgerResult, error) {
	records, err := s.store.ReadAll()
	if err != nil {
		return nil, err
	}
	return &LedgerResult{Records: records}, nil
}

// GetDashboard computes all aggregate views over one fresh snapshot.
func (s *appService) GetDashboard() (*DashboardResult, error) {
	records, err := s.store.ReadAll()
	if err != nil {
		return nil, err
	}
	return &DashboardResult{
		Totals:             core.Totals(records),
		TotalsByPalletType: core.TotalsByPalletType(records),
		TotalsByWarehouse:  core.TotalsByWarehouse(records),
		TopSKUs:            core.TopSKUs(records, 10),
		UnitTotals:         core.UnitTotals(records),
		Alerts: core.DetectAlerts(records, core.AlertConfig{
			HighQuantityThreshold: s.cfg.HighQuantityThreshold,
			KnownPalletTypes:      s.cfg.KnownPalletTypes,
			Cap:                   s.cfg.AlertCap,
		}),
	}, nil
}

// GetReconciliation compares the ledger snapshot against the last imported
// reference inventory, shortages first.
func (s *appService) GetReconciliation() (*ReconciliationResult, error) {
	records, err := s.store.ReadAll()
	if err != nil {
		return nil, err
	}

	s.refMu.RLock()
	reference := s.reference
	s.refMu.RUnlock()

	results := core.Compare(records, reference)
	core.SortForDisplay(results)
	return &ReconciliationResult{
		Results:       results,
		ReferenceSize: len(reference),
	}, nil
}

// ImportLedger replaces the ledger content from an external source.
func (s *appService) ImportLedger(r io.Reader) (*OperationResult, error) {
	if err := s.store.ImportFrom(r); err != nil {
		return nil, err
	}
	return &OperationResult{Message: "ledger imported"}, nil
}

// ExportLedger copies the raw ledger bytes to the given sink.
func (s *appService) ExportLedger(w io.Writer) (*ExportResult, error) {
	n, err := s.store.ExportTo(w)
	if err != nil {
		return nil, err
	}
	fingerprint, err := s.store.Fingerprint()
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		BytesWritten: n,
		Fingerprint:  fingerprint,
		Message:      fmt.Sprintf("exported %d bytes", n),
	}, nil
}

// ImportReferenceCSV replaces the reference inventory from a CSV stream.
func (s *appService) ImportReferenceCSV(r io.Reader) (*OperationResult, error) {
	items, err := core.ParseReferenceCSV(r)
	if err != nil {
		return nil, err
	}
	return s.replaceReference(items), nil
}

// ImportReferenceXLSX replaces the reference inventory from a workbook stream.
func (s *appService) ImportReferenceXLSX(r io.Reader) (*OperationResult, error) {
	items, err := core.ParseReferenceXLSX(r)
	if err != nil {
		return nil, err
	}
	return s.replaceReference(items), nil
}

func (s *appService) replaceReference(items []core.ReferenceInventoryItem) *OperationResult {
	s.refMu.Lock()
	s.reference = items
	s.refMu.Unlock()
	return &OperationResult{Message: fmt.Sprintf("reference inventory replaced: %d items", len(items))}
}

// WatchScans subscribes to the scan feed.
func (s *appService) WatchScans() <-chan core.ScanEvent {
	return s.feed.Subscribe()
}

// LatestScan polls the scan feed.
func (s *appService) LatestScan() (core.ScanEvent, bool) {
	return s.feed.Latest()
}

package core

// InventoryRecord is one row of the ledger: the accumulated scan state for one
// (SKU, pallet type, warehouse) combination.
//
// UnitsPerPallet stays textual on purpose — historical ledgers carry values like
// "12x6" or "N/A" that must survive a read/write cycle untouched.
type InventoryRecord struct {
	SKU            string `json:"sku"`
	Description    string `json:"description"`
	UnitsPerPallet string `json:"units_per_pallet"`
	LotCode        string `json:"lot_code"`
	ContainerCode  string `json:"container_code"`
	Center         string `json:"center"`
	Line           string `json:"line"`
	WorkOrder      string `json:"work_order"`
	ProductionDate string `json:"production_date"`
	DaysToExpire   string `json:"days_to_expire"`
	Location       string `json:"location"`
	TotalPallets   int    `json:"total_pallets"`
	PalletType     string `json:"pallet_type"`
	Warehouse      string `json:"warehouse"`
}

// RecordKey is the identity of a ledger row. At most one row exists per key;
// a second scan for the same key merges instead of duplicating.
type RecordKey struct {
	SKU        string
	PalletType string
	Warehouse  string
}

func (r InventoryRecord) Key() RecordKey {
	return RecordKey{SKU: r.SKU, PalletType: r.PalletType, Warehouse: r.Warehouse}
}

// ReferenceInventoryItem is the expected quantity for one SKU according to the
// external reference system. Replaced wholesale on each import; read-only here.
type ReferenceInventoryItem struct {
	SKU         string `json:"sku"`
	Description string `json:"description"`
	Available   int    `json:"available"`
	Center      string `json:"center"`
}

// ReconciliationState classifies one SKU after comparing scanned against
// reference quantities.
type ReconciliationState string

const (
	StateMatch    ReconciliationState = "MATCH"
	StateShortage ReconciliationState = "SHORTAGE"
	StateSurplus  ReconciliationState = "SURPLUS"
	// StateUnknown means the SKU appeared on only one side of the comparison,
	// so there is not enough data to classify it. Still emitted so operators
	// see coverage gaps.
	StateUnknown ReconciliationState = "UNKNOWN"
)

// ComparisonResult is the per-SKU outcome of a reconciliation run. Derived,
// never persisted; dashboards may cache the latest result.
//
// ScannedQty and ReferenceQty are nil when that side has no entry for the SKU.
// Difference treats a missing side as 0, but the missing quantity itself is
// reported as absent rather than coerced to a literal zero.
type ComparisonResult struct {
	SKU          string              `json:"sku"`
	Description  string              `json:"description"`
	PalletType   string              `json:"pallet_type"`
	ScannedQty   *int                `json:"scanned_qty,omitempty"`
	ReferenceQty *int                `json:"reference_qty,omitempty"`
	Difference   *int                `json:"difference,omitempty"`
	State        ReconciliationState `json:"state"`
}

// ReferenceBySKU indexes an imported reference set for reconciliation.
// Duplicate SKUs keep the last occurrence, matching the wholesale-replace
// semantics of the import.
func ReferenceBySKU(items []ReferenceInventoryItem) map[string]ReferenceInventoryItem {
	indexed := make(map[string]ReferenceInventoryItem, len(items))
	for _, item := range items {
		indexed[item.SKU] = item
	}
	return indexed
}

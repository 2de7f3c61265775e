package app

import "scanledger/internal/core"

// ScanRequest is one decoded scan handed in by the capture layer. Field
// semantics match core.InventoryRecord; TotalPallets is the quantity this
// scan adds.
type ScanRequest struct {
	SKU            string
	Description    string
	UnitsPerPallet string
	LotCode        string
	ContainerCode  string
	Center         string
	Line           string
	WorkOrder      string
	ProductionDate string
	DaysToExpire   string
	Location       string
	TotalPallets   int
	PalletType     string
	Warehouse      string
}

func (r ScanRequest) toRecord() core.InventoryRecord {
	return core.InventoryRecord{
		SKU:            r.SKU,
		Description:    r.Description,
		UnitsPerPallet: r.UnitsPerPallet,
		LotCode:        r.LotCode,
		ContainerCode:  r.ContainerCode,
		Center:         r.Center,
		Line:           r.Line,
		WorkOrder:      r.WorkOrder,
		ProductionDate: r.ProductionDate,
		DaysToExpire:   r.DaysToExpire,
		Location:       r.Location,
		TotalPallets:   r.TotalPallets,
		PalletType:     r.PalletType,
		Warehouse:      r.Warehouse,
	}
}

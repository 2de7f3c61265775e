package core

import (
	"strconv"
	"strings"
)

// Ledger line format: comma-delimited, RFC4180-style quoting. The positional
// mapping below is the single extension point for schema growth — columns are
// only ever appended, never reordered, so older rows simply decode short and
// missing trailing fields read as empty strings.
//
// Known widths over the format's history:
//
//	v1: columns 0..8   (through ProductionDate)
//	v2: columns 0..11  (added DaysToExpire, Location, TotalPallets)
//	v3: columns 0..13  (added PalletType, Warehouse — current)
const (
	colSKU = iota
	colDescription
	colUnitsPerPallet
	colLotCode
	colContainerCode
	colCenter
	colLine
	colWorkOrder
	colProductionDate
	colDaysToExpire
	colLocation
	colTotalPallets
	colPalletType
	colWarehouse

	// ColumnCount is the current schema width. Rows are right-padded to this
	// width on write; readers must not assume it.
	ColumnCount = colWarehouse + 1
)

const (
	fieldDelimiter = ','
	quoteChar      = '"'

	// headerToken identifies a header line. The first line of the ledger file
	// must start with it; anything else is treated as a stray data row.
	headerToken = "SKU"

	// minRecordColumns is the smallest decoded width still accepted as a data
	// row. Anything shorter is noise (blank lines, torn writes) and skipped.
	minRecordColumns = 2
)

var headerColumns = []string{
	"SKU", "Description", "UnitsPerPallet", "LotCode", "ContainerCode",
	"Center", "Line", "WorkOrder", "ProductionDate", "DaysToExpire",
	"Location", "TotalPallets", "PalletType", "Warehouse",
}

// DefaultHeader returns the canonical header line for the current schema.
func DefaultHeader() string {
	return strings.Join(headerColumns, string(fieldDelimiter))
}

// DecodeLine splits one ledger line into fields, honoring quotes: a quoted
// field may contain delimiters, and a doubled quote inside it is a literal
// quote. Malformed quoting never fails — an unterminated quote swallows the
// rest of the line into the current field, which is the best-effort reading.
func DecodeLine(line string) []string {
	var fields []string
	var field strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == quoteChar:
			if inQuotes && i+1 < len(line) && line[i+1] == quoteChar {
				field.WriteByte(quoteChar)
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == fieldDelimiter && !inQuotes:
			fields = append(fields, field.String())
			field.Reset()
		default:
			field.WriteByte(c)
		}
	}
	fields = append(fields, field.String())
	return fields
}

// EncodeField quotes v when it contains the delimiter, a quote, or a newline,
// doubling interior quotes. Plain values pass through unchanged.
func EncodeField(v string) string {
	if !strings.ContainsAny(v, string(fieldDelimiter)+string(quoteChar)+"\r\n") {
		return v
	}
	return string(quoteChar) + strings.ReplaceAll(v, string(quoteChar), string(quoteChar)+string(quoteChar)) + string(quoteChar)
}

func encodeRow(fields []string) string {
	encoded := make([]string, len(fields))
	for i, f := range fields {
		encoded[i] = EncodeField(f)
	}
	return strings.Join(encoded, string(fieldDelimiter))
}

// fieldAt indexes defensively: positions beyond the decoded width read as "".
func fieldAt(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

// ToRecord maps decoded fields to a record by the positional table above.
// A missing or non-numeric pallet count reads as 0 — legacy rows predate the
// TotalPallets column and must still materialize.
func ToRecord(fields []string) InventoryRecord {
	total, err := strconv.Atoi(strings.TrimSpace(fieldAt(fields, colTotalPallets)))
	if err != nil || total < 0 {
		total = 0
	}
	return InventoryRecord{
		SKU:            fieldAt(fields, colSKU),
		Description:    fieldAt(fields, colDescription),
		UnitsPerPallet: fieldAt(fields, colUnitsPerPallet),
		LotCode:        fieldAt(fields, colLotCode),
		ContainerCode:  fieldAt(fields, colContainerCode),
		Center:         fieldAt(fields, colCenter),
		Line:           fieldAt(fields, colLine),
		WorkOrder:      fieldAt(fields, colWorkOrder),
		ProductionDate: fieldAt(fields, colProductionDate),
		DaysToExpire:   fieldAt(fields, colDaysToExpire),
		Location:       fieldAt(fields, colLocation),
		TotalPallets:   total,
		PalletType:     fieldAt(fields, colPalletType),
		Warehouse:      fieldAt(fields, colWarehouse),
	}
}

// EncodeRecord renders a record at the full current width.
func EncodeRecord(r InventoryRecord) string {
	fields := make([]string, ColumnCount)
	fields[colSKU] = r.SKU
	fields[colDescription] = r.Description
	fields[colUnitsPerPallet] = r.UnitsPerPallet
	fields[colLotCode] = r.LotCode
	fields[colContainerCode] = r.ContainerCode
	fields[colCenter] = r.Center
	fields[colLine] = r.Line
	fields[colWorkOrder] = r.WorkOrder
	fields[colProductionDate] = r.ProductionDate
	fields[colDaysToExpire] = r.DaysToExpire
	fields[colLocation] = r.Location
	fields[colTotalPallets] = strconv.Itoa(r.TotalPallets)
	fields[colPalletType] = r.PalletType
	fields[colWarehouse] = r.Warehouse
	return encodeRow(fields)
}

// UpdateFields writes r over the known columns of an already-decoded row,
// right-padding the row to the current width first. Columns beyond the known
// schema are left untouched — rewriting a row must never destroy data the
// current schema does not understand.
func UpdateFields(fields []string, r InventoryRecord) []string {
	updated := make([]string, len(fields))
	copy(updated, fields)
	for len(updated) < ColumnCount {
		updated = append(updated, "")
	}
	updated[colSKU] = r.SKU
	updated[colDescription] = r.Description
	updated[colUnitsPerPallet] = r.UnitsPerPallet
	updated[colLotCode] = r.LotCode
	updated[colContainerCode] = r.ContainerCode
	updated[colCenter] = r.Center
	updated[colLine] = r.Line
	updated[colWorkOrder] = r.WorkOrder
	updated[colProductionDate] = r.ProductionDate
	updated[colDaysToExpire] = r.DaysToExpire
	updated[colLocation] = r.Location
	updated[colTotalPallets] = strconv.Itoa(r.TotalPallets)
	updated[colPalletType] = r.PalletType
	updated[colWarehouse] = r.Warehouse
	return updated
}

// ParseLine decodes one data line into a record. The boolean is false when the
// line is not a usable row (too few fields or blank SKU); callers skip those.
// Returning an option instead of an error keeps the leniency policy explicit
// at every call site.
func ParseLine(line string) (InventoryRecord, bool) {
	trimmed := strings.TrimRight(line, "\r")
	if strings.TrimSpace(trimmed) == "" {
		return InventoryRecord{}, false
	}
	fields := DecodeLine(trimmed)
	if len(fields) < minRecordColumns || strings.TrimSpace(fields[colSKU]) == "" {
		return InventoryRecord{}, false
	}
	return ToRecord(fields), true
}

// isHeaderLine reports whether line looks like the ledger header. A leading
// byte order mark (spreadsheet exports often carry one) is ignored.
func isHeaderLine(line string) bool {
	return strings.HasPrefix(strings.TrimPrefix(line, "\ufeff"), headerToken)
}

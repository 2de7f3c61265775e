package core

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Reference inventory import. The surrounding application hands the core the
// already-opened bytes (CSV) or workbook stream (XLSX); picker plumbing stays
// outside. Each import replaces the previous reference set wholesale.
//
// Expected columns: SKU, Description, Available, Center. Center is optional,
// extra columns are ignored, and rows that do not yield a SKU plus a numeric
// available quantity are skipped.

const minReferenceColumns = 3

// ParseReferenceCSV reads reference items from CSV using the ledger quoting
// rules. A leading header row is detected and skipped.
func ParseReferenceCSV(r io.Reader) ([]ReferenceInventoryItem, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var items []ReferenceInventoryItem
	first := true
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if first {
			first = false
			if isHeaderLine(line) {
				continue
			}
		}
		if item, ok := referenceItemFromFields(DecodeLine(line)); ok {
			items = append(items, item)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to read reference csv: %v", ErrIO, err)
	}
	return items, nil
}

// ParseReferenceXLSX reads reference items from the first sheet of a workbook.
func ParseReferenceXLSX(r io.Reader) ([]ReferenceInventoryItem, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open workbook: %v", ErrIO, err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrValidation)
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %s: %v", ErrIO, sheets[0], err)
	}

	var items []ReferenceInventoryItem
	for i, row := range rows {
		if i == 0 && len(row) > 0 && isHeaderLine(strings.TrimSpace(row[0])) {
			continue
		}
		if item, ok := referenceItemFromFields(row); ok {
			items = append(items, item)
		}
	}
	return items, nil
}

func referenceItemFromFields(fields []string) (ReferenceInventoryItem, bool) {
	if len(fields) < minReferenceColumns {
		return ReferenceInventoryItem{}, false
	}
	sku := strings.TrimSpace(fieldAt(fields, 0))
	if sku == "" {
		return ReferenceInventoryItem{}, false
	}
	available, err := strconv.Atoi(strings.TrimSpace(fieldAt(fields, 2)))
	if err != nil {
		return ReferenceInventoryItem{}, false
	}
	return ReferenceInventoryItem{
		SKU:         sku,
		Description: strings.TrimSpace(fieldAt(fields, 1)),
		Available:   available,
		Center:      strings.TrimSpace(fieldAt(fields, 3)),
	}, true
}

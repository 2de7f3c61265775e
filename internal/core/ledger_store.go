package core

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"scanledger/pkg/checksum"
)

// LedgerStore owns the durable scan table: a plain text file holding a header
// line plus one encoded row per (SKU, pallet type, warehouse) key.
//
// Every mutating operation is a whole-file read-modify-write serialized by one
// mutex, so two writers can never interleave and silently drop an update.
// Reads do not take the lock; they tolerate a file mid-rewrite through the
// lenient line parse. There is no atomic rename — a crash mid-write can tear
// the file. That risk is accepted for human-speed scanning; the lenient reader
// skips whatever a torn write leaves behind.
type LedgerStore struct {
	mu       sync.Mutex
	path     string
	log      *logrus.Logger
	feed     *ScanFeed
	reformat *LegacyReformatter
}

// NewLedgerStore creates a store over the file at path. feed may be nil when
// no consumer observes scan events. logger must not be nil.
func NewLedgerStore(path string, logger *logrus.Logger, feed *ScanFeed) *LedgerStore {
	return &LedgerStore{
		path:     path,
		log:      logger,
		feed:     feed,
		reformat: NewLegacyReformatter(),
	}
}

// Path returns the backing file path.
func (s *LedgerStore) Path() string {
	return s.path
}

// UpsertOutcome reports how an upsert landed in the file.
type UpsertOutcome string

const (
	// OutcomeMerged means an existing row for the key was accumulated in place.
	OutcomeMerged UpsertOutcome = "MERGED"
	// OutcomeAppended means the key was new and the record became a fresh row.
	OutcomeAppended UpsertOutcome = "APPENDED"
)

// Upsert merges record into the ledger. An existing row with the same identity
// key accumulates (pallet counts add, descriptive fields take the incoming
// values); otherwise the record is appended verbatim. Returns the accumulated
// total for the key after the write.
//
// Rejected with ErrValidation before any I/O when the SKU is blank or the
// pallet count negative.
func (s *LedgerStore) Upsert(record InventoryRecord) (int, UpsertOutcome, error) {
	if strings.TrimSpace(record.SKU) == "" {
		return 0, "", fmt.Errorf("%w: sku must not be blank", ErrValidation)
	}
	if record.TotalPallets < 0 {
		return 0, "", fmt.Errorf("%w: total pallets must not be negative, got %d", ErrValidation, record.TotalPallets)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.readLines()
	if err != nil {
		return 0, "", err
	}

	merged := record
	found := false
	for i := 1; i < len(lines); i++ {
		existing, ok := ParseLine(lines[i])
		if !ok {
			continue
		}
		if existing.Key() == record.Key() {
			merged = Accumulate(existing, record)
			lines[i] = encodeRow(UpdateFields(DecodeLine(lines[i]), merged))
			found = true
			break
		}
	}
	outcome := OutcomeMerged
	if !found {
		outcome = OutcomeAppended
		lines = append(lines, EncodeRecord(record))
	}

	if err := s.writeLines(lines); err != nil {
		return 0, "", err
	}

	s.log.WithFields(logrus.Fields{
		"sku":         record.SKU,
		"pallet_type": record.PalletType,
		"warehouse":   record.Warehouse,
		"added":       record.TotalPallets,
		"total":       merged.TotalPallets,
		"outcome":     outcome,
	}).Info("ledger upsert")

	if s.feed != nil {
		s.feed.Publish(merged, merged.TotalPallets)
	}
	return merged.TotalPallets, outcome, nil
}

// ReadAll materializes every data row. Lines that do not parse into a usable
// row are silently skipped — a single malformed historical row must not block
// access to the rest of the ledger. A missing file reads as an empty ledger.
func (s *LedgerStore) ReadAll() ([]InventoryRecord, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to read ledger file %s: %v", ErrIO, s.path, err)
	}

	var records []InventoryRecord
	skipped := 0
	for i, line := range splitLines(string(content)) {
		if i == 0 && isHeaderLine(line) {
			continue
		}
		record, ok := ParseLine(line)
		if !ok {
			if strings.TrimSpace(line) != "" {
				skipped++
			}
			continue
		}
		records = append(records, record)
	}
	if skipped > 0 {
		s.log.WithField("skipped_lines", skipped).Warn("ledger read skipped unparseable lines")
	}
	return records, nil
}

// DeleteLast removes the most recently appended non-blank data row. The header
// is never removed; ErrNotFound when only the header remains.
func (s *LedgerStore) DeleteLast() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.readLines()
	if err != nil {
		return err
	}

	last := -1
	for i := len(lines) - 1; i >= 1; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			last = i
			break
		}
	}
	if last < 1 {
		return fmt.Errorf("%w: ledger has no data rows to delete", ErrNotFound)
	}

	removed := lines[last]
	lines = append(lines[:last], lines[last+1:]...)
	if err := s.writeLines(lines); err != nil {
		return err
	}

	s.log.WithField("line", removed).Info("ledger deleted last row")
	return nil
}

// Reset deletes the backing file; the next read sees an empty ledger. The scan
// feed is cleared with it so no cached snapshot outlives its source row.
func (s *LedgerStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: failed to remove ledger file %s: %v", ErrIO, s.path, err)
	}
	if s.feed != nil {
		s.feed.Reset()
	}
	s.log.Info("ledger reset")
	return nil
}

// ExportTo copies the raw ledger content byte for byte. An empty or missing
// ledger exports as a lone header line.
func (s *LedgerStore) ExportTo(w io.Writer) (int64, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			n, werr := io.WriteString(w, DefaultHeader()+"\n")
			if werr != nil {
				return int64(n), fmt.Errorf("%w: failed to write export: %v", ErrIO, werr)
			}
			return int64(n), nil
		}
		return 0, fmt.Errorf("%w: failed to open ledger file %s: %v", ErrIO, s.path, err)
	}
	defer file.Close()

	n, err := io.Copy(w, file)
	if err != nil {
		return n, fmt.Errorf("%w: failed to copy ledger content: %v", ErrIO, err)
	}
	s.log.WithField("bytes", n).Info("ledger exported")
	return n, nil
}

// ImportFrom replaces the ledger content with the given source. Rows are not
// re-validated — the codec and accumulation path handle them on subsequent
// reads — except that short rows pass through the legacy reformatter first.
// The header policy is enforced on the stored result.
func (s *LedgerStore) ImportFrom(r io.Reader) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: failed to read import source: %v", ErrIO, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var lines []string
	reformatted := 0
	for i, line := range splitLines(string(content)) {
		trimmed := strings.TrimRight(line, "\r")
		if strings.TrimSpace(trimmed) == "" {
			continue
		}
		if i == 0 && isHeaderLine(trimmed) {
			lines = append(lines, trimmed)
			continue
		}
		if s.reformat.NeedsReformat(trimmed) {
			trimmed = s.reformat.Apply(trimmed)
			reformatted++
		}
		lines = append(lines, trimmed)
	}
	lines = ensureHeader(lines)

	if err := s.writeLines(lines); err != nil {
		return err
	}
	if s.feed != nil {
		s.feed.Reset()
	}

	s.log.WithFields(logrus.Fields{
		"rows":        len(lines) - 1,
		"reformatted": reformatted,
	}).Info("ledger imported")
	return nil
}

// Fingerprint hashes the current file content so observers can detect change
// without re-reading the whole ledger. A missing file fingerprints as "".
func (s *LedgerStore) Fingerprint() (string, error) {
	fp, err := checksum.FileFingerprint(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("%w: failed to fingerprint ledger file %s: %v", ErrIO, s.path, err)
	}
	return fp, nil
}

// ── File plumbing ─────────────────────────────────────────────────────────────

// readLines loads the file as lines with the header policy applied: a missing
// file yields just the default header, and a first line that does not look
// like a header gets the default header inserted above it (never overwritten,
// so already-collected rows survive).
func (s *LedgerStore) readLines() ([]string, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{DefaultHeader()}, nil
		}
		return nil, fmt.Errorf("%w: failed to read ledger file %s: %v", ErrIO, s.path, err)
	}

	var lines []string
	for _, line := range splitLines(string(content)) {
		lines = append(lines, strings.TrimRight(line, "\r"))
	}
	// Drop trailing blank lines left by the final newline.
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return ensureHeader(lines), nil
}

func (s *LedgerStore) writeLines(lines []string) error {
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(s.path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("%w: failed to write ledger file %s: %v", ErrIO, s.path, err)
	}
	return nil
}

func ensureHeader(lines []string) []string {
	if len(lines) == 0 {
		return []string{DefaultHeader()}
	}
	if !isHeaderLine(lines[0]) {
		return append([]string{DefaultHeader()}, lines...)
	}
	return lines
}

func splitLines(content string) []string {
	return strings.Split(content, "\n")
}

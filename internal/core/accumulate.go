package core

// Accumulate merges an incoming scan into the existing row for the same
// identity key. Pallet counts add; every descriptive field takes the incoming
// value (last write wins). Re-scanning the same physical pallet double-counts:
// the domain has no unique per-pallet token, so dedup is impossible here and
// the floor procedure owns it instead.
func Accumulate(existing, incoming InventoryRecord) InventoryRecord {
	merged := incoming
	merged.TotalPallets = existing.TotalPallets + incoming.TotalPallets
	return merged
}

package entity

// ProcessorStats records the counter deltas contributed by a single
// applied block. Totals are the sum across all rows, so replayed blocks
// yield the same totals in any arrival order, and deleting rows at or
// above a height restores the exact prior totals.
type ProcessorStats struct {
	BlockHeight             uint64
	CursedInscriptionCount  uint64
	BlessedInscriptionCount uint64
	LostSats                uint64
}

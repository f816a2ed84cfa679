package types

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

type BlockHeader struct {
	Hash      chainhash.Hash
	Height    int64
	PrevBlock chainhash.Hash
	Timestamp time.Time
}

// Block is one block's worth of decoded ordinals events as delivered by
// the event gateway. Transactions are ordered by their index within the
// block.
type Block struct {
	Header BlockHeader

	// Replay marks a backfill delivery. Replayed blocks may arrive out of
	// height order, so numbering contiguity is not enforced for them.
	Replay bool

	// Rollback marks the block as a retraction of a previously applied
	// block instead of new data.
	Rollback bool

	Transactions []*Transaction
}

func (b *Block) BlockHeader() BlockHeader {
	return b.Header
}

func (b *Block) Replayed() bool {
	return b.Replay
}

func (b *Block) RolledBack() bool {
	return b.Rollback
}

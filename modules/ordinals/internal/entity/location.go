package entity

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/gaze-network/ordinals-indexer/pkg/ord"
)

type TransferClassification string

const (
	TransferClassificationGenesis     TransferClassification = "genesis"
	TransferClassificationTransferred TransferClassification = "transferred"
	TransferClassificationSpentInFees TransferClassification = "spent_in_fees"
	TransferClassificationBurnt       TransferClassification = "burnt"
)

func (c TransferClassification) IsValid() bool {
	switch c {
	case TransferClassificationGenesis, TransferClassificationTransferred,
		TransferClassificationSpentInFees, TransferClassificationBurnt:
		return true
	}
	return false
}

func (c TransferClassification) String() string {
	return string(c)
}

// Location is one satpoint an inscription has ever occupied. The
// authoritative "current" location is not a stored flag: it is the row
// with the highest (block_height, tx_index) ordering key, so gap-fill
// inserts during backfill land as historical rows without extra
// bookkeeping.
type Location struct {
	InscriptionId ord.InscriptionId
	OrdinalNumber uint64

	BlockHeight uint64
	BlockHash   chainhash.Hash
	Timestamp   time.Time
	TxIndex     uint32

	SatPoint ord.SatPoint
	// PkScript is nil when the sat left indexed outputs (fee spend or burn).
	PkScript       []byte
	OutputValue    int64
	Classification TransferClassification
}

// Before reports whether l is logically earlier than other in chain
// order. Tx indexes compare as integers, never as strings.
func (l *Location) Before(other *Location) bool {
	if l.BlockHeight != other.BlockHeight {
		return l.BlockHeight < other.BlockHeight
	}
	return l.TxIndex < other.TxIndex
}

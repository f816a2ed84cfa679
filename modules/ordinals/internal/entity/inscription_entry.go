package entity

import (
	"time"

	"github.com/gaze-network/ordinals-indexer/pkg/ord"
)

// InscriptionEntry is the immutable identity record of an inscription,
// created on reveal and destroyed only by rollback of that reveal.
type InscriptionEntry struct {
	Id            ord.InscriptionId
	Content       []byte
	ContentType   string
	ContentLength uint32
	Fee           uint64

	// Number is the effective sequence number: JubileeNumber if the
	// genesis height is at or above jubilee activation, else ClassicNumber.
	Number        int64
	ClassicNumber int64
	JubileeNumber int64
	CurseType     *ord.CurseType

	// OrdinalNumber is the sat the inscription is bound to, zero if unbound.
	OrdinalNumber      uint64
	OrdinalBlockHeight int64
	Rarity             ord.Rarity

	CreatedAt       time.Time
	CreatedAtHeight uint64
	TxIndex         uint32
}

// Cursed reports whether the effective number is negative.
func (e *InscriptionEntry) Cursed() bool {
	return e.Number < 0
}

// Unbound reports whether the inscription is bound to no real satoshi.
func (e *InscriptionEntry) Unbound() bool {
	return e.OrdinalNumber == 0
}

// InscriptionEntryState is the mutable, per-height versioned part of an
// inscription entry.
type InscriptionEntryState struct {
	Id            ord.InscriptionId
	BlockHeight   uint64
	TransferCount uint32
}

package types

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/gaze-network/ordinals-indexer/pkg/ord"
)

// Transaction groups the inscription events decoded from one bitcoin
// transaction. Reveals and Transfers are each in script/witness order.
type Transaction struct {
	TxHash    chainhash.Hash
	Index     uint32
	Reveals   []*InscriptionRevealed
	Transfers []*InscriptionTransferred
}

// InscriptionRevealed is the genesis event of an inscription.
// Addresses cross the gateway boundary as output pkScripts.
type InscriptionRevealed struct {
	InscriptionId ord.InscriptionId
	Content       []byte
	ContentType   string
	ContentLength uint32
	Fee           uint64

	// ClassicNumber and JubileeNumber are the two candidate sequence
	// numbers assigned by the gateway's envelope parser. Which one is
	// effective depends on the genesis height relative to the jubilee
	// activation height.
	ClassicNumber int64
	JubileeNumber int64
	CurseType     *ord.CurseType

	// OrdinalNumber is the sat the inscription is bound to. Zero means
	// the inscription is unbound.
	OrdinalNumber      uint64
	OrdinalBlockHeight int64
	OrdinalOffset      uint64

	SatPoint          ord.SatPoint
	OutputValue       int64
	InscriberPkScript []byte
	TxIndex           uint32
}

// InscriptionTransferred is a movement of an inscribed sat, keyed by its
// ordinal number.
type InscriptionTransferred struct {
	OrdinalNumber uint64
	OldSatPoint   ord.SatPoint
	NewSatPoint   ord.SatPoint

	// DestinationPkScript is nil when the sat left indexed outputs
	// entirely: spent as miner fee when SentAsFee, burnt otherwise.
	DestinationPkScript []byte
	OutputValue         int64
	SentAsFee           bool
	TxIndex             uint32
}

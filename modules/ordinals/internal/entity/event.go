package entity

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/gaze-network/ordinals-indexer/pkg/ord"
	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventTypeDeploy           EventType = "deploy"
	EventTypeMint             EventType = "mint"
	EventTypeInscribeTransfer EventType = "inscribe_transfer"
	EventTypeTransferSend     EventType = "transfer_send"
	EventTypeTransferReceive  EventType = "transfer_receive"
)

func (t EventType) IsValid() bool {
	switch t {
	case EventTypeDeploy, EventTypeMint, EventTypeInscribeTransfer,
		EventTypeTransferSend, EventTypeTransferReceive:
		return true
	}
	return false
}

func (t EventType) String() string {
	return string(t)
}

// Event is one row of the append-only BRC-20 activity log. It carries
// enough of the original operation (addresses, amount) to audit every
// balance effect without re-deriving it from current state.
type Event struct {
	Id                uint64
	Type              EventType
	InscriptionId     ord.InscriptionId
	InscriptionNumber int64
	Tick              string
	OriginalTick      string
	TxHash            chainhash.Hash
	BlockHeight       uint64
	TxIndex           uint32
	Timestamp         time.Time

	// PkScript is the acting address: deployer, minter, transfer source.
	PkScript []byte
	// CounterpartyPkScript is the destination of a transfer_send, nil
	// for every other event type and for sends that left indexed
	// outputs (fee spend or burn).
	CounterpartyPkScript []byte
	Amount               decimal.Decimal
	SatPoint             ord.SatPoint

	// SpentHeight is set on inscribe_transfer events when their transfer
	// vehicle is consumed. An inscribe_transfer with nil SpentHeight is a
	// pending vehicle.
	SpentHeight *uint64
}

package entity

import (
	"time"

	"github.com/gaze-network/ordinals-indexer/pkg/ord"
	"github.com/shopspring/decimal"
)

// TickEntry is a BRC-20 token. Everything except the minted/burned
// counters and completion marker is immutable after deploy.
type TickEntry struct {
	// Tick is the lower-cased uniqueness key; OriginalTick preserves the
	// display form of the first successful deploy.
	Tick         string
	OriginalTick string

	TotalSupply         decimal.Decimal
	Decimals            uint16
	LimitPerMint        decimal.Decimal
	IsSelfMint          bool
	DeployInscriptionId ord.InscriptionId
	DeployerPkScript    []byte
	DeployedAt          time.Time
	DeployedAtHeight    uint64

	MintedAmount      decimal.Decimal
	BurnedAmount      decimal.Decimal
	CompletedAt       time.Time
	CompletedAtHeight uint64
}

// MintableAmount returns the remaining supply available for minting.
func (e *TickEntry) MintableAmount() decimal.Decimal {
	return e.TotalSupply.Sub(e.MintedAmount)
}

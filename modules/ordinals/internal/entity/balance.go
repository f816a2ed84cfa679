package entity

import "github.com/shopspring/decimal"

// Balance is a per-height snapshot of one (pkScript, tick) balance.
// The live balance is the snapshot with the highest block height.
type Balance struct {
	PkScript            []byte
	Tick                string
	BlockHeight         uint64
	AvailableBalance    decimal.Decimal
	TransferableBalance decimal.Decimal
}

func (b *Balance) OverallBalance() decimal.Decimal {
	return b.AvailableBalance.Add(b.TransferableBalance)
}

package ordinals

import (
	"bytes"
	"context"
	"encoding/hex"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ordinals-indexer/core/types"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/brc20"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/datagateway"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/entity"
	"github.com/gaze-network/ordinals-indexer/pkg/logger"
	"github.com/gaze-network/ordinals-indexer/pkg/logger/slogx"
	"github.com/gaze-network/ordinals-indexer/pkg/ord"
	"github.com/shopspring/decimal"
)

// processBRC20Reveal dispatches a freshly revealed inscription to the
// BRC-20 ledger. Content that is not a valid BRC-20 operation, or an
// operation that fails a protocol rule, is ignored without failing the
// batch: only storage errors propagate.
func (p *Processor) processBRC20Reveal(ctx context.Context, reveal *types.InscriptionRevealed, entry *entity.InscriptionEntry, blockHeader types.BlockHeader) error {
	if entry.Cursed() || entry.Unbound() {
		return nil
	}
	payload, err := brc20.ParsePayload(reveal.Content, reveal.ContentType)
	if err != nil {
		// not BRC-20
		return nil
	}

	switch payload.Op {
	case brc20.OperationDeploy:
		return p.processBRC20Deploy(ctx, payload, reveal, entry, blockHeader)
	case brc20.OperationMint:
		return p.processBRC20Mint(ctx, payload, reveal, entry, blockHeader)
	case brc20.OperationTransfer:
		return p.processBRC20InscribeTransfer(ctx, payload, reveal, entry, blockHeader)
	}
	return nil
}

func (p *Processor) processBRC20Deploy(ctx context.Context, payload *brc20.Payload, reveal *types.InscriptionRevealed, entry *entity.InscriptionEntry, blockHeader types.BlockHeader) error {
	tickEntry, err := p.getTickEntry(ctx, payload.Tick)
	if err != nil {
		return errors.Wrap(err, "failed to get tick entry")
	}
	if tickEntry != nil {
		logger.DebugContext(ctx, "found deploy inscription but tick already exists, skipping...",
			slogx.String("tick", payload.Tick),
			slogx.Stringer("entryInscriptionId", tickEntry.DeployInscriptionId),
			slogx.Stringer("currentInscriptionId", reveal.InscriptionId),
		)
		return nil
	}
	tickEntry = &entity.TickEntry{
		Tick:                payload.Tick,
		OriginalTick:        payload.OriginalTick,
		TotalSupply:         payload.Max,
		Decimals:            payload.Dec,
		LimitPerMint:        payload.Lim,
		IsSelfMint:          payload.SelfMint,
		DeployInscriptionId: reveal.InscriptionId,
		DeployerPkScript:    reveal.InscriberPkScript,
		DeployedAt:          blockHeader.Timestamp,
		DeployedAtHeight:    uint64(blockHeader.Height),
		MintedAmount:        decimal.Zero,
		BurnedAmount:        decimal.Zero,
		CompletedAt:         time.Time{},
		CompletedAtHeight:   0,
	}
	p.newTickEntries[payload.Tick] = tickEntry
	p.newTickEntryStates[payload.Tick] = tickEntry

	event := p.newBRC20Event(entity.EventTypeDeploy, payload, reveal, entry, blockHeader, decimal.Zero)
	p.newEvents = append(p.newEvents, event)
	p.appendEventHash(getEventDeployString(event, tickEntry))
	return nil
}

func (p *Processor) processBRC20Mint(ctx context.Context, payload *brc20.Payload, reveal *types.InscriptionRevealed, entry *entity.InscriptionEntry, blockHeader types.BlockHeader) error {
	tickEntry, err := p.getTickEntry(ctx, payload.Tick)
	if err != nil {
		return errors.Wrap(err, "failed to get tick entry")
	}
	if tickEntry == nil {
		logger.DebugContext(ctx, "found mint inscription but tick does not exist, skipping...",
			slogx.String("tick", payload.Tick),
			slogx.Stringer("inscriptionId", reveal.InscriptionId),
		)
		return nil
	}
	if !brc20.AmountWithinDecimals(payload.Amt, tickEntry.Decimals) {
		logger.DebugContext(ctx, "found mint inscription but amount has too many decimals, skipping...",
			slogx.String("tick", payload.Tick),
			slogx.Stringer("inscriptionId", reveal.InscriptionId),
			slogx.Stringer("amount", payload.Amt),
			slogx.Uint16("decimals", tickEntry.Decimals),
		)
		return nil
	}
	if tickEntry.IsSelfMint && !bytes.Equal(reveal.InscriberPkScript, tickEntry.DeployerPkScript) {
		logger.DebugContext(ctx, "found mint inscription for self-mint tick from non-deployer, skipping...",
			slogx.String("tick", payload.Tick),
			slogx.Stringer("inscriptionId", reveal.InscriptionId),
		)
		return nil
	}
	if payload.Amt.GreaterThan(tickEntry.LimitPerMint) {
		logger.DebugContext(ctx, "found mint inscription but amount exceeds limit per mint, skipping...",
			slogx.String("tick", payload.Tick),
			slogx.Stringer("inscriptionId", reveal.InscriptionId),
			slogx.Stringer("amount", payload.Amt),
			slogx.Stringer("limit", tickEntry.LimitPerMint),
		)
		return nil
	}
	remaining := tickEntry.MintableAmount()
	if remaining.IsZero() {
		logger.DebugContext(ctx, "found mint inscription but tick is fully minted, skipping...",
			slogx.String("tick", payload.Tick),
			slogx.Stringer("inscriptionId", reveal.InscriptionId),
		)
		return nil
	}
	// a mint over the remaining supply is capped, never rejected
	amount := decimal.Min(payload.Amt, remaining)

	tickEntry.MintedAmount = tickEntry.MintedAmount.Add(amount)
	if tickEntry.MintedAmount.GreaterThanOrEqual(tickEntry.TotalSupply) {
		tickEntry.CompletedAt = blockHeader.Timestamp
		tickEntry.CompletedAtHeight = uint64(blockHeader.Height)
	}
	p.newTickEntryStates[payload.Tick] = tickEntry

	balance, err := p.getBalance(ctx, reveal.InscriberPkScript, payload.Tick, uint64(blockHeader.Height))
	if err != nil {
		return errors.Wrap(err, "failed to get balance")
	}
	balance.AvailableBalance = balance.AvailableBalance.Add(amount)

	event := p.newBRC20Event(entity.EventTypeMint, payload, reveal, entry, blockHeader, amount)
	p.newEvents = append(p.newEvents, event)
	p.appendEventHash(getEventMintString(event, tickEntry.Decimals))
	return nil
}

func (p *Processor) processBRC20InscribeTransfer(ctx context.Context, payload *brc20.Payload, reveal *types.InscriptionRevealed, entry *entity.InscriptionEntry, blockHeader types.BlockHeader) error {
	tickEntry, err := p.getTickEntry(ctx, payload.Tick)
	if err != nil {
		return errors.Wrap(err, "failed to get tick entry")
	}
	if tickEntry == nil {
		logger.DebugContext(ctx, "found transfer inscription but tick does not exist, skipping...",
			slogx.String("tick", payload.Tick),
			slogx.Stringer("inscriptionId", reveal.InscriptionId),
		)
		return nil
	}
	if !brc20.AmountWithinDecimals(payload.Amt, tickEntry.Decimals) {
		logger.DebugContext(ctx, "found transfer inscription but amount has too many decimals, skipping...",
			slogx.String("tick", payload.Tick),
			slogx.Stringer("inscriptionId", reveal.InscriptionId),
			slogx.Stringer("amount", payload.Amt),
			slogx.Uint16("decimals", tickEntry.Decimals),
		)
		return nil
	}
	balance, err := p.getBalance(ctx, reveal.InscriberPkScript, payload.Tick, uint64(blockHeader.Height))
	if err != nil {
		return errors.Wrap(err, "failed to get balance")
	}
	if balance.AvailableBalance.LessThan(payload.Amt) {
		// no partial transfers: the whole operation is ignored
		logger.DebugContext(ctx, "found transfer inscription but available balance is insufficient, skipping...",
			slogx.String("tick", payload.Tick),
			slogx.Stringer("inscriptionId", reveal.InscriptionId),
			slogx.Stringer("amount", payload.Amt),
			slogx.Stringer("available", balance.AvailableBalance),
		)
		return nil
	}
	balance.AvailableBalance = balance.AvailableBalance.Sub(payload.Amt)
	balance.TransferableBalance = balance.TransferableBalance.Add(payload.Amt)

	event := p.newBRC20Event(entity.EventTypeInscribeTransfer, payload, reveal, entry, blockHeader, payload.Amt)
	p.newEvents = append(p.newEvents, event)
	p.pendingVehicles[reveal.InscriptionId] = event
	p.appendEventHash(getEventInscribeTransferString(event, tickEntry.Decimals))
	return nil
}

// processVehicleSpend settles a pending transfer vehicle that moved on
// chain. Exactly one spend is honored per vehicle.
func (p *Processor) processVehicleSpend(ctx context.Context, vehicle *entity.Event, transfer *types.InscriptionTransferred, blockHeader types.BlockHeader) error {
	tickEntry, err := p.getTickEntry(ctx, vehicle.Tick)
	if err != nil {
		return errors.Wrap(err, "failed to get tick entry")
	}
	if tickEntry == nil {
		return errors.Errorf("tick entry %q missing for pending transfer vehicle %s", vehicle.Tick, vehicle.InscriptionId)
	}

	source := vehicle.PkScript
	amount := vehicle.Amount
	blockHeight := uint64(blockHeader.Height)

	sourceBalance, err := p.getBalance(ctx, source, vehicle.Tick, blockHeight)
	if err != nil {
		return errors.Wrap(err, "failed to get source balance")
	}

	event := &entity.Event{
		Type:              entity.EventTypeTransferSend,
		InscriptionId:     vehicle.InscriptionId,
		InscriptionNumber: vehicle.InscriptionNumber,
		Tick:              vehicle.Tick,
		OriginalTick:      vehicle.OriginalTick,
		TxHash:            transfer.NewSatPoint.OutPoint.Hash,
		BlockHeight:       blockHeight,
		TxIndex:           transfer.TxIndex,
		Timestamp:         blockHeader.Timestamp,
		PkScript:          source,
		Amount:            amount,
		SatPoint:          transfer.NewSatPoint,
	}

	switch {
	case transfer.SentAsFee || bytes.Equal(transfer.DestinationPkScript, source):
		// the amount returns to the sender: a spend as miner fee keeps
		// ownership with the source wallet, a self-send is an explicit
		// reclaim. No cross-address movement either way.
		sourceBalance.TransferableBalance = sourceBalance.TransferableBalance.Sub(amount)
		sourceBalance.AvailableBalance = sourceBalance.AvailableBalance.Add(amount)
		event.Type = entity.EventTypeTransferReceive
	case transfer.DestinationPkScript == nil:
		// burnt: the amount leaves circulation entirely
		sourceBalance.TransferableBalance = sourceBalance.TransferableBalance.Sub(amount)
		tickEntry.BurnedAmount = tickEntry.BurnedAmount.Add(amount)
		p.newTickEntryStates[vehicle.Tick] = tickEntry
	default:
		sourceBalance.TransferableBalance = sourceBalance.TransferableBalance.Sub(amount)
		destBalance, err := p.getBalance(ctx, transfer.DestinationPkScript, vehicle.Tick, blockHeight)
		if err != nil {
			return errors.Wrap(err, "failed to get destination balance")
		}
		destBalance.AvailableBalance = destBalance.AvailableBalance.Add(amount)
		event.CounterpartyPkScript = transfer.DestinationPkScript
	}

	p.newEvents = append(p.newEvents, event)
	p.appendEventHash(getEventTransferTransferString(event, tickEntry.Decimals))

	// consume the vehicle
	if pending, ok := p.pendingVehicles[vehicle.InscriptionId]; ok && pending.SpentHeight == nil {
		pending.SpentHeight = &blockHeight
	} else {
		vehicle.SpentHeight = &blockHeight
		p.newSpentVehicleIds = append(p.newSpentVehicleIds, vehicle.InscriptionId)
	}
	return nil
}

func (p *Processor) newBRC20Event(eventType entity.EventType, payload *brc20.Payload, reveal *types.InscriptionRevealed, entry *entity.InscriptionEntry, blockHeader types.BlockHeader, amount decimal.Decimal) *entity.Event {
	return &entity.Event{
		Type:              eventType,
		InscriptionId:     reveal.InscriptionId,
		InscriptionNumber: entry.Number,
		Tick:              payload.Tick,
		OriginalTick:      payload.OriginalTick,
		TxHash:            reveal.InscriptionId.TxHash,
		BlockHeight:       uint64(blockHeader.Height),
		TxIndex:           reveal.TxIndex,
		Timestamp:         blockHeader.Timestamp,
		PkScript:          reveal.InscriberPkScript,
		Amount:            amount,
		SatPoint:          reveal.SatPoint,
	}
}

// getTickEntry resolves a tick against in-block buffers first, so
// same-block deploy/mint/transfer sequences observe each other.
func (p *Processor) getTickEntry(ctx context.Context, tick string) (*entity.TickEntry, error) {
	if entry, ok := p.newTickEntryStates[tick]; ok {
		return entry, nil
	}
	if entry, ok := p.newTickEntries[tick]; ok {
		return entry, nil
	}
	entries, err := p.ordinalsDg.GetTickEntriesByTicks(ctx, []string{tick})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tick entries by ticks")
	}
	return entries[tick], nil
}

// getUnspentVehicle resolves a pending transfer vehicle by inscription
// id, checking vehicles created in the current block first.
func (p *Processor) getUnspentVehicle(ctx context.Context, id ord.InscriptionId) (*entity.Event, error) {
	if vehicle, ok := p.pendingVehicles[id]; ok {
		if vehicle.SpentHeight != nil {
			return nil, nil
		}
		return vehicle, nil
	}
	vehicles, err := p.ordinalsDg.GetUnspentVehiclesByIds(ctx, []ord.InscriptionId{id})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get unspent vehicles by ids")
	}
	return vehicles[id], nil
}

// getBalance returns the mutable balance snapshot for (pkScript, tick)
// at the given height, creating a zero snapshot if none exists. The
// returned snapshot is buffered for flush: callers mutate it in place.
func (p *Processor) getBalance(ctx context.Context, pkScript []byte, tick string, blockHeight uint64) (*entity.Balance, error) {
	pkScriptHex := hex.EncodeToString(pkScript)
	if tickBalances, ok := p.newBalances[pkScriptHex]; ok {
		if balance, ok := tickBalances[tick]; ok {
			return balance, nil
		}
	}
	persisted, err := p.ordinalsDg.GetBalancesBatch(ctx, []datagateway.BalanceKey{{PkScriptHex: pkScriptHex, Tick: tick}})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balances batch")
	}
	balance := &entity.Balance{
		PkScript:            pkScript,
		Tick:                tick,
		BlockHeight:         blockHeight,
		AvailableBalance:    decimal.Zero,
		TransferableBalance: decimal.Zero,
	}
	if prev := persisted[pkScriptHex][tick]; prev != nil {
		balance.AvailableBalance = prev.AvailableBalance
		balance.TransferableBalance = prev.TransferableBalance
	}
	if _, ok := p.newBalances[pkScriptHex]; !ok {
		p.newBalances[pkScriptHex] = make(map[string]*entity.Balance)
	}
	p.newBalances[pkScriptHex][tick] = balance
	return balance, nil
}

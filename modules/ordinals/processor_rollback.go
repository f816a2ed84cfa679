package ordinals

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ordinals-indexer/common/errs"
	"github.com/gaze-network/ordinals-indexer/core/types"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/datagateway"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/entity"
	"github.com/gaze-network/ordinals-indexer/pkg/logger"
	"github.com/gaze-network/ordinals-indexer/pkg/logger/slogx"
)

// Revert implements indexer.Processor. It retracts exactly one block,
// which must be the current tip: rolling back out of order would leave
// versioned state rows above the tip and corrupt every later read.
func (p *Processor) Revert(ctx context.Context, block *types.Block) error {
	latestBlock, err := p.ordinalsDg.GetLatestBlock(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get latest block")
	}
	if latestBlock.Height != block.Header.Height {
		return errors.Wrapf(errs.ConflictSetting, "cannot revert block %d: current tip is %d, blocks must roll back in strict reverse order", block.Header.Height, latestBlock.Height)
	}
	logger.InfoContext(ctx, "Reverting block",
		slogx.Int64("height", block.Header.Height),
		slogx.Stringer("hash", block.Header.Hash),
	)
	return p.revertSinceHeight(ctx, uint64(block.Header.Height))
}

// RevertData implements indexer.Processor. It is the reorg recovery
// path: everything from the fork point upward is removed so the fetcher
// can re-index the replacement chain.
func (p *Processor) RevertData(ctx context.Context, from int64) error {
	return p.revertSinceHeight(ctx, uint64(from))
}

// revertSinceHeight removes every row created at or above the height.
// All mutable state is versioned per height, so deleting the versions
// restores the exact prior state without replaying history.
func (p *Processor) revertSinceHeight(ctx context.Context, from uint64) error {
	ordinalsDgTx, err := p.ordinalsDg.BeginOrdinalsTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err := ordinalsDgTx.Rollback(ctx); err != nil {
			logger.WarnContext(ctx, "failed to rollback transaction",
				slogx.Error(err),
				slogx.String("event", "rollback_ordinals_revert"),
			)
		}
	}()

	if err := p.deleteSinceHeight(ctx, ordinalsDgTx, from); err != nil {
		return errors.WithStack(err)
	}

	if err := ordinalsDgTx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	// reload counters from the delta rows that remain
	stats, err := p.ordinalsDg.GetLatestProcessorStats(ctx)
	if err != nil {
		if !errors.Is(err, errs.NotFound) {
			return errors.Wrap(err, "failed to get latest processor stats")
		}
		stats = &entity.ProcessorStats{
			BlockHeight:             uint64(startingBlockHeader[p.network].Height),
			CursedInscriptionCount:  0,
			BlessedInscriptionCount: 0,
			LostSats:                0,
		}
	}
	p.cursedInscriptionCount = stats.CursedInscriptionCount
	p.blessedInscriptionCount = stats.BlessedInscriptionCount
	p.lostSats = stats.LostSats
	return nil
}

func (p *Processor) deleteSinceHeight(ctx context.Context, dgTx datagateway.OrdinalsDataGatewayWithTx, from uint64) error {
	if err := dgTx.DeleteIndexedBlocksSinceHeight(ctx, from); err != nil {
		return errors.Wrap(err, "failed to delete indexed blocks")
	}
	if err := dgTx.DeleteProcessorStatsSinceHeight(ctx, from); err != nil {
		return errors.Wrap(err, "failed to delete processor stats")
	}
	if err := dgTx.DeleteInscriptionEntriesSinceHeight(ctx, from); err != nil {
		return errors.Wrap(err, "failed to delete inscription entries")
	}
	if err := dgTx.DeleteInscriptionEntryStatesSinceHeight(ctx, from); err != nil {
		return errors.Wrap(err, "failed to delete inscription entry states")
	}
	if err := dgTx.DeleteLocationsSinceHeight(ctx, from); err != nil {
		return errors.Wrap(err, "failed to delete locations")
	}
	if err := dgTx.DeleteTickEntriesSinceHeight(ctx, from); err != nil {
		return errors.Wrap(err, "failed to delete tick entries")
	}
	if err := dgTx.DeleteTickEntryStatesSinceHeight(ctx, from); err != nil {
		return errors.Wrap(err, "failed to delete tick entry states")
	}
	if err := dgTx.DeleteEventsSinceHeight(ctx, from); err != nil {
		return errors.Wrap(err, "failed to delete events")
	}
	if err := dgTx.DeleteBalancesSinceHeight(ctx, from); err != nil {
		return errors.Wrap(err, "failed to delete balances")
	}
	if err := dgTx.UnspendVehiclesSinceHeight(ctx, from); err != nil {
		return errors.Wrap(err, "failed to unspend transfer vehicles")
	}
	return nil
}

package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ordinals-indexer/core/types"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/entity"
)

func (u *Usecase) GetLatestBlock(ctx context.Context) (types.BlockHeader, error) {
	blockHeader, err := u.ordinalsDg.GetLatestBlock(ctx)
	if err != nil {
		return types.BlockHeader{}, errors.Wrap(err, "error during GetLatestBlock")
	}
	return blockHeader, nil
}

func (u *Usecase) GetLatestProcessorStats(ctx context.Context) (*entity.ProcessorStats, error) {
	stats, err := u.ordinalsDg.GetLatestProcessorStats(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetLatestProcessorStats")
	}
	return stats, nil
}

func (u *Usecase) GetIndexedBlockByHeight(ctx context.Context, height int64) (*entity.IndexedBlock, error) {
	block, err := u.ordinalsDg.GetIndexedBlockByHeight(ctx, height)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetIndexedBlockByHeight")
	}
	return block, nil
}

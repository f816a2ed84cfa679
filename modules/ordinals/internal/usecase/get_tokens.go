package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ordinals-indexer/common/errs"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/datagateway"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/entity"
)

func (u *Usecase) GetTickEntryByTick(ctx context.Context, tick string) (*entity.TickEntry, error) {
	entries, err := u.ordinalsDg.GetTickEntriesByTicks(ctx, []string{tick})
	if err != nil {
		return nil, errors.Wrap(err, "error during GetTickEntriesByTicks")
	}
	entry, ok := entries[tick]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	return entry, nil
}

func (u *Usecase) GetTickEntriesByTicks(ctx context.Context, ticks []string) (map[string]*entity.TickEntry, error) {
	entries, err := u.ordinalsDg.GetTickEntriesByTicks(ctx, ticks)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetTickEntriesByTicks")
	}
	return entries, nil
}

func (u *Usecase) GetTickEntries(ctx context.Context, params datagateway.GetTickEntriesParams) ([]*entity.TickEntry, error) {
	entries, err := u.ordinalsDg.GetTickEntries(ctx, params)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetTickEntries")
	}
	return entries, nil
}

func (u *Usecase) GetEventCountsByTicks(ctx context.Context, ticks []string) (map[string]uint64, error) {
	counts, err := u.ordinalsDg.GetEventCountsByTicks(ctx, ticks)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetEventCountsByTicks")
	}
	return counts, nil
}

func (u *Usecase) GetHoldersByTick(ctx context.Context, tick string, blockHeight uint64, limit, offset int32) ([]*entity.Balance, error) {
	balances, err := u.ordinalsDg.GetBalancesByTick(ctx, tick, blockHeight, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetBalancesByTick")
	}
	return balances, nil
}

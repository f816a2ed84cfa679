package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/entity"
)

func (u *Usecase) GetBalancesByPkScript(ctx context.Context, pkScript []byte, blockHeight uint64) (map[string]*entity.Balance, error) {
	balances, err := u.ordinalsDg.GetBalancesByPkScript(ctx, pkScript, blockHeight)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetBalancesByPkScript")
	}
	return balances, nil
}

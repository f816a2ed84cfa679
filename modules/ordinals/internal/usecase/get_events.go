package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/datagateway"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/entity"
)

func (u *Usecase) GetEvents(ctx context.Context, params datagateway.GetEventsParams) ([]*entity.Event, error) {
	events, err := u.ordinalsDg.GetEvents(ctx, params)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetEvents")
	}
	return events, nil
}

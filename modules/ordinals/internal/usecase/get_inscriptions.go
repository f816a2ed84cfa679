package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/datagateway"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/entity"
	"github.com/gaze-network/ordinals-indexer/pkg/ord"
)

func (u *Usecase) GetInscriptionById(ctx context.Context, id ord.InscriptionId) (*entity.InscriptionEntry, error) {
	entry, err := u.ordinalsDg.GetInscriptionEntryById(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetInscriptionEntryById")
	}
	return entry, nil
}

func (u *Usecase) GetInscriptionByNumber(ctx context.Context, number int64) (*entity.InscriptionEntry, error) {
	entry, err := u.ordinalsDg.GetInscriptionEntryByNumber(ctx, number)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetInscriptionEntryByNumber")
	}
	return entry, nil
}

func (u *Usecase) GetInscriptions(ctx context.Context, params datagateway.GetInscriptionEntriesParams) ([]*entity.InscriptionEntry, error) {
	entries, err := u.ordinalsDg.GetInscriptionEntries(ctx, params)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetInscriptionEntries")
	}
	return entries, nil
}

func (u *Usecase) GetTransferCountsByIds(ctx context.Context, ids []ord.InscriptionId) (map[ord.InscriptionId]uint32, error) {
	counts, err := u.ordinalsDg.GetTransferCountsByIds(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetTransferCountsByIds")
	}
	return counts, nil
}

func (u *Usecase) GetCurrentLocation(ctx context.Context, id ord.InscriptionId) (*entity.Location, error) {
	location, err := u.ordinalsDg.GetCurrentLocationByInscriptionId(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetCurrentLocationByInscriptionId")
	}
	return location, nil
}

func (u *Usecase) GetGenesisLocation(ctx context.Context, id ord.InscriptionId) (*entity.Location, error) {
	location, err := u.ordinalsDg.GetGenesisLocationByInscriptionId(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetGenesisLocationByInscriptionId")
	}
	return location, nil
}

func (u *Usecase) GetInscriptionTransfers(ctx context.Context, id ord.InscriptionId, limit, offset int32) ([]*entity.Location, error) {
	locations, err := u.ordinalsDg.GetLocationsByInscriptionId(ctx, id, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetLocationsByInscriptionId")
	}
	return locations, nil
}

func (u *Usecase) GetTransfersByBlockHeight(ctx context.Context, blockHeight uint64, limit, offset int32) ([]*entity.Location, error) {
	locations, err := u.ordinalsDg.GetLocationsByBlockHeight(ctx, blockHeight, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetLocationsByBlockHeight")
	}
	return locations, nil
}

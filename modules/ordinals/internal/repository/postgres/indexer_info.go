package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ordinals-indexer/common/errs"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/datagateway"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/entity"
	"github.com/jackc/pgx/v5"
)

var _ datagateway.IndexerInfoDataGateway = (*Repository)(nil)

// GetLatestIndexerState implements datagateway.IndexerInfoDataGateway.
func (r *Repository) GetLatestIndexerState(ctx context.Context) (entity.IndexerState, error) {
	rows, err := r.queryer().Query(ctx, `
		SELECT id, created_at, client_version, db_version, event_hash_version, network
		FROM ordinals_indexer_states
		ORDER BY id DESC
		LIMIT 1
	`)
	if err != nil {
		return entity.IndexerState{}, errors.Wrap(err, "error during query")
	}
	model, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[indexerStateModel])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.IndexerState{}, errors.WithStack(errs.NotFound)
		}
		return entity.IndexerState{}, errors.Wrap(err, "error during scan")
	}
	return mapIndexerStateModelToType(model), nil
}

// CreateIndexerState implements datagateway.IndexerInfoDataGateway.
func (r *Repository) CreateIndexerState(ctx context.Context, state entity.IndexerState) error {
	_, err := r.queryer().Exec(ctx, `
		INSERT INTO ordinals_indexer_states (client_version, db_version, event_hash_version, network)
		VALUES ($1, $2, $3, $4)
	`, state.ClientVersion, state.DBVersion, state.EventHashVersion, string(state.Network))
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

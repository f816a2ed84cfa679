package postgres

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ordinals-indexer/common/errs"
	"github.com/gaze-network/ordinals-indexer/core/types"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/datagateway"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/entity"
	"github.com/gaze-network/ordinals-indexer/pkg/ord"
	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"
)

var _ datagateway.OrdinalsDataGateway = (*Repository)(nil)

const selectLocationColumns = `inscription_id, ordinal_number, block_height, block_hash, "timestamp", tx_index, satpoint_tx_hash, satpoint_out_idx, satpoint_offset, pkscript, output_value, classification`

const selectEventColumns = `id, "type", inscription_id, inscription_number, tick, original_tick, tx_hash, block_height, tx_index, "timestamp", pkscript, counterparty_pkscript, amount, satpoint_tx_hash, satpoint_out_idx, satpoint_offset, spent_height`

const selectTickEntryColumns = `e.tick, e.original_tick, e.total_supply, e.decimals, e.limit_per_mint, e.is_self_mint, e.deploy_inscription_id, e.deployer_pkscript, e.deployed_at, e.deployed_at_height, COALESCE(s.minted_amount, 0) AS minted_amount, COALESCE(s.burned_amount, 0) AS burned_amount, s.completed_at, s.completed_at_height`

const latestTickEntryStateJoin = `LEFT JOIN LATERAL (
	SELECT minted_amount, burned_amount, completed_at, completed_at_height
	FROM ordinals_tick_entry_states
	WHERE tick = e.tick
	ORDER BY block_height DESC
	LIMIT 1
) s ON true`

// warning: GetLatestBlock returns a types.BlockHeader with only Height, Hash
// and PrevBlock populated, which is all the indexer loop needs.
func (r *Repository) GetLatestBlock(ctx context.Context) (types.BlockHeader, error) {
	rows, err := r.queryer().Query(ctx, `
		SELECT height, hash, prev_hash, event_hash, cumulative_event_hash
		FROM ordinals_indexed_blocks
		ORDER BY height DESC
		LIMIT 1
	`)
	if err != nil {
		return types.BlockHeader{}, errors.Wrap(err, "error during query")
	}
	model, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[indexedBlockModel])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.BlockHeader{}, errors.WithStack(errs.NotFound)
		}
		return types.BlockHeader{}, errors.Wrap(err, "error during scan")
	}
	block, err := mapIndexedBlockModelToType(model)
	if err != nil {
		return types.BlockHeader{}, errors.Wrap(err, "failed to parse indexed block model")
	}
	return types.BlockHeader{
		Height:    int64(block.Height),
		Hash:      block.Hash,
		PrevBlock: block.PrevHash,
	}, nil
}

// GetIndexedBlockByHeight implements datagateway.OrdinalsDataGateway.
func (r *Repository) GetIndexedBlockByHeight(ctx context.Context, height int64) (*entity.IndexedBlock, error) {
	rows, err := r.queryer().Query(ctx, `
		SELECT height, hash, prev_hash, event_hash, cumulative_event_hash
		FROM ordinals_indexed_blocks
		WHERE height = $1
	`, height)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	model, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[indexedBlockModel])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during scan")
	}
	block, err := mapIndexedBlockModelToType(model)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse indexed block model")
	}
	return block, nil
}

// GetLatestProcessorStats implements datagateway.OrdinalsDataGateway.
// Rows hold per-block deltas, so the totals are summed over all rows.
func (r *Repository) GetLatestProcessorStats(ctx context.Context) (*entity.ProcessorStats, error) {
	rows, err := r.queryer().Query(ctx, `
		SELECT
			COALESCE(MAX(block_height), -1)::BIGINT AS block_height,
			COALESCE(SUM(cursed_inscription_count), 0)::BIGINT AS cursed_inscription_count,
			COALESCE(SUM(blessed_inscription_count), 0)::BIGINT AS blessed_inscription_count,
			COALESCE(SUM(lost_sats), 0)::BIGINT AS lost_sats
		FROM ordinals_processor_stats
	`)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	model, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[processorStatsModel])
	if err != nil {
		return nil, errors.Wrap(err, "error during scan")
	}
	if model.BlockHeight < 0 {
		return nil, errors.WithStack(errs.NotFound)
	}
	return mapProcessorStatsModelToType(model), nil
}

// GetInscriptionEntriesByIds implements datagateway.OrdinalsDataGateway.
func (r *Repository) GetInscriptionEntriesByIds(ctx context.Context, ids []ord.InscriptionId) (map[ord.InscriptionId]*entity.InscriptionEntry, error) {
	idStrings := lo.Map(ids, func(id ord.InscriptionId, _ int) string { return id.String() })
	rows, err := r.queryer().Query(ctx, `
		SELECT id, content, content_type, content_length, fee, "number", classic_number, jubilee_number, curse_type, ordinal_number, ordinal_block_height, rarity, created_at, created_at_height, tx_index
		FROM ordinals_inscription_entries
		WHERE id = ANY($1)
	`, idStrings)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[inscriptionEntryModel])
	if err != nil {
		return nil, errors.Wrap(err, "error during scan")
	}
	result := make(map[ord.InscriptionId]*entity.InscriptionEntry, len(models))
	for _, model := range models {
		entry, err := mapInscriptionEntryModelToType(model)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse inscription entry model")
		}
		result[entry.Id] = entry
	}
	return result, nil
}

// GetInscriptionEntryById implements datagateway.OrdinalsDataGateway.
func (r *Repository) GetInscriptionEntryById(ctx context.Context, id ord.InscriptionId) (*entity.InscriptionEntry, error) {
	entries, err := r.GetInscriptionEntriesByIds(ctx, []ord.InscriptionId{id})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	entry, ok := entries[id]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	return entry, nil
}

// GetInscriptionEntryByNumber implements datagateway.OrdinalsDataGateway.
func (r *Repository) GetInscriptionEntryByNumber(ctx context.Context, number int64) (*entity.InscriptionEntry, error) {
	rows, err := r.queryer().Query(ctx, `
		SELECT id, content, content_type, content_length, fee, "number", classic_number, jubilee_number, curse_type, ordinal_number, ordinal_block_height, rarity, created_at, created_at_height, tx_index
		FROM ordinals_inscription_entries
		WHERE "number" = $1
	`, number)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	model, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[inscriptionEntryModel])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during scan")
	}
	entry, err := mapInscriptionEntryModelToType(model)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse inscription entry model")
	}
	return entry, nil
}

// GetInscriptionEntries implements datagateway.OrdinalsDataGateway.
func (r *Repository) GetInscriptionEntries(ctx context.Context, params datagateway.GetInscriptionEntriesParams) ([]*entity.InscriptionEntry, error) {
	var (
		conds []string
		args  []interface{}
	)
	arg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}
	if params.MimeType != "" {
		conds = append(conds, fmt.Sprintf("split_part(e.content_type, ';', 1) = %s", arg(params.MimeType)))
	}
	if params.Rarity != "" {
		conds = append(conds, fmt.Sprintf("e.rarity = %s", arg(params.Rarity)))
	}
	if params.FromBlockHeight > 0 {
		conds = append(conds, fmt.Sprintf("e.created_at_height >= %s", arg(params.FromBlockHeight)))
	}
	if params.ToBlockHeight > 0 {
		conds = append(conds, fmt.Sprintf("e.created_at_height <= %s", arg(params.ToBlockHeight)))
	}
	if params.FromOrdinal > 0 {
		conds = append(conds, fmt.Sprintf("e.ordinal_number >= %s", arg(params.FromOrdinal)))
	}
	if params.ToOrdinal > 0 {
		conds = append(conds, fmt.Sprintf("e.ordinal_number <= %s", arg(params.ToOrdinal)))
	}
	if params.FromNumber != 0 {
		conds = append(conds, fmt.Sprintf(`e."number" >= %s`, arg(params.FromNumber)))
	}
	if params.ToNumber != 0 {
		conds = append(conds, fmt.Sprintf(`e."number" <= %s`, arg(params.ToNumber)))
	}

	// owner and output filters resolve against the current location of
	// each inscription
	join := ""
	if params.PkScriptHex != "" || params.OutputHex != "" {
		join = `JOIN LATERAL (
			SELECT pkscript, satpoint_tx_hash, satpoint_out_idx
			FROM ordinals_locations
			WHERE inscription_id = e.id
			ORDER BY block_height DESC, tx_index DESC
			LIMIT 1
		) loc ON true`
		if params.PkScriptHex != "" {
			conds = append(conds, fmt.Sprintf("loc.pkscript = %s", arg(params.PkScriptHex)))
		}
		if params.OutputHex != "" {
			txHash, outIdx, found := strings.Cut(params.OutputHex, ":")
			if !found {
				return nil, errors.Wrapf(errs.InvalidArgument, "invalid output %q", params.OutputHex)
			}
			conds = append(conds, fmt.Sprintf("loc.satpoint_tx_hash = %s", arg(txHash)))
			conds = append(conds, fmt.Sprintf("loc.satpoint_out_idx = %s::int", arg(outIdx)))
		}
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}
	query := fmt.Sprintf(`
		SELECT e.id, e.content, e.content_type, e.content_length, e.fee, e."number", e.classic_number, e.jubilee_number, e.curse_type, e.ordinal_number, e.ordinal_block_height, e.rarity, e.created_at, e.created_at_height, e.tx_index
		FROM ordinals_inscription_entries e
		%s
		%s
		ORDER BY e."number" DESC
		LIMIT %s OFFSET %s
	`, join, where, arg(params.Limit), arg(params.Offset))

	rows, err := r.queryer().Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[inscriptionEntryModel])
	if err != nil {
		return nil, errors.Wrap(err, "error during scan")
	}
	result := make([]*entity.InscriptionEntry, 0, len(models))
	for _, model := range models {
		entry, err := mapInscriptionEntryModelToType(model)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse inscription entry model")
		}
		result = append(result, entry)
	}
	return result, nil
}

// GetTransferCountsByIds implements datagateway.OrdinalsDataGateway.
func (r *Repository) GetTransferCountsByIds(ctx context.Context, ids []ord.InscriptionId) (map[ord.InscriptionId]uint32, error) {
	idStrings := lo.Map(ids, func(id ord.InscriptionId, _ int) string { return id.String() })
	rows, err := r.queryer().Query(ctx, `
		SELECT DISTINCT ON (id) id, block_height, transfer_count
		FROM ordinals_inscription_entry_states
		WHERE id = ANY($1)
		ORDER BY id, block_height DESC
	`, idStrings)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[inscriptionEntryStateModel])
	if err != nil {
		return nil, errors.Wrap(err, "error during scan")
	}
	result := make(map[ord.InscriptionId]uint32, len(models))
	for _, model := range models {
		id, err := ord.NewInscriptionIdFromString(model.Id)
		if err != nil {
			return nil, errors.Wrap(err, "invalid inscription id")
		}
		result[id] = uint32(model.TransferCount)
	}
	return result, nil
}

// GetCurrentLocationsByOrdinalNumbers implements datagateway.OrdinalsDataGateway.
func (r *Repository) GetCurrentLocationsByOrdinalNumbers(ctx context.Context, ordinalNumbers []uint64) (map[uint64][]*entity.Location, error) {
	numbers := lo.Map(ordinalNumbers, func(n uint64, _ int) int64 { return int64(n) })
	rows, err := r.queryer().Query(ctx, fmt.Sprintf(`
		SELECT DISTINCT ON (inscription_id) %s
		FROM ordinals_locations
		WHERE ordinal_number = ANY($1)
		ORDER BY inscription_id, block_height DESC, tx_index DESC
	`, selectLocationColumns), numbers)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[locationModel])
	if err != nil {
		return nil, errors.Wrap(err, "error during scan")
	}
	result := make(map[uint64][]*entity.Location)
	for _, model := range models {
		location, err := mapLocationModelToType(model)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse location model")
		}
		result[location.OrdinalNumber] = append(result[location.OrdinalNumber], location)
	}
	return result, nil
}

// GetCurrentLocationByInscriptionId implements datagateway.OrdinalsDataGateway.
func (r *Repository) GetCurrentLocationByInscriptionId(ctx context.Context, id ord.InscriptionId) (*entity.Location, error) {
	return r.getLocationByInscriptionId(ctx, id, "DESC")
}

// GetGenesisLocationByInscriptionId implements datagateway.OrdinalsDataGateway.
func (r *Repository) GetGenesisLocationByInscriptionId(ctx context.Context, id ord.InscriptionId) (*entity.Location, error) {
	return r.getLocationByInscriptionId(ctx, id, "ASC")
}

func (r *Repository) getLocationByInscriptionId(ctx context.Context, id ord.InscriptionId, direction string) (*entity.Location, error) {
	rows, err := r.queryer().Query(ctx, fmt.Sprintf(`
		SELECT %s
		FROM ordinals_locations
		WHERE inscription_id = $1
		ORDER BY block_height %s, tx_index %s
		LIMIT 1
	`, selectLocationColumns, direction, direction), id.String())
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	model, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[locationModel])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during scan")
	}
	location, err := mapLocationModelToType(model)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse location model")
	}
	return location, nil
}

// GetLocationsByInscriptionId implements datagateway.OrdinalsDataGateway.
func (r *Repository) GetLocationsByInscriptionId(ctx context.Context, id ord.InscriptionId, limit, offset int32) ([]*entity.Location, error) {
	rows, err := r.queryer().Query(ctx, fmt.Sprintf(`
		SELECT %s
		FROM ordinals_locations
		WHERE inscription_id = $1
		ORDER BY block_height DESC, tx_index DESC
		LIMIT $2 OFFSET $3
	`, selectLocationColumns), id.String(), limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	return collectLocations(rows)
}

// GetLocationsByBlockHeight implements datagateway.OrdinalsDataGateway.
func (r *Repository) GetLocationsByBlockHeight(ctx context.Context, blockHeight uint64, limit, offset int32) ([]*entity.Location, error) {
	rows, err := r.queryer().Query(ctx, fmt.Sprintf(`
		SELECT %s
		FROM ordinals_locations
		WHERE block_height = $1
		ORDER BY tx_index ASC
		LIMIT $2 OFFSET $3
	`, selectLocationColumns), int64(blockHeight), limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	return collectLocations(rows)
}

func collectLocations(rows pgx.Rows) ([]*entity.Location, error) {
	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[locationModel])
	if err != nil {
		return nil, errors.Wrap(err, "error during scan")
	}
	result := make([]*entity.Location, 0, len(models))
	for _, model := range models {
		location, err := mapLocationModelToType(model)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse location model")
		}
		result = append(result, location)
	}
	return result, nil
}

// GetTickEntriesByTicks implements datagateway.OrdinalsDataGateway.
func (r *Repository) GetTickEntriesByTicks(ctx context.Context, ticks []string) (map[string]*entity.TickEntry, error) {
	rows, err := r.queryer().Query(ctx, fmt.Sprintf(`
		SELECT %s
		FROM ordinals_tick_entries e
		%s
		WHERE e.tick = ANY($1)
	`, selectTickEntryColumns, latestTickEntryStateJoin), ticks)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[tickEntryModel])
	if err != nil {
		return nil, errors.Wrap(err, "error during scan")
	}
	result := make(map[string]*entity.TickEntry, len(models))
	for _, model := range models {
		entry, err := mapTickEntryModelToType(model)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse tick entry model")
		}
		result[entry.Tick] = entry
	}
	return result, nil
}

// GetTickEntries implements datagateway.OrdinalsDataGateway.
func (r *Repository) GetTickEntries(ctx context.Context, params datagateway.GetTickEntriesParams) ([]*entity.TickEntry, error) {
	orderBy := "e.deployed_at_height ASC, e.tick ASC"
	join := ""
	if params.OrderByActivity {
		join = `LEFT JOIN (
			SELECT tick, count(*) AS event_count
			FROM ordinals_events
			GROUP BY tick
		) a ON a.tick = e.tick`
		orderBy = "COALESCE(a.event_count, 0) DESC, e.tick ASC"
	}
	rows, err := r.queryer().Query(ctx, fmt.Sprintf(`
		SELECT %s
		FROM ordinals_tick_entries e
		%s
		%s
		ORDER BY %s
		LIMIT $1 OFFSET $2
	`, selectTickEntryColumns, latestTickEntryStateJoin, join, orderBy), params.Limit, params.Offset)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[tickEntryModel])
	if err != nil {
		return nil, errors.Wrap(err, "error during scan")
	}
	result := make([]*entity.TickEntry, 0, len(models))
	for _, model := range models {
		entry, err := mapTickEntryModelToType(model)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse tick entry model")
		}
		result = append(result, entry)
	}
	return result, nil
}

// GetBalancesBatch implements datagateway.OrdinalsDataGateway.
func (r *Repository) GetBalancesBatch(ctx context.Context, keys []datagateway.BalanceKey) (map[string]map[string]*entity.Balance, error) {
	pkScripts := lo.Map(keys, func(key datagateway.BalanceKey, _ int) string { return key.PkScriptHex })
	ticks := lo.Map(keys, func(key datagateway.BalanceKey, _ int) string { return key.Tick })
	rows, err := r.queryer().Query(ctx, `
		SELECT DISTINCT ON (pkscript, tick) pkscript, tick, block_height, available_balance, transferable_balance
		FROM ordinals_balances
		WHERE (pkscript, tick) IN (SELECT unnest($1::text[]), unnest($2::text[]))
		ORDER BY pkscript, tick, block_height DESC
	`, pkScripts, ticks)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[balanceModel])
	if err != nil {
		return nil, errors.Wrap(err, "error during scan")
	}
	result := make(map[string]map[string]*entity.Balance)
	for _, model := range models {
		balance, err := mapBalanceModelToType(model)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse balance model")
		}
		if _, ok := result[model.Pkscript]; !ok {
			result[model.Pkscript] = make(map[string]*entity.Balance)
		}
		result[model.Pkscript][model.Tick] = balance
	}
	return result, nil
}

// GetBalancesByPkScript implements datagateway.OrdinalsDataGateway.
func (r *Repository) GetBalancesByPkScript(ctx context.Context, pkScript []byte, blockHeight uint64) (map[string]*entity.Balance, error) {
	rows, err := r.queryer().Query(ctx, `
		SELECT DISTINCT ON (tick) pkscript, tick, block_height, available_balance, transferable_balance
		FROM ordinals_balances
		WHERE pkscript = $1 AND block_height <= $2
		ORDER BY tick, block_height DESC
	`, hex.EncodeToString(pkScript), int64(blockHeight))
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[balanceModel])
	if err != nil {
		return nil, errors.Wrap(err, "error during scan")
	}
	result := make(map[string]*entity.Balance, len(models))
	for _, model := range models {
		balance, err := mapBalanceModelToType(model)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse balance model")
		}
		result[balance.Tick] = balance
	}
	return result, nil
}

// GetBalancesByTick implements datagateway.OrdinalsDataGateway.
func (r *Repository) GetBalancesByTick(ctx context.Context, tick string, blockHeight uint64, limit, offset int32) ([]*entity.Balance, error) {
	rows, err := r.queryer().Query(ctx, `
		SELECT pkscript, tick, block_height, available_balance, transferable_balance
		FROM (
			SELECT DISTINCT ON (pkscript) pkscript, tick, block_height, available_balance, transferable_balance
			FROM ordinals_balances
			WHERE tick = $1 AND block_height <= $2
			ORDER BY pkscript, block_height DESC
		) b
		WHERE b.available_balance + b.transferable_balance > 0
		ORDER BY b.available_balance + b.transferable_balance DESC, b.pkscript ASC
		LIMIT $3 OFFSET $4
	`, tick, int64(blockHeight), limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[balanceModel])
	if err != nil {
		return nil, errors.Wrap(err, "error during scan")
	}
	result := make([]*entity.Balance, 0, len(models))
	for _, model := range models {
		balance, err := mapBalanceModelToType(model)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse balance model")
		}
		result = append(result, balance)
	}
	return result, nil
}

// GetUnspentVehiclesByIds implements datagateway.OrdinalsDataGateway.
func (r *Repository) GetUnspentVehiclesByIds(ctx context.Context, ids []ord.InscriptionId) (map[ord.InscriptionId]*entity.Event, error) {
	idStrings := lo.Map(ids, func(id ord.InscriptionId, _ int) string { return id.String() })
	rows, err := r.queryer().Query(ctx, fmt.Sprintf(`
		SELECT %s
		FROM ordinals_events
		WHERE "type" = $1 AND spent_height IS NULL AND inscription_id = ANY($2)
	`, selectEventColumns), entity.EventTypeInscribeTransfer.String(), idStrings)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[eventModel])
	if err != nil {
		return nil, errors.Wrap(err, "error during scan")
	}
	result := make(map[ord.InscriptionId]*entity.Event, len(models))
	for _, model := range models {
		event, err := mapEventModelToType(model)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse event model")
		}
		result[event.InscriptionId] = event
	}
	return result, nil
}

// GetEvents implements datagateway.OrdinalsDataGateway.
func (r *Repository) GetEvents(ctx context.Context, params datagateway.GetEventsParams) ([]*entity.Event, error) {
	var (
		conds []string
		args  []interface{}
	)
	arg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}
	if params.Tick != "" {
		conds = append(conds, fmt.Sprintf("tick = %s", arg(params.Tick)))
	}
	if params.PkScriptHex != "" {
		placeholder := arg(params.PkScriptHex)
		conds = append(conds, fmt.Sprintf("(pkscript = %s OR counterparty_pkscript = %s)", placeholder, placeholder))
	}
	if params.Type != "" {
		conds = append(conds, fmt.Sprintf(`"type" = %s`, arg(params.Type)))
	}
	if params.BlockHeight > 0 {
		conds = append(conds, fmt.Sprintf("block_height <= %s", arg(int64(params.BlockHeight))))
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM ordinals_events
		%s
		ORDER BY block_height DESC, tx_index DESC, id DESC
		LIMIT %s OFFSET %s
	`, selectEventColumns, where, arg(params.Limit), arg(params.Offset))

	rows, err := r.queryer().Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[eventModel])
	if err != nil {
		return nil, errors.Wrap(err, "error during scan")
	}
	result := make([]*entity.Event, 0, len(models))
	for _, model := range models {
		event, err := mapEventModelToType(model)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse event model")
		}
		result = append(result, event)
	}
	return result, nil
}

// GetEventCountsByTicks implements datagateway.OrdinalsDataGateway.
func (r *Repository) GetEventCountsByTicks(ctx context.Context, ticks []string) (map[string]uint64, error) {
	rows, err := r.queryer().Query(ctx, `
		SELECT tick, count(*) AS event_count
		FROM ordinals_events
		WHERE tick = ANY($1)
		GROUP BY tick
	`, ticks)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	defer rows.Close()
	result := make(map[string]uint64, len(ticks))
	for rows.Next() {
		var (
			tick  string
			count int64
		)
		if err := rows.Scan(&tick, &count); err != nil {
			return nil, errors.Wrap(err, "error during scan")
		}
		result[tick] = uint64(count)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error during iteration")
	}
	return result, nil
}

// CreateIndexedBlock implements datagateway.OrdinalsDataGateway.
func (r *Repository) CreateIndexedBlock(ctx context.Context, block *entity.IndexedBlock) error {
	_, err := r.queryer().Exec(ctx, `
		INSERT INTO ordinals_indexed_blocks (height, hash, prev_hash, event_hash, cumulative_event_hash)
		VALUES ($1, $2, $3, $4, $5)
	`, int64(block.Height), block.Hash.String(), block.PrevHash.String(), block.EventHash, block.CumulativeEventHash)
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

// CreateProcessorStats implements datagateway.OrdinalsDataGateway.
func (r *Repository) CreateProcessorStats(ctx context.Context, stats *entity.ProcessorStats) error {
	// reprocessing a block replaces its delta row
	_, err := r.queryer().Exec(ctx, `
		INSERT INTO ordinals_processor_stats (block_height, cursed_inscription_count, blessed_inscription_count, lost_sats)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (block_height) DO UPDATE SET
			cursed_inscription_count = EXCLUDED.cursed_inscription_count,
			blessed_inscription_count = EXCLUDED.blessed_inscription_count,
			lost_sats = EXCLUDED.lost_sats
	`, int64(stats.BlockHeight), int64(stats.CursedInscriptionCount), int64(stats.BlessedInscriptionCount), int64(stats.LostSats))
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

// CreateInscriptionEntries implements datagateway.OrdinalsDataGateway.
func (r *Repository) CreateInscriptionEntries(ctx context.Context, entries []*entity.InscriptionEntry) error {
	if len(entries) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, entry := range entries {
		model := mapInscriptionEntryTypeToModel(entry)
		batch.Queue(`
			INSERT INTO ordinals_inscription_entries (id, content, content_type, content_length, fee, "number", classic_number, jubilee_number, curse_type, ordinal_number, ordinal_block_height, rarity, created_at, created_at_height, tx_index)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		`, model.Id, model.Content, model.ContentType, model.ContentLength, model.Fee, model.Number, model.ClassicNumber, model.JubileeNumber, model.CurseType, model.OrdinalNumber, model.OrdinalBlockHeight, model.Rarity, model.CreatedAt, model.CreatedAtHeight, model.TxIndex)
	}
	return errors.WithStack(execBatch(ctx, r.queryer(), batch))
}

// CreateInscriptionEntryStates implements datagateway.OrdinalsDataGateway.
func (r *Repository) CreateInscriptionEntryStates(ctx context.Context, blockHeight uint64, states []*entity.InscriptionEntryState) error {
	if len(states) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, state := range states {
		batch.Queue(`
			INSERT INTO ordinals_inscription_entry_states (id, block_height, transfer_count)
			VALUES ($1, $2, $3)
		`, state.Id.String(), int64(blockHeight), int64(state.TransferCount))
	}
	return errors.WithStack(execBatch(ctx, r.queryer(), batch))
}

// CreateLocations implements datagateway.OrdinalsDataGateway.
func (r *Repository) CreateLocations(ctx context.Context, locations []*entity.Location) error {
	if len(locations) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, location := range locations {
		model := mapLocationTypeToModel(location)
		batch.Queue(`
			INSERT INTO ordinals_locations (inscription_id, ordinal_number, block_height, block_hash, "timestamp", tx_index, satpoint_tx_hash, satpoint_out_idx, satpoint_offset, pkscript, output_value, classification)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, model.InscriptionId, model.OrdinalNumber, model.BlockHeight, model.BlockHash, model.Timestamp, model.TxIndex, model.SatpointTxHash, model.SatpointOutIdx, model.SatpointOffset, model.Pkscript, model.OutputValue, model.Classification)
	}
	return errors.WithStack(execBatch(ctx, r.queryer(), batch))
}

// CreateTickEntries implements datagateway.OrdinalsDataGateway.
func (r *Repository) CreateTickEntries(ctx context.Context, blockHeight uint64, entries []*entity.TickEntry) error {
	if len(entries) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, entry := range entries {
		batch.Queue(`
			INSERT INTO ordinals_tick_entries (tick, original_tick, total_supply, decimals, limit_per_mint, is_self_mint, deploy_inscription_id, deployer_pkscript, deployed_at, deployed_at_height)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, entry.Tick, entry.OriginalTick, numericFromDecimal(entry.TotalSupply), int16(entry.Decimals), numericFromDecimal(entry.LimitPerMint), entry.IsSelfMint, entry.DeployInscriptionId.String(), hex.EncodeToString(entry.DeployerPkScript), timestamptz(entry.DeployedAt), int64(entry.DeployedAtHeight))
	}
	return errors.WithStack(execBatch(ctx, r.queryer(), batch))
}

// CreateTickEntryStates implements datagateway.OrdinalsDataGateway.
func (r *Repository) CreateTickEntryStates(ctx context.Context, blockHeight uint64, states []*entity.TickEntry) error {
	if len(states) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, state := range states {
		var completedAtHeight interface{}
		if state.CompletedAtHeight != 0 {
			completedAtHeight = int64(state.CompletedAtHeight)
		}
		batch.Queue(`
			INSERT INTO ordinals_tick_entry_states (tick, block_height, minted_amount, burned_amount, completed_at, completed_at_height)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, state.Tick, int64(blockHeight), numericFromDecimal(state.MintedAmount), numericFromDecimal(state.BurnedAmount), timestamptz(state.CompletedAt), completedAtHeight)
	}
	return errors.WithStack(execBatch(ctx, r.queryer(), batch))
}

// CreateEvents implements datagateway.OrdinalsDataGateway.
func (r *Repository) CreateEvents(ctx context.Context, events []*entity.Event) error {
	if len(events) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, event := range events {
		model := mapEventTypeToModel(event)
		batch.Queue(`
			INSERT INTO ordinals_events ("type", inscription_id, inscription_number, tick, original_tick, tx_hash, block_height, tx_index, "timestamp", pkscript, counterparty_pkscript, amount, satpoint_tx_hash, satpoint_out_idx, satpoint_offset, spent_height)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		`, model.Type, model.InscriptionId, model.InscriptionNumber, model.Tick, model.OriginalTick, model.TxHash, model.BlockHeight, model.TxIndex, model.Timestamp, model.Pkscript, model.CounterpartyPkscript, model.Amount, model.SatpointTxHash, model.SatpointOutIdx, model.SatpointOffset, model.SpentHeight)
	}
	return errors.WithStack(execBatch(ctx, r.queryer(), batch))
}

// CreateBalances implements datagateway.OrdinalsDataGateway.
func (r *Repository) CreateBalances(ctx context.Context, balances []*entity.Balance) error {
	if len(balances) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, balance := range balances {
		batch.Queue(`
			INSERT INTO ordinals_balances (pkscript, tick, block_height, available_balance, transferable_balance)
			VALUES ($1, $2, $3, $4, $5)
		`, hex.EncodeToString(balance.PkScript), balance.Tick, int64(balance.BlockHeight), numericFromDecimal(balance.AvailableBalance), numericFromDecimal(balance.TransferableBalance))
	}
	return errors.WithStack(execBatch(ctx, r.queryer(), batch))
}

// MarkVehiclesSpent implements datagateway.OrdinalsDataGateway.
func (r *Repository) MarkVehiclesSpent(ctx context.Context, ids []ord.InscriptionId, spentHeight uint64) error {
	if len(ids) == 0 {
		return nil
	}
	idStrings := lo.Map(ids, func(id ord.InscriptionId, _ int) string { return id.String() })
	_, err := r.queryer().Exec(ctx, `
		UPDATE ordinals_events
		SET spent_height = $1
		WHERE "type" = $2 AND spent_height IS NULL AND inscription_id = ANY($3)
	`, int64(spentHeight), entity.EventTypeInscribeTransfer.String(), idStrings)
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

// UnspendVehiclesSinceHeight implements datagateway.OrdinalsDataGateway.
func (r *Repository) UnspendVehiclesSinceHeight(ctx context.Context, height uint64) error {
	_, err := r.queryer().Exec(ctx, `
		UPDATE ordinals_events
		SET spent_height = NULL
		WHERE spent_height >= $1
	`, int64(height))
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) DeleteIndexedBlocksSinceHeight(ctx context.Context, height uint64) error {
	return r.deleteSinceHeight(ctx, "ordinals_indexed_blocks", "height", height)
}

func (r *Repository) DeleteProcessorStatsSinceHeight(ctx context.Context, height uint64) error {
	return r.deleteSinceHeight(ctx, "ordinals_processor_stats", "block_height", height)
}

func (r *Repository) DeleteInscriptionEntriesSinceHeight(ctx context.Context, height uint64) error {
	return r.deleteSinceHeight(ctx, "ordinals_inscription_entries", "created_at_height", height)
}

func (r *Repository) DeleteInscriptionEntryStatesSinceHeight(ctx context.Context, height uint64) error {
	return r.deleteSinceHeight(ctx, "ordinals_inscription_entry_states", "block_height", height)
}

func (r *Repository) DeleteLocationsSinceHeight(ctx context.Context, height uint64) error {
	return r.deleteSinceHeight(ctx, "ordinals_locations", "block_height", height)
}

func (r *Repository) DeleteTickEntriesSinceHeight(ctx context.Context, height uint64) error {
	return r.deleteSinceHeight(ctx, "ordinals_tick_entries", "deployed_at_height", height)
}

func (r *Repository) DeleteTickEntryStatesSinceHeight(ctx context.Context, height uint64) error {
	return r.deleteSinceHeight(ctx, "ordinals_tick_entry_states", "block_height", height)
}

func (r *Repository) DeleteEventsSinceHeight(ctx context.Context, height uint64) error {
	return r.deleteSinceHeight(ctx, "ordinals_events", "block_height", height)
}

func (r *Repository) DeleteBalancesSinceHeight(ctx context.Context, height uint64) error {
	return r.deleteSinceHeight(ctx, "ordinals_balances", "block_height", height)
}

func (r *Repository) deleteSinceHeight(ctx context.Context, table, column string, height uint64) error {
	_, err := r.queryer().Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s >= $1`, table, column), int64(height))
	if err != nil {
		return errors.Wrapf(err, "failed to delete from %s", table)
	}
	return nil
}

func execBatch(ctx context.Context, q queryable, batch *pgx.Batch) error {
	results := q.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return errors.Wrap(err, "error during batch exec")
		}
	}
	return nil
}

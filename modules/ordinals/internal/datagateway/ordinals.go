package datagateway

import (
	"context"

	"github.com/gaze-network/ordinals-indexer/core/types"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/entity"
	"github.com/gaze-network/ordinals-indexer/pkg/ord"
)

type OrdinalsDataGateway interface {
	OrdinalsReaderDataGateway
	OrdinalsWriterDataGateway

	// BeginOrdinalsTx returns a new OrdinalsDataGateway with transaction enabled. All write operations performed in this datagateway must be committed to persist changes.
	BeginOrdinalsTx(ctx context.Context) (OrdinalsDataGatewayWithTx, error)
}

type OrdinalsDataGatewayWithTx interface {
	OrdinalsDataGateway
	Tx
}

type OrdinalsReaderDataGateway interface {
	GetLatestBlock(ctx context.Context) (types.BlockHeader, error)
	GetIndexedBlockByHeight(ctx context.Context, height int64) (*entity.IndexedBlock, error)
	// GetLatestProcessorStats returns the accumulated totals over all
	// per-block delta rows, at the highest persisted height.
	GetLatestProcessorStats(ctx context.Context) (*entity.ProcessorStats, error)

	// GetInscriptionEntriesByIds returns entries merged with their latest
	// state. Missing ids are omitted from the result.
	GetInscriptionEntriesByIds(ctx context.Context, ids []ord.InscriptionId) (map[ord.InscriptionId]*entity.InscriptionEntry, error)
	GetInscriptionEntryById(ctx context.Context, id ord.InscriptionId) (*entity.InscriptionEntry, error)
	GetInscriptionEntryByNumber(ctx context.Context, number int64) (*entity.InscriptionEntry, error)
	GetInscriptionEntries(ctx context.Context, params GetInscriptionEntriesParams) ([]*entity.InscriptionEntry, error)
	GetTransferCountsByIds(ctx context.Context, ids []ord.InscriptionId) (map[ord.InscriptionId]uint32, error)

	// GetCurrentLocationsByOrdinalNumbers resolves, per sat, the
	// max-ordered location row of every inscription currently on it.
	GetCurrentLocationsByOrdinalNumbers(ctx context.Context, ordinalNumbers []uint64) (map[uint64][]*entity.Location, error)
	GetCurrentLocationByInscriptionId(ctx context.Context, id ord.InscriptionId) (*entity.Location, error)
	GetGenesisLocationByInscriptionId(ctx context.Context, id ord.InscriptionId) (*entity.Location, error)
	GetLocationsByInscriptionId(ctx context.Context, id ord.InscriptionId, limit, offset int32) ([]*entity.Location, error)
	GetLocationsByBlockHeight(ctx context.Context, blockHeight uint64, limit, offset int32) ([]*entity.Location, error)

	// GetTickEntriesByTicks returns tick entries merged with their latest
	// state. Missing ticks are omitted from the result.
	GetTickEntriesByTicks(ctx context.Context, ticks []string) (map[string]*entity.TickEntry, error)
	GetTickEntries(ctx context.Context, params GetTickEntriesParams) ([]*entity.TickEntry, error)

	// GetBalancesBatch returns the latest balance snapshot per requested
	// (pkScript, tick) key, keyed by pkScript hex then tick.
	GetBalancesBatch(ctx context.Context, keys []BalanceKey) (map[string]map[string]*entity.Balance, error)
	// GetBalancesByPkScript and GetBalancesByTick return the latest
	// balance snapshots at or below blockHeight. The cutoff is required:
	// callers must resolve the indexed tip first, zero matches nothing.
	GetBalancesByPkScript(ctx context.Context, pkScript []byte, blockHeight uint64) (map[string]*entity.Balance, error)
	GetBalancesByTick(ctx context.Context, tick string, blockHeight uint64, limit, offset int32) ([]*entity.Balance, error)

	// GetUnspentVehiclesByIds returns pending inscribe_transfer events
	// (vehicles not yet consumed) for the given inscription ids.
	GetUnspentVehiclesByIds(ctx context.Context, ids []ord.InscriptionId) (map[ord.InscriptionId]*entity.Event, error)
	GetEvents(ctx context.Context, params GetEventsParams) ([]*entity.Event, error)
	GetEventCountsByTicks(ctx context.Context, ticks []string) (map[string]uint64, error)
}

type OrdinalsWriterDataGateway interface {
	CreateIndexedBlock(ctx context.Context, block *entity.IndexedBlock) error
	CreateProcessorStats(ctx context.Context, stats *entity.ProcessorStats) error
	CreateInscriptionEntries(ctx context.Context, entries []*entity.InscriptionEntry) error
	CreateInscriptionEntryStates(ctx context.Context, blockHeight uint64, states []*entity.InscriptionEntryState) error
	CreateLocations(ctx context.Context, locations []*entity.Location) error
	CreateTickEntries(ctx context.Context, blockHeight uint64, entries []*entity.TickEntry) error
	CreateTickEntryStates(ctx context.Context, blockHeight uint64, states []*entity.TickEntry) error
	CreateEvents(ctx context.Context, events []*entity.Event) error
	CreateBalances(ctx context.Context, balances []*entity.Balance) error

	// MarkVehiclesSpent stamps pending inscribe_transfer events with the
	// height their vehicle was consumed at.
	MarkVehiclesSpent(ctx context.Context, ids []ord.InscriptionId, spentHeight uint64) error

	// rollback: state rows are versioned by height, deleting every row at
	// or above a height restores the exact prior state
	DeleteIndexedBlocksSinceHeight(ctx context.Context, height uint64) error
	DeleteProcessorStatsSinceHeight(ctx context.Context, height uint64) error
	DeleteInscriptionEntriesSinceHeight(ctx context.Context, height uint64) error
	DeleteInscriptionEntryStatesSinceHeight(ctx context.Context, height uint64) error
	DeleteLocationsSinceHeight(ctx context.Context, height uint64) error
	DeleteTickEntriesSinceHeight(ctx context.Context, height uint64) error
	DeleteTickEntryStatesSinceHeight(ctx context.Context, height uint64) error
	DeleteEventsSinceHeight(ctx context.Context, height uint64) error
	DeleteBalancesSinceHeight(ctx context.Context, height uint64) error

	// UnspendVehiclesSinceHeight restores vehicles consumed at or above
	// the height back to pending.
	UnspendVehiclesSinceHeight(ctx context.Context, height uint64) error
}

type BalanceKey struct {
	PkScriptHex string
	Tick        string
}

type GetInscriptionEntriesParams struct {
	MimeType        string
	Rarity          string
	PkScriptHex     string
	FromBlockHeight int64
	ToBlockHeight   int64
	FromOrdinal     int64
	ToOrdinal       int64
	FromNumber      int64
	ToNumber        int64
	OutputHex       string
	Limit           int32
	Offset          int32
}

type GetTickEntriesParams struct {
	// OrderByActivity orders ticks by activity event count instead of
	// deploy height.
	OrderByActivity bool
	Limit           int32
	Offset          int32
}

type GetEventsParams struct {
	Tick string
	// PkScriptHex matches either the acting or the counterparty address.
	PkScriptHex string
	Type        string
	// BlockHeight is a historical cutoff: only events at or before this
	// height are visible. Zero means no cutoff.
	BlockHeight uint64
	Limit       int32
	Offset      int32
}

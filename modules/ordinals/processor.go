package ordinals

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ordinals-indexer/common"
	"github.com/gaze-network/ordinals-indexer/common/errs"
	"github.com/gaze-network/ordinals-indexer/core/indexer"
	"github.com/gaze-network/ordinals-indexer/core/types"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/datagateway"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/entity"
	"github.com/gaze-network/ordinals-indexer/pkg/ord"
)

// Make sure to implement the Processor interface
var _ indexer.Processor[*types.Block] = (*Processor)(nil)

type Processor struct {
	ordinalsDg    datagateway.OrdinalsDataGateway
	indexerInfoDg datagateway.IndexerInfoDataGateway
	network       common.Network
	cleanupFuncs  []func(context.Context) error

	// processor stats
	cursedInscriptionCount  uint64
	blessedInscriptionCount uint64
	lostSats                uint64

	// flush buffers - inscription states
	newInscriptionEntries     map[ord.InscriptionId]*entity.InscriptionEntry
	newInscriptionEntryStates map[ord.InscriptionId]*entity.InscriptionEntryState
	newLocations              []*entity.Location

	// flush buffers - brc20 states
	newTickEntries     map[string]*entity.TickEntry
	newTickEntryStates map[string]*entity.TickEntry
	newEvents          []*entity.Event
	newBalances        map[string]map[string]*entity.Balance
	newSpentVehicleIds []ord.InscriptionId

	// pendingVehicles holds inscribe_transfer events created in the
	// current block, so a same-block spend can resolve them before flush.
	pendingVehicles map[ord.InscriptionId]*entity.Event

	// newStats is the current block's counter deltas, flushed as one row.
	newStats *entity.ProcessorStats

	eventHashString string
}

func NewProcessor(ordinalsDg datagateway.OrdinalsDataGateway, indexerInfoDg datagateway.IndexerInfoDataGateway, network common.Network, cleanupFuncs []func(context.Context) error) *Processor {
	return &Processor{
		ordinalsDg:    ordinalsDg,
		indexerInfoDg: indexerInfoDg,
		network:       network,
		cleanupFuncs:  cleanupFuncs,

		cursedInscriptionCount:  0, // to be initialized by p.VerifyStates()
		blessedInscriptionCount: 0, // to be initialized by p.VerifyStates()
		lostSats:                0, // to be initialized by p.VerifyStates()

		newInscriptionEntries:     make(map[ord.InscriptionId]*entity.InscriptionEntry),
		newInscriptionEntryStates: make(map[ord.InscriptionId]*entity.InscriptionEntryState),
		newLocations:              make([]*entity.Location, 0),

		newTickEntries:     make(map[string]*entity.TickEntry),
		newTickEntryStates: make(map[string]*entity.TickEntry),
		newEvents:          make([]*entity.Event, 0),
		newBalances:        make(map[string]map[string]*entity.Balance),
		newSpentVehicleIds: make([]ord.InscriptionId, 0),
		pendingVehicles:    make(map[ord.InscriptionId]*entity.Event),
	}
}

// VerifyStates implements indexer.Processor.
func (p *Processor) VerifyStates(ctx context.Context) error {
	indexerState, err := p.indexerInfoDg.GetLatestIndexerState(ctx)
	if err != nil && !errors.Is(err, errs.NotFound) {
		return errors.Wrap(err, "failed to get latest indexer state")
	}
	// if not found, create indexer state
	if errors.Is(err, errs.NotFound) {
		if err := p.indexerInfoDg.CreateIndexerState(ctx, entity.IndexerState{
			ClientVersion:    ClientVersion,
			DBVersion:        DBVersion,
			EventHashVersion: EventHashVersion,
			Network:          p.network,
		}); err != nil {
			return errors.Wrap(err, "failed to set indexer state")
		}
	} else {
		if indexerState.DBVersion != DBVersion {
			return errors.Wrapf(errs.ConflictSetting, "db version mismatch: current version is %d, required version is %d. Please migrate the database first", indexerState.DBVersion, DBVersion)
		}
		if indexerState.EventHashVersion != EventHashVersion {
			return errors.Wrapf(errs.ConflictSetting, "event hash version mismatch: current version is %d, required version is %d. Please reset the database first", indexerState.EventHashVersion, EventHashVersion)
		}
		if indexerState.Network != p.network {
			return errors.Wrapf(errs.ConflictSetting, "network mismatch: latest indexed network is %q, configured network is %q. If you want to change the network, please reset the database", indexerState.Network, p.network)
		}
	}

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

// CurrentBlock implements indexer.Processor.
func (p *Processor) CurrentBlock(ctx context.Context) (types.BlockHeader, error) {
	blockHeader, err := p.ordinalsDg.GetLatestBlock(ctx)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return startingBlockHeader[p.network], nil
		}
		return types.BlockHeader{}, errors.Wrap(err, "failed to get latest block")
	}
	return blockHeader, nil
}

// GetIndexedBlock implements indexer.Processor.
func (p *Processor) GetIndexedBlock(ctx context.Context, height int64) (types.BlockHeader, error) {
	block, err := p.ordinalsDg.GetIndexedBlockByHeight(ctx, height)
	if err != nil {
		return types.BlockHeader{}, errors.Wrap(err, "failed to get indexed block")
	}
	return types.BlockHeader{
		Height: int64(block.Height),
		Hash:   block.Hash,
	}, nil
}

// Name implements indexer.Processor.
func (p *Processor) Name() string {
	return "ordinals"
}

func (p *Processor) Shutdown(ctx context.Context) error {
	var cleanupErrs []error
	for _, cleanup := range p.cleanupFuncs {
		if err := cleanup(ctx); err != nil {
			cleanupErrs = append(cleanupErrs, err)
		}
	}
	return errors.WithStack(errors.Join(cleanupErrs...))
}

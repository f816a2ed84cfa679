package indexer

import (
	"context"

	"github.com/gaze-network/ordinals-indexer/core/types"
)

// IndexerWorker is a runnable indexing unit, registered per module.
type IndexerWorker interface {
	Run(ctx context.Context) error
}

// Input is one unit of work delivered by a datasource.
type Input interface {
	BlockHeader() types.BlockHeader

	// Replayed reports a backfill delivery. Replayed inputs may arrive
	// out of height order and are exempt from continuity validation.
	Replayed() bool

	// RolledBack marks the input as a retraction of a previously applied
	// input rather than new data.
	RolledBack() bool
}

type Processor[T Input] interface {
	Name() string

	// VerifyStates checks data integrity and compatibility of the indexed
	// state before the indexer starts.
	VerifyStates(ctx context.Context) error

	// Process applies the input data to the indexed state.
	Process(ctx context.Context, inputs []T) error

	// Revert retracts one previously applied input. The input must be the
	// current chain tip.
	Revert(ctx context.Context, input T) error

	// CurrentBlock returns the latest indexed block header.
	CurrentBlock(ctx context.Context) (types.BlockHeader, error)

	// GetIndexedBlock returns the indexed block header by the specified block height.
	GetIndexedBlock(ctx context.Context, height int64) (types.BlockHeader, error)

	// RevertData reverts all indexed data from the specified block height for re-indexing.
	RevertData(ctx context.Context, from int64) error

	Shutdown(ctx context.Context) error
}

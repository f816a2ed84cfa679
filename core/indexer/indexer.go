package indexer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ordinals-indexer/common/errs"
	"github.com/gaze-network/ordinals-indexer/core/datasources"
	"github.com/gaze-network/ordinals-indexer/core/types"
	"github.com/gaze-network/ordinals-indexer/pkg/logger"
	"github.com/gaze-network/ordinals-indexer/pkg/logger/slogx"
)

const maxReorgLookBack = 1000

// Indexer drains input batches from a datasource and feeds them to a
// processor, one batch at a time. Application is strictly serialized:
// no two batches are ever mid-flight against the same processor.
type Indexer[T Input] struct {
	Processor    Processor[T]
	Datasource   datasources.Datasource[T]
	currentBlock types.BlockHeader

	quitOnce sync.Once
	quit     chan struct{}
	done     chan struct{}
}

func New[T Input](processor Processor[T], datasource datasources.Datasource[T]) *Indexer[T] {
	return &Indexer[T]{
		Processor:  processor,
		Datasource: datasource,

		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (i *Indexer[T]) Shutdown() error {
	return i.ShutdownWithContext(context.Background())
}

func (i *Indexer[T]) ShutdownWithTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return i.ShutdownWithContext(ctx)
}

func (i *Indexer[T]) ShutdownWithContext(ctx context.Context) (err error) {
	i.quitOnce.Do(func() {
		close(i.quit)
		select {
		case <-i.done:
		case <-time.After(180 * time.Second):
			err = errors.Wrap(errs.Timeout, "indexer shutdown timeout")
		case <-ctx.Done():
			err = errors.Wrap(ctx.Err(), "indexer shutdown context canceled")
		}
	})
	return
}

func (i *Indexer[T]) Run(ctx context.Context) (err error) {
	defer close(i.done)

	ctx = logger.WithContext(ctx,
		slog.String("package", "indexer"),
		slog.String("processor", i.Processor.Name()),
		slog.String("datasource", i.Datasource.Name()),
	)

	// set to -1 to start from genesis block
	i.currentBlock, err = i.Processor.CurrentBlock(ctx)
	if err != nil {
		if !errors.Is(err, errs.NotFound) {
			return errors.Wrap(err, "can't init state, failed to get indexer current block")
		}
		i.currentBlock.Height = -1
	}

	for {
		select {
		case <-i.quit:
			logger.InfoContext(ctx, "Got quit signal, stopping indexer")
			if err := i.Processor.Shutdown(ctx); err != nil {
				logger.ErrorContext(ctx, "Failed to shutdown processor", slogx.Error(err))
				return errors.Wrap(err, "processor shutdown failed")
			}
			return nil
		case <-ctx.Done():
			return nil
		default:
			if err := i.process(ctx); err != nil {
				logger.ErrorContext(ctx, "Indexer failed while processing", slogx.Error(err))
				return errors.Wrap(err, "process failed")
			}
		}
	}
}

func (i *Indexer[T]) process(ctx context.Context) (err error) {
	from := i.currentBlock.Height + 1

	logger.InfoContext(ctx, "Start draining input batches", slog.Int64("from", from))
	ch := make(chan []T)
	subscription, err := i.Datasource.FetchAsync(ctx, from, -1, ch)
	if err != nil {
		return errors.Wrap(err, "failed to fetch input data")
	}
	defer subscription.Unsubscribe()

	for {
		select {
		case <-i.quit:
			return nil
		case inputs := <-ch:
			if len(inputs) == 0 {
				continue
			}

			startAt := time.Now()
			ctx := logger.WithContext(ctx,
				slogx.Int64("from", inputs[0].BlockHeader().Height),
				slogx.Int64("to", inputs[len(inputs)-1].BlockHeader().Height),
				slogx.Int("total_inputs", len(inputs)),
			)

			// validate reorg from first streaming input
			if first := inputs[0]; !first.Replayed() && !first.RolledBack() && i.currentBlock.Height >= 0 {
				remoteBlockHeader := first.BlockHeader()
				if remoteBlockHeader.Height == i.currentBlock.Height+1 && !remoteBlockHeader.PrevBlock.IsEqual(&i.currentBlock.Hash) {
					if err := i.recoverFromReorg(ctx); err != nil {
						return errors.Wrap(err, "failed to recover from chain reorganization")
					}
					// end current round to fetch again from the fork point
					return nil
				}
			}

			// validate that consecutive streaming inputs are continuous
			for n := 1; n < len(inputs); n++ {
				if inputs[n].Replayed() || inputs[n].RolledBack() || inputs[n-1].Replayed() || inputs[n-1].RolledBack() {
					continue
				}
				header := inputs[n].BlockHeader()
				prevHeader := inputs[n-1].BlockHeader()
				if header.Height != prevHeader.Height+1 {
					return errors.Wrapf(errs.InternalError, "input is not continuous, input[%d] height: %d, input[%d] height: %d", n-1, prevHeader.Height, n, header.Height)
				}
				if !header.PrevBlock.IsEqual(&prevHeader.Hash) {
					logger.WarnContext(ctx, "Chain reorganization occurred in the middle of a batch, need to fetch again")
					return nil
				}
			}

			logger.InfoContext(ctx, "Processing inputs")
			if err := i.processBatch(ctx, inputs); err != nil {
				return errors.WithStack(err)
			}

			logger.InfoContext(ctx, "Processed inputs successfully",
				slogx.String("event", "processed_inputs"),
				slogx.Int64("current_block", i.currentBlock.Height),
				slogx.Duration("duration", time.Since(startAt)),
			)
		case <-subscription.Done():
			// end current round
			if err := ctx.Err(); err != nil {
				return errors.Wrap(err, "context done")
			}
			return nil
		case <-ctx.Done():
			return errors.WithStack(ctx.Err())
		case err := <-subscription.Err():
			if err != nil {
				return errors.Wrap(err, "got error while fetch async")
			}
		}
	}
}

// processBatch splits a batch into apply runs and rollback inputs,
// preserving delivery order.
func (i *Indexer[T]) processBatch(ctx context.Context, inputs []T) error {
	pending := make([]T, 0, len(inputs))
	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		if err := i.Processor.Process(ctx, pending); err != nil {
			return errors.WithStack(err)
		}
		pending = pending[:0]
		return nil
	}

	mixed := false
	for _, input := range inputs {
		if !input.RolledBack() {
			if input.Replayed() {
				mixed = true
			}
			pending = append(pending, input)
			continue
		}

		mixed = true
		if err := flush(); err != nil {
			return err
		}
		logger.InfoContext(ctx, "Rolling back block",
			slogx.String("event", "rollback_block"),
			slogx.Int64("height", input.BlockHeader().Height),
		)
		if err := i.Processor.Revert(ctx, input); err != nil {
			return errors.Wrapf(err, "failed to revert block, height: %d", input.BlockHeader().Height)
		}
	}
	if err := flush(); err != nil {
		return err
	}

	// replay and rollback inputs do not advance the tip linearly,
	// re-read it from the processor
	if mixed {
		currentBlock, err := i.Processor.CurrentBlock(ctx)
		if err != nil {
			if !errors.Is(err, errs.NotFound) {
				return errors.Wrap(err, "failed to get current block after batch")
			}
			currentBlock = types.BlockHeader{Height: -1}
		}
		i.currentBlock = currentBlock
		return nil
	}
	i.currentBlock = inputs[len(inputs)-1].BlockHeader()
	return nil
}

// recoverFromReorg walks back from the current tip until the indexed
// chain and the datasource chain agree, then reverts everything above
// the fork point.
func (i *Indexer[T]) recoverFromReorg(ctx context.Context) error {
	logger.WarnContext(ctx, "Detected chain reorganization. Searching for fork point...",
		slogx.String("event", "reorg_detected"),
		slogx.Stringer("current_hash", i.currentBlock.Hash),
	)

	var (
		start                  = time.Now()
		targetHeight           = i.currentBlock.Height
		beforeReorgBlockHeader = types.BlockHeader{
			Height: -1,
		}
	)
	for n := 0; n < maxReorgLookBack; n++ {
		indexedHeader, err := i.Processor.GetIndexedBlock(ctx, targetHeight)
		if err != nil {
			return errors.Wrapf(err, "failed to get indexed block, height: %d", targetHeight)
		}

		remoteHeader, err := i.Datasource.GetBlockHeader(ctx, targetHeight)
		if err != nil {
			return errors.Wrapf(err, "failed to get remote block header, height: %d", targetHeight)
		}

		if indexedHeader.Hash.IsEqual(&remoteHeader.Hash) {
			beforeReorgBlockHeader = remoteHeader
			break
		}

		// walk back to find fork point
		targetHeight -= 1
	}

	if beforeReorgBlockHeader.Height < 0 {
		return errors.Wrap(errs.SomethingWentWrong, "reorg look back limit reached")
	}

	logger.InfoContext(ctx, "Found reorg fork point, starting to revert data...",
		slogx.String("event", "reorg_forkpoint"),
		slogx.Int64("since", beforeReorgBlockHeader.Height+1),
		slogx.Int64("total_blocks", i.currentBlock.Height-beforeReorgBlockHeader.Height),
		slogx.Duration("search_duration", time.Since(start)),
	)

	start = time.Now()
	if err := i.Processor.RevertData(ctx, beforeReorgBlockHeader.Height+1); err != nil {
		return errors.Wrap(err, "failed to revert data")
	}

	i.currentBlock = beforeReorgBlockHeader
	logger.InfoContext(ctx, "Fixing chain reorganization completed",
		slogx.Int64("current_block", i.currentBlock.Height),
		slogx.Duration("duration", time.Since(start)),
	)
	return nil
}

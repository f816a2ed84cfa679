package datasources

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ordinals-indexer/common/errs"
	"github.com/gaze-network/ordinals-indexer/core/types"
	"github.com/gaze-network/ordinals-indexer/internal/subscription"
)

const (
	// DefaultPushGatewayQueueSize bounds pending block batches. Submissions
	// beyond this are rejected instead of growing the queue.
	DefaultPushGatewayQueueSize = 64

	// maxRetainedHeaders is how many recent streaming block headers are
	// kept for reorg fork-point lookups.
	maxRetainedHeaders = 1000
)

// PushGatewayDatasource adapts the external event gateway's push delivery
// to the pull-shaped Datasource contract. The gateway submits decoded
// block batches; the indexer drains them through FetchAsync. The queue is
// bounded: when full, Submit rejects immediately (backpressure, not
// buffering).
type PushGatewayDatasource struct {
	queue chan []*types.Block

	mu      sync.RWMutex
	headers map[int64]types.BlockHeader
	minKept int64
	maxKept int64
}

func NewPushGateway(queueSize int) *PushGatewayDatasource {
	if queueSize <= 0 {
		queueSize = DefaultPushGatewayQueueSize
	}
	return &PushGatewayDatasource{
		queue:   make(chan []*types.Block, queueSize),
		headers: make(map[int64]types.BlockHeader),
		minKept: -1,
		maxKept: -1,
	}
}

func (d *PushGatewayDatasource) Name() string {
	return "event-gateway"
}

// Submit enqueues one block batch for processing. It returns an error
// wrapping errs.Overloaded when the queue is full.
func (d *PushGatewayDatasource) Submit(ctx context.Context, blocks []*types.Block) error {
	if len(blocks) == 0 {
		return nil
	}
	d.retainHeaders(blocks)
	select {
	case d.queue <- blocks:
		return nil
	case <-ctx.Done():
		return errors.WithStack(ctx.Err())
	default:
		return errors.Wrap(errs.Overloaded, "gateway queue is full")
	}
}

// retainHeaders remembers recent streaming headers so reorg recovery can
// compare the indexed chain against the gateway's view.
func (d *PushGatewayDatasource) retainHeaders(blocks []*types.Block) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, block := range blocks {
		if block.Replay || block.Rollback {
			continue
		}
		d.headers[block.Header.Height] = block.Header
		if d.minKept < 0 || block.Header.Height < d.minKept {
			d.minKept = block.Header.Height
		}
		if block.Header.Height > d.maxKept {
			d.maxKept = block.Header.Height
		}
	}
	for d.maxKept-d.minKept >= maxRetainedHeaders {
		delete(d.headers, d.minKept)
		d.minKept++
	}
}

func (d *PushGatewayDatasource) GetBlockHeader(ctx context.Context, height int64) (types.BlockHeader, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	header, ok := d.headers[height]
	if !ok {
		return types.BlockHeader{}, errors.Wrapf(errs.NotFound, "no retained header for height %d", height)
	}
	return header, nil
}

// Fetch drains whatever batches are currently queued without blocking.
func (d *PushGatewayDatasource) Fetch(ctx context.Context, from, to int64) ([]*types.Block, error) {
	var out []*types.Block
	for {
		select {
		case batch := <-d.queue:
			out = append(out, filterBlocks(batch, from, to)...)
		default:
			return out, nil
		}
	}
}

func (d *PushGatewayDatasource) FetchAsync(ctx context.Context, from, to int64, ch chan<- []*types.Block) (*subscription.ClientSubscription[[]*types.Block], error) {
	sub := subscription.NewSubscription(ch)
	go func() {
		for {
			select {
			case batch := <-d.queue:
				batch = filterBlocks(batch, from, to)
				if len(batch) == 0 {
					continue
				}
				if err := sub.Send(ctx, batch); err != nil {
					return
				}
			case <-sub.Done():
				return
			case <-ctx.Done():
				_ = sub.SendError(context.Background(), ctx.Err())
				return
			}
		}
	}()
	return sub.Client(), nil
}

// filterBlocks drops streaming blocks outside [from, to]. Replay and
// rollback blocks always pass through: they are not height-ordered.
func filterBlocks(blocks []*types.Block, from, to int64) []*types.Block {
	out := make([]*types.Block, 0, len(blocks))
	for _, block := range blocks {
		if !block.Replay && !block.Rollback {
			if block.Header.Height < from || (to >= 0 && block.Header.Height > to) {
				continue
			}
		}
		out = append(out, block)
	}
	return out
}

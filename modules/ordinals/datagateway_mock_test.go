package ordinals

import (
	"context"
	"encoding/hex"
	"math"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ordinals-indexer/common/errs"
	"github.com/gaze-network/ordinals-indexer/core/types"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/datagateway"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/entity"
	"github.com/gaze-network/ordinals-indexer/pkg/ord"
)

// mockDatagateway is an in-memory OrdinalsDataGateway. Writes copy their
// inputs so later in-place mutation by the processor cannot leak into
// "persisted" rows, matching how a SQL store behaves.
type mockDatagateway struct {
	mu sync.Mutex

	indexerStates []entity.IndexerState
	indexedBlocks []entity.IndexedBlock
	stats         []entity.ProcessorStats
	entries       []entity.InscriptionEntry
	entryStates   []entity.InscriptionEntryState
	locations     []entity.Location
	tickEntries   []entity.TickEntry
	tickStates    []tickStateRow
	events        []entity.Event
	nextEventId   uint64
	balances      []entity.Balance
}

type tickStateRow struct {
	BlockHeight uint64
	Entry       entity.TickEntry
}

// mockSnapshot is a deep copy of every stored row, used to assert that a
// rollback restores state bit for bit.
type mockSnapshot struct {
	IndexedBlocks []entity.IndexedBlock
	Stats         []entity.ProcessorStats
	Entries       []entity.InscriptionEntry
	EntryStates   []entity.InscriptionEntryState
	Locations     []entity.Location
	TickEntries   []entity.TickEntry
	TickStates    []tickStateRow
	Events        []entity.Event
	Balances      []entity.Balance
}

var (
	_ datagateway.OrdinalsDataGateway    = (*mockDatagateway)(nil)
	_ datagateway.IndexerInfoDataGateway = (*mockDatagateway)(nil)
)

func newMockDatagateway() *mockDatagateway {
	return &mockDatagateway{nextEventId: 1}
}

func copyEvent(event entity.Event) entity.Event {
	if event.SpentHeight != nil {
		spentHeight := *event.SpentHeight
		event.SpentHeight = &spentHeight
	}
	return event
}

func (m *mockDatagateway) snapshot() mockSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := mockSnapshot{
		IndexedBlocks: append([]entity.IndexedBlock(nil), m.indexedBlocks...),
		Stats:         append([]entity.ProcessorStats(nil), m.stats...),
		Entries:       append([]entity.InscriptionEntry(nil), m.entries...),
		EntryStates:   append([]entity.InscriptionEntryState(nil), m.entryStates...),
		Locations:     append([]entity.Location(nil), m.locations...),
		TickEntries:   append([]entity.TickEntry(nil), m.tickEntries...),
		TickStates:    append([]tickStateRow(nil), m.tickStates...),
		Balances:      append([]entity.Balance(nil), m.balances...),
	}
	for _, event := range m.events {
		snap.Events = append(snap.Events, copyEvent(event))
	}
	return snap
}

// --- Tx ---

type mockDatagatewayTx struct {
	*mockDatagateway
}

func (m *mockDatagateway) BeginOrdinalsTx(ctx context.Context) (datagateway.OrdinalsDataGatewayWithTx, error) {
	return &mockDatagatewayTx{m}, nil
}

func (tx *mockDatagatewayTx) Commit(ctx context.Context) error   { return nil }
func (tx *mockDatagatewayTx) Rollback(ctx context.Context) error { return nil }

// --- IndexerInfoDataGateway ---

func (m *mockDatagateway) GetLatestIndexerState(ctx context.Context) (entity.IndexerState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.indexerStates) == 0 {
		return entity.IndexerState{}, errors.WithStack(errs.NotFound)
	}
	return m.indexerStates[len(m.indexerStates)-1], nil
}

func (m *mockDatagateway) CreateIndexerState(ctx context.Context, state entity.IndexerState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indexerStates = append(m.indexerStates, state)
	return nil
}

// --- readers ---

func (m *mockDatagateway) GetLatestBlock(ctx context.Context) (types.BlockHeader, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.indexedBlocks) == 0 {
		return types.BlockHeader{}, errors.WithStack(errs.NotFound)
	}
	latest := m.indexedBlocks[0]
	for _, block := range m.indexedBlocks[1:] {
		if block.Height > latest.Height {
			latest = block
		}
	}
	return types.BlockHeader{
		Height:    int64(latest.Height),
		Hash:      latest.Hash,
		PrevBlock: latest.PrevHash,
	}, nil
}

func (m *mockDatagateway) GetIndexedBlockByHeight(ctx context.Context, height int64) (*entity.IndexedBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, block := range m.indexedBlocks {
		if int64(block.Height) == height {
			found := block
			return &found, nil
		}
	}
	return nil, errors.WithStack(errs.NotFound)
}

func (m *mockDatagateway) GetLatestProcessorStats(ctx context.Context) (*entity.ProcessorStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.stats) == 0 {
		return nil, errors.WithStack(errs.NotFound)
	}
	// rows are per-block deltas, totals are the sum over all rows
	total := entity.ProcessorStats{}
	for _, stats := range m.stats {
		if stats.BlockHeight > total.BlockHeight {
			total.BlockHeight = stats.BlockHeight
		}
		total.CursedInscriptionCount += stats.CursedInscriptionCount
		total.BlessedInscriptionCount += stats.BlessedInscriptionCount
		total.LostSats += stats.LostSats
	}
	return &total, nil
}

func (m *mockDatagateway) GetInscriptionEntriesByIds(ctx context.Context, ids []ord.InscriptionId) (map[ord.InscriptionId]*entity.InscriptionEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make(map[ord.InscriptionId]*entity.InscriptionEntry)
	for _, id := range ids {
		for _, entry := range m.entries {
			if entry.Id == id {
				found := entry
				result[id] = &found
			}
		}
	}
	return result, nil
}

func (m *mockDatagateway) GetInscriptionEntryById(ctx context.Context, id ord.InscriptionId) (*entity.InscriptionEntry, error) {
	entries, err := m.GetInscriptionEntriesByIds(ctx, []ord.InscriptionId{id})
	if err != nil {
		return nil, err
	}
	entry, ok := entries[id]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	return entry, nil
}

func (m *mockDatagateway) GetInscriptionEntryByNumber(ctx context.Context, number int64) (*entity.InscriptionEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, entry := range m.entries {
		if entry.Number == number {
			found := entry
			return &found, nil
		}
	}
	return nil, errors.WithStack(errs.NotFound)
}

func (m *mockDatagateway) GetInscriptionEntries(ctx context.Context, params datagateway.GetInscriptionEntriesParams) ([]*entity.InscriptionEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*entity.InscriptionEntry, 0)
	for _, entry := range m.entries {
		if params.FromNumber != 0 && entry.Number < params.FromNumber {
			continue
		}
		if params.ToNumber != 0 && entry.Number > params.ToNumber {
			continue
		}
		found := entry
		result = append(result, &found)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number > result[j].Number })
	return paginate(result, params.Limit, params.Offset), nil
}

func (m *mockDatagateway) GetTransferCountsByIds(ctx context.Context, ids []ord.InscriptionId) (map[ord.InscriptionId]uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make(map[ord.InscriptionId]uint32)
	latestHeights := make(map[ord.InscriptionId]uint64)
	for _, state := range m.entryStates {
		for _, id := range ids {
			if state.Id != id {
				continue
			}
			if height, ok := latestHeights[id]; !ok || state.BlockHeight >= height {
				latestHeights[id] = state.BlockHeight
				result[id] = state.TransferCount
			}
		}
	}
	return result, nil
}

func (m *mockDatagateway) GetCurrentLocationsByOrdinalNumbers(ctx context.Context, ordinalNumbers []uint64) (map[uint64][]*entity.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current := make(map[ord.InscriptionId]entity.Location)
	wanted := make(map[uint64]struct{})
	for _, ordinalNumber := range ordinalNumbers {
		wanted[ordinalNumber] = struct{}{}
	}
	for _, location := range m.locations {
		if _, ok := wanted[location.OrdinalNumber]; !ok {
			continue
		}
		if existing, ok := current[location.InscriptionId]; !ok || (&existing).Before(&location) {
			current[location.InscriptionId] = location
		}
	}
	result := make(map[uint64][]*entity.Location)
	for _, location := range current {
		found := location
		result[location.OrdinalNumber] = append(result[location.OrdinalNumber], &found)
	}
	return result, nil
}

func (m *mockDatagateway) GetCurrentLocationByInscriptionId(ctx context.Context, id ord.InscriptionId) (*entity.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var current *entity.Location
	for i := range m.locations {
		location := m.locations[i]
		if location.InscriptionId != id {
			continue
		}
		if current == nil || current.Before(&location) {
			found := location
			current = &found
		}
	}
	if current == nil {
		return nil, errors.WithStack(errs.NotFound)
	}
	return current, nil
}

func (m *mockDatagateway) GetGenesisLocationByInscriptionId(ctx context.Context, id ord.InscriptionId) (*entity.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var genesis *entity.Location
	for i := range m.locations {
		location := m.locations[i]
		if location.InscriptionId != id {
			continue
		}
		if genesis == nil || location.Before(genesis) {
			found := location
			genesis = &found
		}
	}
	if genesis == nil {
		return nil, errors.WithStack(errs.NotFound)
	}
	return genesis, nil
}

func (m *mockDatagateway) GetLocationsByInscriptionId(ctx context.Context, id ord.InscriptionId, limit, offset int32) ([]*entity.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*entity.Location, 0)
	for _, location := range m.locations {
		if location.InscriptionId != id {
			continue
		}
		found := location
		result = append(result, &found)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Before(result[j]) })
	return paginate(result, limit, offset), nil
}

func (m *mockDatagateway) GetLocationsByBlockHeight(ctx context.Context, blockHeight uint64, limit, offset int32) ([]*entity.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*entity.Location, 0)
	for _, location := range m.locations {
		if location.BlockHeight != blockHeight {
			continue
		}
		found := location
		result = append(result, &found)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TxIndex < result[j].TxIndex })
	return paginate(result, limit, offset), nil
}

func (m *mockDatagateway) GetTickEntriesByTicks(ctx context.Context, ticks []string) (map[string]*entity.TickEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make(map[string]*entity.TickEntry)
	for _, tick := range ticks {
		for _, entry := range m.tickEntries {
			if entry.Tick != tick {
				continue
			}
			merged := entry
			var latest *tickStateRow
			for i := range m.tickStates {
				state := &m.tickStates[i]
				if state.Entry.Tick != tick {
					continue
				}
				if latest == nil || state.BlockHeight >= latest.BlockHeight {
					latest = state
				}
			}
			if latest != nil {
				merged.MintedAmount = latest.Entry.MintedAmount
				merged.BurnedAmount = latest.Entry.BurnedAmount
				merged.CompletedAt = latest.Entry.CompletedAt
				merged.CompletedAtHeight = latest.Entry.CompletedAtHeight
			}
			result[tick] = &merged
		}
	}
	return result, nil
}

func (m *mockDatagateway) GetTickEntries(ctx context.Context, params datagateway.GetTickEntriesParams) ([]*entity.TickEntry, error) {
	m.mu.Lock()
	ticks := make([]string, 0, len(m.tickEntries))
	for _, entry := range m.tickEntries {
		ticks = append(ticks, entry.Tick)
	}
	m.mu.Unlock()

	merged, err := m.GetTickEntriesByTicks(ctx, ticks)
	if err != nil {
		return nil, err
	}
	result := make([]*entity.TickEntry, 0, len(merged))
	for _, entry := range merged {
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DeployedAtHeight < result[j].DeployedAtHeight })
	return paginate(result, params.Limit, params.Offset), nil
}

func (m *mockDatagateway) GetBalancesBatch(ctx context.Context, keys []datagateway.BalanceKey) (map[string]map[string]*entity.Balance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make(map[string]map[string]*entity.Balance)
	for _, key := range keys {
		latest := m.latestBalance(key.PkScriptHex, key.Tick, math.MaxUint64)
		if latest == nil {
			continue
		}
		if _, ok := result[key.PkScriptHex]; !ok {
			result[key.PkScriptHex] = make(map[string]*entity.Balance)
		}
		result[key.PkScriptHex][key.Tick] = latest
	}
	return result, nil
}

// latestBalance returns a copy of the latest snapshot at or below
// maxHeight, matching the block_height <= $2 cutoff of the postgres
// queries. Caller must hold m.mu.
func (m *mockDatagateway) latestBalance(pkScriptHex, tick string, maxHeight uint64) *entity.Balance {
	var latest *entity.Balance
	for i := range m.balances {
		balance := m.balances[i]
		if balance.Tick != tick || pkScriptHexOf(&balance) != pkScriptHex {
			continue
		}
		if balance.BlockHeight > maxHeight {
			continue
		}
		if latest == nil || balance.BlockHeight >= latest.BlockHeight {
			found := balance
			latest = &found
		}
	}
	return latest
}

func (m *mockDatagateway) GetBalancesByPkScript(ctx context.Context, pkScript []byte, blockHeight uint64) (map[string]*entity.Balance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pkScriptHex := pkScriptHexOf(&entity.Balance{PkScript: pkScript})
	ticks := make(map[string]struct{})
	for _, balance := range m.balances {
		if pkScriptHexOf(&balance) == pkScriptHex {
			ticks[balance.Tick] = struct{}{}
		}
	}
	result := make(map[string]*entity.Balance)
	for tick := range ticks {
		if latest := m.latestBalance(pkScriptHex, tick, blockHeight); latest != nil {
			result[tick] = latest
		}
	}
	return result, nil
}

func (m *mockDatagateway) GetBalancesByTick(ctx context.Context, tick string, blockHeight uint64, limit, offset int32) ([]*entity.Balance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pkScripts := make(map[string]struct{})
	for _, balance := range m.balances {
		if balance.Tick == tick {
			pkScripts[pkScriptHexOf(&balance)] = struct{}{}
		}
	}
	result := make([]*entity.Balance, 0)
	for pkScriptHex := range pkScripts {
		latest := m.latestBalance(pkScriptHex, tick, blockHeight)
		if latest == nil || latest.OverallBalance().IsZero() {
			continue
		}
		result = append(result, latest)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].OverallBalance().GreaterThan(result[j].OverallBalance())
	})
	return paginate(result, limit, offset), nil
}

func (m *mockDatagateway) GetUnspentVehiclesByIds(ctx context.Context, ids []ord.InscriptionId) (map[ord.InscriptionId]*entity.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make(map[ord.InscriptionId]*entity.Event)
	for _, event := range m.events {
		if event.Type != entity.EventTypeInscribeTransfer || event.SpentHeight != nil {
			continue
		}
		for _, id := range ids {
			if event.InscriptionId == id {
				found := copyEvent(event)
				result[id] = &found
			}
		}
	}
	return result, nil
}

func (m *mockDatagateway) GetEvents(ctx context.Context, params datagateway.GetEventsParams) ([]*entity.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*entity.Event, 0)
	for _, event := range m.events {
		if params.Tick != "" && event.Tick != params.Tick {
			continue
		}
		if params.Type != "" && event.Type.String() != params.Type {
			continue
		}
		if params.PkScriptHex != "" &&
			hex.EncodeToString(event.PkScript) != params.PkScriptHex &&
			hex.EncodeToString(event.CounterpartyPkScript) != params.PkScriptHex {
			continue
		}
		if params.BlockHeight != 0 && event.BlockHeight > params.BlockHeight {
			continue
		}
		found := copyEvent(event)
		result = append(result, &found)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Id > result[j].Id })
	return paginate(result, params.Limit, params.Offset), nil
}

func (m *mockDatagateway) GetEventCountsByTicks(ctx context.Context, ticks []string) (map[string]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make(map[string]uint64)
	for _, event := range m.events {
		for _, tick := range ticks {
			if event.Tick == tick {
				result[tick]++
			}
		}
	}
	return result, nil
}

// --- writers ---

func (m *mockDatagateway) CreateIndexedBlock(ctx context.Context, block *entity.IndexedBlock) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *block
	stored.EventHash = append([]byte(nil), block.EventHash...)
	stored.CumulativeEventHash = append([]byte(nil), block.CumulativeEventHash...)
	m.indexedBlocks = append(m.indexedBlocks, stored)
	return nil
}

func (m *mockDatagateway) CreateProcessorStats(ctx context.Context, stats *entity.ProcessorStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.stats {
		if m.stats[i].BlockHeight == stats.BlockHeight {
			m.stats[i] = *stats
			return nil
		}
	}
	m.stats = append(m.stats, *stats)
	return nil
}

func (m *mockDatagateway) CreateInscriptionEntries(ctx context.Context, entries []*entity.InscriptionEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, entry := range entries {
		m.entries = append(m.entries, *entry)
	}
	return nil
}

func (m *mockDatagateway) CreateInscriptionEntryStates(ctx context.Context, blockHeight uint64, states []*entity.InscriptionEntryState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, state := range states {
		stored := *state
		stored.BlockHeight = blockHeight
		m.entryStates = append(m.entryStates, stored)
	}
	return nil
}

func (m *mockDatagateway) CreateLocations(ctx context.Context, locations []*entity.Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, location := range locations {
		m.locations = append(m.locations, *location)
	}
	return nil
}

func (m *mockDatagateway) CreateTickEntries(ctx context.Context, blockHeight uint64, entries []*entity.TickEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, entry := range entries {
		m.tickEntries = append(m.tickEntries, *entry)
	}
	return nil
}

func (m *mockDatagateway) CreateTickEntryStates(ctx context.Context, blockHeight uint64, states []*entity.TickEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, state := range states {
		m.tickStates = append(m.tickStates, tickStateRow{
			BlockHeight: blockHeight,
			Entry:       *state,
		})
	}
	return nil
}

func (m *mockDatagateway) CreateEvents(ctx context.Context, events []*entity.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, event := range events {
		stored := copyEvent(*event)
		stored.Id = m.nextEventId
		m.nextEventId++
		m.events = append(m.events, stored)
	}
	return nil
}

func (m *mockDatagateway) CreateBalances(ctx context.Context, balances []*entity.Balance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, balance := range balances {
		m.balances = append(m.balances, *balance)
	}
	return nil
}

func (m *mockDatagateway) MarkVehiclesSpent(ctx context.Context, ids []ord.InscriptionId, spentHeight uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.events {
		event := &m.events[i]
		if event.Type != entity.EventTypeInscribeTransfer || event.SpentHeight != nil {
			continue
		}
		for _, id := range ids {
			if event.InscriptionId == id {
				height := spentHeight
				event.SpentHeight = &height
			}
		}
	}
	return nil
}

func (m *mockDatagateway) DeleteIndexedBlocksSinceHeight(ctx context.Context, height uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indexedBlocks = deleteSince(m.indexedBlocks, func(b entity.IndexedBlock) uint64 { return b.Height }, height)
	return nil
}

func (m *mockDatagateway) DeleteProcessorStatsSinceHeight(ctx context.Context, height uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = deleteSince(m.stats, func(s entity.ProcessorStats) uint64 { return s.BlockHeight }, height)
	return nil
}

func (m *mockDatagateway) DeleteInscriptionEntriesSinceHeight(ctx context.Context, height uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = deleteSince(m.entries, func(e entity.InscriptionEntry) uint64 { return e.CreatedAtHeight }, height)
	return nil
}

func (m *mockDatagateway) DeleteInscriptionEntryStatesSinceHeight(ctx context.Context, height uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entryStates = deleteSince(m.entryStates, func(s entity.InscriptionEntryState) uint64 { return s.BlockHeight }, height)
	return nil
}

func (m *mockDatagateway) DeleteLocationsSinceHeight(ctx context.Context, height uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations = deleteSince(m.locations, func(l entity.Location) uint64 { return l.BlockHeight }, height)
	return nil
}

func (m *mockDatagateway) DeleteTickEntriesSinceHeight(ctx context.Context, height uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickEntries = deleteSince(m.tickEntries, func(e entity.TickEntry) uint64 { return e.DeployedAtHeight }, height)
	return nil
}

func (m *mockDatagateway) DeleteTickEntryStatesSinceHeight(ctx context.Context, height uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickStates = deleteSince(m.tickStates, func(s tickStateRow) uint64 { return s.BlockHeight }, height)
	return nil
}

func (m *mockDatagateway) DeleteEventsSinceHeight(ctx context.Context, height uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = deleteSince(m.events, func(e entity.Event) uint64 { return e.BlockHeight }, height)
	return nil
}

func (m *mockDatagateway) DeleteBalancesSinceHeight(ctx context.Context, height uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances = deleteSince(m.balances, func(b entity.Balance) uint64 { return b.BlockHeight }, height)
	return nil
}

func (m *mockDatagateway) UnspendVehiclesSinceHeight(ctx context.Context, height uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.events {
		event := &m.events[i]
		if event.SpentHeight != nil && *event.SpentHeight >= height {
			event.SpentHeight = nil
		}
	}
	return nil
}

// --- helpers ---

func pkScriptHexOf(balance *entity.Balance) string {
	return hex.EncodeToString(balance.PkScript)
}

func deleteSince[T any](rows []T, heightOf func(T) uint64, height uint64) []T {
	kept := make([]T, 0, len(rows))
	for _, row := range rows {
		if heightOf(row) >= height {
			continue
		}
		kept = append(kept, row)
	}
	return kept
}

func paginate[T any](rows []T, limit, offset int32) []T {
	if offset > 0 {
		if int(offset) >= len(rows) {
			return nil
		}
		rows = rows[offset:]
	}
	if limit > 0 && int(limit) < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

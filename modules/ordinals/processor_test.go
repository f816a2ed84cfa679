package ordinals

import (
	"context"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/gaze-network/ordinals-indexer/common"
	"github.com/gaze-network/ordinals-indexer/core/types"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/datagateway"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/entity"
	"github.com/gaze-network/ordinals-indexer/pkg/ord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	walletA = []byte{0x00, 0x14, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa}
	walletB = []byte{0x00, 0x14, 0xbb, 0xbb, 0xbb, 0xbb, 0xbb, 0xbb, 0xbb, 0xbb, 0xbb, 0xbb, 0xbb, 0xbb, 0xbb, 0xbb, 0xbb, 0xbb, 0xbb, 0xbb, 0xbb, 0xbb}
)

func newTestProcessor(t *testing.T) (*Processor, *mockDatagateway) {
	t.Helper()
	dg := newMockDatagateway()
	p := NewProcessor(dg, dg, common.NetworkMainnet, nil)
	require.NoError(t, p.VerifyStates(context.Background()))
	return p, dg
}

func testTxHash(seed string) chainhash.Hash {
	return chainhash.HashH([]byte(seed))
}

func newTestBlock(height int64, txs ...*types.Transaction) *types.Block {
	prevHash := testTxHash(fmt.Sprintf("block-%d", height-1))
	if height-1 == startingBlockHeader[common.NetworkMainnet].Height {
		prevHash = startingBlockHeader[common.NetworkMainnet].Hash
	}
	for i, tx := range txs {
		tx.Index = uint32(i)
	}
	return &types.Block{
		Header: types.BlockHeader{
			Hash:      testTxHash(fmt.Sprintf("block-%d", height)),
			Height:    height,
			PrevBlock: prevHash,
			Timestamp: time.Unix(1700000000+height, 0).UTC(),
		},
		Transactions: txs,
	}
}

// newReveal builds a bound, blessed reveal carrying the given payload.
func newReveal(seed string, number int64, ordinalNumber uint64, pkScript []byte, payload string, txIndex uint32) (*types.Transaction, *types.InscriptionRevealed) {
	txHash := testTxHash(seed)
	reveal := &types.InscriptionRevealed{
		InscriptionId: ord.InscriptionId{TxHash: txHash, Index: 0},
		Content:       []byte(payload),
		ContentType:   "text/plain;charset=utf-8",
		ContentLength: uint32(len(payload)),
		Fee:           330,
		ClassicNumber: number,
		JubileeNumber: number,
		OrdinalNumber: ordinalNumber,
		SatPoint: ord.SatPoint{
			OutPoint: wire.OutPoint{Hash: txHash, Index: 0},
		},
		OutputValue:       10000,
		InscriberPkScript: pkScript,
		TxIndex:           txIndex,
	}
	tx := &types.Transaction{
		TxHash:  txHash,
		Reveals: []*types.InscriptionRevealed{reveal},
	}
	return tx, reveal
}

func newTransfer(seed string, ordinalNumber uint64, destination []byte, sentAsFee bool, txIndex uint32) *types.Transaction {
	txHash := testTxHash(seed)
	return &types.Transaction{
		TxHash: txHash,
		Transfers: []*types.InscriptionTransferred{{
			OrdinalNumber: ordinalNumber,
			NewSatPoint: ord.SatPoint{
				OutPoint: wire.OutPoint{Hash: txHash, Index: 0},
			},
			DestinationPkScript: destination,
			OutputValue:         10000,
			SentAsFee:           sentAsFee,
			TxIndex:             txIndex,
		}},
	}
}

func latestMockBalance(t *testing.T, dg *mockDatagateway, pkScript []byte, tick string) *entity.Balance {
	t.Helper()
	blockHeader, err := dg.GetLatestBlock(context.Background())
	require.NoError(t, err)
	balances, err := dg.GetBalancesByPkScript(context.Background(), pkScript, uint64(blockHeader.Height))
	require.NoError(t, err)
	return balances[tick]
}

func mockTickEntry(t *testing.T, dg *mockDatagateway, tick string) *entity.TickEntry {
	t.Helper()
	entries, err := dg.GetTickEntriesByTicks(context.Background(), []string{tick})
	require.NoError(t, err)
	require.Contains(t, entries, tick)
	return entries[tick]
}

func TestProcessBRC20Lifecycle(t *testing.T) {
	ctx := context.Background()
	p, dg := newTestProcessor(t)
	height := startingBlockHeader[common.NetworkMainnet].Height + 1

	deployTx, _ := newReveal("deploy", 0, 1000, walletA, `{"p":"brc-20","op":"deploy","tick":"pepe","max":"21000000","lim":"2500","dec":"2"}`, 0)
	mintTx, _ := newReveal("mint-1", 1, 1001, walletA, `{"p":"brc-20","op":"mint","tick":"pepe","amt":"2500"}`, 1)
	vehicleTx, vehicleReveal := newReveal("vehicle-1", 2, 1002, walletA, `{"p":"brc-20","op":"transfer","tick":"pepe","amt":"1500"}`, 2)

	require.NoError(t, p.Process(ctx, []*types.Block{newTestBlock(height, deployTx, mintTx, vehicleTx)}))

	tickEntry := mockTickEntry(t, dg, "pepe")
	assert.Equal(t, "2500", tickEntry.MintedAmount.String())
	assert.Equal(t, uint16(2), tickEntry.Decimals)
	assert.Equal(t, "2500", tickEntry.LimitPerMint.String())
	assert.False(t, tickEntry.IsSelfMint)
	assert.Zero(t, tickEntry.CompletedAtHeight)

	balance := latestMockBalance(t, dg, walletA, "pepe")
	require.NotNil(t, balance)
	assert.Equal(t, "1000", balance.AvailableBalance.String())
	assert.Equal(t, "1500", balance.TransferableBalance.String())

	events, err := dg.GetEvents(ctx, datagateway.GetEventsParams{})
	require.NoError(t, err)
	require.Len(t, events, 3)

	vehicles, err := dg.GetUnspentVehiclesByIds(ctx, []ord.InscriptionId{vehicleReveal.InscriptionId})
	require.NoError(t, err)
	require.Contains(t, vehicles, vehicleReveal.InscriptionId)

	indexedBlock, err := dg.GetIndexedBlockByHeight(ctx, height)
	require.NoError(t, err)
	assert.NotEmpty(t, indexedBlock.EventHash)
	assert.NotEmpty(t, indexedBlock.CumulativeEventHash)

	// spend the vehicle to wallet B in the next block
	require.NoError(t, p.Process(ctx, []*types.Block{newTestBlock(height+1, newTransfer("spend-1", 1002, walletB, false, 0))}))

	balanceA := latestMockBalance(t, dg, walletA, "pepe")
	require.NotNil(t, balanceA)
	assert.Equal(t, "1000", balanceA.AvailableBalance.String())
	assert.True(t, balanceA.TransferableBalance.IsZero())

	balanceB := latestMockBalance(t, dg, walletB, "pepe")
	require.NotNil(t, balanceB)
	assert.Equal(t, "1500", balanceB.AvailableBalance.String())

	events, err = dg.GetEvents(ctx, datagateway.GetEventsParams{})
	require.NoError(t, err)
	require.Len(t, events, 4)
	send := events[0]
	assert.Equal(t, entity.EventTypeTransferSend, send.Type)
	assert.Equal(t, walletA, send.PkScript)
	assert.Equal(t, walletB, send.CounterpartyPkScript)
	assert.Equal(t, "1500", send.Amount.String())

	vehicles, err = dg.GetUnspentVehiclesByIds(ctx, []ord.InscriptionId{vehicleReveal.InscriptionId})
	require.NoError(t, err)
	assert.NotContains(t, vehicles, vehicleReveal.InscriptionId)

	// address filter matches both the acting and the counterparty side
	eventsB, err := dg.GetEvents(ctx, datagateway.GetEventsParams{PkScriptHex: hex.EncodeToString(walletB)})
	require.NoError(t, err)
	require.Len(t, eventsB, 1)
	assert.Equal(t, entity.EventTypeTransferSend, eventsB[0].Type)
	eventsA, err := dg.GetEvents(ctx, datagateway.GetEventsParams{PkScriptHex: hex.EncodeToString(walletA)})
	require.NoError(t, err)
	assert.Len(t, eventsA, 4)

	// balance queries cut off at the given height, zero matches nothing
	preSpend, err := dg.GetBalancesByPkScript(ctx, walletA, uint64(height))
	require.NoError(t, err)
	require.Contains(t, preSpend, "pepe")
	assert.Equal(t, "1500", preSpend["pepe"].TransferableBalance.String())
	empty, err := dg.GetBalancesByPkScript(ctx, walletA, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)

	// a later movement of the same inscription is a plain relocation
	require.NoError(t, p.Process(ctx, []*types.Block{newTestBlock(height+2, newTransfer("spend-2", 1002, walletA, false, 0))}))

	events, err = dg.GetEvents(ctx, datagateway.GetEventsParams{})
	require.NoError(t, err)
	assert.Len(t, events, 4, "second movement must not settle the vehicle again")
	balanceB = latestMockBalance(t, dg, walletB, "pepe")
	assert.Equal(t, "1500", balanceB.AvailableBalance.String())
}

func TestProcessMintCapPartialFill(t *testing.T) {
	ctx := context.Background()
	p, dg := newTestProcessor(t)
	height := startingBlockHeader[common.NetworkMainnet].Height + 1

	deployTx, _ := newReveal("deploy", 0, 2000, walletA, `{"p":"brc-20","op":"deploy","tick":"ordi","max":"100","lim":"100"}`, 0)
	mint1, _ := newReveal("mint-1", 1, 2001, walletA, `{"p":"brc-20","op":"mint","tick":"ordi","amt":"60"}`, 1)
	mint2, _ := newReveal("mint-2", 2, 2002, walletB, `{"p":"brc-20","op":"mint","tick":"ordi","amt":"60"}`, 2)
	mint3, _ := newReveal("mint-3", 3, 2003, walletB, `{"p":"brc-20","op":"mint","tick":"ordi","amt":"10"}`, 3)

	require.NoError(t, p.Process(ctx, []*types.Block{newTestBlock(height, deployTx, mint1, mint2, mint3)}))

	tickEntry := mockTickEntry(t, dg, "ordi")
	assert.Equal(t, "100", tickEntry.MintedAmount.String())
	assert.Equal(t, uint64(height), tickEntry.CompletedAtHeight, "reaching the cap must mark the tick completed")

	balanceA := latestMockBalance(t, dg, walletA, "ordi")
	require.NotNil(t, balanceA)
	assert.Equal(t, "60", balanceA.AvailableBalance.String())

	// the second mint is capped to the remaining 40, the third is ignored
	balanceB := latestMockBalance(t, dg, walletB, "ordi")
	require.NotNil(t, balanceB)
	assert.Equal(t, "40", balanceB.AvailableBalance.String())

	events, err := dg.GetEvents(ctx, datagateway.GetEventsParams{})
	require.NoError(t, err)
	require.Len(t, events, 3, "ignored mint must emit no event")
	assert.Equal(t, "40", events[0].Amount.String())
}

func TestProcessOverBalanceTransferIgnored(t *testing.T) {
	ctx := context.Background()
	p, dg := newTestProcessor(t)
	height := startingBlockHeader[common.NetworkMainnet].Height + 1

	deployTx, _ := newReveal("deploy", 0, 3000, walletA, `{"p":"brc-20","op":"deploy","tick":"neko","max":"1000","lim":"1000"}`, 0)
	mintTx, _ := newReveal("mint-1", 1, 3001, walletA, `{"p":"brc-20","op":"mint","tick":"neko","amt":"50"}`, 1)
	vehicleTx, vehicleReveal := newReveal("vehicle-1", 2, 3002, walletA, `{"p":"brc-20","op":"transfer","tick":"neko","amt":"100"}`, 2)

	require.NoError(t, p.Process(ctx, []*types.Block{newTestBlock(height, deployTx, mintTx, vehicleTx)}))

	// the amount exceeds the available balance, so the whole operation is
	// ignored: no vehicle, no balance movement
	balance := latestMockBalance(t, dg, walletA, "neko")
	require.NotNil(t, balance)
	assert.Equal(t, "50", balance.AvailableBalance.String())
	assert.True(t, balance.TransferableBalance.IsZero())

	vehicles, err := dg.GetUnspentVehiclesByIds(ctx, []ord.InscriptionId{vehicleReveal.InscriptionId})
	require.NoError(t, err)
	assert.NotContains(t, vehicles, vehicleReveal.InscriptionId)

	events, err := dg.GetEvents(ctx, datagateway.GetEventsParams{})
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestProcessVehicleSelfSendAndFeeSpend(t *testing.T) {
	for _, tc := range []struct {
		name        string
		destination []byte
		sentAsFee   bool
	}{
		{name: "self_send", destination: walletA},
		{name: "spent_as_fee", sentAsFee: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			p, dg := newTestProcessor(t)
			height := startingBlockHeader[common.NetworkMainnet].Height + 1

			deployTx, _ := newReveal("deploy", 0, 4000, walletA, `{"p":"brc-20","op":"deploy","tick":"fiat","max":"1000","lim":"1000"}`, 0)
			mintTx, _ := newReveal("mint-1", 1, 4001, walletA, `{"p":"brc-20","op":"mint","tick":"fiat","amt":"500"}`, 1)
			vehicleTx, _ := newReveal("vehicle-1", 2, 4002, walletA, `{"p":"brc-20","op":"transfer","tick":"fiat","amt":"200"}`, 2)
			require.NoError(t, p.Process(ctx, []*types.Block{newTestBlock(height, deployTx, mintTx, vehicleTx)}))

			require.NoError(t, p.Process(ctx, []*types.Block{newTestBlock(height+1, newTransfer("spend-1", 4002, tc.destination, tc.sentAsFee, 0))}))

			// the amount returns to the sender's available balance
			balance := latestMockBalance(t, dg, walletA, "fiat")
			require.NotNil(t, balance)
			assert.Equal(t, "500", balance.AvailableBalance.String())
			assert.True(t, balance.TransferableBalance.IsZero())

			events, err := dg.GetEvents(ctx, datagateway.GetEventsParams{})
			require.NoError(t, err)
			require.Len(t, events, 4)
			assert.Equal(t, entity.EventTypeTransferReceive, events[0].Type)
			assert.Nil(t, events[0].CounterpartyPkScript)
		})
	}
}

func TestProcessVehicleBurn(t *testing.T) {
	ctx := context.Background()
	p, dg := newTestProcessor(t)
	height := startingBlockHeader[common.NetworkMainnet].Height + 1

	deployTx, _ := newReveal("deploy", 0, 5000, walletA, `{"p":"brc-20","op":"deploy","tick":"fire","max":"1000","lim":"1000"}`, 0)
	mintTx, _ := newReveal("mint-1", 1, 5001, walletA, `{"p":"brc-20","op":"mint","tick":"fire","amt":"500"}`, 1)
	vehicleTx, _ := newReveal("vehicle-1", 2, 5002, walletA, `{"p":"brc-20","op":"transfer","tick":"fire","amt":"200"}`, 2)
	require.NoError(t, p.Process(ctx, []*types.Block{newTestBlock(height, deployTx, mintTx, vehicleTx)}))

	require.NoError(t, p.Process(ctx, []*types.Block{newTestBlock(height+1, newTransfer("burn-1", 5002, nil, false, 0))}))

	balance := latestMockBalance(t, dg, walletA, "fire")
	require.NotNil(t, balance)
	assert.Equal(t, "300", balance.AvailableBalance.String())
	assert.True(t, balance.TransferableBalance.IsZero())

	tickEntry := mockTickEntry(t, dg, "fire")
	assert.Equal(t, "200", tickEntry.BurnedAmount.String())

	events, err := dg.GetEvents(ctx, datagateway.GetEventsParams{})
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, entity.EventTypeTransferSend, events[0].Type)
	assert.Nil(t, events[0].CounterpartyPkScript, "burn has no counterparty")

	stats, err := dg.GetLatestProcessorStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(10000), stats.LostSats)
}

func TestProcessNumberGap(t *testing.T) {
	ctx := context.Background()
	height := startingBlockHeader[common.NetworkMainnet].Height + 1

	t.Run("streaming_gap_rejected", func(t *testing.T) {
		p, dg := newTestProcessor(t)
		tx, _ := newReveal("gap", 5, 6000, walletA, "not brc-20", 0)
		err := p.Process(ctx, []*types.Block{newTestBlock(height, tx)})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInscriptionNumberGap)

		// the failed batch must leave nothing behind
		_, err = dg.GetLatestBlock(ctx)
		assert.Error(t, err)
	})

	t.Run("replay_gap_accepted", func(t *testing.T) {
		p, dg := newTestProcessor(t)
		tx, _ := newReveal("gap", 5, 6000, walletA, "not brc-20", 0)
		block := newTestBlock(height+10, tx)
		block.Replay = true
		require.NoError(t, p.Process(ctx, []*types.Block{block}))

		entry, err := dg.GetInscriptionEntryByNumber(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(5), entry.Number)
	})

	t.Run("unbound_exempt", func(t *testing.T) {
		p, _ := newTestProcessor(t)
		tx, _ := newReveal("unbound", 7, 0, walletA, "not brc-20", 0)
		require.NoError(t, p.Process(ctx, []*types.Block{newTestBlock(height, tx)}))
	})

	t.Run("cursed_numbering", func(t *testing.T) {
		p, dg := newTestProcessor(t)
		curseType := ord.CurseTypeReinscription
		tx, reveal := newReveal("cursed", -1, 6001, walletA, "not brc-20", 0)
		reveal.CurseType = &curseType
		require.NoError(t, p.Process(ctx, []*types.Block{newTestBlock(height, tx)}))

		entry, err := dg.GetInscriptionEntryByNumber(ctx, -1)
		require.NoError(t, err)
		assert.True(t, entry.Cursed())
	})
}

func TestRevertRestoresStateExactly(t *testing.T) {
	ctx := context.Background()
	p, dg := newTestProcessor(t)
	height := startingBlockHeader[common.NetworkMainnet].Height + 1

	deployTx, _ := newReveal("deploy", 0, 7000, walletA, `{"p":"brc-20","op":"deploy","tick":"pepe","max":"21000000","lim":"2500","dec":"2"}`, 0)
	mintTx, _ := newReveal("mint-1", 1, 7001, walletA, `{"p":"brc-20","op":"mint","tick":"pepe","amt":"2500"}`, 1)
	vehicleTx, _ := newReveal("vehicle-1", 2, 7002, walletA, `{"p":"brc-20","op":"transfer","tick":"pepe","amt":"1500"}`, 2)
	require.NoError(t, p.Process(ctx, []*types.Block{newTestBlock(height, deployTx, mintTx, vehicleTx)}))

	before := dg.snapshot()

	spendTx := newTransfer("spend-1", 7002, walletB, false, 0)
	mint2, _ := newReveal("mint-2", 3, 7003, walletB, `{"p":"brc-20","op":"mint","tick":"pepe","amt":"2500"}`, 1)
	tipBlock := newTestBlock(height+1, spendTx, mint2)
	require.NoError(t, p.Process(ctx, []*types.Block{tipBlock}))
	require.NotEqual(t, before, dg.snapshot())

	require.NoError(t, p.Revert(ctx, tipBlock))

	assert.Equal(t, before, dg.snapshot(), "rollback must restore state bit for bit")

	// the processor must be able to re-apply the same block afterwards
	require.NoError(t, p.Process(ctx, []*types.Block{tipBlock}))
	assert.Equal(t, "5000", mockTickEntry(t, dg, "pepe").MintedAmount.String())
	balanceB := latestMockBalance(t, dg, walletB, "pepe")
	require.NotNil(t, balanceB)
	assert.Equal(t, "4000", balanceB.AvailableBalance.String())
}

func TestRevertRequiresTip(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestProcessor(t)
	height := startingBlockHeader[common.NetworkMainnet].Height + 1

	tx1, _ := newReveal("first", 0, 8000, walletA, "not brc-20", 0)
	block1 := newTestBlock(height, tx1)
	tx2, _ := newReveal("second", 1, 8001, walletA, "not brc-20", 0)
	block2 := newTestBlock(height+1, tx2)
	require.NoError(t, p.Process(ctx, []*types.Block{block1, block2}))

	err := p.Revert(ctx, block1)
	require.Error(t, err, "reverting a non-tip block must be rejected")
}

func TestReplayScrambledOrderStats(t *testing.T) {
	ctx := context.Background()
	base := startingBlockHeader[common.NetworkMainnet].Height + 1
	offsets := []int64{0, 2, 5, 10}

	buildBlocks := func() []*types.Block {
		blocks := make([]*types.Block, 0, len(offsets))
		for i, offset := range offsets {
			tx, _ := newReveal(fmt.Sprintf("backfill-%d", offset), int64(i), uint64(9100+i), walletA, "not brc-20", 0)
			block := newTestBlock(base+offset, tx)
			block.Replay = true
			blocks = append(blocks, block)
		}
		return blocks
	}

	ordered, dgOrdered := newTestProcessor(t)
	require.NoError(t, ordered.Process(ctx, buildBlocks()))

	scrambled, dgScrambled := newTestProcessor(t)
	blocks := buildBlocks()
	for i := len(blocks) - 1; i >= 0; i-- {
		require.NoError(t, scrambled.Process(ctx, []*types.Block{blocks[i]}))
	}

	orderedStats, err := dgOrdered.GetLatestProcessorStats(ctx)
	require.NoError(t, err)
	scrambledStats, err := dgScrambled.GetLatestProcessorStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, orderedStats, scrambledStats, "replay arrival order must not change the accumulated stats")
	assert.Equal(t, uint64(4), scrambledStats.BlessedInscriptionCount)
	assert.Equal(t, uint64(base+offsets[len(offsets)-1]), scrambledStats.BlockHeight)
}

func TestBackfillTransferKeepsCurrentLocation(t *testing.T) {
	ctx := context.Background()
	p, dg := newTestProcessor(t)
	height := startingBlockHeader[common.NetworkMainnet].Height + 1

	revealTx, reveal := newReveal("genesis", 0, 9000, walletA, "not brc-20", 0)
	require.NoError(t, p.Process(ctx, []*types.Block{newTestBlock(height, revealTx)}))
	require.NoError(t, p.Process(ctx, []*types.Block{newTestBlock(height+2, newTransfer("hop-2", 9000, walletB, false, 0))}))

	// a historically earlier transfer arriving late lands as a
	// historical row, leaving the current location untouched
	backfill := newTestBlock(height+1, newTransfer("hop-1", 9000, walletA, false, 0))
	backfill.Replay = true
	require.NoError(t, p.Process(ctx, []*types.Block{backfill}))

	current, err := dg.GetCurrentLocationsByOrdinalNumbers(ctx, []uint64{9000})
	require.NoError(t, err)
	require.Len(t, current[9000], 1)
	assert.Equal(t, uint64(height+2), current[9000][0].BlockHeight)
	assert.Equal(t, testTxHash("hop-2"), current[9000][0].SatPoint.OutPoint.Hash)

	locations, err := dg.GetLocationsByInscriptionId(ctx, reveal.InscriptionId, 0, 0)
	require.NoError(t, err)
	require.Len(t, locations, 3)
	assert.Equal(t, uint64(height+1), locations[1].BlockHeight)
	assert.Equal(t, entity.TransferClassificationTransferred, locations[1].Classification)
}

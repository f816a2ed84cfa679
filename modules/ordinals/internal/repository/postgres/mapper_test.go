package postgres

import (
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/entity"
	"github.com/gaze-network/ordinals-indexer/pkg/ord"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericDecimalRoundTrip(t *testing.T) {
	for _, value := range []string{"0", "21000000", "420.69", "-1", "0.000000000000000001"} {
		d, err := decimal.NewFromString(value)
		require.NoError(t, err)
		assert.True(t, d.Equal(decimalFromNumeric(numericFromDecimal(d))), value)
	}
}

func TestDecimalFromNumericInvalid(t *testing.T) {
	assert.True(t, decimalFromNumeric(pgtype.Numeric{}).IsZero())
}

func TestTimestamptzZeroIsNull(t *testing.T) {
	assert.False(t, timestamptz(time.Time{}).Valid)
	assert.True(t, timestamptz(time.Unix(1700000000, 0)).Valid)
}

func TestEventModelRoundTrip(t *testing.T) {
	spentHeight := uint64(767431)
	event := &entity.Event{
		Type:              entity.EventTypeInscribeTransfer,
		InscriptionId:     ord.InscriptionId{TxHash: chainhash.HashH([]byte("reveal")), Index: 0},
		InscriptionNumber: 42,
		Tick:              "pepe",
		OriginalTick:      "PEPE",
		TxHash:            chainhash.HashH([]byte("tx")),
		BlockHeight:       767430,
		TxIndex:           3,
		Timestamp:         time.Unix(1700000000, 0).UTC(),
		PkScript:          []byte{0x51},
		Amount:            decimal.RequireFromString("1500.25"),
		SatPoint: ord.SatPoint{
			OutPoint: wire.OutPoint{Hash: chainhash.HashH([]byte("tx")), Index: 1},
			Offset:   7,
		},
		SpentHeight: &spentHeight,
	}

	model := mapEventTypeToModel(event)
	restored, err := mapEventModelToType(model)
	require.NoError(t, err)

	assert.Equal(t, event.Type, restored.Type)
	assert.Equal(t, event.InscriptionId, restored.InscriptionId)
	assert.Equal(t, event.Tick, restored.Tick)
	assert.Equal(t, event.OriginalTick, restored.OriginalTick)
	assert.Equal(t, event.TxHash, restored.TxHash)
	assert.Equal(t, event.PkScript, restored.PkScript)
	assert.Nil(t, restored.CounterpartyPkScript)
	assert.True(t, event.Amount.Equal(restored.Amount))
	assert.Equal(t, event.SatPoint, restored.SatPoint)
	require.NotNil(t, restored.SpentHeight)
	assert.Equal(t, spentHeight, *restored.SpentHeight)
}

func TestLocationModelNullPkScript(t *testing.T) {
	location := &entity.Location{
		InscriptionId:  ord.InscriptionId{TxHash: chainhash.HashH([]byte("reveal")), Index: 0},
		OrdinalNumber:  1000,
		BlockHeight:    767431,
		BlockHash:      chainhash.HashH([]byte("block")),
		Timestamp:      time.Unix(1700000000, 0).UTC(),
		SatPoint:       ord.SatPoint{OutPoint: wire.OutPoint{Hash: chainhash.HashH([]byte("tx"))}},
		PkScript:       nil, // burnt output
		Classification: entity.TransferClassificationBurnt,
	}

	model := mapLocationTypeToModel(location)
	assert.False(t, model.Pkscript.Valid)

	restored, err := mapLocationModelToType(model)
	require.NoError(t, err)
	assert.Nil(t, restored.PkScript)
	assert.Equal(t, location.Classification, restored.Classification)
}

package postgres

import (
	"encoding/hex"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ordinals-indexer/common"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/entity"
	"github.com/gaze-network/ordinals-indexer/pkg/ord"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func numericFromDecimal(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:   d.Coefficient(),
		Exp:   d.Exponent(),
		Valid: true,
	}
}

func decimalFromNumeric(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func timestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: !t.IsZero()}
}

func pkScriptText(pkScript []byte) pgtype.Text {
	if pkScript == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: hex.EncodeToString(pkScript), Valid: true}
}

func mapIndexerStateModelToType(src indexerStateModel) entity.IndexerState {
	var createdAt time.Time
	if src.CreatedAt.Valid {
		createdAt = src.CreatedAt.Time
	}
	return entity.IndexerState{
		CreatedAt:        createdAt,
		ClientVersion:    src.ClientVersion,
		DBVersion:        src.DBVersion,
		EventHashVersion: src.EventHashVersion,
		Network:          common.Network(src.Network),
	}
}

func mapIndexedBlockModelToType(src indexedBlockModel) (*entity.IndexedBlock, error) {
	hash, err := chainhash.NewHashFromStr(src.Hash)
	if err != nil {
		return nil, errors.Wrap(err, "invalid block hash")
	}
	prevHash, err := chainhash.NewHashFromStr(src.PrevHash)
	if err != nil {
		return nil, errors.Wrap(err, "invalid prev block hash")
	}
	return &entity.IndexedBlock{
		Height:              uint64(src.Height),
		Hash:                *hash,
		PrevHash:            *prevHash,
		EventHash:           src.EventHash,
		CumulativeEventHash: src.CumulativeEventHash,
	}, nil
}

func mapProcessorStatsModelToType(src processorStatsModel) *entity.ProcessorStats {
	return &entity.ProcessorStats{
		BlockHeight:             uint64(src.BlockHeight),
		CursedInscriptionCount:  uint64(src.CursedInscriptionCount),
		BlessedInscriptionCount: uint64(src.BlessedInscriptionCount),
		LostSats:                uint64(src.LostSats),
	}
}

func mapInscriptionEntryModelToType(src inscriptionEntryModel) (*entity.InscriptionEntry, error) {
	id, err := ord.NewInscriptionIdFromString(src.Id)
	if err != nil {
		return nil, errors.Wrap(err, "invalid inscription id")
	}
	var curseType *ord.CurseType
	if src.CurseType.Valid {
		value := ord.CurseType(src.CurseType.String)
		curseType = &value
	}
	var createdAt time.Time
	if src.CreatedAt.Valid {
		createdAt = src.CreatedAt.Time
	}
	return &entity.InscriptionEntry{
		Id:                 id,
		Content:            src.Content,
		ContentType:        src.ContentType,
		ContentLength:      uint32(src.ContentLength),
		Fee:                uint64(src.Fee),
		Number:             src.Number,
		ClassicNumber:      src.ClassicNumber,
		JubileeNumber:      src.JubileeNumber,
		CurseType:          curseType,
		OrdinalNumber:      uint64(src.OrdinalNumber),
		OrdinalBlockHeight: src.OrdinalBlockHeight,
		Rarity:             ord.Rarity(src.Rarity),
		CreatedAt:          createdAt,
		CreatedAtHeight:    uint64(src.CreatedAtHeight),
		TxIndex:            uint32(src.TxIndex),
	}, nil
}

func mapInscriptionEntryTypeToModel(src *entity.InscriptionEntry) inscriptionEntryModel {
	var curseType pgtype.Text
	if src.CurseType != nil {
		curseType = pgtype.Text{String: src.CurseType.String(), Valid: true}
	}
	return inscriptionEntryModel{
		Id:                 src.Id.String(),
		Content:            src.Content,
		ContentType:        src.ContentType,
		ContentLength:      int64(src.ContentLength),
		Fee:                int64(src.Fee),
		Number:             src.Number,
		ClassicNumber:      src.ClassicNumber,
		JubileeNumber:      src.JubileeNumber,
		CurseType:          curseType,
		OrdinalNumber:      int64(src.OrdinalNumber),
		OrdinalBlockHeight: src.OrdinalBlockHeight,
		Rarity:             src.Rarity.String(),
		CreatedAt:          timestamptz(src.CreatedAt),
		CreatedAtHeight:    int64(src.CreatedAtHeight),
		TxIndex:            int32(src.TxIndex),
	}
}

func mapLocationModelToType(src locationModel) (*entity.Location, error) {
	id, err := ord.NewInscriptionIdFromString(src.InscriptionId)
	if err != nil {
		return nil, errors.Wrap(err, "invalid inscription id")
	}
	blockHash, err := chainhash.NewHashFromStr(src.BlockHash)
	if err != nil {
		return nil, errors.Wrap(err, "invalid block hash")
	}
	satPointTxHash, err := chainhash.NewHashFromStr(src.SatpointTxHash)
	if err != nil {
		return nil, errors.Wrap(err, "invalid satpoint tx hash")
	}
	var pkScript []byte
	if src.Pkscript.Valid {
		pkScript, err = hex.DecodeString(src.Pkscript.String)
		if err != nil {
			return nil, errors.Wrap(err, "invalid pkscript")
		}
	}
	var timestamp time.Time
	if src.Timestamp.Valid {
		timestamp = src.Timestamp.Time
	}
	return &entity.Location{
		InscriptionId: id,
		OrdinalNumber: uint64(src.OrdinalNumber),
		BlockHeight:   uint64(src.BlockHeight),
		BlockHash:     *blockHash,
		Timestamp:     timestamp,
		TxIndex:       uint32(src.TxIndex),
		SatPoint: ord.SatPoint{
			OutPoint: wire.OutPoint{
				Hash:  *satPointTxHash,
				Index: uint32(src.SatpointOutIdx),
			},
			Offset: uint64(src.SatpointOffset),
		},
		PkScript:       pkScript,
		OutputValue:    src.OutputValue,
		Classification: entity.TransferClassification(src.Classification),
	}, nil
}

func mapLocationTypeToModel(src *entity.Location) locationModel {
	return locationModel{
		InscriptionId:  src.InscriptionId.String(),
		OrdinalNumber:  int64(src.OrdinalNumber),
		BlockHeight:    int64(src.BlockHeight),
		BlockHash:      src.BlockHash.String(),
		Timestamp:      timestamptz(src.Timestamp),
		TxIndex:        int32(src.TxIndex),
		SatpointTxHash: src.SatPoint.OutPoint.Hash.String(),
		SatpointOutIdx: int32(src.SatPoint.OutPoint.Index),
		SatpointOffset: int64(src.SatPoint.Offset),
		Pkscript:       pkScriptText(src.PkScript),
		OutputValue:    src.OutputValue,
		Classification: src.Classification.String(),
	}
}

func mapTickEntryModelToType(src tickEntryModel) (*entity.TickEntry, error) {
	deployInscriptionId, err := ord.NewInscriptionIdFromString(src.DeployInscriptionId)
	if err != nil {
		return nil, errors.Wrap(err, "invalid deploy inscription id")
	}
	deployerPkScript, err := hex.DecodeString(src.DeployerPkscript)
	if err != nil {
		return nil, errors.Wrap(err, "invalid deployer pkscript")
	}
	var deployedAt, completedAt time.Time
	if src.DeployedAt.Valid {
		deployedAt = src.DeployedAt.Time
	}
	if src.CompletedAt.Valid {
		completedAt = src.CompletedAt.Time
	}
	var completedAtHeight uint64
	if src.CompletedAtHeight.Valid {
		completedAtHeight = uint64(src.CompletedAtHeight.Int64)
	}
	return &entity.TickEntry{
		Tick:                src.Tick,
		OriginalTick:        src.OriginalTick,
		TotalSupply:         decimalFromNumeric(src.TotalSupply),
		Decimals:            uint16(src.Decimals),
		LimitPerMint:        decimalFromNumeric(src.LimitPerMint),
		IsSelfMint:          src.IsSelfMint,
		DeployInscriptionId: deployInscriptionId,
		DeployerPkScript:    deployerPkScript,
		DeployedAt:          deployedAt,
		DeployedAtHeight:    uint64(src.DeployedAtHeight),
		MintedAmount:        decimalFromNumeric(src.MintedAmount),
		BurnedAmount:        decimalFromNumeric(src.BurnedAmount),
		CompletedAt:         completedAt,
		CompletedAtHeight:   completedAtHeight,
	}, nil
}

func mapEventModelToType(src eventModel) (*entity.Event, error) {
	id, err := ord.NewInscriptionIdFromString(src.InscriptionId)
	if err != nil {
		return nil, errors.Wrap(err, "invalid inscription id")
	}
	txHash, err := chainhash.NewHashFromStr(src.TxHash)
	if err != nil {
		return nil, errors.Wrap(err, "invalid tx hash")
	}
	satPointTxHash, err := chainhash.NewHashFromStr(src.SatpointTxHash)
	if err != nil {
		return nil, errors.Wrap(err, "invalid satpoint tx hash")
	}
	pkScript, err := hex.DecodeString(src.Pkscript)
	if err != nil {
		return nil, errors.Wrap(err, "invalid pkscript")
	}
	var counterpartyPkScript []byte
	if src.CounterpartyPkscript.Valid {
		counterpartyPkScript, err = hex.DecodeString(src.CounterpartyPkscript.String)
		if err != nil {
			return nil, errors.Wrap(err, "invalid counterparty pkscript")
		}
	}
	var spentHeight *uint64
	if src.SpentHeight.Valid {
		value := uint64(src.SpentHeight.Int64)
		spentHeight = &value
	}
	var timestamp time.Time
	if src.Timestamp.Valid {
		timestamp = src.Timestamp.Time
	}
	return &entity.Event{
		Id:                   uint64(src.Id),
		Type:                 entity.EventType(src.Type),
		InscriptionId:        id,
		InscriptionNumber:    src.InscriptionNumber,
		Tick:                 src.Tick,
		OriginalTick:         src.OriginalTick,
		TxHash:               *txHash,
		BlockHeight:          uint64(src.BlockHeight),
		TxIndex:              uint32(src.TxIndex),
		Timestamp:            timestamp,
		PkScript:             pkScript,
		CounterpartyPkScript: counterpartyPkScript,
		Amount:               decimalFromNumeric(src.Amount),
		SatPoint: ord.SatPoint{
			OutPoint: wire.OutPoint{
				Hash:  *satPointTxHash,
				Index: uint32(src.SatpointOutIdx),
			},
			Offset: uint64(src.SatpointOffset),
		},
		SpentHeight: spentHeight,
	}, nil
}

func mapEventTypeToModel(src *entity.Event) eventModel {
	var spentHeight pgtype.Int8
	if src.SpentHeight != nil {
		spentHeight = pgtype.Int8{Int64: int64(*src.SpentHeight), Valid: true}
	}
	return eventModel{
		Type:                 src.Type.String(),
		InscriptionId:        src.InscriptionId.String(),
		InscriptionNumber:    src.InscriptionNumber,
		Tick:                 src.Tick,
		OriginalTick:         src.OriginalTick,
		TxHash:               src.TxHash.String(),
		BlockHeight:          int64(src.BlockHeight),
		TxIndex:              int32(src.TxIndex),
		Timestamp:            timestamptz(src.Timestamp),
		Pkscript:             hex.EncodeToString(src.PkScript),
		CounterpartyPkscript: pkScriptText(src.CounterpartyPkScript),
		Amount:               numericFromDecimal(src.Amount),
		SatpointTxHash:       src.SatPoint.OutPoint.Hash.String(),
		SatpointOutIdx:       int32(src.SatPoint.OutPoint.Index),
		SatpointOffset:       int64(src.SatPoint.Offset),
		SpentHeight:          spentHeight,
	}
}

func mapBalanceModelToType(src balanceModel) (*entity.Balance, error) {
	pkScript, err := hex.DecodeString(src.Pkscript)
	if err != nil {
		return nil, errors.Wrap(err, "invalid pkscript")
	}
	return &entity.Balance{
		PkScript:            pkScript,
		Tick:                src.Tick,
		BlockHeight:         uint64(src.BlockHeight),
		AvailableBalance:    decimalFromNumeric(src.AvailableBalance),
		TransferableBalance: decimalFromNumeric(src.TransferableBalance),
	}, nil
}

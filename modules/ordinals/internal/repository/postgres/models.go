package postgres

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type indexerStateModel struct {
	Id               int64              `db:"id"`
	CreatedAt        pgtype.Timestamptz `db:"created_at"`
	ClientVersion    string             `db:"client_version"`
	DBVersion        int32              `db:"db_version"`
	EventHashVersion int32              `db:"event_hash_version"`
	Network          string             `db:"network"`
}

type indexedBlockModel struct {
	Height              int64  `db:"height"`
	Hash                string `db:"hash"`
	PrevHash            string `db:"prev_hash"`
	EventHash           []byte `db:"event_hash"`
	CumulativeEventHash []byte `db:"cumulative_event_hash"`
}

type processorStatsModel struct {
	BlockHeight             int64 `db:"block_height"`
	CursedInscriptionCount  int64 `db:"cursed_inscription_count"`
	BlessedInscriptionCount int64 `db:"blessed_inscription_count"`
	LostSats                int64 `db:"lost_sats"`
}

type inscriptionEntryModel struct {
	Id                 string             `db:"id"`
	Content            []byte             `db:"content"`
	ContentType        string             `db:"content_type"`
	ContentLength      int64              `db:"content_length"`
	Fee                int64              `db:"fee"`
	Number             int64              `db:"number"`
	ClassicNumber      int64              `db:"classic_number"`
	JubileeNumber      int64              `db:"jubilee_number"`
	CurseType          pgtype.Text        `db:"curse_type"`
	OrdinalNumber      int64              `db:"ordinal_number"`
	OrdinalBlockHeight int64              `db:"ordinal_block_height"`
	Rarity             string             `db:"rarity"`
	CreatedAt          pgtype.Timestamptz `db:"created_at"`
	CreatedAtHeight    int64              `db:"created_at_height"`
	TxIndex            int32              `db:"tx_index"`
}

type inscriptionEntryStateModel struct {
	Id            string `db:"id"`
	BlockHeight   int64  `db:"block_height"`
	TransferCount int64  `db:"transfer_count"`
}

type locationModel struct {
	InscriptionId  string             `db:"inscription_id"`
	OrdinalNumber  int64              `db:"ordinal_number"`
	BlockHeight    int64              `db:"block_height"`
	BlockHash      string             `db:"block_hash"`
	Timestamp      pgtype.Timestamptz `db:"timestamp"`
	TxIndex        int32              `db:"tx_index"`
	SatpointTxHash string             `db:"satpoint_tx_hash"`
	SatpointOutIdx int32              `db:"satpoint_out_idx"`
	SatpointOffset int64              `db:"satpoint_offset"`
	Pkscript       pgtype.Text        `db:"pkscript"`
	OutputValue    int64              `db:"output_value"`
	Classification string             `db:"classification"`
}

// tickEntryModel is the immutable deploy row joined with the latest
// per-height state row of the tick.
type tickEntryModel struct {
	Tick                string             `db:"tick"`
	OriginalTick        string             `db:"original_tick"`
	TotalSupply         pgtype.Numeric     `db:"total_supply"`
	Decimals            int16              `db:"decimals"`
	LimitPerMint        pgtype.Numeric     `db:"limit_per_mint"`
	IsSelfMint          bool               `db:"is_self_mint"`
	DeployInscriptionId string             `db:"deploy_inscription_id"`
	DeployerPkscript    string             `db:"deployer_pkscript"`
	DeployedAt          pgtype.Timestamptz `db:"deployed_at"`
	DeployedAtHeight    int64              `db:"deployed_at_height"`
	MintedAmount        pgtype.Numeric     `db:"minted_amount"`
	BurnedAmount        pgtype.Numeric     `db:"burned_amount"`
	CompletedAt         pgtype.Timestamptz `db:"completed_at"`
	CompletedAtHeight   pgtype.Int8        `db:"completed_at_height"`
}

type eventModel struct {
	Id                   int64              `db:"id"`
	Type                 string             `db:"type"`
	InscriptionId        string             `db:"inscription_id"`
	InscriptionNumber    int64              `db:"inscription_number"`
	Tick                 string             `db:"tick"`
	OriginalTick         string             `db:"original_tick"`
	TxHash               string             `db:"tx_hash"`
	BlockHeight          int64              `db:"block_height"`
	TxIndex              int32              `db:"tx_index"`
	Timestamp            pgtype.Timestamptz `db:"timestamp"`
	Pkscript             string             `db:"pkscript"`
	CounterpartyPkscript pgtype.Text        `db:"counterparty_pkscript"`
	Amount               pgtype.Numeric     `db:"amount"`
	SatpointTxHash       string             `db:"satpoint_tx_hash"`
	SatpointOutIdx       int32              `db:"satpoint_out_idx"`
	SatpointOffset       int64              `db:"satpoint_offset"`
	SpentHeight          pgtype.Int8        `db:"spent_height"`
}

type balanceModel struct {
	Pkscript            string         `db:"pkscript"`
	Tick                string         `db:"tick"`
	BlockHeight         int64          `db:"block_height"`
	AvailableBalance    pgtype.Numeric `db:"available_balance"`
	TransferableBalance pgtype.Numeric `db:"transferable_balance"`
}

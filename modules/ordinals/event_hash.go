package ordinals

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/entity"
	"github.com/samber/lo"
)

const eventHashSeparator = "|"

// appendEventHash accumulates the block's event hash input string. The
// final hash is committed by flushBlock.
func (p *Processor) appendEventHash(s string) {
	p.eventHashString += s + eventHashSeparator
}

func getEventDeployString(event *entity.Event, entry *entity.TickEntry) string {
	var sb strings.Builder
	sb.WriteString("deploy-inscribe;")
	sb.WriteString(event.InscriptionId.String() + ";")
	sb.WriteString(hex.EncodeToString(event.PkScript) + ";")
	sb.WriteString(entry.Tick + ";")
	sb.WriteString(entry.OriginalTick + ";")
	sb.WriteString(entry.TotalSupply.StringFixed(int32(entry.Decimals)) + ";")
	sb.WriteString(strconv.Itoa(int(entry.Decimals)) + ";")
	sb.WriteString(entry.LimitPerMint.StringFixed(int32(entry.Decimals)) + ";")
	sb.WriteString(lo.Ternary(entry.IsSelfMint, "True", "False"))
	return sb.String()
}

func getEventMintString(event *entity.Event, decimals uint16) string {
	var sb strings.Builder
	sb.WriteString("mint-inscribe;")
	sb.WriteString(event.InscriptionId.String() + ";")
	sb.WriteString(hex.EncodeToString(event.PkScript) + ";")
	sb.WriteString(event.Tick + ";")
	sb.WriteString(event.OriginalTick + ";")
	sb.WriteString(event.Amount.StringFixed(int32(decimals)))
	return sb.String()
}

func getEventInscribeTransferString(event *entity.Event, decimals uint16) string {
	var sb strings.Builder
	sb.WriteString("inscribe-transfer;")
	sb.WriteString(event.InscriptionId.String() + ";")
	sb.WriteString(hex.EncodeToString(event.PkScript) + ";")
	sb.WriteString(event.Tick + ";")
	sb.WriteString(event.OriginalTick + ";")
	sb.WriteString(event.Amount.StringFixed(int32(decimals)))
	return sb.String()
}

func getEventTransferTransferString(event *entity.Event, decimals uint16) string {
	var sb strings.Builder
	sb.WriteString("transfer-transfer;")
	sb.WriteString(event.InscriptionId.String() + ";")
	sb.WriteString(hex.EncodeToString(event.PkScript) + ";")
	sb.WriteString(hex.EncodeToString(event.CounterpartyPkScript) + ";")
	sb.WriteString(event.Tick + ";")
	sb.WriteString(event.OriginalTick + ";")
	sb.WriteString(event.Amount.StringFixed(int32(decimals)))
	return sb.String()
}

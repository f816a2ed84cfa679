package httphandler

import (
	"context"
	"strconv"

	"github.com/gaze-network/ordinals-indexer/common"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/usecase"
	"github.com/gaze-network/ordinals-indexer/pkg/btcutils"
	"github.com/gaze-network/ordinals-indexer/pkg/logger"
	"github.com/gaze-network/ordinals-indexer/pkg/logger/slogx"
	"github.com/gaze-network/ordinals-indexer/pkg/ord"
	"github.com/shopspring/decimal"
)

type HttpHandler struct {
	usecase *usecase.Usecase
	network common.Network
}

func New(network common.Network, usecase *usecase.Usecase) *HttpHandler {
	return &HttpHandler{
		usecase: usecase,
		network: network,
	}
}

// resolvePkScript converts an address or hex-encoded pkscript to bytes of pkscript.
func (h *HttpHandler) resolvePkScript(wallet string) ([]byte, bool) {
	pkScript, err := btcutils.ToPkScript(h.network, wallet)
	if err != nil {
		return nil, false
	}
	return pkScript, true
}

// addressFromPkScript returns the address encoded from the given pkScript. If the pkScript is invalid or not standard, it returns empty string.
func (h *HttpHandler) addressFromPkScript(pkScript []byte) string {
	if len(pkScript) == 0 {
		return ""
	}
	address, err := btcutils.PkScriptToAddress(pkScript, h.network)
	if err != nil {
		logger.Debug("unable to extract address from pkscript", slogx.Error(err))
		return ""
	}
	return address
}

// resolveInscriptionId resolves an inscription id string or an inscription
// number to an inscription id.
func (h *HttpHandler) resolveInscriptionId(ctx context.Context, id string) (ord.InscriptionId, bool) {
	if id == "" {
		return ord.InscriptionId{}, false
	}

	// attempt to parse as inscription id
	inscriptionId, err := ord.NewInscriptionIdFromString(id)
	if err == nil {
		return inscriptionId, true
	}

	// attempt to parse as inscription number
	number, err := strconv.ParseInt(id, 10, 64)
	if err == nil {
		entry, err := h.usecase.GetInscriptionByNumber(ctx, number)
		if err != nil {
			return ord.InscriptionId{}, false
		}
		return entry.Id, true
	}

	return ord.InscriptionId{}, false
}

// formatAmount renders a BRC-20 amount with the tick's full decimal precision.
func formatAmount(amount decimal.Decimal, decimals uint16) string {
	return amount.StringFixed(int32(decimals))
}

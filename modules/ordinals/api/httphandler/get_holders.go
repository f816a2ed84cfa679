package httphandler

import (
	"encoding/hex"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ordinals-indexer/common"
	"github.com/gaze-network/ordinals-indexer/common/errs"
	"github.com/gofiber/fiber/v2"
)

type getHoldersRequest struct {
	paginationRequest
	Tick        string `params:"tick"`
	BlockHeight uint64 `query:"blockHeight"`
}

func (r *getHoldersRequest) Validate() error {
	var errList []error
	tick, err := url.QueryUnescape(r.Tick)
	if err != nil {
		return errors.WithStack(err)
	}
	r.Tick = strings.ToLower(tick)
	if r.Tick == "" {
		errList = append(errList, errors.Wrap(errs.ArgumentRequired, "'tick' is required"))
	}
	if err := r.paginationRequest.Validate(); err != nil {
		errList = append(errList, err)
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type holderBalance struct {
	Address             string  `json:"address"`
	PkScript            string  `json:"pkScript"`
	AvailableBalance    string  `json:"availableBalance"`
	TransferableBalance string  `json:"transferableBalance"`
	OverallBalance      string  `json:"overallBalance"`
	Percent             float64 `json:"percent"`
}

type getHoldersResult struct {
	BlockHeight  uint64          `json:"blockHeight"`
	Tick         string          `json:"tick"`
	TotalSupply  string          `json:"totalSupply"`
	MintedAmount string          `json:"mintedAmount"`
	Decimals     uint16          `json:"decimals"`
	List         []holderBalance `json:"list"`
}

type getHoldersResponse = common.HttpResponse[getHoldersResult]

func (h *HttpHandler) GetHolders(ctx *fiber.Ctx) (err error) {
	var req getHoldersRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	if err := req.ParseDefault(); err != nil {
		return errors.WithStack(err)
	}

	blockHeight := req.BlockHeight
	if blockHeight == 0 {
		blockHeader, err := h.usecase.GetLatestBlock(ctx.UserContext())
		if err != nil {
			return errors.Wrap(err, "error during GetLatestBlock")
		}
		blockHeight = uint64(blockHeader.Height)
	}

	entry, err := h.usecase.GetTickEntryByTick(ctx.UserContext(), req.Tick)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicError("token not found")
		}
		return errors.Wrap(err, "error during GetTickEntryByTick")
	}

	balances, err := h.usecase.GetHoldersByTick(ctx.UserContext(), entry.Tick, blockHeight, req.Limit, req.Offset)
	if err != nil {
		return errors.Wrap(err, "error during GetHoldersByTick")
	}

	list := make([]holderBalance, 0, len(balances))
	for _, balance := range balances {
		overall := balance.OverallBalance()
		var percent float64
		if !entry.TotalSupply.IsZero() {
			percent = overall.Div(entry.TotalSupply).InexactFloat64()
		}
		list = append(list, holderBalance{
			Address:             h.addressFromPkScript(balance.PkScript),
			PkScript:            hex.EncodeToString(balance.PkScript),
			AvailableBalance:    formatAmount(balance.AvailableBalance, entry.Decimals),
			TransferableBalance: formatAmount(balance.TransferableBalance, entry.Decimals),
			OverallBalance:      formatAmount(overall, entry.Decimals),
			Percent:             percent,
		})
	}

	resp := getHoldersResponse{
		Result: &getHoldersResult{
			BlockHeight:  blockHeight,
			Tick:         entry.Tick,
			TotalSupply:  formatAmount(entry.TotalSupply, entry.Decimals),
			MintedAmount: formatAmount(entry.MintedAmount, entry.Decimals),
			Decimals:     entry.Decimals,
			List:         list,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

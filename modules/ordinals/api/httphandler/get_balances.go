package httphandler

import (
	"fmt"
	"net/url"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ordinals-indexer/common"
	"github.com/gaze-network/ordinals-indexer/common/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type getBalancesRequest struct {
	Wallet      string `params:"wallet"`
	BlockHeight uint64 `query:"blockHeight"`
}

func (r *getBalancesRequest) Validate() error {
	wallet, err := url.QueryUnescape(r.Wallet)
	if err != nil {
		return errors.WithStack(err)
	}
	r.Wallet = wallet
	if r.Wallet == "" {
		return errs.WithPublicMessage(errors.Wrap(errs.ArgumentRequired, "'wallet' is required"), "validation error")
	}
	return nil
}

type tickBalance struct {
	Tick                string `json:"tick"`
	AvailableBalance    string `json:"availableBalance"`
	TransferableBalance string `json:"transferableBalance"`
	OverallBalance      string `json:"overallBalance"`
}

type getBalancesResult struct {
	BlockHeight uint64        `json:"blockHeight"`
	List        []tickBalance `json:"list"`
}

type getBalancesResponse = common.HttpResponse[getBalancesResult]

func (h *HttpHandler) GetBalances(ctx *fiber.Ctx) (err error) {
	var req getBalancesRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	pkScript, ok := h.resolvePkScript(req.Wallet)
	if !ok {
		return errs.NewPublicError(fmt.Sprintf("unable to resolve pkscript from \"%s\"", req.Wallet))
	}

	blockHeight := req.BlockHeight
	if blockHeight == 0 {
		blockHeader, err := h.usecase.GetLatestBlock(ctx.UserContext())
		if err != nil {
			return errors.Wrap(err, "error during GetLatestBlock")
		}
		blockHeight = uint64(blockHeader.Height)
	}

	balances, err := h.usecase.GetBalancesByPkScript(ctx.UserContext(), pkScript, blockHeight)
	if err != nil {
		return errors.Wrap(err, "error during GetBalancesByPkScript")
	}

	tickEntries, err := h.usecase.GetTickEntriesByTicks(ctx.UserContext(), lo.Keys(balances))
	if err != nil {
		return errors.Wrap(err, "error during GetTickEntriesByTicks")
	}

	list := make([]tickBalance, 0, len(balances))
	for tick, balance := range balances {
		entry, ok := tickEntries[tick]
		if !ok {
			return errors.Wrapf(errs.InternalError, "tick entry %q missing for balance", tick)
		}
		list = append(list, tickBalance{
			Tick:                tick,
			AvailableBalance:    formatAmount(balance.AvailableBalance, entry.Decimals),
			TransferableBalance: formatAmount(balance.TransferableBalance, entry.Decimals),
			OverallBalance:      formatAmount(balance.OverallBalance(), entry.Decimals),
		})
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Tick < list[j].Tick
	})

	resp := getBalancesResponse{
		Result: &getBalancesResult{
			BlockHeight: blockHeight,
			List:        list,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

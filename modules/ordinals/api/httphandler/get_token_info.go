package httphandler

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ordinals-indexer/common"
	"github.com/gaze-network/ordinals-indexer/common/errs"
	"github.com/gofiber/fiber/v2"
)

type getTokenInfoRequest struct {
	Tick string `params:"tick"`
}

func (r *getTokenInfoRequest) Validate() error {
	tick, err := url.QueryUnescape(r.Tick)
	if err != nil {
		return errors.WithStack(err)
	}
	r.Tick = strings.ToLower(tick)
	if utf8.RuneCountInString(r.Tick) == 0 {
		return errs.WithPublicMessage(errors.Wrap(errs.ArgumentRequired, "'tick' is required"), "validation error")
	}
	return nil
}

type getTokenInfoResult struct {
	tokenResult
	EventCount uint64 `json:"eventCount"`
}

type getTokenInfoResponse = common.HttpResponse[getTokenInfoResult]

func (h *HttpHandler) GetTokenInfo(ctx *fiber.Ctx) (err error) {
	var req getTokenInfoRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	entry, err := h.usecase.GetTickEntryByTick(ctx.UserContext(), req.Tick)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicError("token not found")
		}
		return errors.Wrap(err, "error during GetTickEntryByTick")
	}

	eventCounts, err := h.usecase.GetEventCountsByTicks(ctx.UserContext(), []string{entry.Tick})
	if err != nil {
		return errors.Wrap(err, "error during GetEventCountsByTicks")
	}

	resp := getTokenInfoResponse{
		Result: &getTokenInfoResult{
			tokenResult: h.newTokenResult(entry),
			EventCount:  eventCounts[entry.Tick],
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

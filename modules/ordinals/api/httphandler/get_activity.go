package httphandler

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ordinals-indexer/common"
	"github.com/gaze-network/ordinals-indexer/common/errs"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/datagateway"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/entity"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type getActivityRequest struct {
	paginationRequest
	Tick        string `query:"tick"`
	Wallet      string `query:"wallet"`
	Type        string `query:"type"`
	BlockHeight uint64 `query:"blockHeight"`
}

func (r *getActivityRequest) Validate() error {
	var errList []error
	r.Tick = strings.ToLower(r.Tick)
	if r.Type != "" && !entity.EventType(r.Type).IsValid() {
		errList = append(errList, errors.Errorf("type '%s' is not a valid event type", r.Type))
	}
	if err := r.paginationRequest.Validate(); err != nil {
		errList = append(errList, err)
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type activityEvent struct {
	Id                  uint64  `json:"id"`
	Type                string  `json:"type"`
	InscriptionId       string  `json:"inscriptionId"`
	InscriptionNumber   int64   `json:"inscriptionNumber"`
	Tick                string  `json:"tick"`
	OriginalTick        string  `json:"originalTick"`
	TxHash              string  `json:"txHash"`
	BlockHeight         uint64  `json:"blockHeight"`
	TxIndex             uint32  `json:"txIndex"`
	Timestamp           int64   `json:"timestamp"`
	Address             string  `json:"address"`
	PkScript            string  `json:"pkScript"`
	CounterpartyAddress string  `json:"counterpartyAddress,omitempty"`
	Amount              string  `json:"amount"`
	SatPoint            string  `json:"satPoint"`
	SpentHeight         *uint64 `json:"spentHeight,omitempty"`
}

type getActivityResult struct {
	List []activityEvent `json:"list"`
}

type getActivityResponse = common.HttpResponse[getActivityResult]

func (h *HttpHandler) GetActivity(ctx *fiber.Ctx) (err error) {
	var req getActivityRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	if err := req.ParseDefault(); err != nil {
		return errors.WithStack(err)
	}

	var pkScriptHex string
	if req.Wallet != "" {
		pkScript, ok := h.resolvePkScript(req.Wallet)
		if !ok {
			return errs.NewPublicError(fmt.Sprintf("unable to resolve pkscript from \"%s\"", req.Wallet))
		}
		pkScriptHex = hex.EncodeToString(pkScript)
	}

	events, err := h.usecase.GetEvents(ctx.UserContext(), datagateway.GetEventsParams{
		Tick:        req.Tick,
		PkScriptHex: pkScriptHex,
		Type:        req.Type,
		BlockHeight: req.BlockHeight,
		Limit:       req.Limit,
		Offset:      req.Offset,
	})
	if err != nil {
		return errors.Wrap(err, "error during GetEvents")
	}

	ticks := lo.Uniq(lo.Map(events, func(event *entity.Event, _ int) string {
		return event.Tick
	}))
	tickEntries, err := h.usecase.GetTickEntriesByTicks(ctx.UserContext(), ticks)
	if err != nil {
		return errors.Wrap(err, "error during GetTickEntriesByTicks")
	}

	list := make([]activityEvent, 0, len(events))
	for _, event := range events {
		entry, ok := tickEntries[event.Tick]
		if !ok {
			return errors.Wrapf(errs.InternalError, "tick entry %q missing for event %d", event.Tick, event.Id)
		}
		var counterpartyAddress string
		if event.CounterpartyPkScript != nil {
			counterpartyAddress = h.addressFromPkScript(event.CounterpartyPkScript)
		}
		list = append(list, activityEvent{
			Id:                  event.Id,
			Type:                event.Type.String(),
			InscriptionId:       event.InscriptionId.String(),
			InscriptionNumber:   event.InscriptionNumber,
			Tick:                event.Tick,
			OriginalTick:        event.OriginalTick,
			TxHash:              event.TxHash.String(),
			BlockHeight:         event.BlockHeight,
			TxIndex:             event.TxIndex,
			Timestamp:           event.Timestamp.Unix(),
			Address:             h.addressFromPkScript(event.PkScript),
			PkScript:            hex.EncodeToString(event.PkScript),
			CounterpartyAddress: counterpartyAddress,
			Amount:              formatAmount(event.Amount, entry.Decimals),
			SatPoint:            event.SatPoint.String(),
			SpentHeight:         event.SpentHeight,
		})
	}

	resp := getActivityResponse{
		Result: &getActivityResult{
			List: list,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

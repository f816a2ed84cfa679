package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ordinals-indexer/common"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/entity"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type getTransfersRequest struct {
	paginationRequest
	BlockHeight uint64 `query:"blockHeight"`
}

func (r getTransfersRequest) Validate() error {
	return r.paginationRequest.Validate()
}

type getTransfersResult struct {
	BlockHeight uint64           `json:"blockHeight"`
	List        []transferResult `json:"list"`
}

type getTransfersResponse = common.HttpResponse[getTransfersResult]

func (h *HttpHandler) GetTransfers(ctx *fiber.Ctx) (err error) {
	var req getTransfersRequest
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

	locations, err := h.usecase.GetTransfersByBlockHeight(ctx.UserContext(), blockHeight, req.Limit, req.Offset)
	if err != nil {
		return errors.Wrap(err, "error during GetTransfersByBlockHeight")
	}

	resp := getTransfersResponse{
		Result: &getTransfersResult{
			BlockHeight: blockHeight,
			List: lo.Map(locations, func(location *entity.Location, _ int) transferResult {
				return h.newTransferResult(location)
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

package httphandler

import (
	"encoding/hex"
	"fmt"
	"net/url"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ordinals-indexer/common"
	"github.com/gaze-network/ordinals-indexer/common/errs"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/entity"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type getInscriptionTransfersRequest struct {
	paginationRequest
	Id string `params:"id"`
}

func (r *getInscriptionTransfersRequest) Validate() error {
	var errList []error
	id, err := url.QueryUnescape(r.Id)
	if err != nil {
		return errors.WithStack(err)
	}
	r.Id = id
	if r.Id == "" {
		errList = append(errList, errors.Wrap(errs.ArgumentRequired, "'id' is required"))
	}
	if err := r.paginationRequest.Validate(); err != nil {
		errList = append(errList, err)
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type transferResult struct {
	InscriptionId  string `json:"inscriptionId"`
	OrdinalNumber  uint64 `json:"ordinalNumber"`
	BlockHeight    uint64 `json:"blockHeight"`
	BlockHash      string `json:"blockHash"`
	TxIndex        uint32 `json:"txIndex"`
	Timestamp      int64  `json:"timestamp"`
	SatPoint       string `json:"satPoint"`
	Address        string `json:"address"`
	PkScript       string `json:"pkScript"`
	OutputValue    int64  `json:"outputValue"`
	Classification string `json:"classification"`
}

func (h *HttpHandler) newTransferResult(location *entity.Location) transferResult {
	return transferResult{
		InscriptionId:  location.InscriptionId.String(),
		OrdinalNumber:  location.OrdinalNumber,
		BlockHeight:    location.BlockHeight,
		BlockHash:      location.BlockHash.String(),
		TxIndex:        location.TxIndex,
		Timestamp:      location.Timestamp.Unix(),
		SatPoint:       location.SatPoint.String(),
		Address:        h.addressFromPkScript(location.PkScript),
		PkScript:       hex.EncodeToString(location.PkScript),
		OutputValue:    location.OutputValue,
		Classification: location.Classification.String(),
	}
}

type getInscriptionTransfersResult struct {
	List []transferResult `json:"list"`
}

type getInscriptionTransfersResponse = common.HttpResponse[getInscriptionTransfersResult]

func (h *HttpHandler) GetInscriptionTransfers(ctx *fiber.Ctx) (err error) {
	var req getInscriptionTransfersRequest
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

	id, ok := h.resolveInscriptionId(ctx.UserContext(), req.Id)
	if !ok {
		return errs.NewPublicError(fmt.Sprintf("unable to resolve inscription id from \"%s\"", req.Id))
	}

	locations, err := h.usecase.GetInscriptionTransfers(ctx.UserContext(), id, req.Limit, req.Offset)
	if err != nil {
		return errors.Wrap(err, "error during GetInscriptionTransfers")
	}

	resp := getInscriptionTransfersResponse{
		Result: &getInscriptionTransfersResult{
			List: lo.Map(locations, func(location *entity.Location, _ int) transferResult {
				return h.newTransferResult(location)
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

package httphandler

import (
	"encoding/hex"
	"fmt"
	"net/url"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ordinals-indexer/common"
	"github.com/gaze-network/ordinals-indexer/common/errs"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/entity"
	"github.com/gaze-network/ordinals-indexer/pkg/ord"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

type getInscriptionRequest struct {
	Id string `params:"id"`
}

func (r *getInscriptionRequest) Validate() error {
	id, err := url.QueryUnescape(r.Id)
	if err != nil {
		return errors.WithStack(err)
	}
	r.Id = id
	if r.Id == "" {
		return errs.WithPublicMessage(errors.Wrap(errs.ArgumentRequired, "'id' is required"), "validation error")
	}
	return nil
}

type inscriptionLocation struct {
	SatPoint       string `json:"satPoint"`
	Address        string `json:"address"`
	PkScript       string `json:"pkScript"`
	OutputValue    int64  `json:"outputValue"`
	BlockHeight    uint64 `json:"blockHeight"`
	Classification string `json:"classification"`
}

type getInscriptionResult struct {
	inscriptionResult
	TransferCount   uint32               `json:"transferCount"`
	GenesisAddress  string               `json:"genesisAddress"`
	CurrentLocation *inscriptionLocation `json:"currentLocation"`
}

type getInscriptionResponse = common.HttpResponse[getInscriptionResult]

func (h *HttpHandler) GetInscription(ctx *fiber.Ctx) (err error) {
	var req getInscriptionRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	id, ok := h.resolveInscriptionId(ctx.UserContext(), req.Id)
	if !ok {
		return errs.NewPublicError(fmt.Sprintf("unable to resolve inscription id from \"%s\"", req.Id))
	}

	entry, err := h.usecase.GetInscriptionById(ctx.UserContext(), id)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicError("inscription not found")
		}
		return errors.Wrap(err, "error during GetInscriptionById")
	}

	result := getInscriptionResult{
		inscriptionResult: newInscriptionResult(entry),
	}

	group, groupctx := errgroup.WithContext(ctx.UserContext())
	var (
		counts            map[ord.InscriptionId]uint32
		genesis, location *entity.Location
	)
	group.Go(func() error {
		counts, err = h.usecase.GetTransferCountsByIds(groupctx, []ord.InscriptionId{id})
		if err != nil {
			return errors.Wrap(err, "error during GetTransferCountsByIds")
		}
		return nil
	})
	group.Go(func() error {
		genesis, err = h.usecase.GetGenesisLocation(groupctx, id)
		if err != nil && !errors.Is(err, errs.NotFound) {
			return errors.Wrap(err, "error during GetGenesisLocation")
		}
		return nil
	})
	group.Go(func() error {
		location, err = h.usecase.GetCurrentLocation(groupctx, id)
		if err != nil && !errors.Is(err, errs.NotFound) {
			return errors.Wrap(err, "error during GetCurrentLocation")
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		return errors.WithStack(err)
	}
	result.TransferCount = counts[id]
	if genesis != nil {
		result.GenesisAddress = h.addressFromPkScript(genesis.PkScript)
	}
	if location != nil {
		result.CurrentLocation = &inscriptionLocation{
			SatPoint:       location.SatPoint.String(),
			Address:        h.addressFromPkScript(location.PkScript),
			PkScript:       hex.EncodeToString(location.PkScript),
			OutputValue:    location.OutputValue,
			BlockHeight:    location.BlockHeight,
			Classification: location.Classification.String(),
		}
	}

	resp := getInscriptionResponse{
		Result: &result,
	}
	return errors.WithStack(ctx.JSON(resp))
}

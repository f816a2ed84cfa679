package httphandler

import (
	"encoding/hex"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ordinals-indexer/common"
	"github.com/gofiber/fiber/v2"
)

type getStatusResult struct {
	Network                 string `json:"network"`
	BlockHeight             uint64 `json:"blockHeight"`
	BlockHash               string `json:"blockHash"`
	EventHash               string `json:"eventHash"`
	CumulativeEventHash     string `json:"cumulativeEventHash"`
	CursedInscriptionCount  uint64 `json:"cursedInscriptionCount"`
	BlessedInscriptionCount uint64 `json:"blessedInscriptionCount"`
	LostSats                uint64 `json:"lostSats"`
}

type getStatusResponse = common.HttpResponse[getStatusResult]

func (h *HttpHandler) GetStatus(ctx *fiber.Ctx) (err error) {
	blockHeader, err := h.usecase.GetLatestBlock(ctx.UserContext())
	if err != nil {
		return errors.Wrap(err, "error during GetLatestBlock")
	}

	indexedBlock, err := h.usecase.GetIndexedBlockByHeight(ctx.UserContext(), blockHeader.Height)
	if err != nil {
		return errors.Wrap(err, "error during GetIndexedBlockByHeight")
	}

	stats, err := h.usecase.GetLatestProcessorStats(ctx.UserContext())
	if err != nil {
		return errors.Wrap(err, "error during GetLatestProcessorStats")
	}

	resp := getStatusResponse{
		Result: &getStatusResult{
			Network:                 h.network.String(),
			BlockHeight:             indexedBlock.Height,
			BlockHash:               indexedBlock.Hash.String(),
			EventHash:               hex.EncodeToString(indexedBlock.EventHash),
			CumulativeEventHash:     hex.EncodeToString(indexedBlock.CumulativeEventHash),
			CursedInscriptionCount:  stats.CursedInscriptionCount,
			BlessedInscriptionCount: stats.BlessedInscriptionCount,
			LostSats:                stats.LostSats,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

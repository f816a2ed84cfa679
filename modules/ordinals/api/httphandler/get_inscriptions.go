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
	"github.com/gaze-network/ordinals-indexer/pkg/ord"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type getInscriptionsRequest struct {
	paginationRequest
	MimeType        string `query:"mimeType"`
	Rarity          string `query:"rarity"`
	Wallet          string `query:"wallet"`
	FromBlockHeight int64  `query:"fromBlockHeight"`
	ToBlockHeight   int64  `query:"toBlockHeight"`
	FromOrdinal     int64  `query:"fromOrdinal"`
	ToOrdinal       int64  `query:"toOrdinal"`
	FromNumber      int64  `query:"fromNumber"`
	ToNumber        int64  `query:"toNumber"`
	Output          string `query:"output"`
}

func (r getInscriptionsRequest) Validate() error {
	var errList []error
	if r.Rarity != "" && !ord.Rarity(r.Rarity).IsValid() {
		errList = append(errList, errors.Errorf("rarity '%s' is not a valid rarity", r.Rarity))
	}
	if r.Output != "" {
		parts := strings.Split(r.Output, ":")
		if len(parts) != 2 {
			errList = append(errList, errors.New("'output' must be in the form '<txHash>:<outputIndex>'"))
		}
	}
	if err := r.paginationRequest.Validate(); err != nil {
		errList = append(errList, err)
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type inscriptionResult struct {
	Id             string  `json:"id"`
	Number         int64   `json:"number"`
	ContentType    string  `json:"contentType"`
	ContentLength  uint32  `json:"contentLength"`
	Fee            uint64  `json:"fee"`
	CurseType      *string `json:"curseType"`
	OrdinalNumber  uint64  `json:"ordinalNumber"`
	Rarity         string  `json:"rarity"`
	GenesisHeight  uint64  `json:"genesisHeight"`
	GenesisTxIndex uint32  `json:"genesisTxIndex"`
	Timestamp      int64   `json:"timestamp"`
}

func newInscriptionResult(entry *entity.InscriptionEntry) inscriptionResult {
	var curseType *string
	if entry.CurseType != nil {
		curseType = lo.ToPtr(entry.CurseType.String())
	}
	return inscriptionResult{
		Id:             entry.Id.String(),
		Number:         entry.Number,
		ContentType:    entry.ContentType,
		ContentLength:  entry.ContentLength,
		Fee:            entry.Fee,
		CurseType:      curseType,
		OrdinalNumber:  entry.OrdinalNumber,
		Rarity:         entry.Rarity.String(),
		GenesisHeight:  entry.CreatedAtHeight,
		GenesisTxIndex: entry.TxIndex,
		Timestamp:      entry.CreatedAt.Unix(),
	}
}

type getInscriptionsResult struct {
	List []inscriptionResult `json:"list"`
}

type getInscriptionsResponse = common.HttpResponse[getInscriptionsResult]

func (h *HttpHandler) GetInscriptions(ctx *fiber.Ctx) (err error) {
	var req getInscriptionsRequest
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

	entries, err := h.usecase.GetInscriptions(ctx.UserContext(), datagateway.GetInscriptionEntriesParams{
		MimeType:        req.MimeType,
		Rarity:          req.Rarity,
		PkScriptHex:     pkScriptHex,
		FromBlockHeight: req.FromBlockHeight,
		ToBlockHeight:   req.ToBlockHeight,
		FromOrdinal:     req.FromOrdinal,
		ToOrdinal:       req.ToOrdinal,
		FromNumber:      req.FromNumber,
		ToNumber:        req.ToNumber,
		OutputHex:       req.Output,
		Limit:           req.Limit,
		Offset:          req.Offset,
	})
	if err != nil {
		return errors.Wrap(err, "error during GetInscriptions")
	}

	resp := getInscriptionsResponse{
		Result: &getInscriptionsResult{
			List: lo.Map(entries, func(entry *entity.InscriptionEntry, _ int) inscriptionResult {
				return newInscriptionResult(entry)
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

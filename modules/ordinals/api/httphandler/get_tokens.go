package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ordinals-indexer/common"
	"github.com/gaze-network/ordinals-indexer/common/errs"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/datagateway"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/entity"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type GetTokensSortBy string

const (
	GetTokensSortByDeployedAt GetTokensSortBy = "deployedAt"
	GetTokensSortByActivity   GetTokensSortBy = "activity"
)

func (s GetTokensSortBy) IsValid() bool {
	switch s {
	case GetTokensSortByDeployedAt, GetTokensSortByActivity:
		return true
	}
	return false
}

type getTokensRequest struct {
	paginationRequest
	SortBy GetTokensSortBy `query:"sortBy"`
}

func (r getTokensRequest) Validate() error {
	var errList []error
	if r.SortBy != "" && !r.SortBy.IsValid() {
		errList = append(errList, errors.Errorf("sortBy '%s' is not a valid sort order", r.SortBy))
	}
	if err := r.paginationRequest.Validate(); err != nil {
		errList = append(errList, err)
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type tokenResult struct {
	Tick                string  `json:"tick"`
	OriginalTick        string  `json:"originalTick"`
	TotalSupply         string  `json:"totalSupply"`
	Decimals            uint16  `json:"decimals"`
	LimitPerMint        string  `json:"limitPerMint"`
	IsSelfMint          bool    `json:"isSelfMint"`
	DeployInscriptionId string  `json:"deployInscriptionId"`
	DeployerAddress     string  `json:"deployerAddress"`
	DeployedAt          int64   `json:"deployedAt"`
	DeployedAtHeight    uint64  `json:"deployedAtHeight"`
	MintedAmount        string  `json:"mintedAmount"`
	BurnedAmount        string  `json:"burnedAmount"`
	MintableAmount      string  `json:"mintableAmount"`
	CompletedAt         *int64  `json:"completedAt"`
	CompletedAtHeight   *uint64 `json:"completedAtHeight"`
}

func (h *HttpHandler) newTokenResult(entry *entity.TickEntry) tokenResult {
	var completedAt *int64
	var completedAtHeight *uint64
	if entry.CompletedAtHeight != 0 {
		completedAt = lo.ToPtr(entry.CompletedAt.Unix())
		completedAtHeight = lo.ToPtr(entry.CompletedAtHeight)
	}
	return tokenResult{
		Tick:                entry.Tick,
		OriginalTick:        entry.OriginalTick,
		TotalSupply:         formatAmount(entry.TotalSupply, entry.Decimals),
		Decimals:            entry.Decimals,
		LimitPerMint:        formatAmount(entry.LimitPerMint, entry.Decimals),
		IsSelfMint:          entry.IsSelfMint,
		DeployInscriptionId: entry.DeployInscriptionId.String(),
		DeployerAddress:     h.addressFromPkScript(entry.DeployerPkScript),
		DeployedAt:          entry.DeployedAt.Unix(),
		DeployedAtHeight:    entry.DeployedAtHeight,
		MintedAmount:        formatAmount(entry.MintedAmount, entry.Decimals),
		BurnedAmount:        formatAmount(entry.BurnedAmount, entry.Decimals),
		MintableAmount:      formatAmount(entry.MintableAmount(), entry.Decimals),
		CompletedAt:         completedAt,
		CompletedAtHeight:   completedAtHeight,
	}
}

type getTokensResult struct {
	List []tokenResult `json:"list"`
}

type getTokensResponse = common.HttpResponse[getTokensResult]

func (h *HttpHandler) GetTokens(ctx *fiber.Ctx) (err error) {
	var req getTokensRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	if err := req.ParseDefault(); err != nil {
		return errors.WithStack(err)
	}

	entries, err := h.usecase.GetTickEntries(ctx.UserContext(), datagateway.GetTickEntriesParams{
		OrderByActivity: req.SortBy == GetTokensSortByActivity,
		Limit:           req.Limit,
		Offset:          req.Offset,
	})
	if err != nil {
		return errors.Wrap(err, "error during GetTickEntries")
	}

	resp := getTokensResponse{
		Result: &getTokensResult{
			List: lo.Map(entries, func(entry *entity.TickEntry, _ int) tokenResult {
				return h.newTokenResult(entry)
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

package ordinals

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ordinals-indexer/common/errs"
	"github.com/gaze-network/ordinals-indexer/core/datasources"
	"github.com/gaze-network/ordinals-indexer/core/indexer"
	"github.com/gaze-network/ordinals-indexer/core/types"
	"github.com/gaze-network/ordinals-indexer/internal/config"
	"github.com/gaze-network/ordinals-indexer/internal/postgres"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/api/httphandler"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/datagateway"
	ordinalspostgres "github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/repository/postgres"
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/usecase"
	"github.com/gaze-network/ordinals-indexer/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
)

func New(injector do.Injector) (indexer.IndexerWorker, error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[config.Config](injector)

	cleanupFuncs := make([]func(context.Context) error, 0)
	var ordinalsDg datagateway.OrdinalsDataGateway
	var indexerInfoDg datagateway.IndexerInfoDataGateway
	switch strings.ToLower(conf.Modules.Ordinals.Database) {
	case "postgresql", "postgres", "pg":
		pg, err := postgres.NewPool(ctx, conf.Modules.Ordinals.Postgres)
		if err != nil {
			if errors.Is(err, errs.InvalidArgument) {
				return nil, errors.Wrap(err, "Invalid Postgres configuration for indexer")
			}
			return nil, errors.Wrap(err, "can't create Postgres connection pool")
		}
		cleanupFuncs = append(cleanupFuncs, func(ctx context.Context) error {
			pg.Close()
			return nil
		})
		ordinalsRepo := ordinalspostgres.NewRepository(pg)
		ordinalsDg = ordinalsRepo
		indexerInfoDg = ordinalsRepo
	default:
		return nil, errors.Wrapf(errs.Unsupported, "%q database for indexer is not supported", conf.Modules.Ordinals.Database)
	}

	gateway := datasources.NewPushGateway(conf.Modules.Ordinals.Gateway.QueueSize)
	do.ProvideValue(injector, gateway)

	processor := NewProcessor(ordinalsDg, indexerInfoDg, conf.Network, cleanupFuncs)
	if err := processor.VerifyStates(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	// Mount API
	apiHandlers := lo.Uniq(conf.Modules.Ordinals.APIHandlers)
	for _, handler := range apiHandlers {
		switch handler {
		case "http":
			httpServer := do.MustInvoke[*fiber.App](injector)
			uc := usecase.New(ordinalsDg)
			httpHandler := httphandler.New(conf.Network, uc)
			if err := httpHandler.Mount(httpServer); err != nil {
				return nil, errors.Wrap(err, "can't mount API")
			}
			logger.InfoContext(ctx, "Mounted HTTP handler")
		default:
			return nil, errors.Wrapf(errs.Unsupported, "%q API handler is not supported", handler)
		}
	}

	indexer := indexer.New[*types.Block](processor, gateway)
	return indexer, nil
}

package usecase

import (
	"github.com/gaze-network/ordinals-indexer/modules/ordinals/internal/datagateway"
)

type Usecase struct {
	ordinalsDg datagateway.OrdinalsDataGateway
}

func New(ordinalsDg datagateway.OrdinalsDataGateway) *Usecase {
	return &Usecase{
		ordinalsDg: ordinalsDg,
	}
}

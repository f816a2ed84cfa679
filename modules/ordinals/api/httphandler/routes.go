package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/v1")

	r.Get("/inscriptions", h.GetInscriptions)
	r.Get("/inscriptions/:id/transfers", h.GetInscriptionTransfers)
	r.Get("/inscriptions/:id", h.GetInscription)
	r.Get("/transfers", h.GetTransfers)
	r.Get("/brc20/tokens", h.GetTokens)
	r.Get("/brc20/tokens/:tick/holders", h.GetHolders)
	r.Get("/brc20/tokens/:tick", h.GetTokenInfo)
	r.Get("/brc20/balances/:wallet", h.GetBalances)
	r.Get("/brc20/activity", h.GetActivity)
	r.Get("/status", h.GetStatus)
	return nil
}

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/estate-service/internal/api/dto"
	"github.com/spec-kit/estate-service/internal/auth"
	"github.com/spec-kit/estate-service/internal/service"
)

// OffersHandler manages buyer offers.
type OffersHandler struct {
	service *service.OfferService
}

// NewOffersHandler constructs handler.
func NewOffersHandler(offerService *service.OfferService) *OffersHandler {
	return &OffersHandler{service: offerService}
}

// Create POST /offers.
func (h *OffersHandler) Create(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.OfferRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	offer, err := h.service.Create(c.UserContext(), principal, service.OfferInput{
		PropertyID:  req.PropertyID,
		OfferAmount: req.OfferAmount,
		BuyerName:   req.BuyerName,
		BuyingDate:  req.BuyingDate,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(offer)
}

// ListByBuyer GET /offers/buyer/:email.
func (h *OffersHandler) ListByBuyer(c *fiber.Ctx) error {
	offers, err := h.service.ListByBuyer(c.UserContext(), c.Params("email"))
	if err != nil {
		return err
	}
	return c.JSON(offers)
}

// ListByAgent GET /offers/agent/:email.
func (h *OffersHandler) ListByAgent(c *fiber.Ctx) error {
	offers, err := h.service.ListByAgent(c.UserContext(), c.Params("email"))
	if err != nil {
		return err
	}
	return c.JSON(offers)
}

// Accept PATCH /offers/:id/accept.
func (h *OffersHandler) Accept(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	res, err := h.service.Accept(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// Reject PATCH /offers/:id/reject.
func (h *OffersHandler) Reject(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	res, err := h.service.Reject(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

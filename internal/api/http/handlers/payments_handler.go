package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/estate-service/internal/api/dto"
	"github.com/spec-kit/estate-service/internal/auth"
	"github.com/spec-kit/estate-service/internal/service"
)

// PaymentsHandler exposes the two-phase payment flow.
type PaymentsHandler struct {
	service *service.PaymentService
}

// NewPaymentsHandler constructs handler.
func NewPaymentsHandler(paymentService *service.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{service: paymentService}
}

// CreateIntent POST /payments/intent.
func (h *PaymentsHandler) CreateIntent(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.PaymentIntentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	intent, err := h.service.CreateIntent(c.UserContext(), principal, req.OfferID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.PaymentIntentResponse{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		AmountCents:  intent.AmountCents,
		Currency:     intent.Currency,
	})
}

// Record POST /payments.
func (h *PaymentsHandler) Record(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.PaymentRecordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	payment, err := h.service.Record(c.UserContext(), principal, req.IntentID, req.TransactionID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(payment)
}

// ListByBuyer GET /payments/:email.
func (h *PaymentsHandler) ListByBuyer(c *fiber.Ctx) error {
	payments, err := h.service.ListByBuyer(c.UserContext(), c.Params("email"))
	if err != nil {
		return err
	}
	return c.JSON(payments)
}

// ListByAgent GET /payments/agent/:email.
func (h *PaymentsHandler) ListByAgent(c *fiber.Ctx) error {
	payments, err := h.service.ListByAgent(c.UserContext(), c.Params("email"))
	if err != nil {
		return err
	}
	return c.JSON(payments)
}

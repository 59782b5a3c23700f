package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/estate-service/internal/api/dto"
	"github.com/spec-kit/estate-service/internal/auth"
	"github.com/spec-kit/estate-service/internal/service"
)

// ReviewsHandler manages property reviews.
type ReviewsHandler struct {
	service *service.ReviewService
}

// NewReviewsHandler constructs handler.
func NewReviewsHandler(reviewService *service.ReviewService) *ReviewsHandler {
	return &ReviewsHandler{service: reviewService}
}

// List GET /reviews.
func (h *ReviewsHandler) List(c *fiber.Ctx) error {
	reviews, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(reviews)
}

// ListByProperty GET /reviews/:propertyId.
func (h *ReviewsHandler) ListByProperty(c *fiber.Ctx) error {
	reviews, err := h.service.ListByProperty(c.UserContext(), c.Params("propertyId"))
	if err != nil {
		return err
	}
	return c.JSON(reviews)
}

// ListByUser GET /reviews/user/:email.
func (h *ReviewsHandler) ListByUser(c *fiber.Ctx) error {
	reviews, err := h.service.ListByEmail(c.UserContext(), c.Params("email"))
	if err != nil {
		return err
	}
	return c.JSON(reviews)
}

// Create POST /reviews.
func (h *ReviewsHandler) Create(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.ReviewRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	review, err := h.service.Create(c.UserContext(), principal, service.ReviewInput{
		PropertyID:   req.PropertyID,
		ReviewerName: req.ReviewerName,
		Rating:       req.Rating,
		Comment:      req.Comment,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(review)
}

// Delete DELETE /reviews/:id.
func (h *ReviewsHandler) Delete(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	res, err := h.service.Delete(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/estate-service/internal/api/dto"
	"github.com/spec-kit/estate-service/internal/auth"
	"github.com/spec-kit/estate-service/internal/service"
)

// WishlistHandler manages saved properties.
type WishlistHandler struct {
	service *service.WishlistService
}

// NewWishlistHandler constructs handler.
func NewWishlistHandler(wishlistService *service.WishlistService) *WishlistHandler {
	return &WishlistHandler{service: wishlistService}
}

// List GET /wishlist/:email.
func (h *WishlistHandler) List(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext(), c.Params("email"))
	if err != nil {
		return err
	}
	return c.JSON(items)
}

// Add POST /wishlist.
func (h *WishlistHandler) Add(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.WishlistRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	item, err := h.service.Add(c.UserContext(), principal, req.PropertyID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(item)
}

// Remove DELETE /wishlist/:id.
func (h *WishlistHandler) Remove(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	res, err := h.service.Remove(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/estate-service/internal/api/dto"
	"github.com/spec-kit/estate-service/internal/auth"
	"github.com/spec-kit/estate-service/internal/service"
)

// PropertiesHandler manages listing endpoints.
type PropertiesHandler struct {
	service *service.PropertyService
}

// NewPropertiesHandler constructs handler.
func NewPropertiesHandler(propertyService *service.PropertyService) *PropertiesHandler {
	return &PropertiesHandler{service: propertyService}
}

// List GET /properties.
func (h *PropertiesHandler) List(c *fiber.Ctx) error {
	properties, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(properties)
}

// ListVerified GET /properties/verified.
func (h *PropertiesHandler) ListVerified(c *fiber.Ctx) error {
	properties, err := h.service.ListVerified(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(properties)
}

// Get GET /properties/:id.
func (h *PropertiesHandler) Get(c *fiber.Ctx) error {
	property, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(property)
}

// ListByAgent GET /properties/agent/:email.
func (h *PropertiesHandler) ListByAgent(c *fiber.Ctx) error {
	properties, err := h.service.ListByAgent(c.UserContext(), c.Params("email"))
	if err != nil {
		return err
	}
	return c.JSON(properties)
}

// Create POST /properties.
func (h *PropertiesHandler) Create(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.PropertyRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	property, err := h.service.Create(c.UserContext(), principal, propertyInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(property)
}

// Replace PUT /properties/:id.
func (h *PropertiesHandler) Replace(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.PropertyRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := h.service.Replace(c.UserContext(), principal, c.Params("id"), propertyInput(req))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// Patch PATCH /properties/:id.
func (h *PropertiesHandler) Patch(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.PropertyPatchRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := h.service.Patch(c.UserContext(), principal, c.Params("id"), service.PropertyPatch{
		PropertyTitle: req.PropertyTitle,
		Location:      req.Location,
		Image:         req.Image,
		Description:   req.Description,
		MinPrice:      req.MinPrice,
		MaxPrice:      req.MaxPrice,
		AgentName:     req.AgentName,
	})
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// SetStatus PATCH /properties/:id/status.
func (h *PropertiesHandler) SetStatus(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.PropertyStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := h.service.SetStatus(c.UserContext(), principal, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// Delete DELETE /properties/:id.
func (h *PropertiesHandler) Delete(c *fiber.Ctx) error {
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

func propertyInput(req dto.PropertyRequest) service.PropertyInput {
	return service.PropertyInput{
		PropertyTitle: req.PropertyTitle,
		Location:      req.Location,
		Image:         req.Image,
		Description:   req.Description,
		MinPrice:      req.MinPrice,
		MaxPrice:      req.MaxPrice,
		AgentName:     req.AgentName,
	}
}

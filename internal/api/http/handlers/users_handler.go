package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/estate-service/internal/api/dto"
	"github.com/spec-kit/estate-service/internal/docstore"
	"github.com/spec-kit/estate-service/internal/domain"
	"github.com/spec-kit/estate-service/internal/service"
)

// UsersHandler exposes registration, login and user management.
type UsersHandler struct {
	auth  *service.AuthService
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, userService *service.UserService) *UsersHandler {
	return &UsersHandler{auth: authService, users: userService}
}

// Register handles POST /users.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, created, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		return err
	}
	if !created {
		return c.JSON(fiber.Map{"message": "User already exists", "insertedId": nil})
	}
	return c.Status(http.StatusCreated).JSON(docstore.InsertResult{InsertedID: user.ID})
}

// Login handles POST /jwt.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	token, exp, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.AuthResponse{Token: token, ExpiresAt: exp})
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(out)
}

// IsAdmin handles GET /users/admin/:email.
func (h *UsersHandler) IsAdmin(c *fiber.Ctx) error {
	role, err := h.users.Role(c.UserContext(), c.Params("email"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"admin": role == domain.RoleAdmin})
}

// IsAgent handles GET /users/agent/:email.
func (h *UsersHandler) IsAgent(c *fiber.Ctx) error {
	role, err := h.users.Role(c.UserContext(), c.Params("email"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"agent": role == domain.RoleAgent})
}

// Role handles GET /users/role/:email.
func (h *UsersHandler) Role(c *fiber.Ctx) error {
	role, err := h.users.Role(c.UserContext(), c.Params("email"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"role": role})
}

// PromoteAdmin handles PATCH /users/admin/:id.
func (h *UsersHandler) PromoteAdmin(c *fiber.Ctx) error {
	res, err := h.users.PromoteAdmin(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// PromoteAgent handles PATCH /users/agent/:id.
func (h *UsersHandler) PromoteAgent(c *fiber.Ctx) error {
	res, err := h.users.PromoteAgent(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// Delete handles DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	res, err := h.users.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

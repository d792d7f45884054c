package handlers

import (
	"poketeam/internal/middleware"
	"poketeam/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles account removal.
type UserHandler struct {
	service *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterRoutes registers the account routes behind guard.
func (h *UserHandler) RegisterRoutes(router fiber.Router, guard fiber.Handler) {
	router.Delete("/users/:id", guard, h.HandleDeleteUser)
}

// HandleDeleteUser deletes the caller's account with every build and team it owns.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	res, err := h.service.DeleteUser(c.UserContext(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, fiber.StatusOK, res)
}

package handlers

import (
	"poketeam/internal/middleware"
	"poketeam/internal/models"
	"poketeam/internal/services"

	"github.com/gofiber/fiber/v2"
)

// BuildHandler handles HTTP requests for Pokemon builds.
type BuildHandler struct {
	service *services.BuildService
}

// NewBuildHandler creates a new BuildHandler.
func NewBuildHandler(service *services.BuildService) *BuildHandler {
	return &BuildHandler{service: service}
}

// RegisterRoutes registers the build routes behind guard.
func (h *BuildHandler) RegisterRoutes(router fiber.Router, guard fiber.Handler) {
	builds := router.Group("/builds", guard)
	builds.Post("/", h.HandleCreateBuild)
	builds.Get("/", h.HandleGetBuilds)
	builds.Get("/:id", h.HandleGetBuildByID)
	builds.Put("/:id", h.HandleUpdateBuild)
	builds.Delete("/:id", h.HandleDeleteBuild)
}

// HandleCreateBuild creates a build owned by the caller.
func (h *BuildHandler) HandleCreateBuild(c *fiber.Ctx) error {
	var in models.BuildInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidInput)
	}

	build, err := h.service.CreateBuild(c.UserContext(), middleware.UserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, fiber.StatusCreated, build)
}

// HandleGetBuilds lists the caller's builds.
func (h *BuildHandler) HandleGetBuilds(c *fiber.Ctx) error {
	builds, err := h.service.GetAllBuilds(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, fiber.StatusOK, builds)
}

// HandleGetBuildByID returns one of the caller's builds.
func (h *BuildHandler) HandleGetBuildByID(c *fiber.Ctx) error {
	build, err := h.service.GetBuildByID(c.UserContext(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, fiber.StatusOK, build)
}

// HandleUpdateBuild applies a partial update to one of the caller's builds.
func (h *BuildHandler) HandleUpdateBuild(c *fiber.Ctx) error {
	var patch models.BuildPatch
	if err := c.BodyParser(&patch); err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidInput)
	}

	build, err := h.service.UpdateBuild(c.UserContext(), c.Params("id"), middleware.UserID(c), patch)
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, fiber.StatusOK, build)
}

// HandleDeleteBuild deletes one of the caller's builds and pulls it out of
// every team that referenced it.
func (h *BuildHandler) HandleDeleteBuild(c *fiber.Ctx) error {
	if err := h.service.DeleteBuild(c.UserContext(), c.Params("id"), middleware.UserID(c)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Build deleted successfully",
	})
}

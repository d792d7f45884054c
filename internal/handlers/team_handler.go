package handlers

import (
	"poketeam/internal/middleware"
	"poketeam/internal/models"
	"poketeam/internal/services"

	"github.com/gofiber/fiber/v2"
)

// TeamHandler handles HTTP requests for teams and their members.
type TeamHandler struct {
	service *services.TeamService
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(service *services.TeamService) *TeamHandler {
	return &TeamHandler{service: service}
}

// RegisterRoutes registers the team routes behind guard.
func (h *TeamHandler) RegisterRoutes(router fiber.Router, guard fiber.Handler) {
	teams := router.Group("/teams", guard)
	teams.Post("/", h.HandleCreateTeam)
	teams.Get("/", h.HandleGetTeams)
	teams.Get("/:id", h.HandleGetTeamByID)
	teams.Put("/:id", h.HandleUpdateTeam)
	teams.Delete("/:id", h.HandleDeleteTeam)
	teams.Get("/:id/available-builds", h.HandleAvailableBuilds)
	teams.Post("/:id/pokemon/:buildId", h.HandleAddMember)
	teams.Delete("/:id/pokemon/:buildId", h.HandleRemoveMember)
}

// HandleCreateTeam creates a team from builds the caller owns.
func (h *TeamHandler) HandleCreateTeam(c *fiber.Ctx) error {
	var in models.TeamInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidInput)
	}

	team, err := h.service.CreateTeam(c.UserContext(), middleware.UserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, fiber.StatusCreated, team)
}

// HandleGetTeams lists the caller's teams with member summaries.
func (h *TeamHandler) HandleGetTeams(c *fiber.Ctx) error {
	teams, err := h.service.GetAllTeams(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, fiber.StatusOK, teams)
}

// HandleGetTeamByID returns one of the caller's teams.
func (h *TeamHandler) HandleGetTeamByID(c *fiber.Ctx) error {
	team, err := h.service.GetTeam(c.UserContext(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, fiber.StatusOK, team)
}

// HandleUpdateTeam renames a team or replaces its member list.
func (h *TeamHandler) HandleUpdateTeam(c *fiber.Ctx) error {
	var patch models.TeamPatch
	if err := c.BodyParser(&patch); err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidInput)
	}

	team, err := h.service.UpdateTeam(c.UserContext(), c.Params("id"), middleware.UserID(c), patch)
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, fiber.StatusOK, team)
}

// HandleDeleteTeam deletes one of the caller's teams. Builds are untouched.
func (h *TeamHandler) HandleDeleteTeam(c *fiber.Ctx) error {
	if err := h.service.DeleteTeam(c.UserContext(), c.Params("id"), middleware.UserID(c)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Team deleted successfully",
	})
}

// HandleAvailableBuilds lists the caller's builds not yet in the team.
func (h *TeamHandler) HandleAvailableBuilds(c *fiber.Ctx) error {
	builds, err := h.service.AvailableBuilds(c.UserContext(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, fiber.StatusOK, builds)
}

// HandleAddMember appends a build to the team.
func (h *TeamHandler) HandleAddMember(c *fiber.Ctx) error {
	team, err := h.service.AddMember(c.UserContext(), c.Params("id"), middleware.UserID(c), c.Params("buildId"))
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, fiber.StatusOK, team)
}

// HandleRemoveMember drops a build from the team. Removing a build that is not
// a member succeeds without changes.
func (h *TeamHandler) HandleRemoveMember(c *fiber.Ctx) error {
	team, err := h.service.RemoveMember(c.UserContext(), c.Params("id"), middleware.UserID(c), c.Params("buildId"))
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, fiber.StatusOK, team)
}

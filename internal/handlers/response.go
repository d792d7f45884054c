package handlers

import (
	"errors"

	"poketeam/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	msgInvalidInput       = "Invalid input."
	msgMissingCredentials = "Username or Password missing."
	msgBadCredentials     = "Invalid username or password."
	msgDuplicateUsername  = "Username already exists."
	msgDuplicateTeamName  = "Team name already exists."
	msgTooManyMoves       = "A build can have at most 4 moves."
	msgSizeExceeded       = "Teams can have a maximum of 6 Pokemon"
	msgOwnership          = "One or more Pokemon builds do not exist or do not belong to you"
	msgAlreadyMember      = "Pokemon build is already in this team"
	msgBuildNotFound      = "Build not found"
	msgTeamNotFound       = "Team not found"
	msgUserNotFound       = "User not found"
)

func respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}

// writeError renders known domain errors. Anything else is handed to the
// application error handler, which answers 500.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, models.ErrTooManyMoves):
		return fail(c, fiber.StatusBadRequest, msgTooManyMoves)
	case errors.Is(err, models.ErrValidation):
		return fail(c, fiber.StatusBadRequest, msgInvalidInput)
	case errors.Is(err, models.ErrDuplicateUsername):
		return fail(c, fiber.StatusBadRequest, msgDuplicateUsername)
	case errors.Is(err, models.ErrDuplicateTeamName):
		return fail(c, fiber.StatusBadRequest, msgDuplicateTeamName)
	case errors.Is(err, models.ErrUnauthorized):
		return fail(c, fiber.StatusUnauthorized, msgBadCredentials)
	case errors.Is(err, models.ErrSizeExceeded):
		return fail(c, fiber.StatusBadRequest, msgSizeExceeded)
	case errors.Is(err, models.ErrAlreadyMember):
		return fail(c, fiber.StatusBadRequest, msgAlreadyMember)
	case errors.Is(err, models.ErrOwnershipViolation):
		return fail(c, fiber.StatusNotFound, msgOwnership)
	case errors.Is(err, models.ErrBuildNotFound):
		return fail(c, fiber.StatusNotFound, msgBuildNotFound)
	case errors.Is(err, models.ErrTeamNotFound):
		return fail(c, fiber.StatusNotFound, msgTeamNotFound)
	case errors.Is(err, models.ErrUserNotFound):
		return fail(c, fiber.StatusNotFound, msgUserNotFound)
	default:
		return err
	}
}

// ErrorHandler answers errors no handler rendered itself.
func ErrorHandler(log *zap.SugaredLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
		if status >= fiber.StatusInternalServerError {
			log.Errorw("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		}
		return fail(c, status, err.Error())
	}
}

// NotFound answers requests no route matched.
func NotFound(c *fiber.Ctx) error {
	return fail(c, fiber.StatusNotFound, "Route does not exist")
}

package server

import (
	"strconv"

	"kinship/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

// currentUserID returns the authenticated user's id. Only valid behind
// AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	return c.Locals("userID").(uint)
}

// viewerID returns the optional viewer identity: nil for anonymous
// requests. Valid behind OptionalAuth.
func viewerID(c *fiber.Ctx) *uint {
	if v, ok := c.Locals("userID").(uint); ok {
		return &v
	}
	return nil
}

// parseID parses a positive numeric path parameter.
func parseID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("Invalid " + name + " parameter")
	}
	return uint(id), nil
}

// parsePagination reads limit/offset query parameters with sane bounds.
func parsePagination(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", defaultPageSize)
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// statusForCode maps service error codes to HTTP statuses.
func statusForCode(code string) int {
	switch code {
	case models.CodeValidation:
		return fiber.StatusBadRequest
	case models.CodeNotFound:
		return fiber.StatusNotFound
	case models.CodeConflict:
		return fiber.StatusConflict
	case models.CodeForbidden:
		return fiber.StatusForbidden
	case models.CodeUnauthorized:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// fail renders a service error as a JSON error response.
func fail(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, statusForCode(models.ErrorCode(err)), err)
}

package server

import (
	"kinship/internal/models"
	"kinship/internal/service"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) handleGetMe(c *fiber.Ctx) error {
	user, err := s.users.Get(c.UserContext(), currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

func (s *Server) handleUpdateMe(c *fiber.Ctx) error {
	var input service.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.users.UpdateProfile(c.UserContext(), currentUserID(c), input)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

func (s *Server) handleGetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	user, err := s.users.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}

	// Post count is computed against the viewer's entitlements; a
	// closed profile simply reports zero here.
	count, err := s.posts.CountByUser(c.UserContext(), viewerID(c), id)
	if err != nil {
		if models.ErrorCode(err) == models.CodeForbidden {
			count = 0
		} else {
			return fail(c, err)
		}
	}

	return c.JSON(fiber.Map{
		"user":       user.Summary(),
		"bio":        user.Bio,
		"visibility": user.ProfileVisibility,
		"post_count": count,
	})
}

func (s *Server) handleSearchUsers(c *fiber.Ctx) error {
	results, err := s.users.Search(c.UserContext(), c.Query("q"), c.QueryInt("limit", 10))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"users": results})
}

func (s *Server) handleListUserPosts(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	limit, offset := parsePagination(c)

	posts, err := s.posts.ListByUser(c.UserContext(), viewerID(c), id, limit, offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

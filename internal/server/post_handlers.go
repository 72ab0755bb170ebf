package server

import (
	"kinship/internal/models"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) handleCreatePost(c *fiber.Ctx) error {
	var input models.CreatePostInput
	if err := c.BodyParser(&input); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.posts.Create(c.UserContext(), currentUserID(c), input)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (s *Server) handleGetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	post, err := s.posts.Get(c.UserContext(), viewerID(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(post)
}

func (s *Server) handleDeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := s.posts.Delete(c.UserContext(), currentUserID(c), id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleFeed(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	posts, err := s.posts.Feed(c.UserContext(), currentUserID(c), limit, offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

func (s *Server) handleBookmark(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := s.posts.Bookmark(c.UserContext(), currentUserID(c), id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

func (s *Server) handleUnbookmark(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := s.posts.Unbookmark(c.UserContext(), currentUserID(c), id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleListBookmarks(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	posts, err := s.posts.ListBookmarks(c.UserContext(), currentUserID(c), limit, offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

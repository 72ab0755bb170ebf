package server

import (
	"kinship/internal/models"

	"github.com/gofiber/fiber/v2"
)

type addCommentInput struct {
	Content  string `json:"content"`
	ParentID *uint  `json:"parent_id"`
}

func (s *Server) handleAddComment(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var input addCommentInput
	if err := c.BodyParser(&input); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	comment, err := s.engagement.AddComment(c.UserContext(), currentUserID(c), postID, input.ParentID, input.Content)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (s *Server) handleListComments(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	limit, offset := parsePagination(c)

	comments, err := s.engagement.ListComments(c.UserContext(), viewerID(c), postID, limit, offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"comments": comments})
}

func (s *Server) handleDeleteComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := s.engagement.DeleteComment(c.UserContext(), currentUserID(c), id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) like(c *fiber.Ctx, target models.LikeTarget) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	liked, err := s.engagement.ToggleLike(c.UserContext(), currentUserID(c), target, id)
	if err != nil {
		return fail(c, err)
	}
	status := fiber.StatusOK
	if liked {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"liked": liked})
}

func (s *Server) unlike(c *fiber.Ctx, target models.LikeTarget) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := s.engagement.Unlike(c.UserContext(), currentUserID(c), target, id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) listLikers(c *fiber.Ctx, target models.LikeTarget) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	users, total, err := s.engagement.ListLikers(c.UserContext(), viewerID(c), target, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"users": users, "total": total})
}

func (s *Server) handleLikePost(c *fiber.Ctx) error    { return s.like(c, models.TargetPost) }
func (s *Server) handleUnlikePost(c *fiber.Ctx) error  { return s.unlike(c, models.TargetPost) }
func (s *Server) handleListPostLikers(c *fiber.Ctx) error {
	return s.listLikers(c, models.TargetPost)
}

func (s *Server) handleLikeComment(c *fiber.Ctx) error   { return s.like(c, models.TargetComment) }
func (s *Server) handleUnlikeComment(c *fiber.Ctx) error { return s.unlike(c, models.TargetComment) }
func (s *Server) handleListCommentLikers(c *fiber.Ctx) error {
	return s.listLikers(c, models.TargetComment)
}

package server

import (
	"kinship/internal/models"
	"kinship/internal/service"

	"github.com/gofiber/fiber/v2"
)

type sendRequestInput struct {
	ReceiverID uint `json:"receiver_id"`
}

func (s *Server) handleSendRequest(c *fiber.Ctx) error {
	var input sendRequestInput
	if err := c.BodyParser(&input); err != nil || input.ReceiverID == 0 {
		return fail(c, models.NewValidationError("receiver_id is required"))
	}

	result, err := s.graph.SendRequest(c.UserContext(), currentUserID(c), input.ReceiverID)
	if err != nil {
		return fail(c, err)
	}

	status := fiber.StatusCreated
	if result.Status == service.RequestAccepted {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(result)
}

func (s *Server) handleListRequests(c *fiber.Ctx) error {
	reqs, err := s.graph.ListReceivedRequests(c.UserContext(), currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"requests": reqs})
}

func (s *Server) handleListSentRequests(c *fiber.Ctx) error {
	ids, err := s.graph.ListSentRequestIDs(c.UserContext(), currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"receiver_ids": ids})
}

func (s *Server) handleAcceptRequest(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	friendship, err := s.graph.AcceptRequest(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"friendship": friendship})
}

func (s *Server) handleRejectRequest(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := s.graph.RejectRequest(c.UserContext(), id, currentUserID(c)); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleCancelRequest(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := s.graph.CancelRequest(c.UserContext(), id, currentUserID(c)); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleListFriends(c *fiber.Ctx) error {
	friends, err := s.graph.ListFriends(c.UserContext(), currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"friends": friends})
}

func (s *Server) handleRemoveFriend(c *fiber.Ctx) error {
	friendID, err := parseID(c, "userId")
	if err != nil {
		return fail(c, err)
	}

	if err := s.graph.RemoveFriend(c.UserContext(), currentUserID(c), friendID); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleRecommendations(c *fiber.Ctx) error {
	recs, err := s.graph.Recommend(c.UserContext(), currentUserID(c), c.QueryInt("limit", 0))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"recommendations": recs})
}

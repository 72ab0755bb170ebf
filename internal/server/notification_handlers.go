package server

import "github.com/gofiber/fiber/v2"

func (s *Server) handleListNotifications(c *fiber.Ctx) error {
	list, err := s.notifications.List(c.UserContext(), currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"notifications": list})
}

func (s *Server) handleUnreadCount(c *fiber.Ctx) error {
	count, err := s.notifications.UnreadCount(c.UserContext(), currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

func (s *Server) handleMarkRead(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := s.notifications.MarkRead(c.UserContext(), id, currentUserID(c)); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleMarkAllRead(c *fiber.Ctx) error {
	changed, err := s.notifications.MarkAllRead(c.UserContext(), currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"updated": changed})
}

func (s *Server) handleDeleteAllNotifications(c *fiber.Ctx) error {
	removed, err := s.notifications.DeleteAll(c.UserContext(), currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"deleted": removed})
}

func (s *Server) handleDeleteNotification(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := s.notifications.Delete(c.UserContext(), id, currentUserID(c)); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

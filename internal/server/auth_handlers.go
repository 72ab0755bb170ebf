package server

import (
	"kinship/internal/models"
	"kinship/internal/service"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) handleRegister(c *fiber.Ctx) error {
	var input service.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	user, token, err := s.users.Register(c.UserContext(), input)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var input service.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	user, token, err := s.users.Login(c.UserContext(), input)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}

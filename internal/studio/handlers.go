package studio

import (
	"github.com/gofiber/fiber/v2"
)

func (s *Server) handleIndex(c *fiber.Ctx) error {
	return c.Render("templates/index", fiber.Map{
		"Title":  "qsynth studio",
		"Seed":   s.service.Seed(),
		"Models": s.service.Models(),
	})
}

func (s *Server) handleGetModels(c *fiber.Ctx) error {
	return c.JSON(Response{Success: true, Data: s.service.Models()})
}

func (s *Server) handleGetTable(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", DefaultLimit)
	if limit < 1 {
		return jsonError(c, fiber.StatusBadRequest, "limit must be a positive integer")
	}

	data, err := s.service.Table(c.Params("model"), c.Params("schema"), limit)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, err.Error())
	}
	return c.JSON(Response{Success: true, Data: data})
}

func (s *Server) handleGetPlan(c *fiber.Ctx) error {
	return c.JSON(Response{Success: true, Data: s.service.Plan()})
}

func (s *Server) handleRegenerate(c *fiber.Ctx) error {
	var req RegenerateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return jsonError(c, fiber.StatusBadRequest, "Invalid request")
		}
	}

	var seed int64
	if req.Seed != nil {
		seed = *req.Seed
	}
	used, err := s.service.Regenerate(c.UserContext(), seed)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(Response{Success: true, Message: "Models regenerated", Data: fiber.Map{"seed": used}})
}

func jsonError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Response{Success: false, Message: message})
}

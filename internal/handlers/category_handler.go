package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yagontorron/needitv1/internal/dto"
	"github.com/yagontorron/needitv1/internal/services"
)

type CategoryHandler struct {
	needs *services.NeedsService
}

func NewCategoryHandler(needs *services.NeedsService) *CategoryHandler {
	return &CategoryHandler{needs: needs}
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	return c.JSON(dto.CategoriesResponse{Categories: h.needs.Categories()})
}

package handler

import "github.com/gofiber/fiber/v2"

// ListServices godoc
// @Summary List bookable services
// @Tags catalog
// @Produce json
// @Success 200 {array} model.Service
// @Router /api/v1/services [get]
func (h *Handler) ListServices(c *fiber.Ctx) error {
	res, err := h.catalog.ListServices(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(res)
}

// ListCategories godoc
// @Summary List service categories
// @Tags catalog
// @Produce json
// @Success 200 {array} model.ServiceCategory
// @Router /api/v1/categories [get]
func (h *Handler) ListCategories(c *fiber.Ctx) error {
	res, err := h.catalog.ListCategories(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(res)
}

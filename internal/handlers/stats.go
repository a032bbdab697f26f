package handlers

import (
	"github.com/clubhub/backend/internal/services"
	"github.com/clubhub/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type StatsHandler struct {
	Service *services.StatsService
}

func NewStatsHandler(db *gorm.DB) *StatsHandler {
	return &StatsHandler{Service: services.NewStatsService(db)}
}

// Get returns the admin statistics aggregate. Routed behind AdminOnly.
func (h *StatsHandler) Get(c *fiber.Ctx) error {
	return utils.Success(c, fiber.StatusOK, h.Service.Compute(c.Context()))
}

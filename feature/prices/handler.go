package prices

import (
	"errors"

	"collection-merge/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for price synchronisation.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the price routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/prices")
	group.Post("/plan", h.HandlePlan)
	group.Post("/apply", h.HandleApply)
}

// HandlePlan plans price updates without applying them.
// @Summary Plan Price Updates
// @Description Matches owned items against the reference sheet and returns the planned price updates. The merged price sheet is written to the output target.
// @Tags prices
// @Produce json
// @Success 200 {object} Plan "Price Plan"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /prices/plan [post]
func (h *Handler) HandlePlan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	plan, err := h.service.Plan(c.UserContext())
	if err != nil {
		l.Error("Price plan failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(plan)
}

// HandleApply plans and applies price updates.
// @Summary Apply Price Updates
// @Description Plans and writes price updates to the database. Requires confirm=true unless dry_run=true.
// @Tags prices
// @Produce json
// @Param confirm query boolean false "Confirm the database updates"
// @Param dry_run query boolean false "Plan only"
// @Success 200 {object} map[string]interface{} "Apply Result"
// @Failure 400 {object} map[string]string "Not Confirmed"
// @Failure 503 {object} map[string]string "No Database"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /prices/apply [post]
func (h *Handler) HandleApply(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	opts := ApplyOptions{
		Confirmed: c.QueryBool("confirm"),
		DryRun:    c.QueryBool("dry_run"),
	}

	plan, executed, err := h.service.Run(c.UserContext(), opts)
	switch {
	case errors.Is(err, ErrNotConfirmed):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrNoDatabase):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		l.Error("Price apply failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":    err.Error(),
			"executed": executed,
		})
	}

	return c.JSON(fiber.Map{
		"summary":  plan.Summary,
		"executed": executed,
		"dry_run":  opts.DryRun,
	})
}

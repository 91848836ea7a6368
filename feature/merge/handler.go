package merge

import (
	"errors"

	"collection-merge/core/logger"
	"collection-merge/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for merges.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the merge routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/merge")
	group.Post("/", h.HandleMergePayload)
	group.Post("/run", h.HandleRun)
	group.Get("/report", h.HandleReport)
	group.Post("/lookup", h.HandleLookup)
	group.Post("/refresh", h.HandleRefresh)
	group.Get("/outputs", h.HandleOutputs)
}

type runRequest struct {
	Strategy  string  `json:"strategy" query:"strategy"`
	Threshold float64 `json:"threshold" query:"threshold"`
	Dump      bool    `json:"dump" query:"dump"`
}

type lookupRequest struct {
	Strategy string         `json:"strategy"`
	Item     reconcile.Item `json:"item"`
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

// HandleRun runs a merge over the configured sources.
// @Summary Run Merge
// @Description Loads the primary and reference sets, merges them and writes merged.json and merge_report.json to the output target.
// @Tags merge
// @Accept json
// @Produce json
// @Param strategy query string false "name or identifier"
// @Param threshold query number false "Fuzzy threshold override"
// @Param dump query boolean false "Also write the loaded sets"
// @Success 200 {object} reconcile.Report "Merge Report"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /merge/run [post]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req runRequest
	if err := c.QueryParser(&req); err != nil {
		return badRequest(c, err)
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err)
		}
	}
	strategy, err := parseOptionalStrategy(req.Strategy)
	if err != nil {
		return badRequest(c, err)
	}

	l.Info("Triggering merge run", zap.String("strategy", string(strategy)), zap.Bool("dump", req.Dump))
	result, err := h.service.Run(c.UserContext(), RunOptions{
		Strategy:  strategy,
		Threshold: req.Threshold,
		Dump:      req.Dump,
	})
	if err != nil {
		l.Error("Merge run failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result.Report)
}

// HandleReport returns the report of the last run.
// @Summary Last Merge Report
// @Tags merge
// @Produce json
// @Success 200 {object} reconcile.Report "Merge Report"
// @Failure 404 {object} map[string]string "No Run Yet"
// @Router /merge/report [get]
func (h *Handler) HandleReport(c *fiber.Ctx) error {
	result, err := h.service.Last()
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result.Report)
}

// HandleMergePayload merges the sets in the request body.
// @Summary Merge Payload
// @Description Merges items and rows supplied in the request. Nothing is written to the output target.
// @Tags merge
// @Accept json
// @Produce json
// @Param payload body Payload true "Sets to merge"
// @Success 200 {object} Result "Merge Result"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /merge [post]
func (h *Handler) HandleMergePayload(c *fiber.Ctx) error {
	var p Payload
	if err := c.BodyParser(&p); err != nil {
		return badRequest(c, err)
	}
	result, err := h.service.MergePayload(p)
	if err != nil {
		return badRequest(c, err)
	}
	return c.JSON(result)
}

// HandleLookup matches one item against the reference set.
// @Summary Lookup Item
// @Tags merge
// @Accept json
// @Produce json
// @Param request body lookupRequest true "Item to match"
// @Success 200 {object} reconcile.MatchRecord "Match Record"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /merge/lookup [post]
func (h *Handler) HandleLookup(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req lookupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	strategy, err := parseOptionalStrategy(req.Strategy)
	if err != nil {
		return badRequest(c, err)
	}

	rec, err := h.service.Lookup(c.UserContext(), strategy, req.Item)
	if errors.Is(err, reconcile.ErrUnknownStrategy) {
		return badRequest(c, err)
	}
	if err != nil {
		l.Error("Lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rec)
}

// HandleRefresh drops cached indices.
// @Summary Refresh Lookup Indices
// @Tags merge
// @Success 204
// @Router /merge/refresh [post]
func (h *Handler) HandleRefresh(c *fiber.Ctx) error {
	h.service.Refresh()
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleOutputs lists the files in the output target.
// @Summary List Outputs
// @Tags merge
// @Produce json
// @Success 200 {object} map[string]interface{} "Output Files"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /merge/outputs [get]
func (h *Handler) HandleOutputs(c *fiber.Ctx) error {
	names, err := h.service.Outputs(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"files": names})
}

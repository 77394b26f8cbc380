package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pullquest/backend/internal/models"
	"github.com/pullquest/backend/internal/service"
)

// StakeHandler wires HTTP → StakeService.
type StakeHandler struct {
	svc service.StakeService
}

// NewStakeHandler creates a new StakeHandler.
func NewStakeHandler(svc service.StakeService) *StakeHandler {
	return &StakeHandler{svc: svc}
}

// Register mounts the stake routes on the supplied router group.
func (h *StakeHandler) Register(r fiber.Router) {
	r.Post("/stakes", h.createStake)
	r.Patch("/stakes/:id/status", h.updateStatus)
	r.Get("/users/:id/stakes", h.listUserStakes)
}

// createStake handles POST /stakes
func (h *StakeHandler) createStake(c *fiber.Ctx) error {
	var req models.CreateStakeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	stake, err := h.svc.CreateStake(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(stake)
}

// updateStatus handles PATCH /stakes/:id/status, the maintainer settlement path.
func (h *StakeHandler) updateStatus(c *fiber.Ctx) error {
	stakeID := c.Params("id")

	var req models.UpdateStakeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	stake, err := h.svc.SettleExplicit(c.UserContext(), stakeID, req.Status, req.XPEarned, req.CoinsEarned)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(stake)
}

// listUserStakes handles GET /users/:id/stakes
func (h *StakeHandler) listUserStakes(c *fiber.Ctx) error {
	stakes, err := h.svc.ListUserStakes(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(stakes)
}

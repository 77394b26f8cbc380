package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pullquest/backend/internal/models"
	"github.com/pullquest/backend/internal/service"
)

// ContributorHandler wires HTTP → ContributorService.
type ContributorHandler struct {
	svc service.ContributorService
}

// NewContributorHandler creates a ContributorHandler instance.
func NewContributorHandler(svc service.ContributorService) *ContributorHandler {
	return &ContributorHandler{svc: svc}
}

// Register mounts the contributor routes on the given router group.
func (h *ContributorHandler) Register(r fiber.Router) {
	r.Post("/contributors/analyze", h.analyze)
	r.Post("/contributors/issues", h.suggestedIssues)
}

// analyze handles POST /contributors/analyze. ?refresh=true bypasses the
// 24-hour cache.
func (h *ContributorHandler) analyze(c *fiber.Ctx) error {
	var req models.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	force := c.QueryBool("refresh")
	analysis, err := h.svc.AnalyzeRepositories(c.UserContext(), req.UserID, req.GithubUsername, force)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(analysis)
}

// suggestedIssues handles POST /contributors/issues. ?refresh=true bypasses
// the 4-hour cache.
func (h *ContributorHandler) suggestedIssues(c *fiber.Ctx) error {
	var req models.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	force := c.QueryBool("refresh")
	suggestions, err := h.svc.SuggestedIssues(c.UserContext(), req.UserID, req.GithubUsername, force)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(suggestions)
}

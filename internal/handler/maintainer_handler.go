package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pullquest/backend/internal/service"
)

// MaintainerHandler wires HTTP → MaintainerService.
type MaintainerHandler struct {
	svc service.MaintainerService
}

// NewMaintainerHandler creates a MaintainerHandler instance.
func NewMaintainerHandler(svc service.MaintainerService) *MaintainerHandler {
	return &MaintainerHandler{svc: svc}
}

// Register mounts the maintainer routes on the given router group.
func (h *MaintainerHandler) Register(r fiber.Router) {
	r.Get("/maintainers/repos/:owner/:repo/issues", h.repoIssues)
}

// repoIssues handles GET /maintainers/repos/:owner/:repo/issues. Supports
// ?state=open|closed|all and ?per_page=n.
func (h *MaintainerHandler) repoIssues(c *fiber.Ctx) error {
	issues, err := h.svc.RepoIssues(c.UserContext(),
		c.Params("owner"), c.Params("repo"),
		c.Query("state"), c.QueryInt("per_page"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(issues)
}

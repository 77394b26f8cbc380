package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pullquest/backend/internal/service"
)

// RegisterRoutes mounts the API surface. limit is the per-user rate
// limiter and covers every user-facing route; webhook deliveries come
// from GitHub, which does not retry a 429, so /webhooks stays outside it.
func RegisterRoutes(app *fiber.App,
	stakeSvc service.StakeService,
	contributorSvc service.ContributorService,
	maintainerSvc service.MaintainerService,
	limit fiber.Handler,
) {

	v1 := app.Group("/api/v1")
	v1.Use("/stakes", limit)
	v1.Use("/users", limit)
	v1.Use("/contributors", limit)
	v1.Use("/maintainers", limit)

	NewStakeHandler(stakeSvc).Register(v1)
	NewContributorHandler(contributorSvc).Register(v1)
	NewMaintainerHandler(maintainerSvc).Register(v1)
	NewWebhookHandler(stakeSvc).Register(v1)
}

package handler

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/pullquest/backend/internal/models"
	"github.com/pullquest/backend/internal/service"
)

// WebhookHandler receives GitHub webhook deliveries and feeds pull_request
// events into the stake lifecycle.
type WebhookHandler struct {
	svc service.StakeService
}

// NewWebhookHandler creates a WebhookHandler instance.
func NewWebhookHandler(svc service.StakeService) *WebhookHandler {
	return &WebhookHandler{svc: svc}
}

// Register mounts POST /webhooks/github on the given router group.
func (h *WebhookHandler) Register(r fiber.Router) {
	r.Post("/webhooks/github", h.handleDelivery)
}

// handleDelivery handles POST /webhooks/github. Only pull_request events
// with actions closed/reopened matter; everything else is acknowledged and
// dropped so GitHub does not retry.
func (h *WebhookHandler) handleDelivery(c *fiber.Ctx) error {
	if c.Get("X-GitHub-Event") != "pull_request" {
		return c.SendString("ignored")
	}

	var event models.PullRequestEvent
	if err := c.BodyParser(&event); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid webhook payload")
	}

	if event.Action != "closed" && event.Action != "reopened" {
		return c.SendString("ignored")
	}

	err := h.svc.SettleByWebhook(c.UserContext(), event.PullRequest.HTMLURL, event.PullRequest.Merged, event.Action)
	if err != nil {
		log.Printf("[Webhook] settlement failed for %s: %v", event.PullRequest.HTMLURL, err)
		return respondError(c, err)
	}

	return c.SendString("webhook processed")
}

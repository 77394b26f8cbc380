package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/pullquest/backend/internal/models"
)

// recordingStakeService captures webhook settlements.
type recordingStakeService struct {
	prURL  string
	merged bool
	action string
	calls  int
}

func (r *recordingStakeService) CreateStake(context.Context, models.CreateStakeRequest) (models.Stake, error) {
	return models.Stake{}, nil
}

func (r *recordingStakeService) SettleByWebhook(_ context.Context, prURL string, merged bool, action string) error {
	r.prURL, r.merged, r.action = prURL, merged, action
	r.calls++
	return nil
}

func (r *recordingStakeService) SettleExplicit(context.Context, string, models.StakeStatus, int, int) (models.Stake, error) {
	return models.Stake{}, nil
}

func (r *recordingStakeService) ListUserStakes(context.Context, string) ([]models.Stake, error) {
	return nil, nil
}

func TestWebhookDelivery(t *testing.T) {
	svc := &recordingStakeService{}
	app := fiber.New()
	NewWebhookHandler(svc).Register(app)

	body := `{"action":"closed","pull_request":{"html_url":"https://github.com/octo/repo/pull/1","merged":true}}`

	// Non pull_request events are acknowledged and dropped.
	req := httptest.NewRequest("POST", "/webhooks/github", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", "issues")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK || svc.calls != 0 {
		t.Errorf("non-pr event: status %d, %d settlements", resp.StatusCode, svc.calls)
	}

	// pull_request closed reaches the lifecycle manager.
	req = httptest.NewRequest("POST", "/webhooks/github", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", "pull_request")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if svc.calls != 1 || !svc.merged || svc.action != "closed" || svc.prURL != "https://github.com/octo/repo/pull/1" {
		t.Errorf("settlement not forwarded: %+v", svc)
	}

	// Unsubscribed actions are dropped.
	opened := strings.Replace(body, "closed", "opened", 1)
	req = httptest.NewRequest("POST", "/webhooks/github", strings.NewReader(opened))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", "pull_request")
	if _, err := app.Test(req); err != nil {
		t.Fatal(err)
	}
	if svc.calls != 1 {
		t.Errorf("unsubscribed action settled: %d calls", svc.calls)
	}
}

package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"weatherwork/app/client/weather"
	"weatherwork/app/client/workspace"
	"weatherwork/app/config"
	"weatherwork/app/service/dialog"
	"weatherwork/app/service/events"
	"weatherwork/app/service/state"

	"github.com/samber/do"
)

const webhookSecret = "whsecret"

func newTestService(t *testing.T) *Service {
	t.Helper()

	di := do.New()
	t.Cleanup(func() { _ = di.Shutdown() })

	var ctx context.Context = context.Background()
	do.ProvideValue(di, ctx)

	do.ProvideValue(di, &config.Config{
		App: config.App{
			ID:            "app-1",
			Secret:        "app-secret",
			WebhookSecret: webhookSecret,
		},
		Weather: config.Weather{User: "u", Password: "p"},
		Store:   config.Store{URI: "state"},
		Server:  config.Server{Port: "0"},
	})

	do.Provide(di, workspace.NewClient)
	do.Provide(di, weather.NewClient)
	do.Provide(di, events.New)
	do.Provide(di, state.New)
	do.Provide(di, dialog.New)
	do.Provide(di, New)

	return do.MustInvoke[*Service](di)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	svc := newTestService(t)

	req := httptest.NewRequest("POST", "/weather",
		strings.NewReader(`{"type":"verification","challenge":"tok"}`))
	req.Header.Set(signatureHeader, "not-the-signature")

	res, err := svc.app.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if res.StatusCode != 401 {
		t.Errorf("expected 401, got %d", res.StatusCode)
	}
}

func TestWebhookAnswersChallenge(t *testing.T) {
	svc := newTestService(t)

	body := `{"type":"verification","challenge":"tok"}`
	req := httptest.NewRequest("POST", "/weather", strings.NewReader(body))
	req.Header.Set(signatureHeader, Sign(webhookSecret, []byte(body)))

	res, err := svc.app.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if res.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	resBody, _ := io.ReadAll(res.Body)

	var echoed struct {
		Response string `json:"response"`
	}
	if err = json.Unmarshal(resBody, &echoed); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if echoed.Response != "tok" {
		t.Errorf("expected the challenge echoed back, got %q", echoed.Response)
	}

	// the echo is signed over the exact response body
	if got := res.Header.Get(signatureHeader); got != Sign(webhookSecret, resBody) {
		t.Errorf("bad response signature %q", got)
	}
}

func TestWebhookAcknowledgesAnnotationEvents(t *testing.T) {
	svc := newTestService(t)

	body := `{"type":"message-annotation-added","annotationType":"message-moment"}`
	req := httptest.NewRequest("POST", "/weather", strings.NewReader(body))
	req.Header.Set(signatureHeader, Sign(webhookSecret, []byte(body)))

	res, err := svc.app.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if res.StatusCode != 201 {
		t.Errorf("expected 201, got %d", res.StatusCode)
	}
}

func TestWebhookIgnoresUnknownEventTypes(t *testing.T) {
	svc := newTestService(t)

	body := `{"type":"space-updated"}`
	req := httptest.NewRequest("POST", "/weather", strings.NewReader(body))
	req.Header.Set(signatureHeader, Sign(webhookSecret, []byte(body)))

	res, err := svc.app.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if res.StatusCode != 200 {
		t.Errorf("expected 200, got %d", res.StatusCode)
	}

	resBody, _ := io.ReadAll(res.Body)
	if len(resBody) != 0 {
		t.Errorf("expected an empty body, got %q", resBody)
	}
}

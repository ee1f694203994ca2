package webhook

import (
	"context"
	"encoding/json"

	"log/slog"

	"weatherwork/app/config"
	"weatherwork/app/service/dialog"
	"weatherwork/app/service/events"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/do"
)

const signatureHeader = "X-OUTBOUND-TOKEN"

type Service struct {
	cfg       *config.Config
	appCtx    context.Context
	eventsSvc *events.Service
	dialogSvc *dialog.Service

	app *fiber.App
}

func New(di *do.Injector) (*Service, error) {
	s := &Service{
		cfg:       do.MustInvoke[*config.Config](di),
		appCtx:    do.MustInvoke[context.Context](di),
		eventsSvc: do.MustInvoke[*events.Service](di),
		dialogSvc: do.MustInvoke[*dialog.Service](di),
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	s.app.Post("/weather", s.handleWebhook)

	return s, nil
}

// Run serves the webhook until ctx is cancelled. With a port configured
// the server expects a TLS-terminating reverse proxy in front of it,
// otherwise it serves HTTPS directly off the configured cert and key.
func (s *Service) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()

		if err := s.app.Shutdown(); err != nil {
			slog.Error("Failed to shut down webhook server", "error", err)
		}
	}()

	if s.cfg.Server.Port != "" {
		slog.Info("HTTP server listening", "port", s.cfg.Server.Port)
		return s.app.Listen(":" + s.cfg.Server.Port)
	}

	slog.Info("HTTPS server listening", "port", s.cfg.Server.SSLPort)

	return s.app.ListenTLS(":"+s.cfg.Server.SSLPort,
		s.cfg.Server.SSLCert, s.cfg.Server.SSLKey)
}

// handleWebhook acknowledges the delivery right away; any reply messages
// are sent asynchronously afterwards.
func (s *Service) handleWebhook(c *fiber.Ctx) error {
	body := c.Body()

	if !Verify(s.cfg.App.WebhookSecret, body, c.Get(signatureHeader)) {
		slog.Warn("Rejecting webhook delivery with a bad signature")
		return c.Status(fiber.StatusUnauthorized).Send(nil)
	}

	var evt events.Envelope
	if err := json.Unmarshal(body, &evt); err != nil {
		slog.Debug("Ignoring unparseable webhook body", "error", err)
		return c.Status(fiber.StatusOK).Send(nil)
	}

	switch evt.Type {
	case events.TypeVerification:
		return s.handleChallenge(c, evt)

	case events.TypeAnnotationAdded:
		go s.process(evt)
		return c.Status(fiber.StatusCreated).Send(nil)

	default:
		// explicit ignore, the platform delivers many event shapes
		return c.Status(fiber.StatusOK).Send(nil)
	}
}

// handleChallenge echoes the challenge token back, signed the same way
// the platform signs deliveries, to confirm the webhook endpoint.
func (s *Service) handleChallenge(c *fiber.Ctx, evt events.Envelope) error {
	response, err := json.Marshal(fiber.Map{
		"response": evt.Challenge,
	})
	if err != nil {
		return err
	}

	c.Set(signatureHeader, Sign(s.cfg.App.WebhookSecret, response))
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	return c.Send(response)
}

func (s *Service) process(evt events.Envelope) {
	classified := s.eventsSvc.Classify(s.appCtx, evt)
	if classified == nil {
		return
	}

	if err := s.dialogSvc.HandleEvent(s.appCtx, evt.SpaceID, classified); err != nil {
		slog.Error("Failed to handle event",
			"space_id", evt.SpaceID,
			"message_id", evt.MessageID,
			"error", err,
			"telegram", true)
	}
}

package dialog

import (
	"context"
	"encoding/json"
	"fmt"

	"log/slog"

	"weatherwork/app/client/weather"
	"weatherwork/app/client/workspace"
	"weatherwork/app/config"
	"weatherwork/app/service/events"
	"weatherwork/app/service/state"

	"github.com/samber/do"
)

// Sender posts a rendered reply to the conversation in a space.
type Sender interface {
	Send(ctx context.Context, spaceID, title, text, actor string) error
}

type Service struct {
	cfg        *config.Config
	stateSvc   *state.Service
	sender     Sender
	forecaster Forecaster
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg:        do.MustInvoke[*config.Config](di),
		stateSvc:   do.MustInvoke[*state.Service](di),
		sender:     do.MustInvoke[*workspace.Client](di),
		forecaster: do.MustInvoke[*weather.Client](di),
	}, nil
}

// HandleEvent runs one classified event through the action state machine
// under the per-(space,user) state lock and sends whatever replies the
// transition produced. A reply that fails to send is logged and dropped,
// never retried.
func (s *Service) HandleEvent(ctx context.Context, spaceID string, ev *events.ClassifiedEvent) error {
	return s.stateSvc.Run(ctx, spaceID, ev.User.ID, func(raw []byte) ([]byte, error) {
		var st State

		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &st); err != nil {
				slog.Warn("Discarding unreadable action state",
					"space_id", spaceID,
					"user_id", ev.User.ID,
					"error", err)
				st = State{}
			}
		}

		next, intents := Transition(ctx, st, *ev, s.forecaster)

		for _, intent := range intents {
			reply := Format(intent, ev.User)

			if err := s.sender.Send(ctx, spaceID, reply.Title, reply.Text, reply.Actor); err != nil {
				slog.Error("Failed to send reply",
					"space_id", spaceID,
					"user_id", ev.User.ID,
					"error", err,
					"telegram", true)
				continue
			}

			slog.Info("Replied to message",
				"space_id", spaceID,
				"user_id", ev.User.ID,
				"text", reply.Text)
		}

		encoded, err := json.Marshal(next)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal action state: %w", err)
		}

		return encoded, nil
	})
}

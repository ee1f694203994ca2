package events

import (
	"context"
	"encoding/json"

	"log/slog"

	"weatherwork/app/client/workspace"
	"weatherwork/app/config"

	"github.com/samber/do"
)

// MessageFetcher resolves the message an annotation event refers to.
type MessageFetcher interface {
	Message(ctx context.Context, messageID string) (*workspace.Message, error)
}

type Service struct {
	cfg      *config.Config
	messages MessageFetcher
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg:      do.MustInvoke[*config.Config](di),
		messages: do.MustInvoke[*workspace.Client](di),
	}, nil
}

// Classify inspects a webhook event envelope and returns the typed event
// the dialogue needs to react to, or nil when the event is irrelevant to
// this app. The platform delivers many event shapes; anything that cannot
// be understood is ignored, never an error.
func (s *Service) Classify(ctx context.Context, evt Envelope) *ClassifiedEvent {
	if evt.Type != TypeAnnotationAdded {
		return nil
	}

	switch evt.AnnotationType {
	case annotationFocus:
		return s.classifyFocus(ctx, evt)
	case annotationEntities:
		return s.classifyEntities(ctx, evt)
	default:
		return nil
	}
}

func (s *Service) classifyFocus(ctx context.Context, evt Envelope) *ClassifiedEvent {
	var focus focusPayload
	if err := json.Unmarshal([]byte(evt.AnnotationPayload), &focus); err != nil {
		slog.Debug("Ignoring malformed focus payload", "error", err)
		return nil
	}

	// only act on focus annotations produced for this app
	if focus.ApplicationID != s.cfg.App.ID {
		return nil
	}

	if len(focus.Actions) > 0 {
		return s.resolve(ctx, evt, &ClassifiedEvent{
			Kind:     KindActionRequested,
			Action:   focus.Actions[0],
			Entities: focus.ExtractedInfo.Entities,
		})
	}

	if len(focus.Payload.NextSteps) > 0 {
		return s.resolve(ctx, evt, &ClassifiedEvent{
			Kind: KindActionNextStep,
			Step: focus.Payload.NextSteps[0],
		})
	}

	return nil
}

func (s *Service) classifyEntities(ctx context.Context, evt Envelope) *ClassifiedEvent {
	var nlp nlpPayload
	if err := json.Unmarshal([]byte(evt.AnnotationPayload), &nlp); err != nil {
		slog.Debug("Ignoring malformed entities payload", "error", err)
		return nil
	}

	if len(nlp.Entities) == 0 {
		return nil
	}

	return s.resolve(ctx, evt, &ClassifiedEvent{
		Kind:     KindEntitiesRecognized,
		Entities: nlp.Entities,
	})
}

// resolve attaches the annotated message and its author to a classified
// event. Events on messages the app cannot see, and messages authored by
// the app itself, resolve to nothing.
func (s *Service) resolve(ctx context.Context, evt Envelope, classified *ClassifiedEvent) *ClassifiedEvent {
	message, err := s.messages.Message(ctx, evt.MessageID)
	if err != nil {
		slog.Warn("Failed to get annotated message",
			"message_id", evt.MessageID,
			"error", err)
		return nil
	}

	if message == nil {
		return nil
	}

	if message.CreatedBy.ID == s.cfg.App.ID {
		return nil
	}

	classified.Message = *message
	classified.User = message.CreatedBy

	return classified
}

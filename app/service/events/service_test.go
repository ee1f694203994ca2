package events

import (
	"context"
	"errors"
	"testing"

	"weatherwork/app/client/workspace"
	"weatherwork/app/config"
)

const appID = "app-1"

type fakeFetcher struct {
	message *workspace.Message
	err     error
}

func (f *fakeFetcher) Message(_ context.Context, _ string) (*workspace.Message, error) {
	return f.message, f.err
}

func newTestService(fetcher MessageFetcher) *Service {
	return &Service{
		cfg: &config.Config{
			App: config.App{ID: appID},
		},
		messages: fetcher,
	}
}

func userMessage(id string) *workspace.Message {
	return &workspace.Message{
		ID:        id,
		Content:   "what's the weather like in Seattle?",
		CreatedBy: workspace.User{ID: "user-1", DisplayName: "Jane"},
	}
}

func TestClassifyActionRequested(t *testing.T) {
	svc := newTestService(&fakeFetcher{message: userMessage("msg-1")})

	classified := svc.Classify(context.Background(), Envelope{
		Type:           TypeAnnotationAdded,
		SpaceID:        "space-1",
		MessageID:      "msg-1",
		AnnotationType: "message-focus",
		AnnotationPayload: `{
			"applicationId": "app-1",
			"actions": ["Get_Weather_Conditions"],
			"extractedInfo": {"entities": [{"type": "City", "text": "Seattle"}]}
		}`,
	})

	if classified == nil {
		t.Fatal("expected a classified event")
	}
	if classified.Kind != KindActionRequested {
		t.Errorf("expected KindActionRequested, got %v", classified.Kind)
	}
	if classified.Action != "Get_Weather_Conditions" {
		t.Errorf("unexpected action %q", classified.Action)
	}
	if len(classified.Entities) != 1 || classified.Entities[0].Text != "Seattle" {
		t.Errorf("unexpected entities %+v", classified.Entities)
	}
	if classified.Message.ID != "msg-1" || classified.User.ID != "user-1" {
		t.Errorf("unexpected message/user %+v %+v", classified.Message, classified.User)
	}
}

func TestClassifyActionNextStep(t *testing.T) {
	svc := newTestService(&fakeFetcher{message: userMessage("msg-2")})

	classified := svc.Classify(context.Background(), Envelope{
		Type:           TypeAnnotationAdded,
		MessageID:      "msg-2",
		AnnotationType: "message-focus",
		AnnotationPayload: `{
			"applicationId": "app-1",
			"payload": {"nextSteps": ["Proceed"]}
		}`,
	})

	if classified == nil || classified.Kind != KindActionNextStep {
		t.Fatalf("expected an ActionNextStep event, got %+v", classified)
	}
	if classified.Step != "Proceed" {
		t.Errorf("unexpected step %q", classified.Step)
	}
}

func TestClassifyEntitiesRecognized(t *testing.T) {
	svc := newTestService(&fakeFetcher{message: userMessage("msg-3")})

	classified := svc.Classify(context.Background(), Envelope{
		Type:              TypeAnnotationAdded,
		MessageID:         "msg-3",
		AnnotationType:    "message-nlp-entities",
		AnnotationPayload: `{"entities": [{"type": "City", "text": "Denver"}]}`,
	})

	if classified == nil || classified.Kind != KindEntitiesRecognized {
		t.Fatalf("expected an EntitiesRecognized event, got %+v", classified)
	}
	if len(classified.Entities) != 1 || classified.Entities[0].Text != "Denver" {
		t.Errorf("unexpected entities %+v", classified.Entities)
	}
}

func TestClassifyIgnoresOtherEventTypes(t *testing.T) {
	svc := newTestService(&fakeFetcher{message: userMessage("msg-1")})

	if got := svc.Classify(context.Background(), Envelope{Type: "space-updated"}); got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestClassifyIgnoresOtherAnnotationTypes(t *testing.T) {
	svc := newTestService(&fakeFetcher{message: userMessage("msg-1")})

	got := svc.Classify(context.Background(), Envelope{
		Type:           TypeAnnotationAdded,
		AnnotationType: "message-moment",
	})
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestClassifyIgnoresForeignAppFocus(t *testing.T) {
	svc := newTestService(&fakeFetcher{message: userMessage("msg-1")})

	got := svc.Classify(context.Background(), Envelope{
		Type:              TypeAnnotationAdded,
		AnnotationType:    "message-focus",
		AnnotationPayload: `{"applicationId": "someone-else", "actions": ["Get_Weather_Conditions"]}`,
	})
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestClassifyIgnoresFocusWithoutActionOrStep(t *testing.T) {
	svc := newTestService(&fakeFetcher{message: userMessage("msg-1")})

	got := svc.Classify(context.Background(), Envelope{
		Type:              TypeAnnotationAdded,
		AnnotationType:    "message-focus",
		AnnotationPayload: `{"applicationId": "app-1"}`,
	})
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestClassifyIgnoresMalformedPayload(t *testing.T) {
	svc := newTestService(&fakeFetcher{message: userMessage("msg-1")})

	got := svc.Classify(context.Background(), Envelope{
		Type:              TypeAnnotationAdded,
		AnnotationType:    "message-focus",
		AnnotationPayload: "{not json",
	})
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestClassifyIgnoresEmptyEntities(t *testing.T) {
	svc := newTestService(&fakeFetcher{message: userMessage("msg-1")})

	got := svc.Classify(context.Background(), Envelope{
		Type:              TypeAnnotationAdded,
		AnnotationType:    "message-nlp-entities",
		AnnotationPayload: `{"entities": []}`,
	})
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestClassifyIgnoresSelfAuthoredMessages(t *testing.T) {
	svc := newTestService(&fakeFetcher{
		message: &workspace.Message{
			ID:        "msg-1",
			CreatedBy: workspace.User{ID: appID},
		},
	})

	got := svc.Classify(context.Background(), Envelope{
		Type:              TypeAnnotationAdded,
		AnnotationType:    "message-nlp-entities",
		AnnotationPayload: `{"entities": [{"type": "City", "text": "Denver"}]}`,
	})
	if got != nil {
		t.Errorf("the app must never reply to itself, got %+v", got)
	}
}

func TestClassifyIgnoresMessageFetchFailure(t *testing.T) {
	svc := newTestService(&fakeFetcher{err: errors.New("boom")})

	got := svc.Classify(context.Background(), Envelope{
		Type:              TypeAnnotationAdded,
		AnnotationType:    "message-nlp-entities",
		AnnotationPayload: `{"entities": [{"type": "City", "text": "Denver"}]}`,
	})
	if got != nil {
		t.Errorf("expected nil on fetch failure, got %+v", got)
	}
}

func TestClassifyIgnoresInvisibleMessages(t *testing.T) {
	svc := newTestService(&fakeFetcher{})

	got := svc.Classify(context.Background(), Envelope{
		Type:              TypeAnnotationAdded,
		AnnotationType:    "message-nlp-entities",
		AnnotationPayload: `{"entities": [{"type": "City", "text": "Denver"}]}`,
	})
	if got != nil {
		t.Errorf("expected nil when the message is not visible, got %+v", got)
	}
}

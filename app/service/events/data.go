package events

import "weatherwork/app/client/workspace"

const (
	TypeAnnotationAdded = "message-annotation-added"
	TypeVerification    = "verification"

	annotationFocus    = "message-focus"
	annotationEntities = "message-nlp-entities"
)

// Envelope is the raw webhook event body delivered by the platform.
type Envelope struct {
	Type              string `json:"type"`
	SpaceID           string `json:"spaceId"`
	MessageID         string `json:"messageId"`
	AnnotationType    string `json:"annotationType"`
	AnnotationPayload string `json:"annotationPayload"`
	UserID            string `json:"userId"`
	Challenge         string `json:"challenge"`
}

// Entity is a single recognized entity, e.g. {type: City, text: Seattle}.
type Entity struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type focusPayload struct {
	ApplicationID string   `json:"applicationId"`
	Actions       []string `json:"actions"`
	Payload       struct {
		NextSteps []string `json:"nextSteps"`
	} `json:"payload"`
	ExtractedInfo struct {
		Entities []Entity `json:"entities"`
	} `json:"extractedInfo"`
}

type nlpPayload struct {
	Entities []Entity `json:"entities"`
}

type Kind int

const (
	// KindActionRequested carries the dialogue action the user triggered.
	KindActionRequested Kind = iota + 1
	// KindActionNextStep carries the user's response to an offered action.
	KindActionNextStep
	// KindEntitiesRecognized carries entities extracted from a message.
	KindEntitiesRecognized
)

// ClassifiedEvent is one of the three event shapes the app reacts to,
// together with the annotated message and the user who sent it.
type ClassifiedEvent struct {
	Kind Kind

	// Action is set for KindActionRequested
	Action string
	// Step is set for KindActionNextStep
	Step string
	// Entities are the focus entities for KindActionRequested or the
	// recognized entities for KindEntitiesRecognized
	Entities []Entity

	Message workspace.Message
	User    workspace.User
}

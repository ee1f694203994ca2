package dialog

import "weatherwork/app/client/weather"

// Actions the platform can request on behalf of the user.
const (
	ActionConditions = "Get_Weather_Conditions"
	ActionForecast   = "Get_Weather_Forecast"
)

// Steps the user can take on a previously offered action.
const (
	StepProceed = "Proceed"
	StepCancel  = "Cancel"
)

// State is the action state carried across dialogue turns for one
// (space, user) pair. The zero value is the state of a user the app has
// never talked to.
type State struct {
	// Action awaiting confirmation, empty if none
	Action string `json:"action,omitempty"`
	// Last known or pending city the user referred to
	City string `json:"city,omitempty"`
	// Id of the message that last updated this state, used to suppress
	// duplicate confirmations when an entities annotation arrives for a
	// message already handled by an action event
	MessageID string `json:"messageId,omitempty"`
}

type IntentKind int

const (
	IntentAskCity IntentKind = iota + 1
	IntentConfirmConditions
	IntentConfirmForecast
	IntentShowConditions
	IntentShowForecast
	IntentCityNotFound
	IntentWeatherError
	IntentNoProblem
)

// Intent is a reply the state machine decided to send, before rendering.
type Intent struct {
	Kind IntentKind

	// City for the confirm / not-found intents
	City string
	// Conditions for IntentShowConditions
	Conditions *weather.Conditions
	// Forecast for IntentShowForecast
	Forecast *weather.Forecast
}

// Reply is a rendered message ready to be posted to the conversation.
type Reply struct {
	Title string
	Text  string
	Actor string
}

package dialog

import (
	"context"

	"log/slog"

	"weatherwork/app/client/weather"
	"weatherwork/app/service/events"
)

// Forecaster resolves a city to current conditions or a 5 day forecast.
type Forecaster interface {
	Conditions(ctx context.Context, address string) (*weather.Conditions, error)
	Forecast5d(ctx context.Context, address string) (*weather.Forecast, error)
}

// Transition applies one classified event to the action state and returns
// the new state plus the replies to send. Unknown actions and steps are
// ignored without touching the state. The weather lookup is the only I/O
// and only happens on a Proceed step; its failure surfaces as a reply, not
// as a state change, so the user can retry.
func Transition(ctx context.Context, st State, ev events.ClassifiedEvent, lookup Forecaster) (State, []Intent) {
	switch ev.Kind {
	case events.KindActionRequested:
		return actionRequested(st, ev)
	case events.KindActionNextStep:
		return actionNextStep(ctx, st, ev, lookup)
	case events.KindEntitiesRecognized:
		return entitiesRecognized(st, ev)
	default:
		return st, nil
	}
}

func actionRequested(st State, ev events.ClassifiedEvent) (State, []Intent) {
	if ev.Action != ActionConditions && ev.Action != ActionForecast {
		return st, nil
	}

	// Remember the action being requested and the message that requested it
	st.MessageID = ev.Message.ID
	st.Action = ev.Action

	// Look for a city in the request, default to the last city used
	city := CityAndState(ev.Entities)
	if city == "" {
		city = st.City
	}

	if city == "" {
		// Need a city, ask for it
		return st, []Intent{{Kind: IntentAskCity}}
	}

	st.City = city

	if ev.Action == ActionConditions {
		return st, []Intent{{Kind: IntentConfirmConditions, City: city}}
	}

	return st, []Intent{{Kind: IntentConfirmForecast, City: city}}
}

func actionNextStep(ctx context.Context, st State, ev events.ClassifiedEvent, lookup Forecaster) (State, []Intent) {
	if ev.Step == StepProceed && st.City != "" {
		switch st.Action {
		case ActionConditions:
			conditions, err := lookup.Conditions(ctx, st.City)
			if err != nil {
				slog.Warn("Weather conditions lookup failed", "city", st.City, "error", err)
				return st, []Intent{{Kind: IntentWeatherError}}
			}
			if !conditions.Geo.Found() {
				return st, []Intent{{Kind: IntentCityNotFound, City: st.City}}
			}

			// The action is complete, reset it
			st.Action = ""

			return st, []Intent{{Kind: IntentShowConditions, Conditions: conditions}}

		case ActionForecast:
			forecast, err := lookup.Forecast5d(ctx, st.City)
			if err != nil {
				slog.Warn("Weather forecast lookup failed", "city", st.City, "error", err)
				return st, []Intent{{Kind: IntentWeatherError}}
			}
			if !forecast.Geo.Found() {
				return st, []Intent{{Kind: IntentCityNotFound, City: st.City}}
			}

			st.Action = ""

			return st, []Intent{{Kind: IntentShowForecast, Forecast: forecast}}
		}

		return st, nil
	}

	if ev.Step == StepCancel &&
		(st.Action == ActionConditions || st.Action == ActionForecast) {
		// Forget the action and city, that was not what the user wanted
		st.Action = ""
		st.City = ""

		return st, []Intent{{Kind: IntentNoProblem}}
	}

	return st, nil
}

func entitiesRecognized(st State, ev events.ClassifiedEvent) (State, []Intent) {
	city := CityAndState(ev.Entities)
	if city == "" {
		return st, nil
	}

	st.City = city

	// Do not re-confirm an action for the message that already triggered it
	if ev.Message.ID == st.MessageID {
		return st, nil
	}

	switch st.Action {
	case ActionConditions:
		return st, []Intent{{Kind: IntentConfirmConditions, City: city}}
	case ActionForecast:
		return st, []Intent{{Kind: IntentConfirmForecast, City: city}}
	}

	return st, nil
}

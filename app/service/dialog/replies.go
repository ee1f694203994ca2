package dialog

import (
	"fmt"
	"strings"

	"weatherwork/app/client/weather"
	"weatherwork/app/client/workspace"
)

const weatherActor = "The Weather Company"

// Format renders a reply intent into the message posted back to the
// conversation.
func Format(intent Intent, user workspace.User) Reply {
	switch intent.Kind {
	case IntentAskCity:
		return Reply{
			Text: fmt.Sprintf(
				"Hey %s, I can get the weather for you but I need a city name.\n"+
					"You can say San Francisco, or Littleton, MA for example.",
				user.DisplayName),
		}

	case IntentConfirmConditions:
		return Reply{
			Text: fmt.Sprintf(
				"Hey %s, I think you're looking for the weather conditions in %s.\n"+
					"Is that correct?",
				user.DisplayName, intent.City),
		}

	case IntentConfirmForecast:
		return Reply{
			Text: fmt.Sprintf(
				"Hey %s, I think you're looking for a weather forecast in %s.\n"+
					"Is that correct?",
				user.DisplayName, intent.City),
		}

	case IntentShowConditions:
		return Reply{
			Title: "Weather Conditions",
			Text:  conditionsText(intent.Conditions),
			Actor: weatherActor,
		}

	case IntentShowForecast:
		return Reply{
			Title: "Weather Forecast",
			Text:  forecastText(intent.Forecast),
			Actor: weatherActor,
		}

	case IntentCityNotFound:
		return Reply{
			Text: fmt.Sprintf(
				"Hey %s, I couldn't find %s, I need a valid city.",
				user.DisplayName, intent.City),
		}

	case IntentWeatherError:
		return Reply{
			Text: "Hey, it's foggy and I had issues retrieving the weather. Try again later",
		}

	case IntentNoProblem:
		return Reply{
			Text: fmt.Sprintf("OK %s, no problem.", user.DisplayName),
		}
	}

	return Reply{}
}

func conditionsText(w *weather.Conditions) string {
	terse := ""
	if w.Observation.TersePhrase != "" {
		terse = ". " + w.Observation.TersePhrase
	}

	return fmt.Sprintf("%s\n%vF Feels like %vF\n%s%s",
		w.Geo.City+", "+w.Geo.AdminDistrictCode,
		w.Observation.Temp,
		w.Observation.FeelsLike,
		w.Observation.WxPhrase,
		terse)
}

func forecastText(w *weather.Forecast) string {
	var builder strings.Builder

	builder.WriteString(w.Geo.City + ", " + w.Geo.AdminDistrictCode)

	for _, day := range w.Forecasts {
		builder.WriteString(fmt.Sprintf("\n%s %sF %sF %s",
			shortDow(day.Dow),
			formatTemp(day.MaxTemp),
			formatTemp(day.MinTemp),
			firstSentence(day.Narrative)))
	}

	return builder.String()
}

func shortDow(dow string) string {
	if len(dow) > 3 {
		return dow[:3]
	}

	return dow
}

func formatTemp(temp *float64) string {
	if temp == nil {
		return "--"
	}

	return fmt.Sprintf("%v", *temp)
}

func firstSentence(narrative string) string {
	sentence, _, _ := strings.Cut(narrative, ".")

	return sentence
}

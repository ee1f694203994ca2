package dialog

import (
	"weatherwork/app/service/events"

	"github.com/elliotchance/pie/v2"
)

// CityAndState combines the first City entity and, when present, the first
// StateOrCounty entity into a "City, State" string. Returns "" when no
// city was recognized; later duplicate entities are ignored.
func CityAndState(entities []events.Entity) string {
	cityIdx := pie.FindFirstUsing(entities, func(e events.Entity) bool {
		return e.Type == "City"
	})
	if cityIdx < 0 {
		return ""
	}

	stateIdx := pie.FindFirstUsing(entities, func(e events.Entity) bool {
		return e.Type == "StateOrCounty"
	})
	if stateIdx < 0 {
		return entities[cityIdx].Text
	}

	return entities[cityIdx].Text + ", " + entities[stateIdx].Text
}

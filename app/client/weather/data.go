package weather

// Geo is the resolved location of a city. A zero City means the lookup
// completed but found no matching place.
type Geo struct {
	City              string  `json:"city"`
	PostalCode        string  `json:"postalCode"`
	AdminDistrictCode string  `json:"adminDistrictCode"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
}

func (g Geo) Found() bool {
	return g.City != ""
}

type Observation struct {
	Temp        float64 `json:"temp"`
	FeelsLike   float64 `json:"feels_like"`
	WxPhrase    string  `json:"wx_phrase"`
	TersePhrase string  `json:"terse_phrase"`
}

type ForecastDay struct {
	Dow       string   `json:"dow"`
	MaxTemp   *float64 `json:"max_temp"`
	MinTemp   *float64 `json:"min_temp"`
	Narrative string   `json:"narrative"`
}

// Conditions is the current weather at a location.
type Conditions struct {
	Geo         Geo
	Observation Observation
}

// Forecast is a 5 day forecast at a location.
type Forecast struct {
	Geo       Geo
	Forecasts []ForecastDay
}

type locationResponse struct {
	Location struct {
		City              []string  `json:"city"`
		PostalCode        []string  `json:"postalCode"`
		AdminDistrictCode []string  `json:"adminDistrictCode"`
		Latitude          []float64 `json:"latitude"`
		Longitude         []float64 `json:"longitude"`
	} `json:"location"`
}

type observationsResponse struct {
	Observations []Observation `json:"observations"`
}

type forecastResponse struct {
	Forecasts []ForecastDay `json:"forecasts"`
}

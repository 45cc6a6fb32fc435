package dto

// WeatherAPIResponse mirrors the subset of the weatherapi.com current.json
// payload this service reads.
type WeatherAPIResponse struct {
	Current WeatherAPICurrent `json:"current"`
}

type WeatherAPICurrent struct {
	TempC     *float64            `json:"temp_c"`
	Humidity  *float64            `json:"humidity"`
	WindKph   *float64            `json:"wind_kph"`
	Condition WeatherAPICondition `json:"condition"`
}

type WeatherAPICondition struct {
	Text *string `json:"text"`
}

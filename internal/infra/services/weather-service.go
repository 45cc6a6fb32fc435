package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"plant-advisor/internal/domain/dto"
	"plant-advisor/internal/domain/entities"
	"plant-advisor/internal/infra/logger"
)

const defaultWeatherHost = "http://api.weatherapi.com/v1"

// WeatherService fetches current conditions from weatherapi.com. Weather is
// optional context: every failure path returns nil rather than an error, and
// the prompt layer renders absence explicitly.
type WeatherService struct {
	Logger     *logger.Logger
	HttpClient *http.Client
	apiKey     string
	host       string
}

func NewWeatherService(log *logger.Logger, httpClient *http.Client, apiKey, host string) *WeatherService {
	ws := &WeatherService{Logger: log, HttpClient: httpClient, apiKey: apiKey, host: host}
	if ws.host == "" {
		ws.host = defaultWeatherHost
	}
	if apiKey == "" {
		log.Warn("WEATHER_API_KEY is not set. Weather context will be skipped.")
	}
	return ws
}

// Current returns the conditions at the given coordinates, or nil when the
// data cannot be fetched.
func (ws *WeatherService) Current(ctx context.Context, lat, lon float64) *entities.Weather {
	if ws.apiKey == "" {
		return nil
	}

	params := url.Values{}
	params.Set("key", ws.apiKey)
	params.Set("q", fmt.Sprintf("%f,%f", lat, lon))

	requestURL := fmt.Sprintf("%s/current.json?%s", ws.host, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		ws.Logger.Error(fmt.Sprintf("Failed to create weather request: %v", err))
		return nil
	}

	res, err := ws.HttpClient.Do(req)
	if err != nil {
		ws.Logger.Error(fmt.Sprintf("Weather request failed: %v", err))
		return nil
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		ws.Logger.Error(fmt.Sprintf("Weather API returned unexpected HTTP status %s", res.Status))
		return nil
	}

	var out dto.WeatherAPIResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		ws.Logger.Error(fmt.Sprintf("Failed to decode weather response: %v", err))
		return nil
	}

	return &entities.Weather{
		TempC:       out.Current.TempC,
		Humidity:    out.Current.Humidity,
		Description: out.Current.Condition.Text,
		WindKph:     out.Current.WindKph,
	}
}

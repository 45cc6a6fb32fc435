package Iservices

import (
	"context"
	"plant-advisor/internal/domain/entities"
)

// IWeatherService returns current conditions, or nil when weather data cannot
// be fetched. Absence is a valid state, not an error.
type IWeatherService interface {
	Current(ctx context.Context, lat, lon float64) *entities.Weather
}

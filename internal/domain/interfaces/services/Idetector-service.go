package Iservices

import "context"

type IDetectorService interface {
	Predict(ctx context.Context, image []byte) (string, float64, error)
}

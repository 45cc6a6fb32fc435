package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"plant-advisor/internal/domain/dto"
	"plant-advisor/internal/domain/errs"
	"plant-advisor/internal/infra/logger"
)

// DetectorService reaches the image classification service over HTTP. The
// classifier itself (decode, resize, normalize, predict) lives behind that
// service; this client only carries bytes out and ranked predictions back.
type DetectorService struct {
	Logger     *logger.Logger
	HttpClient *http.Client
	host       string
}

func NewDetectorService(log *logger.Logger, httpClient *http.Client, host string) *DetectorService {
	if host == "" {
		log.Warn("DETECTOR_API_HOST is not set. Diagnosis requests will fail until it is configured.")
	}
	return &DetectorService{Logger: log, HttpClient: httpClient, host: host}
}

// Predict returns the top predicted disease label and its confidence for the
// uploaded image.
func (ds *DetectorService) Predict(ctx context.Context, image []byte) (string, float64, error) {
	if ds.host == "" {
		return "", 0, &errs.ConfigurationError{Key: "DETECTOR_API_HOST"}
	}

	payload, err := json.Marshal(dto.PredictRequest{Image: base64.StdEncoding.EncodeToString(image)})
	if err != nil {
		ds.Logger.Error(fmt.Sprintf("Failed to marshal predict payload: %v", err))
		return "", 0, &errs.UpstreamCallError{Service: "detector", Cause: "failed to marshal request payload", Err: err}
	}

	url := fmt.Sprintf("%s/predict", ds.host)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		ds.Logger.Error(fmt.Sprintf("Failed to create HTTP request: %v", err))
		return "", 0, &errs.UpstreamCallError{Service: "detector", Cause: "failed to create HTTP request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := ds.HttpClient.Do(req)
	if err != nil {
		ds.Logger.Error(fmt.Sprintf("Detector request failed: %v", err))
		return "", 0, &errs.UpstreamCallError{Service: "detector", Cause: err.Error(), Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(res.Body)
		ds.Logger.Error(fmt.Sprintf("Unexpected HTTP status %s response_body %s", res.Status, string(body)))
		return "", 0, &errs.UpstreamCallError{Service: "detector", Cause: fmt.Sprintf("unexpected HTTP status %s", res.Status)}
	}

	var out dto.PredictResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		ds.Logger.Error(fmt.Sprintf("Failed to decode detector response: %v", err))
		return "", 0, &errs.UpstreamCallError{Service: "detector", Cause: "failed to decode response body", Err: err}
	}

	if len(out.Predictions) == 0 {
		ds.Logger.Error("Detector response contained no predictions")
		return "", 0, &errs.UpstreamCallError{Service: "detector", Cause: "response contained no predictions"}
	}

	top := out.Predictions[0]
	ds.Logger.Info(fmt.Sprintf("Prediction successful: %s (%.2f%%)", top.Class, top.Prob*100))
	return top.Class, top.Prob, nil
}

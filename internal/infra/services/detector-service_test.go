package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"plant-advisor/internal/domain/dto"
	"plant-advisor/internal/domain/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectorPredictReturnsTopPrediction(t *testing.T) {
	image := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict", r.URL.Path)

		var req dto.PredictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		decoded, err := base64.StdEncoding.DecodeString(req.Image)
		require.NoError(t, err)
		assert.Equal(t, image, decoded)

		json.NewEncoder(w).Encode(dto.PredictResponse{Predictions: []dto.Prediction{
			{Class: "Tomato___Late_blight", Prob: 0.92},
			{Class: "Tomato___Early_blight", Prob: 0.05},
			{Class: "Tomato___healthy", Prob: 0.03},
		}})
	}))
	defer server.Close()

	svc := NewDetectorService(testLogger(), server.Client(), server.URL)

	label, confidence, err := svc.Predict(context.Background(), image)
	require.NoError(t, err)
	assert.Equal(t, "Tomato___Late_blight", label)
	assert.Equal(t, 0.92, confidence)
}

func TestDetectorPredictMissingHostIsConfigurationError(t *testing.T) {
	svc := NewDetectorService(testLogger(), http.DefaultClient, "")

	_, _, err := svc.Predict(context.Background(), []byte("img"))

	var confErr *errs.ConfigurationError
	require.ErrorAs(t, err, &confErr)
	assert.Equal(t, "DETECTOR_API_HOST", confErr.Key)
}

func TestDetectorPredictServerErrorIsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := NewDetectorService(testLogger(), server.Client(), server.URL)

	_, _, err := svc.Predict(context.Background(), []byte("img"))

	var upstreamErr *errs.UpstreamCallError
	require.ErrorAs(t, err, &upstreamErr)
}

func TestDetectorPredictEmptyPredictionsIsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(dto.PredictResponse{})
	}))
	defer server.Close()

	svc := NewDetectorService(testLogger(), server.Client(), server.URL)

	_, _, err := svc.Predict(context.Background(), []byte("img"))

	var upstreamErr *errs.UpstreamCallError
	require.ErrorAs(t, err, &upstreamErr)
}

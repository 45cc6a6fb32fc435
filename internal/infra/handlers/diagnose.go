package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"plant-advisor/internal/domain/dto"
	"plant-advisor/internal/domain/entities"
	"plant-advisor/internal/domain/errs"
	Iservices "plant-advisor/internal/domain/interfaces/services"
	"plant-advisor/internal/infra/logger"

	"github.com/google/uuid"
)

const maxUploadBytes = 10 << 20

type DiagnoseHandlers struct {
	Logger              *logger.Logger
	ConversationService Iservices.IConversationService
	DetectorService     Iservices.IDetectorService
	WeatherService      Iservices.IWeatherService
	PeerReportService   Iservices.IPeerReportService
	RemedyStore         Iservices.IRemedyStore
	TranscriptService   Iservices.ITranscriptService
}

func NewDiagnoseHandlers(
	logger *logger.Logger,
	conversationService Iservices.IConversationService,
	detectorService Iservices.IDetectorService,
	weatherService Iservices.IWeatherService,
	peerReportService Iservices.IPeerReportService,
	remedyStore Iservices.IRemedyStore,
	transcriptService Iservices.ITranscriptService,
) *DiagnoseHandlers {
	return &DiagnoseHandlers{
		Logger:              logger,
		ConversationService: conversationService,
		DetectorService:     detectorService,
		WeatherService:      weatherService,
		PeerReportService:   peerReportService,
		RemedyStore:         remedyStore,
		TranscriptService:   transcriptService,
	}
}

// Diagnose accepts a multipart form with the farmer's question and, on the
// first turn of a conversation, a leaf image plus coordinates. First turns
// run the full pipeline (classify, remedies, weather, peer reports) before
// asking the model; follow-up turns go straight to the model against the
// client-supplied history.
func (dh *DiagnoseHandlers) Diagnose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	prompt := r.FormValue("prompt")
	if prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	language := r.FormValue("language")
	if language == "" {
		language = "English"
	}

	historyRaw := r.FormValue("history")
	if historyRaw == "" {
		historyRaw = "[]"
	}
	var history []entities.Message
	if err := json.Unmarshal([]byte(historyRaw), &history); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid history format. Must be a valid JSON array.")
		return
	}

	conversationID := r.FormValue("conversation_id")
	if conversationID == "" {
		conversationID = uuid.New().String()
	}

	input := dto.ConverseInput{Prompt: prompt, Language: language, History: history}

	// Only run the full diagnosis on the first turn of the conversation.
	if len(history) == 0 {
		lat, err := strconv.ParseFloat(r.FormValue("lat"), 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "lat must be a valid number")
			return
		}
		lon, err := strconv.ParseFloat(r.FormValue("lon"), 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "lon must be a valid number")
			return
		}

		file, _, err := r.FormFile("image")
		if err != nil {
			writeError(w, http.StatusBadRequest, "image file is required on the first turn")
			return
		}
		defer file.Close()

		imageBytes, err := io.ReadAll(file)
		if err != nil {
			dh.Logger.Error(fmt.Sprintf("Failed to read uploaded image: %v", err))
			writeError(w, http.StatusBadRequest, "Failed to read uploaded image")
			return
		}

		diseaseName, confidence, err := dh.DetectorService.Predict(r.Context(), imageBytes)
		if err != nil {
			dh.Logger.Error(fmt.Sprintf("Failed to classify image: %s", err.Error()))
			dh.writeServiceError(w, err)
			return
		}

		input.Diagnosis = &entities.Diagnosis{
			Name:       diseaseName,
			Confidence: confidence,
			Remedies:   dh.RemedyStore.Lookup(diseaseName),
		}
		input.Weather = dh.WeatherService.Current(r.Context(), lat, lon)
		input.Peers = dh.PeerReportService.NearbyReports(lat, lon, diseaseName)
	}

	answer, err := dh.ConversationService.Converse(r.Context(), input)
	if err != nil {
		dh.Logger.Error(fmt.Sprintf("Failed to generate response: %s", err.Error()))
		dh.writeServiceError(w, err)
		return
	}

	if err := dh.TranscriptService.Record(conversationID, prompt, answer); err != nil {
		// Auditing failures never block the answer.
		dh.Logger.Error(fmt.Sprintf("Failed to record transcript: %s", err.Error()))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dto.DiagnoseResponse{Response: answer, ConversationID: conversationID})
}

// writeServiceError maps the error taxonomy onto HTTP status codes.
func (dh *DiagnoseHandlers) writeServiceError(w http.ResponseWriter, err error) {
	var confErr *errs.ConfigurationError
	var upstreamErr *errs.UpstreamCallError
	var inputErr *errs.MalformedInputError

	switch {
	case errors.As(err, &confErr):
		writeError(w, http.StatusServiceUnavailable, confErr.Error())
	case errors.As(err, &upstreamErr):
		writeError(w, http.StatusBadGateway, upstreamErr.Error())
	case errors.As(err, &inputErr):
		writeError(w, http.StatusBadRequest, inputErr.Error())
	default:
		writeError(w, http.StatusInternalServerError, "An internal server error occurred")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{Error: message})
}

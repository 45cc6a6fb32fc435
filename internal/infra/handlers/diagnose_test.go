package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"plant-advisor/internal/domain/dto"
	"plant-advisor/internal/domain/entities"
	"plant-advisor/internal/domain/errs"
	"plant-advisor/internal/infra/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConversation struct {
	reply     string
	err       error
	lastInput dto.ConverseInput
	calls     int
}

func (s *stubConversation) Converse(ctx context.Context, input dto.ConverseInput) (string, error) {
	s.calls++
	s.lastInput = input
	return s.reply, s.err
}

type stubDetector struct {
	label      string
	confidence float64
	err        error
	calls      int
}

func (s *stubDetector) Predict(ctx context.Context, image []byte) (string, float64, error) {
	s.calls++
	return s.label, s.confidence, s.err
}

type stubWeather struct {
	weather *entities.Weather
}

func (s *stubWeather) Current(ctx context.Context, lat, lon float64) *entities.Weather {
	return s.weather
}

type stubPeerReports struct {
	reports []entities.PeerReport
}

func (s *stubPeerReports) NearbyReports(lat, lon float64, currentDiagnosis string) []entities.PeerReport {
	return s.reports
}

type stubRemedies struct{}

func (s *stubRemedies) Lookup(disease string) entities.Remedy {
	return entities.Remedy{Description: "remedy for " + disease}
}

type stubTranscript struct {
	recorded [][]string
}

func (s *stubTranscript) Record(conversationID, userMessage, modelMessage string) error {
	s.recorded = append(s.recorded, []string{conversationID, userMessage, modelMessage})
	return nil
}

func (s *stubTranscript) Find(conversationID string) (entities.Conversation, error) {
	return entities.Conversation{}, nil
}

type handlerFixture struct {
	handlers     *DiagnoseHandlers
	conversation *stubConversation
	detector     *stubDetector
	transcript   *stubTranscript
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	conversation := &stubConversation{reply: "model answer"}
	detector := &stubDetector{label: "Tomato___Late_blight", confidence: 0.92}
	transcript := &stubTranscript{}

	temp := 28.0
	handlers := NewDiagnoseHandlers(
		logger.NewLogger(context.Background(), false),
		conversation,
		detector,
		&stubWeather{weather: &entities.Weather{TempC: &temp}},
		&stubPeerReports{reports: []entities.PeerReport{
			{FarmerID: "F882", DistanceKm: 1.5, Diagnosis: "Tomato___Late_blight", ReportedOn: "2026-08-27"},
			{FarmerID: "F728", DistanceKm: 2.5, Diagnosis: "Tomato___Late_blight", ReportedOn: "2026-08-25"},
		}},
		&stubRemedies{},
		transcript,
	)
	return &handlerFixture{handlers: handlers, conversation: conversation, detector: detector, transcript: transcript}
}

type diagnoseForm struct {
	prompt         string
	lat            string
	lon            string
	language       string
	history        string
	conversationID string
	image          []byte
}

func newDiagnoseRequest(t *testing.T, form diagnoseForm) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fields := map[string]string{
		"prompt":          form.prompt,
		"lat":             form.lat,
		"lon":             form.lon,
		"language":        form.language,
		"history":         form.history,
		"conversation_id": form.conversationID,
	}
	for key, value := range fields {
		if value != "" {
			require.NoError(t, writer.WriteField(key, value))
		}
	}

	if form.image != nil {
		part, err := writer.CreateFormFile("image", "leaf.jpg")
		require.NoError(t, err)
		_, err = part.Write(form.image)
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/diagnose", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestDiagnoseFirstTurnRunsFullPipeline(t *testing.T) {
	fixture := newHandlerFixture(t)

	req := newDiagnoseRequest(t, diagnoseForm{
		prompt: "Why are my tomato leaves yellowing?",
		lat:    "-3.12",
		lon:    "-60.02",
		image:  []byte{0x01, 0x02},
	})
	rec := httptest.NewRecorder()

	fixture.handlers.Diagnose(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.DiagnoseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "model answer", resp.Response)
	assert.NotEmpty(t, resp.ConversationID)

	assert.Equal(t, 1, fixture.detector.calls)
	require.NotNil(t, fixture.conversation.lastInput.Diagnosis)
	assert.Equal(t, "Tomato___Late_blight", fixture.conversation.lastInput.Diagnosis.Name)
	assert.Equal(t, 0.92, fixture.conversation.lastInput.Diagnosis.Confidence)
	assert.Equal(t, "remedy for Tomato___Late_blight", fixture.conversation.lastInput.Diagnosis.Remedies.Description)
	assert.NotNil(t, fixture.conversation.lastInput.Weather)
	assert.Len(t, fixture.conversation.lastInput.Peers, 2)
	assert.Equal(t, "English", fixture.conversation.lastInput.Language)

	require.Len(t, fixture.transcript.recorded, 1)
	assert.Equal(t, "Why are my tomato leaves yellowing?", fixture.transcript.recorded[0][1])
	assert.Equal(t, "model answer", fixture.transcript.recorded[0][2])
}

func TestDiagnoseFollowUpSkipsPipeline(t *testing.T) {
	fixture := newHandlerFixture(t)

	history := `[{"role":"user","parts":["first question"]},{"role":"model","parts":["first answer"]}]`
	req := newDiagnoseRequest(t, diagnoseForm{
		prompt:         "Should I keep spraying?",
		history:        history,
		conversationID: "conv-1",
	})
	rec := httptest.NewRecorder()

	fixture.handlers.Diagnose(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.DiagnoseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "conv-1", resp.ConversationID)

	assert.Equal(t, 0, fixture.detector.calls)
	assert.Nil(t, fixture.conversation.lastInput.Diagnosis)
	assert.Nil(t, fixture.conversation.lastInput.Weather)
	assert.Empty(t, fixture.conversation.lastInput.Peers)
	require.Len(t, fixture.conversation.lastInput.History, 2)
}

func TestDiagnoseRejectsInvalidHistory(t *testing.T) {
	fixture := newHandlerFixture(t)

	req := newDiagnoseRequest(t, diagnoseForm{prompt: "hello", history: "not json"})
	rec := httptest.NewRecorder()

	fixture.handlers.Diagnose(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, fixture.conversation.calls)
}

func TestDiagnoseRequiresPrompt(t *testing.T) {
	fixture := newHandlerFixture(t)

	req := newDiagnoseRequest(t, diagnoseForm{lat: "1", lon: "1", image: []byte{0x01}})
	rec := httptest.NewRecorder()

	fixture.handlers.Diagnose(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDiagnoseFirstTurnRequiresImage(t *testing.T) {
	fixture := newHandlerFixture(t)

	req := newDiagnoseRequest(t, diagnoseForm{prompt: "hello", lat: "1", lon: "1"})
	rec := httptest.NewRecorder()

	fixture.handlers.Diagnose(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, fixture.detector.calls)
}

func TestDiagnoseFirstTurnRequiresCoordinates(t *testing.T) {
	fixture := newHandlerFixture(t)

	req := newDiagnoseRequest(t, diagnoseForm{prompt: "hello", image: []byte{0x01}})
	rec := httptest.NewRecorder()

	fixture.handlers.Diagnose(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDiagnoseMapsConfigurationErrorTo503(t *testing.T) {
	fixture := newHandlerFixture(t)
	fixture.conversation.reply = ""
	fixture.conversation.err = &errs.ConfigurationError{Key: "GEMINI_API_KEY"}

	history := `[{"role":"user","parts":["q"]},{"role":"model","parts":["a"]}]`
	req := newDiagnoseRequest(t, diagnoseForm{prompt: "hello", history: history})
	rec := httptest.NewRecorder()

	fixture.handlers.Diagnose(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Empty(t, fixture.transcript.recorded)
}

func TestDiagnoseMapsUpstreamErrorTo502(t *testing.T) {
	fixture := newHandlerFixture(t)
	fixture.conversation.reply = ""
	fixture.conversation.err = &errs.UpstreamCallError{Service: "gemini", Cause: "quota exceeded"}

	history := `[{"role":"user","parts":["q"]},{"role":"model","parts":["a"]}]`
	req := newDiagnoseRequest(t, diagnoseForm{prompt: "hello", history: history})
	rec := httptest.NewRecorder()

	fixture.handlers.Diagnose(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "quota exceeded")
}

func TestDiagnoseMapsMalformedInputTo400(t *testing.T) {
	fixture := newHandlerFixture(t)
	fixture.conversation.reply = ""
	fixture.conversation.err = &errs.MalformedInputError{Reason: "history roles must alternate"}

	history := `[{"role":"user","parts":["q"]},{"role":"model","parts":["a"]}]`
	req := newDiagnoseRequest(t, diagnoseForm{prompt: "hello", history: history})
	rec := httptest.NewRecorder()

	fixture.handlers.Diagnose(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDiagnoseRejectsNonPostMethod(t *testing.T) {
	fixture := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/diagnose", nil)
	rec := httptest.NewRecorder()

	fixture.handlers.Diagnose(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

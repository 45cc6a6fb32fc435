package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"plant-advisor/internal/domain/dto"
	"plant-advisor/internal/domain/entities"
	"plant-advisor/internal/domain/errs"
	"plant-advisor/internal/infra/logger"
	"plant-advisor/internal/util"
)

// MaxContextTokens caps how much conversation history is replayed to the
// model on each call, measured with the word-based heuristic below.
const MaxContextTokens = 12000

const (
	defaultGeminiHost = "https://generativelanguage.googleapis.com"
	geminiModel       = "gemini-2.5-flash"
)

type ConversationService struct {
	Logger     *logger.Logger
	HttpClient *http.Client
	apiKey     string
	host       string
	confErr    error
}

// NewConversationService builds the service. A missing API key is not fatal
// to startup; the resulting configuration error is cached and returned on
// every call instead.
func NewConversationService(log *logger.Logger, httpClient *http.Client, apiKey, host string) *ConversationService {
	cs := &ConversationService{
		Logger:     log,
		HttpClient: httpClient,
		apiKey:     apiKey,
		host:       host,
	}
	if cs.host == "" {
		cs.host = defaultGeminiHost
	}
	if apiKey == "" {
		cs.confErr = &errs.ConfigurationError{Key: "GEMINI_API_KEY"}
		log.Warn("GEMINI_API_KEY is not set. Conversation requests will fail until it is configured.")
	}
	return cs
}

// EstimateTokens approximates the token cost of a message as
// ceil(word count * 1.5). This is a fixed heuristic, not a real tokenizer.
func EstimateTokens(text string) int {
	return int(math.Ceil(float64(util.WordCount(text)) * 1.5))
}

// TruncateHistoryByTokens walks messages newest to oldest, keeping them while
// the running estimate stays within MaxContextTokens. The first message that
// would exceed the budget, and everything older, is dropped; the kept slice
// preserves chronological order. A long session can shed its first,
// instruction-bearing message this way. When even the newest message alone is
// over budget it is kept by itself, since an empty request is never valid.
func TruncateHistoryByTokens(messages []entities.Message) []entities.Message {
	if len(messages) == 0 {
		return []entities.Message{}
	}

	tokenCount := 0
	kept := 0
	for i := len(messages) - 1; i >= 0; i-- {
		messageTokens := EstimateTokens(messages[i].Text())
		if tokenCount+messageTokens > MaxContextTokens {
			break
		}
		tokenCount += messageTokens
		kept++
	}

	if kept == 0 {
		kept = 1
	}
	return messages[len(messages)-kept:]
}

// Converse assembles the outgoing message for one exchange and sends it to
// the model together with the replayed history.
//
// On a session's first turn (empty history) the instruction text and the
// structured diagnosis/weather/peer context are folded into the user message,
// because the chat API only accepts user and model roles. Follow-up turns
// send the raw prompt against the already-framed history.
func (cs *ConversationService) Converse(ctx context.Context, input dto.ConverseInput) (string, error) {
	if cs.confErr != nil {
		return "", cs.confErr
	}

	if err := validateHistory(input.History); err != nil {
		cs.Logger.Error(fmt.Sprintf("Rejected conversation request: %s", err.Error()))
		return "", err
	}

	outgoing := input.Prompt
	if len(input.History) == 0 {
		outgoing = buildFirstTurnPrompt(input)
	}

	messages := make([]entities.Message, 0, len(input.History)+1)
	messages = append(messages, input.History...)
	messages = append(messages, entities.Message{Role: entities.RoleUser, Parts: []string{outgoing}})
	messages = TruncateHistoryByTokens(messages)

	contents := make([]dto.GeminiContent, 0, len(messages))
	for _, message := range messages {
		contents = append(contents, dto.GeminiContent{
			Role:  message.Role,
			Parts: []dto.GeminiPart{{Text: message.Text()}},
		})
	}

	return cs.generateContent(ctx, contents)
}

func (cs *ConversationService) generateContent(ctx context.Context, contents []dto.GeminiContent) (string, error) {
	payload, err := json.Marshal(dto.GenerateContentRequest{Contents: contents})
	if err != nil {
		cs.Logger.Error(fmt.Sprintf("Failed to marshal model request: %v", err))
		return "", &errs.UpstreamCallError{Service: "gemini", Cause: "failed to marshal request payload", Err: err}
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", cs.host, geminiModel)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		cs.Logger.Error(fmt.Sprintf("Failed to create HTTP request: %v", err))
		return "", &errs.UpstreamCallError{Service: "gemini", Cause: "failed to create HTTP request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", cs.apiKey)

	res, err := cs.HttpClient.Do(req)
	if err != nil {
		cs.Logger.Error(fmt.Sprintf("Model request failed: %v", err))
		return "", &errs.UpstreamCallError{Service: "gemini", Cause: err.Error(), Err: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		cs.Logger.Error(fmt.Sprintf("Failed to read model response body: %v", err))
		return "", &errs.UpstreamCallError{Service: "gemini", Cause: "failed to read response body", Err: err}
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		cause := fmt.Sprintf("unexpected HTTP status %s", res.Status)
		var failure dto.GenerateContentResponse
		if json.Unmarshal(body, &failure) == nil && failure.Error != nil && failure.Error.Message != "" {
			cause = fmt.Sprintf("%s: %s", cause, failure.Error.Message)
		}
		cs.Logger.Error(fmt.Sprintf("Model call rejected: %s", cause))
		return "", &errs.UpstreamCallError{Service: "gemini", Cause: cause}
	}

	var out dto.GenerateContentResponse
	if err := json.Unmarshal(body, &out); err != nil {
		cs.Logger.Error(fmt.Sprintf("Failed to unmarshal model response: %v", err))
		return "", &errs.UpstreamCallError{Service: "gemini", Cause: "failed to unmarshal response body", Err: err}
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		cs.Logger.Error("Model response contained no candidates")
		return "", &errs.UpstreamCallError{Service: "gemini", Cause: "response contained no candidates"}
	}

	return out.Candidates[0].Content.Parts[0].Text, nil
}

// validateHistory enforces the structural invariants of a client-supplied
// history: roles strictly alternate user/model starting with user, and a
// standalone system role is never accepted.
func validateHistory(history []entities.Message) error {
	for i, message := range history {
		expected := entities.RoleUser
		if i%2 == 1 {
			expected = entities.RoleModel
		}
		if message.Role != entities.RoleUser && message.Role != entities.RoleModel {
			return &errs.MalformedInputError{Reason: fmt.Sprintf("unsupported role %q at history position %d", message.Role, i)}
		}
		if message.Role != expected {
			return &errs.MalformedInputError{Reason: fmt.Sprintf("history roles must alternate starting with user, got %q at position %d", message.Role, i)}
		}
	}
	return nil
}

func buildFirstTurnPrompt(input dto.ConverseInput) string {
	if input.Diagnosis == nil {
		return buildGeneralPrompt(input)
	}
	return buildDiagnosisPrompt(input)
}

func buildDiagnosisPrompt(input dto.ConverseInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are 'AuraFarm', a friendly and expert agricultural assistant chatbot for farmers.
Your goal is to provide helpful, clear, and encouraging advice.
- Analyze all provided context: the farmer's diagnosis, weather, remedies, and reports from nearby farms.
- If one or more nearby reports mention the same disease, mention that this could be a local outbreak and advise extra caution.
- Address the farmer's specific question directly and conversationally.
- Provide additional tips or best practices related to the diagnosis and treatment.
- IMPORTANT: Use simple, non-technical language suitable for farmers.
- Keep responses concise, ideally under 300 words.
- Always respond in a friendly and supportive tone.
- IMPORTANT: Respond entirely and only in the %s language.`, input.Language)

	b.WriteString("\n\nHere is the information I have gathered for the farmer:\n\n")
	fmt.Fprintf(&b, "1. **Farmer's Question:** %q\n\n", input.Prompt)

	diagnosis := input.Diagnosis
	b.WriteString("2. **AI Diagnosis Result for their Plant:**\n")
	fmt.Fprintf(&b, "   - Detected Condition: %s\n", diagnosis.Name)
	fmt.Fprintf(&b, "   - Confidence Score: %s\n\n", util.FormatPercent(diagnosis.Confidence))

	b.WriteString("3. **Suggested Treatments:**\n")
	fmt.Fprintf(&b, "   - Description: %s\n", diagnosis.Remedies.Description)
	fmt.Fprintf(&b, "   - Organic Options: %s\n", util.JoinOrNone(diagnosis.Remedies.OrganicTreatment))
	fmt.Fprintf(&b, "   - Chemical Options: %s\n\n", util.JoinOrNone(diagnosis.Remedies.ChemicalTreatment))

	b.WriteString("4. **Current Weather at the Farm:**\n")
	fmt.Fprintf(&b, "   - Conditions: %s\n", formatWeatherText(input.Weather))
	fmt.Fprintf(&b, "   - Temperature: %s°C\n", formatWeatherNumber(weatherTempC(input.Weather)))
	fmt.Fprintf(&b, "   - Humidity: %s%%\n\n", formatWeatherNumber(weatherHumidity(input.Weather)))

	b.WriteString("5. **Recent Disease Reports from Nearby Farms:**\n")
	b.WriteString(formatPeerReports(input.Peers))

	b.WriteString("\n\nBased on ALL of this information, please provide a comprehensive, helpful, and conversational response to the farmer.")

	return b.String()
}

func buildGeneralPrompt(input dto.ConverseInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are 'AuraFarm', a friendly and expert agricultural assistant chatbot for farmers.
Your goal is to provide helpful, clear, and encouraging advice.
- No plant scan was performed for this question, so you have no measured facts about the farmer's crops, treatments, or local climate.
- Do not invent such facts. If answering would require information you were not given, say you do not have enough information rather than guessing.
- Address the farmer's question directly and conversationally.
- IMPORTANT: Use simple, non-technical language suitable for farmers.
- Keep responses concise, ideally under 300 words.
- Always respond in a friendly and supportive tone.
- IMPORTANT: Respond entirely and only in the %s language.`, input.Language)

	fmt.Fprintf(&b, "\n\n**Farmer's Question:** %q", input.Prompt)

	return b.String()
}

// weatherUnavailable is the explicit placeholder for a missing weather
// reading, so absence never looks like a zero value.
const weatherUnavailable = "unavailable"

func weatherTempC(w *entities.Weather) *float64 {
	if w == nil {
		return nil
	}
	return w.TempC
}

func weatherHumidity(w *entities.Weather) *float64 {
	if w == nil {
		return nil
	}
	return w.Humidity
}

func formatWeatherText(w *entities.Weather) string {
	if w == nil || w.Description == nil {
		return weatherUnavailable
	}
	return *w.Description
}

func formatWeatherNumber(value *float64) string {
	if value == nil {
		return weatherUnavailable
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

func formatPeerReports(peers []entities.PeerReport) string {
	if len(peers) == 0 {
		return "No data available."
	}
	serialized, err := json.MarshalIndent(peers, "", "  ")
	if err != nil {
		return "No data available."
	}
	return string(serialized)
}

package dto

import "plant-advisor/internal/domain/entities"

// ConverseInput carries everything the conversation service needs for one
// exchange. Diagnosis, Weather and Peers are only set on the first turn of a
// session; History is client-owned and supplied back in full on every call.
type ConverseInput struct {
	Prompt    string
	Language  string
	History   []entities.Message
	Diagnosis *entities.Diagnosis
	Weather   *entities.Weather
	Peers     []entities.PeerReport
}

type DiagnoseResponse struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversation_id"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

package Iservices

import "plant-advisor/internal/domain/entities"

// ITranscriptService defines the server-side transcript audit log.
type ITranscriptService interface {
	Record(conversationID, userMessage, modelMessage string) error
	Find(conversationID string) (entities.Conversation, error)
}

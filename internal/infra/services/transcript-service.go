package services

import (
	"context"
	"fmt"
	"time"

	"plant-advisor/internal/domain/entities"
	"plant-advisor/internal/domain/interfaces/repository"
	repoconstants "plant-advisor/internal/domain/interfaces/repository/constants"
	"plant-advisor/internal/infra/logger"
)

// TranscriptService keeps a per-conversation audit log of exchanges. It is a
// write-behind record for operators; the history replayed to the model is
// still supplied by the client on every request.
type TranscriptService struct {
	ConversationRepository repository.Repository[entities.Conversation]
	Ctx                    context.Context
	Logger                 *logger.Logger
}

// NewTranscriptService creates a new instance of the service. A nil
// repository disables recording without failing requests.
func NewTranscriptService(conversationRepository repository.Repository[entities.Conversation], ctx context.Context, logger *logger.Logger) *TranscriptService {
	return &TranscriptService{
		ConversationRepository: conversationRepository,
		Ctx:                    ctx,
		Logger:                 logger,
	}
}

// Record appends one user/model exchange to the conversation's transcript.
func (ts *TranscriptService) Record(conversationID, userMessage, modelMessage string) error {
	if ts.ConversationRepository == nil {
		ts.Logger.Debug("Transcript store is not configured. Skipping record.")
		return nil
	}

	conversation, err := ts.ConversationRepository.FindByConversationID(ts.Ctx, repoconstants.CONVERSATION_COLLECTION, conversationID)
	if err != nil {
		ts.Logger.Info(fmt.Sprintf("Transcript not found for conversation ID %s. Starting a new one.", conversationID))
		conversation = entities.Conversation{ConversationID: conversationID}
	}

	now := time.Now()
	conversation.Transcript = append(conversation.Transcript,
		entities.Transcript{Role: entities.RoleUser, Message: userMessage, Timestamp: now},
		entities.Transcript{Role: entities.RoleModel, Message: modelMessage, Timestamp: now},
	)
	conversation.UpdatedAt = now

	if _, err := ts.ConversationRepository.Update(ts.Ctx, repoconstants.CONVERSATION_COLLECTION, conversationID, conversation); err != nil {
		ts.Logger.Error(fmt.Sprintf("Failed to record transcript for conversation %s: %v", conversationID, err))
		return err
	}
	return nil
}

// Find retrieves the stored transcript for a conversation.
func (ts *TranscriptService) Find(conversationID string) (entities.Conversation, error) {
	if ts.ConversationRepository == nil {
		return entities.Conversation{}, fmt.Errorf("transcript store is not configured")
	}

	conversation, err := ts.ConversationRepository.FindByConversationID(ts.Ctx, repoconstants.CONVERSATION_COLLECTION, conversationID)
	if err != nil {
		ts.Logger.Error(fmt.Sprintf("Failed to find transcript for conversation %s: %v", conversationID, err))
		return entities.Conversation{}, err
	}
	return conversation, nil
}

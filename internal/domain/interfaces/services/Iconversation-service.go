package Iservices

import (
	"context"
	"plant-advisor/internal/domain/dto"
)

type IConversationService interface {
	Converse(ctx context.Context, input dto.ConverseInput) (string, error)
}

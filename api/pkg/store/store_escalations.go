package store

import (
	"context"
	"errors"
	"time"

	"github.com/lattica-health/companion-api/api/pkg/system"
	"github.com/lattica-health/companion-api/api/pkg/types"
)

func (s *PostgresStore) CreateEscalationEvent(ctx context.Context, event *types.EscalationEvent) (*types.EscalationEvent, error) {
	if event.ConversationID == "" {
		return nil, errors.New("conversation ID is required")
	}
	if event.EventType == "" {
		return nil, errors.New("event type is required")
	}

	if event.ID == "" {
		event.ID = system.GenerateEscalationID()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	err := s.gdb.WithContext(ctx).Create(event).Error
	if err != nil {
		return nil, err
	}

	return event, nil
}

func (s *PostgresStore) ListEscalationEvents(ctx context.Context, conversationID string) ([]*types.EscalationEvent, error) {
	if conversationID == "" {
		return nil, errors.New("conversation ID is required")
	}

	var events []*types.EscalationEvent
	err := s.gdb.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("occurred_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	return events, nil
}

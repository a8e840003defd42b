package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/lattica-health/companion-api/api/pkg/types"
)

func (s *PostgresStore) CreateConversation(ctx context.Context, conversation *types.Conversation) (*types.Conversation, error) {
	if conversation.ID == "" {
		return nil, errors.New("conversation ID is required")
	}

	if conversation.Created.IsZero() {
		conversation.Created = time.Now()
	}
	conversation.Updated = time.Now()

	err := s.gdb.WithContext(ctx).Create(conversation).Error
	if err != nil {
		return nil, err
	}

	return conversation, nil
}

func (s *PostgresStore) GetConversation(ctx context.Context, id string) (*types.Conversation, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	var conversation types.Conversation
	err := s.gdb.WithContext(ctx).Where("id = ?", id).First(&conversation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &conversation, nil
}

// UpdateConversationEnded records the provider shutdown. Last writer
// wins across duplicate webhook deliveries; a shutdown for a
// conversation we never stored is a no-op.
func (s *PostgresStore) UpdateConversationEnded(ctx context.Context, id string, endedAt time.Time, shutdownReason string) error {
	if id == "" {
		return errors.New("conversation ID is required")
	}

	return s.gdb.WithContext(ctx).
		Model(&types.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"ended_at":        endedAt,
			"shutdown_reason": shutdownReason,
			"updated":         time.Now(),
		}).Error
}

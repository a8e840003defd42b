package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lattica-health/companion-api/api/pkg/types"
)

// CreateConversationSummary inserts the summary row if and only if no
// row exists yet for the conversation. Returns true when this call
// created the row. This single conditional write is what breaks the
// race between duplicate webhook deliveries: the primary key conflict
// makes the losing insert a no-op instead of a second row.
func (s *PostgresStore) CreateConversationSummary(ctx context.Context, summary *types.ConversationSummary) (bool, error) {
	if summary.ConversationID == "" {
		return false, errors.New("conversation ID is required")
	}

	if summary.Created.IsZero() {
		summary.Created = time.Now()
	}

	result := s.gdb.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "conversation_id"}},
		DoNothing: true,
	}).Create(summary)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (s *PostgresStore) GetConversationSummary(ctx context.Context, conversationID string) (*types.ConversationSummary, error) {
	if conversationID == "" {
		return nil, ErrNotFound
	}

	var summary types.ConversationSummary
	err := s.gdb.WithContext(ctx).Where("conversation_id = ?", conversationID).First(&summary).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &summary, nil
}

// UpdateSummaryPerceptionNotes overwrites the perception notes on an
// existing summary row. Perception notes are the only mutable summary
// field, updated when observations arrive after the row was created.
func (s *PostgresStore) UpdateSummaryPerceptionNotes(ctx context.Context, conversationID string, notes string) error {
	if conversationID == "" {
		return ErrNotFound
	}

	result := s.gdb.WithContext(ctx).
		Model(&types.ConversationSummary{}).
		Where("conversation_id = ?", conversationID).
		Update("perception_notes", notes)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

package store

import (
	"context"
	"errors"
	"time"

	"github.com/lattica-health/companion-api/api/pkg/types"
)

var ErrNotFound = errors.New("not found")

//go:generate mockgen -source $GOFILE -destination store_mocks.go -package $GOPACKAGE

type Store interface {
	// conversations
	CreateConversation(ctx context.Context, conversation *types.Conversation) (*types.Conversation, error)
	GetConversation(ctx context.Context, id string) (*types.Conversation, error)
	UpdateConversationEnded(ctx context.Context, id string, endedAt time.Time, shutdownReason string) error

	// summaries
	CreateConversationSummary(ctx context.Context, summary *types.ConversationSummary) (bool, error)
	GetConversationSummary(ctx context.Context, conversationID string) (*types.ConversationSummary, error)
	UpdateSummaryPerceptionNotes(ctx context.Context, conversationID string, notes string) error

	// escalations
	CreateEscalationEvent(ctx context.Context, event *types.EscalationEvent) (*types.EscalationEvent, error)
	ListEscalationEvents(ctx context.Context, conversationID string) ([]*types.EscalationEvent, error)

	Close() error
}

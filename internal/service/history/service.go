package history

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/policyqa/policyqa-backend/internal/model/auth"
	"github.com/policyqa/policyqa-backend/internal/model/conversation"
)

// ErrConversationNotFound covers both ids that do not exist and ids owned by
// another principal, so a caller can never probe for foreign conversations.
var ErrConversationNotFound = errors.New("conversation not found")

const (
	previewLimit = 100
	emptyPreview = "Empty conversation"
)

// Service owns every saved conversation, keyed by owner email. All access
// goes through the acting principal; there is no cross-owner read path.
type Service struct {
	mu     sync.RWMutex
	byUser map[string][]conversation.Conversation
}

// NewService bootstraps the in-memory conversation store.
func NewService() *Service {
	return &Service{
		byUser: make(map[string][]conversation.Conversation),
	}
}

// Save snapshots the given turn sequence as a new conversation owned by the
// principal. The turns are copied, so later mutation by the caller does not
// leak into the store.
func (s *Service) Save(_ context.Context, principal auth.Principal, turns []conversation.Turn) (conversation.Conversation, error) {
	convo := conversation.Conversation{
		ID:         uuid.NewString(),
		OwnerEmail: principal.Email,
		Turns:      copyTurns(turns),
		CreatedAt:  time.Now().UTC(),
	}

	s.mu.Lock()
	s.byUser[principal.Email] = append(s.byUser[principal.Email], convo)
	s.mu.Unlock()

	return convo, nil
}

// ListSummaries returns the principal's conversations in insertion order.
func (s *Service) ListSummaries(_ context.Context, principal auth.Principal) []conversation.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := s.byUser[principal.Email]
	summaries := make([]conversation.Summary, 0, len(owned))
	for _, convo := range owned {
		summaries = append(summaries, conversation.Summary{
			ID:           convo.ID,
			Preview:      preview(convo.Turns),
			MessageCount: len(convo.Turns),
			Timestamp:    convo.CreatedAt,
		})
	}
	return summaries
}

// Get retrieves one conversation by id. Ids owned by other principals are
// indistinguishable from missing ids.
func (s *Service) Get(_ context.Context, principal auth.Principal, id string) (conversation.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, convo := range s.byUser[principal.Email] {
		if convo.ID == id {
			copied := convo
			copied.Turns = copyTurns(convo.Turns)
			return copied, nil
		}
	}
	return conversation.Conversation{}, ErrConversationNotFound
}

// Delete removes one conversation permanently, with the same ownership rule
// as Get.
func (s *Service) Delete(_ context.Context, principal auth.Principal, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned := s.byUser[principal.Email]
	for i, convo := range owned {
		if convo.ID == id {
			s.byUser[principal.Email] = append(owned[:i], owned[i+1:]...)
			return nil
		}
	}
	return ErrConversationNotFound
}

func preview(turns []conversation.Turn) string {
	if len(turns) == 0 {
		return emptyPreview
	}

	content := []rune(turns[0].Content)
	if len(content) <= previewLimit {
		return turns[0].Content
	}
	return string(content[:previewLimit]) + "..."
}

func copyTurns(turns []conversation.Turn) []conversation.Turn {
	copied := make([]conversation.Turn, len(turns))
	copy(copied, turns)
	for i := range copied {
		if len(copied[i].Sources) > 0 {
			sources := make([]conversation.Source, len(copied[i].Sources))
			copy(sources, copied[i].Sources)
			copied[i].Sources = sources
		}
	}
	return copied
}

package memory

import (
	"context"
	"sync"

	"github.com/amarastelive/amaraste-agent/internal/domain"
)

// ArchiveStore keeps finalized conversation turns in memory, grouped by
// session.
type ArchiveStore struct {
	mu       sync.RWMutex
	messages map[domain.SessionID][]*domain.Message
}

func NewArchiveStore() *ArchiveStore {
	return &ArchiveStore{
		messages: make(map[domain.SessionID][]*domain.Message),
	}
}

func (s *ArchiveStore) AppendMessage(_ context.Context, msg *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages[msg.SessionID] = append(s.messages[msg.SessionID], msg)
	return nil
}

func (s *ArchiveStore) GetMessagesBySession(_ context.Context, sessionID domain.SessionID, limit int) ([]*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[sessionID]
	if limit > 0 && len(msgs) > limit {
		return msgs[len(msgs)-limit:], nil
	}
	return msgs, nil
}

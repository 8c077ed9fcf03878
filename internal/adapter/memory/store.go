package memory

import (
	"sync"

	"vet-assistant-relay/internal/domain"
)

const DefaultLimit = 10

// Store is the in-process history of every sender. A single mutex guards
// the whole map; callers must not hold it across network calls.
type Store struct {
	mu            sync.Mutex
	limit         int
	conversations map[string][]domain.Turn
}

func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{
		limit:         limit,
		conversations: make(map[string][]domain.Turn),
	}
}

func (s *Store) Limit() int {
	return s.limit
}

func (s *Store) Append(senderID string, turn domain.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.conversations[senderID], turn)
	if len(history) > s.limit {
		// copy so the evicted head does not pin the old backing array
		history = append([]domain.Turn(nil), history[len(history)-s.limit:]...)
	}
	s.conversations[senderID] = history
}

func (s *Store) Snapshot(senderID string) []domain.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.conversations[senderID]
	if len(history) == 0 {
		return nil
	}
	return append([]domain.Turn(nil), history...)
}

func (s *Store) Len(senderID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conversations[senderID])
}

var _ domain.ConversationStore = (*Store)(nil)

package dao

import (
	"context"
	"errors"
	"sync"

	"lead-agent/model"
)

var (
	ErrInvalidSession = errors.New("invalid session")
	ErrInvalidParam   = errors.New("invalid parameter")
)

// Store keeps one mutable session per lead identity. Get returns (nil, nil)
// for an unknown identity. Implementations only need an insertion-or-lookup
// guard per key; the engine serializes all turns for a single identity.
type Store interface {
	Get(ctx context.Context, sessionID string) (*model.Session, error)
	Save(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, sessionID string) error
	Close() error
}

// MemoryStore is the in-process Store used when no Redis is configured and
// in tests. Sessions are cloned on the way in and out so callers never share
// mutable state with the store, matching the serialization boundary of the
// Redis store.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*model.Session)}
}

func (s *MemoryStore) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	if sessionID == "" {
		return nil, ErrInvalidParam
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return cloneSession(sess), nil
}

func (s *MemoryStore) Save(ctx context.Context, session *model.Session) error {
	if err := validateSession(session); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = cloneSession(session)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrInvalidParam
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

func validateSession(session *model.Session) error {
	if session == nil {
		return ErrInvalidSession
	}
	if session.ID == "" {
		return ErrInvalidSession
	}
	return nil
}

func cloneSession(in *model.Session) *model.Session {
	out := *in
	out.History = append([]model.Message(nil), in.History...)
	out.Results = append([]model.SearchResult(nil), in.Results...)
	out.Lead.MachineCharacteristics = append([]string(nil), in.Lead.MachineCharacteristics...)
	if in.Lead.CurrentQuestionIndex != nil {
		idx := *in.Lead.CurrentQuestionIndex
		out.Lead.CurrentQuestionIndex = &idx
	}
	if in.Lead.IsDistributor != nil {
		b := *in.Lead.IsDistributor
		out.Lead.IsDistributor = &b
	}
	return &out
}

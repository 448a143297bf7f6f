package session

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

type memoryStore struct {
	mu          sync.RWMutex
	sessions    map[string]Session
	answers     map[string]map[string]Answer // sessionID -> questionID -> answer
	adjustments map[string][]Adjustment
}

// NewInMemoryStore is used by tests and offline/demo mode.
func NewInMemoryStore() Store {
	return &memoryStore{
		sessions:    map[string]Session{},
		answers:     map[string]map[string]Answer{},
		adjustments: map[string][]Adjustment{},
	}
}

func (m *memoryStore) CreateSession(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[s.ID]; exists {
		return fmt.Errorf("session %s already exists", s.ID)
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *memoryStore) GetSession(_ context.Context, id string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return s, nil
}

func (m *memoryStore) Complete(_ context.Context, id string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return false, ErrNotFound
	}
	if s.CompletedAt != nil {
		return false, nil
	}
	s.CompletedAt = &at
	m.sessions[id] = s
	return true, nil
}

func (m *memoryStore) UpsertAnswer(_ context.Context, a Answer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[a.SessionID]; !ok {
		return ErrNotFound
	}
	byQ, ok := m.answers[a.SessionID]
	if !ok {
		byQ = map[string]Answer{}
		m.answers[a.SessionID] = byQ
	}
	byQ[a.QuestionID] = a
	return nil
}

func (m *memoryStore) Answers(_ context.Context, sessionID string) ([]Answer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	byQ := m.answers[sessionID]
	out := make([]Answer, 0, len(byQ))
	for _, a := range byQ {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out, nil
}

func (m *memoryStore) ApplyAdjustment(_ context.Context, adj Adjustment, newExamID string, newCount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[adj.SessionID]
	if !ok {
		return ErrNotFound
	}
	s.FinalLevelID = adj.ToLevelID
	s.ExamID = newExamID
	s.AdjustmentCount = newCount
	m.sessions[adj.SessionID] = s
	m.adjustments[adj.SessionID] = append(m.adjustments[adj.SessionID], adj)
	return nil
}

func (m *memoryStore) Adjustments(_ context.Context, sessionID string) ([]Adjustment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Adjustment, len(m.adjustments[sessionID]))
	copy(out, m.adjustments[sessionID])
	return out, nil
}

func (m *memoryStore) SetManualGrade(_ context.Context, sessionID, questionID string, in ManualGradeInput, gradedBy string, at time.Time) (Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byQ := m.answers[sessionID]
	a, ok := byQ[questionID]
	if !ok {
		return Answer{}, ErrNoAnswer
	}
	correct := in.Correct
	a.PointsEarned = in.Points
	a.Correct = &correct
	a.GradedAt = at
	a.GradedBy = gradedBy
	byQ[questionID] = a
	return a, nil
}

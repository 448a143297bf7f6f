package exam

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu    sync.RWMutex
	exams map[string]Exam
}

// NewInMemoryStore is used by tests and offline/demo mode.
func NewInMemoryStore() Store {
	return &memoryStore{exams: map[string]Exam{}}
}

func (m *memoryStore) PutExam(_ context.Context, e Exam) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}
	m.exams[e.ID] = e
	return nil
}

func (m *memoryStore) GetExam(ctx context.Context, id string) (Exam, error) {
	e, err := m.GetExamAdmin(ctx, id)
	if err != nil {
		return Exam{}, err
	}
	return stripKeys(e), nil
}

func (m *memoryStore) GetExamAdmin(_ context.Context, id string) (Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.exams[id]
	if !ok {
		return Exam{}, ErrNotFound
	}
	return e, nil
}

func (m *memoryStore) ExamForLevel(_ context.Context, levelID string) (Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var best Exam
	found := false
	for _, e := range m.exams {
		if e.LevelID != levelID {
			continue
		}
		if !found || e.CreatedAt > best.CreatedAt {
			best = e
			found = true
		}
	}
	if !found {
		return Exam{}, ErrNotFound
	}
	return best, nil
}

func (m *memoryStore) AllExams(_ context.Context) ([]Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Exam, 0, len(m.exams))
	for _, e := range m.exams {
		out = append(out, e)
	}
	return out, nil
}

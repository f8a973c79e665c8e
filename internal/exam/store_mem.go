package exam

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// memoryStore backs tests and single-process dev runs.
type memoryStore struct {
	mu     sync.RWMutex
	exams  map[string]Exam
	groups map[string][]string
}

func NewInMemoryStore() Store {
	return &memoryStore{
		exams:  map[string]Exam{},
		groups: map[string][]string{},
	}
}

func (m *memoryStore) PutExam(_ context.Context, e Exam) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}
	if e.Sections == nil {
		e.Sections = []Section{}
	}
	m.exams[e.ID] = e
	return nil
}

func (m *memoryStore) GetExam(_ context.Context, id string) (Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.exams[id]
	if !ok {
		return Exam{}, ErrNotFound
	}
	return e, nil
}

func (m *memoryStore) UpdateExam(ctx context.Context, id string, patch UpdatePatch) (Exam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.exams[id]
	if !ok {
		return Exam{}, ErrNotFound
	}
	if patch.Title != nil {
		e.Title = *patch.Title
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	if patch.Sections != nil {
		e.Sections = *patch.Sections
	}
	if patch.TotalDurationMins != nil {
		e.TotalDurationMins = *patch.TotalDurationMins
	} else if patch.Sections != nil {
		e.TotalDurationMins = TotalDuration(e.Sections)
	}
	if patch.IsPublished != nil {
		e.IsPublished = *patch.IsPublished
	}
	if patch.ClassLevel != nil {
		e.ClassLevel = *patch.ClassLevel
	}
	if patch.Batch != nil {
		e.Batch = *patch.Batch
	}
	m.exams[id] = e
	return e, nil
}

func (m *memoryStore) DeleteExam(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exams[id]; !ok {
		return ErrNotFound
	}
	delete(m.exams, id)
	delete(m.groups, id)
	return nil
}

func (m *memoryStore) ListExams(_ context.Context, opts ListOpts) ([]ExamSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []ExamSummary{}
	for _, e := range m.exams {
		if opts.Q != "" && !strings.Contains(strings.ToLower(e.Title), strings.ToLower(opts.Q)) {
			continue
		}
		if opts.ClassLevel != "" && e.ClassLevel != opts.ClassLevel {
			continue
		}
		switch opts.ViewerRole {
		case "admin":
		case "teacher":
			if e.CreatedBy != opts.ViewerID && !e.IsPublished {
				continue
			}
		default:
			if !e.IsPublished {
				continue
			}
		}
		out = append(out, summarize(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return []ExamSummary{}, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (m *memoryStore) AssignGroups(_ context.Context, examID string, groups []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exams[examID]; !ok {
		return ErrNotFound
	}
	cp := make([]string, 0, len(groups))
	for _, g := range groups {
		if g = strings.TrimSpace(g); g != "" {
			cp = append(cp, g)
		}
	}
	m.groups[examID] = cp
	return nil
}

func (m *memoryStore) Groups(_ context.Context, examID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.groups[examID]...), nil
}

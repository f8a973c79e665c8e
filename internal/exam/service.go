package exam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// AllBatches is the sentinel batch name that fans an exam out to every
// known batch in addition to the class-level group.
const AllBatches = "All Batches"

// DefaultBatches are the portal's known batch names; override via config.
var DefaultBatches = []string{"Lakshya", "Aadharshilla", "Basic", "Commerce"}

var ErrValidation = errors.New("validation failed")

// EventSink records exam lifecycle events. See events.go for the SQL-backed one.
type EventSink interface {
	Append(ctx context.Context, typ, key, dataJSON string) error
}

type nopSink struct{}

func (nopSink) Append(context.Context, string, string, string) error { return nil }

// ExpandGroups resolves a class/batch target into the assignment group list.
// "All Batches" expands to the class level followed by every known batch.
func ExpandGroups(classLevel, batch string, batches []string) []string {
	if batch == AllBatches {
		out := make([]string, 0, len(batches)+1)
		out = append(out, classLevel)
		out = append(out, batches...)
		return out
	}
	return []string{classLevel, batch}
}

// Service wraps a Store with the publish/assign flow.
type Service struct {
	store   Store
	events  EventSink
	batches []string
}

func NewService(store Store, events EventSink, batches []string) *Service {
	if events == nil {
		events = nopSink{}
	}
	if len(batches) == 0 {
		batches = DefaultBatches
	}
	return &Service{store: store, events: events, batches: batches}
}

func (s *Service) Store() Store { return s.store }

// AssignToClassBatch publishes the exam and fans it out to the target groups.
// The two steps are not atomic: if the fan-out fails after the publish update
// succeeded, the exam stays published but unassigned and the error says so.
func (s *Service) AssignToClassBatch(ctx context.Context, examID, classLevel, batch string) (Exam, []string, error) {
	classLevel = strings.TrimSpace(classLevel)
	batch = strings.TrimSpace(batch)
	if classLevel == "" || batch == "" {
		return Exam{}, nil, fmt.Errorf("%w: class level and batch are required", ErrValidation)
	}

	published := true
	e, err := s.store.UpdateExam(ctx, examID, UpdatePatch{
		IsPublished: &published,
		ClassLevel:  &classLevel,
		Batch:       &batch,
	})
	if err != nil {
		return Exam{}, nil, err
	}

	groups := ExpandGroups(classLevel, batch, s.batches)
	if err := s.store.AssignGroups(ctx, examID, groups); err != nil {
		return e, nil, fmt.Errorf("exam published but group assignment failed: %w", err)
	}

	data, _ := json.Marshal(map[string]any{"class_level": classLevel, "batch": batch, "groups": groups})
	_ = s.events.Append(ctx, "ExamAssigned", examID, string(data))
	return e, groups, nil
}

// TogglePublish flips is_published and returns the stored exam.
func (s *Service) TogglePublish(ctx context.Context, examID string) (Exam, error) {
	e, err := s.store.GetExam(ctx, examID)
	if err != nil {
		return Exam{}, err
	}
	next := !e.IsPublished
	e, err = s.store.UpdateExam(ctx, examID, UpdatePatch{IsPublished: &next})
	if err != nil {
		return Exam{}, err
	}
	typ := "ExamUnpublished"
	if e.IsPublished {
		typ = "ExamPublished"
	}
	_ = s.events.Append(ctx, typ, examID, "{}")
	return e, nil
}

// SaveDraft persists sections and the recomputed total duration.
func (s *Service) SaveDraft(ctx context.Context, examID string, sections []Section) (Exam, error) {
	if sections == nil {
		sections = []Section{}
	}
	total := TotalDuration(sections)
	return s.store.UpdateExam(ctx, examID, UpdatePatch{
		Sections:          &sections,
		TotalDurationMins: &total,
	})
}

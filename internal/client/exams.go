package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/vidyasetu/exam-portal/internal/exam"
)

// CreateExam starts a new draft with a title only.
func (c *Client) CreateExam(ctx context.Context, title, description string) (exam.Exam, error) {
	var e exam.Exam
	err := c.do(ctx, "POST", "/api/exams", nil,
		map[string]string{"title": title, "description": description}, &e)
	return e, err
}

func (c *Client) GetExam(ctx context.Context, id string) (exam.Exam, error) {
	var e exam.Exam
	err := c.do(ctx, "GET", "/api/exams/"+url.PathEscape(id), nil, nil, &e)
	return e, err
}

func (c *Client) ListExams(ctx context.Context, q string, limit, offset int) ([]exam.ExamSummary, error) {
	vals := url.Values{}
	if q != "" {
		vals.Set("q", q)
	}
	if limit > 0 {
		vals.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		vals.Set("offset", strconv.Itoa(offset))
	}
	var out []exam.ExamSummary
	err := c.do(ctx, "GET", "/api/exams", vals, nil, &out)
	return out, err
}

func (c *Client) DeleteExam(ctx context.Context, id string) error {
	return c.do(ctx, "DELETE", "/api/exams/"+url.PathEscape(id), nil, nil, nil)
}

// SaveDraft persists the sections and the total duration computed from them.
// On failure the caller's in-memory draft is untouched; it remains the source
// of truth and the backend is only a mirror.
func (c *Client) SaveDraft(ctx context.Context, examID string, sections []exam.Section) (exam.Exam, error) {
	if sections == nil {
		sections = []exam.Section{}
	}
	var e exam.Exam
	err := c.do(ctx, "PUT", "/api/exams/"+url.PathEscape(examID), nil, map[string]any{
		"sections":            sections,
		"total_duration_mins": exam.TotalDuration(sections),
	}, &e)
	return e, err
}

// AssignToClassBatch publishes the draft to a class and batch. Two requests:
// first the save+publish update, then the group fan-out. There is no
// compensation between them; if the fan-out fails the exam stays published
// and the returned error says so.
func (c *Client) AssignToClassBatch(ctx context.Context, examID string, sections []exam.Section, classLevel, batch string) ([]string, error) {
	if classLevel == "" || batch == "" {
		return nil, fmt.Errorf("%w: class level and batch are required", exam.ErrValidation)
	}
	if sections == nil {
		sections = []exam.Section{}
	}

	published := true
	err := c.do(ctx, "PUT", "/api/exams/"+url.PathEscape(examID), nil, map[string]any{
		"sections":            sections,
		"total_duration_mins": exam.TotalDuration(sections),
		"is_published":        published,
		"class_level":         classLevel,
		"batch":               batch,
	}, nil)
	if err != nil {
		return nil, err
	}

	groups := exam.ExpandGroups(classLevel, batch, c.batches)
	err = c.do(ctx, "POST", "/api/exams/"+url.PathEscape(examID)+"/assign", nil,
		map[string]any{"groups": groups}, nil)
	if err != nil {
		return nil, fmt.Errorf("exam published but group assignment failed: %w", err)
	}
	return groups, nil
}

// TogglePublish flips the publish flag and reconciles from the server's
// returned value, falling back to the local toggle when the server omits it.
func (c *Client) TogglePublish(ctx context.Context, examID string, current bool) (bool, error) {
	next := !current
	var resp struct {
		IsPublished *bool `json:"is_published"`
	}
	err := c.do(ctx, "PUT", "/api/exams/"+url.PathEscape(examID), nil,
		map[string]any{"is_published": next}, &resp)
	if err != nil {
		return current, err
	}
	if resp.IsPublished != nil {
		return *resp.IsPublished, nil
	}
	return next, nil
}

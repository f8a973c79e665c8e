package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/vidyasetu/exam-portal/internal/bank"
)

// ListQuestions fetches a page of the per-class question bank. Together with
// FilterOptions this makes *Client a bank.Source, so the filter cascade can
// run against a remote portal.
func (c *Client) ListQuestions(ctx context.Context, opts bank.ListOpts) ([]bank.Question, error) {
	vals := url.Values{}
	add := func(k, v string) {
		if v != "" {
			vals.Set(k, v)
		}
	}
	add("subject", opts.Subject)
	add("chapter", opts.Chapter)
	add("topic", opts.Topic)
	add("type", opts.Type)
	add("difficulty", opts.Difficulty)
	add("q", opts.Q)
	if opts.Limit > 0 {
		vals.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		vals.Set("offset", strconv.Itoa(opts.Offset))
	}
	var out []bank.Question
	err := c.do(ctx, "GET", "/api/ai/questions/class/"+url.PathEscape(opts.ClassLevel), vals, nil, &out)
	return out, err
}

func (c *Client) FilterOptions(ctx context.Context, classLevel, subject string) (bank.FilterOptions, error) {
	vals := url.Values{}
	if subject != "" {
		vals.Set("subject", subject)
	}
	var out bank.FilterOptions
	err := c.do(ctx, "GET", "/api/ai/questions/class/"+url.PathEscape(classLevel)+"/filters", vals, nil, &out)
	return out, err
}

func (c *Client) GetQuestion(ctx context.Context, classLevel, id string) (bank.Question, error) {
	var out bank.Question
	err := c.do(ctx, "GET", "/api/ai/questions/class/"+url.PathEscape(classLevel)+"/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

func (c *Client) Solve(ctx context.Context, classLevel, id string) (bank.Solution, error) {
	var out bank.Solution
	err := c.do(ctx, "POST", "/api/ai/questions/class/"+url.PathEscape(classLevel)+"/solve", nil,
		map[string]string{"id": id}, &out)
	return out, err
}

func (c *Client) SolveBatch(ctx context.Context, classLevel string, ids []string) ([]bank.Solution, error) {
	var out []bank.Solution
	err := c.do(ctx, "POST", "/api/ai/questions/class/"+url.PathEscape(classLevel)+"/solve-batch", nil,
		map[string]any{"ids": ids}, &out)
	return out, err
}

func (c *Client) BulkUpdateQuestions(ctx context.Context, classLevel string, patches []bank.QuestionPatch) (int, error) {
	var resp struct {
		Updated int `json:"updated"`
	}
	err := c.do(ctx, "POST", "/api/ai/questions/class/"+url.PathEscape(classLevel)+"/bulk-update", nil,
		map[string]any{"updates": patches}, &resp)
	return resp.Updated, err
}

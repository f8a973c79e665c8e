package client

import (
	"context"
	"net/url"
)

type Paper struct {
	ID        string `json:"id"`
	ExamID    string `json:"exam_id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

type PaperPatch struct {
	Title  *string `json:"title,omitempty"`
	Status *string `json:"status,omitempty"`
}

// GeneratePaper renders the exam's current draft into a stored paper.
func (c *Client) GeneratePaper(ctx context.Context, examID string) (Paper, error) {
	var p Paper
	err := c.do(ctx, "POST", "/api/papers", nil, map[string]string{"exam_id": examID}, &p)
	return p, err
}

func (c *Client) ListPapers(ctx context.Context, examID string) ([]Paper, error) {
	vals := url.Values{}
	if examID != "" {
		vals.Set("exam_id", examID)
	}
	var out []Paper
	err := c.do(ctx, "GET", "/api/papers", vals, nil, &out)
	return out, err
}

func (c *Client) UpdatePaper(ctx context.Context, id string, patch PaperPatch) (Paper, error) {
	var p Paper
	err := c.do(ctx, "PUT", "/api/papers/"+url.PathEscape(id), nil, patch, &p)
	return p, err
}

// ExportPaper fetches the stored print HTML.
func (c *Client) ExportPaper(ctx context.Context, id string) (string, error) {
	req, err := c.newRawRequest(ctx, "GET", "/api/papers/"+url.PathEscape(id)+"/export")
	if err != nil {
		return "", err
	}
	return c.doRaw(req)
}

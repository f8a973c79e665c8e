package exam

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

var ErrNotFound = errors.New("exam not found")

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) PutExam(ctx context.Context, e Exam) error {
	if e.Sections == nil {
		e.Sections = []Section{}
	}
	sj, err := json.Marshal(e.Sections)
	if err != nil {
		return err
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO exams
		(id,title,description,sections_json,total_duration_mins,is_published,class_level,batch,created_by,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET
		  title=EXCLUDED.title, description=EXCLUDED.description,
		  sections_json=EXCLUDED.sections_json, total_duration_mins=EXCLUDED.total_duration_mins,
		  is_published=EXCLUDED.is_published, class_level=EXCLUDED.class_level, batch=EXCLUDED.batch`,
		e.ID, e.Title, e.Description, string(sj), e.TotalDurationMins, e.IsPublished,
		e.ClassLevel, e.Batch, e.CreatedBy, e.CreatedAt)
	return err
}

func (s *SQLStore) GetExam(ctx context.Context, id string) (Exam, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,title,description,sections_json,total_duration_mins,is_published,class_level,batch,created_by,created_at
		FROM exams WHERE id=$1`, id)
	return scanExam(row)
}

func scanExam(row *sql.Row) (Exam, error) {
	var e Exam
	var sj string
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &sj, &e.TotalDurationMins,
		&e.IsPublished, &e.ClassLevel, &e.Batch, &e.CreatedBy, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Exam{}, ErrNotFound
		}
		return Exam{}, err
	}
	if err := json.Unmarshal([]byte(sj), &e.Sections); err != nil {
		return Exam{}, err
	}
	if e.Sections == nil {
		e.Sections = []Section{}
	}
	return e, nil
}

func (s *SQLStore) UpdateExam(ctx context.Context, id string, patch UpdatePatch) (Exam, error) {
	e, err := s.GetExam(ctx, id)
	if err != nil {
		return Exam{}, err
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
	if err := s.PutExam(ctx, e); err != nil {
		return Exam{}, err
	}
	return e, nil
}

func (s *SQLStore) DeleteExam(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM exams WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) ListExams(ctx context.Context, opts ListOpts) ([]ExamSummary, error) {
	if opts.Limit <= 0 || opts.Limit > 200 {
		opts.Limit = 50
	}
	where := []string{"1=1"}
	args := []any{}
	n := 0
	next := func() string { n++; return "$" + strconv.Itoa(n) }

	if opts.Q != "" {
		where = append(where, "LOWER(title) LIKE '%' || LOWER("+next()+") || '%'")
		args = append(args, opts.Q)
	}
	if opts.ClassLevel != "" {
		where = append(where, "class_level="+next())
		args = append(args, opts.ClassLevel)
	}
	switch opts.ViewerRole {
	case "admin":
		// sees everything
	case "teacher":
		where = append(where, "(created_by="+next()+" OR is_published)")
		args = append(args, opts.ViewerID)
	default:
		where = append(where, "is_published")
	}

	limPh, offPh := next(), next()
	args = append(args, opts.Limit, opts.Offset)
	q := `SELECT id,title,description,sections_json,total_duration_mins,is_published,class_level,batch,created_by,created_at
		FROM exams WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY created_at DESC LIMIT ` + limPh + ` OFFSET ` + offPh

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ExamSummary{}
	for rows.Next() {
		var e Exam
		var sj string
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &sj, &e.TotalDurationMins,
			&e.IsPublished, &e.ClassLevel, &e.Batch, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(sj), &e.Sections)
		out = append(out, summarize(e))
	}
	return out, rows.Err()
}

func (s *SQLStore) AssignGroups(ctx context.Context, examID string, groups []string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM exam_groups WHERE exam_id=$1`, examID); err != nil {
		return err
	}
	now := time.Now().Unix()
	for _, g := range groups {
		if g = strings.TrimSpace(g); g == "" {
			continue
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO exam_groups (exam_id, group_name, assigned_at) VALUES ($1,$2,$3)`,
			examID, g, now); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLStore) Groups(ctx context.Context, examID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT group_name FROM exam_groups WHERE exam_id=$1 ORDER BY group_name`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

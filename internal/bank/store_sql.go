package bank

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrNotFound = errors.New("question not found")

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

const questionCols = `id,class_level,subject,chapter,topic,section_label,qtype,text,options_json,answer,solution,difficulty,marks,diagram_key,created_at`

func (s *SQLStore) PutQuestion(ctx context.Context, q Question) error {
	if !KnownTypes[q.Type] {
		return fmt.Errorf("unknown question type: %s", q.Type)
	}
	if q.Options == nil {
		q.Options = []Option{}
	}
	oj, err := json.Marshal(q.Options)
	if err != nil {
		return err
	}
	if q.CreatedAt == 0 {
		q.CreatedAt = time.Now().Unix()
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO questions (`+questionCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		ON CONFLICT (id) DO UPDATE SET
		  class_level=EXCLUDED.class_level, subject=EXCLUDED.subject, chapter=EXCLUDED.chapter,
		  topic=EXCLUDED.topic, section_label=EXCLUDED.section_label, qtype=EXCLUDED.qtype,
		  text=EXCLUDED.text, options_json=EXCLUDED.options_json, answer=EXCLUDED.answer,
		  solution=EXCLUDED.solution, difficulty=EXCLUDED.difficulty, marks=EXCLUDED.marks,
		  diagram_key=EXCLUDED.diagram_key`,
		q.ID, q.ClassLevel, q.Subject, q.Chapter, q.Topic, q.SectionLabel, q.Type, q.Text,
		string(oj), q.Answer, q.Solution, q.Difficulty, q.Marks, q.DiagramKey, q.CreatedAt)
	return err
}

func (s *SQLStore) GetQuestion(ctx context.Context, id string) (Question, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+questionCols+` FROM questions WHERE id=$1`, id)
	var q Question
	var oj string
	if err := row.Scan(&q.ID, &q.ClassLevel, &q.Subject, &q.Chapter, &q.Topic, &q.SectionLabel,
		&q.Type, &q.Text, &oj, &q.Answer, &q.Solution, &q.Difficulty, &q.Marks, &q.DiagramKey, &q.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Question{}, ErrNotFound
		}
		return Question{}, err
	}
	if err := json.Unmarshal([]byte(oj), &q.Options); err != nil {
		return Question{}, err
	}
	return q, nil
}

func (s *SQLStore) DeleteQuestion(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) ListQuestions(ctx context.Context, opts ListOpts) ([]Question, error) {
	if opts.Limit <= 0 || opts.Limit > 500 {
		opts.Limit = 100
	}
	where := []string{"1=1"}
	args := []any{}
	n := 0
	next := func() string { n++; return "$" + strconv.Itoa(n) }

	add := func(col, val string) {
		if val != "" {
			where = append(where, col+"="+next())
			args = append(args, val)
		}
	}
	add("class_level", opts.ClassLevel)
	add("subject", opts.Subject)
	add("chapter", opts.Chapter)
	add("topic", opts.Topic)
	add("qtype", opts.Type)
	add("difficulty", opts.Difficulty)
	if opts.Q != "" {
		where = append(where, "LOWER(text) LIKE '%' || LOWER("+next()+") || '%'")
		args = append(args, opts.Q)
	}

	limPh, offPh := next(), next()
	args = append(args, opts.Limit, opts.Offset)
	q := `SELECT ` + questionCols + ` FROM questions WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY created_at DESC, id LIMIT ` + limPh + ` OFFSET ` + offPh

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Question{}
	for rows.Next() {
		var qu Question
		var oj string
		if err := rows.Scan(&qu.ID, &qu.ClassLevel, &qu.Subject, &qu.Chapter, &qu.Topic, &qu.SectionLabel,
			&qu.Type, &qu.Text, &oj, &qu.Answer, &qu.Solution, &qu.Difficulty, &qu.Marks, &qu.DiagramKey, &qu.CreatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(oj), &qu.Options)
		out = append(out, qu)
	}
	return out, rows.Err()
}

// FilterOptions enumerates distinct taxonomy values for a class. Chapters and
// topics are scoped to the subject when one is given.
func (s *SQLStore) FilterOptions(ctx context.Context, classLevel, subject string) (FilterOptions, error) {
	var fo FilterOptions
	var err error
	if fo.Subjects, err = s.distinct(ctx, "subject", classLevel, ""); err != nil {
		return FilterOptions{}, err
	}
	if fo.Chapters, err = s.distinct(ctx, "chapter", classLevel, subject); err != nil {
		return FilterOptions{}, err
	}
	if fo.Topics, err = s.distinct(ctx, "topic", classLevel, subject); err != nil {
		return FilterOptions{}, err
	}
	if fo.Sections, err = s.distinct(ctx, "section_label", classLevel, subject); err != nil {
		return FilterOptions{}, err
	}
	return fo, nil
}

func (s *SQLStore) distinct(ctx context.Context, col, classLevel, subject string) ([]string, error) {
	q := `SELECT DISTINCT ` + col + ` FROM questions WHERE class_level=$1 AND ` + col + `<>''`
	args := []any{classLevel}
	if subject != "" {
		q += ` AND subject=$2`
		args = append(args, subject)
	}
	q += ` ORDER BY ` + col
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *SQLStore) BulkUpdate(ctx context.Context, patches []QuestionPatch) (updated int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	for _, p := range patches {
		if p.ID == "" {
			continue
		}
		sets := []string{}
		args := []any{}
		n := 0
		set := func(col string, v any) {
			n++
			sets = append(sets, col+"=$"+strconv.Itoa(n))
			args = append(args, v)
		}
		if p.Text != nil {
			set("text", *p.Text)
		}
		if p.Options != nil {
			oj, _ := json.Marshal(p.Options)
			set("options_json", string(oj))
		}
		if p.Answer != nil {
			set("answer", *p.Answer)
		}
		if p.Solution != nil {
			set("solution", *p.Solution)
		}
		if p.Difficulty != nil {
			set("difficulty", *p.Difficulty)
		}
		if p.Marks != nil {
			set("marks", *p.Marks)
		}
		if p.Chapter != nil {
			set("chapter", *p.Chapter)
		}
		if p.Topic != nil {
			set("topic", *p.Topic)
		}
		if len(sets) == 0 {
			continue
		}
		args = append(args, p.ID)
		var res sql.Result
		res, err = tx.ExecContext(ctx,
			`UPDATE questions SET `+strings.Join(sets, ", ")+` WHERE id=$`+strconv.Itoa(n+1), args...)
		if err != nil {
			return updated, err
		}
		if rn, e := res.RowsAffected(); e == nil {
			updated += int(rn)
		}
	}
	return updated, nil
}

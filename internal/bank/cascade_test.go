package bank

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeSource struct {
	mu        sync.Mutex
	options   map[string]FilterOptions // key: class|subject
	questions map[string][]Question    // key: class|subject|chapter|topic
	listErr   error

	// blockList, when set, delays ListQuestions until released or ctx done.
	blockList chan struct{}
}

func (f *fakeSource) FilterOptions(_ context.Context, class, subject string) (FilterOptions, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.options[class+"|"+subject], nil
}

func (f *fakeSource) ListQuestions(ctx context.Context, opts ListOpts) ([]Question, error) {
	f.mu.Lock()
	block := f.blockList
	err := f.listErr
	f.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := opts.ClassLevel + "|" + opts.Subject + "|" + opts.Chapter + "|" + opts.Topic
	return f.questions[key], nil
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		options: map[string]FilterOptions{
			"10|":        {Subjects: []string{"Maths", "Physics"}},
			"10|Physics": {Subjects: []string{"Maths", "Physics"}, Chapters: []string{"Optics", "Waves"}, Topics: []string{"Lenses"}},
		},
		questions: map[string][]Question{
			"10|||":               {{ID: "q1"}, {ID: "q2"}},
			"10|Physics||":        {{ID: "q2"}},
			"10|Physics|Optics||": nil,
			"10|Physics|Optics|":  {{ID: "q3"}},
		},
	}
}

func TestCascadeSubjectResetsDownstream(t *testing.T) {
	src := newFakeSource()
	c := NewCascade(src)
	ctx := context.Background()

	c.SetClass(ctx, "10")
	c.SetSubject(ctx, "Physics")
	c.SetChapter(ctx, "Optics")
	c.SetTopic(ctx, "Lenses")

	st := c.SetSubject(ctx, "Physics")
	if st.Chapter != "" || st.Topic != "" {
		t.Fatalf("chapter/topic not reset: %q %q", st.Chapter, st.Topic)
	}
	if len(st.Options.Chapters) != 2 {
		t.Fatalf("expected subject-scoped chapters, got %v", st.Options.Chapters)
	}
}

func TestCascadeClassResetsEverything(t *testing.T) {
	src := newFakeSource()
	c := NewCascade(src)
	ctx := context.Background()

	c.SetClass(ctx, "10")
	c.SetSubject(ctx, "Physics")
	st := c.SetClass(ctx, "10")
	if st.Subject != "" || st.Chapter != "" || st.Topic != "" {
		t.Fatalf("downstream filters not reset: %+v", st)
	}
	if len(st.Questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(st.Questions))
	}
}

func TestCascadeFetchFailureClearsList(t *testing.T) {
	src := newFakeSource()
	c := NewCascade(src)
	ctx := context.Background()

	st := c.SetClass(ctx, "10")
	if len(st.Questions) == 0 {
		t.Fatalf("seed fetch failed")
	}

	src.mu.Lock()
	src.listErr = errors.New("boom")
	src.mu.Unlock()

	st = c.SetSubject(ctx, "Physics")
	if st.Questions != nil && len(st.Questions) != 0 {
		t.Fatalf("failure must clear the question list, got %v", st.Questions)
	}
	if st.LastErr == nil {
		t.Fatalf("expected LastErr to be set")
	}
}

func TestCascadeDiscardsStaleResponse(t *testing.T) {
	src := newFakeSource()
	c := NewCascade(src)
	ctx := context.Background()

	c.SetClass(ctx, "10")

	// First call blocks inside ListQuestions; the second supersedes it.
	release := make(chan struct{})
	src.mu.Lock()
	src.blockList = release
	src.mu.Unlock()

	done := make(chan CascadeState, 1)
	go func() { done <- c.SetSubject(ctx, "Maths") }()

	// Wait until the slow fetch is in flight, then supersede it.
	time.Sleep(20 * time.Millisecond)
	src.mu.Lock()
	src.blockList = nil
	src.mu.Unlock()
	st := c.SetSubject(ctx, "Physics")
	if st.Subject != "Physics" {
		t.Fatalf("subject = %q, want Physics", st.Subject)
	}
	if len(st.Questions) != 1 || st.Questions[0].ID != "q2" {
		t.Fatalf("questions = %v, want [q2]", st.Questions)
	}

	close(release)
	<-done

	// The stale Maths fetch must not have overwritten the Physics state.
	final := c.State()
	if final.Subject != "Physics" {
		t.Fatalf("stale fetch overwrote subject: %q", final.Subject)
	}
	if len(final.Questions) != 1 || final.Questions[0].ID != "q2" {
		t.Fatalf("stale fetch overwrote questions: %v", final.Questions)
	}
}

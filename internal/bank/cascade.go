package bank

import (
	"context"
	"sync"
)

// Source is what the cascade fetches from: the SQL store in-process, or the
// portal client when the cascade runs against a remote API.
type Source interface {
	FilterOptions(ctx context.Context, classLevel, subject string) (FilterOptions, error)
	ListQuestions(ctx context.Context, opts ListOpts) ([]Question, error)
}

// CascadeState is a snapshot of the dependent filter chain
// class -> subject -> chapter -> topic plus the fetched data.
type CascadeState struct {
	ClassLevel string
	Subject    string
	Chapter    string
	Topic      string
	Options    FilterOptions
	Questions  []Question
	LastErr    error
}

// Cascade owns the dependent filter chain. Changing an upstream filter resets
// everything downstream and refetches. Every mutation bumps a generation
// counter and cancels the previous in-flight fetch; a fetch only applies its
// result if its generation is still current, so a slow stale response can
// never overwrite the state of a newer selection.
type Cascade struct {
	mu     sync.Mutex
	src    Source
	state  CascadeState
	gen    uint64
	cancel context.CancelFunc
}

func NewCascade(src Source) *Cascade {
	return &Cascade{src: src}
}

// State returns a copy of the current snapshot.
func (c *Cascade) State() CascadeState {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.state
	st.Questions = append([]Question(nil), c.state.Questions...)
	return st
}

// SetClass selects a class and resets subject, chapter and topic.
func (c *Cascade) SetClass(ctx context.Context, classLevel string) CascadeState {
	ctx, gen := c.begin(ctx, func(st *CascadeState) {
		st.ClassLevel = classLevel
		st.Subject, st.Chapter, st.Topic = "", "", ""
	})
	return c.fetch(ctx, gen, true)
}

// SetSubject resets chapter and topic and refetches both the filter options
// (chapters/topics become subject-scoped) and the question list.
func (c *Cascade) SetSubject(ctx context.Context, subject string) CascadeState {
	ctx, gen := c.begin(ctx, func(st *CascadeState) {
		st.Subject = subject
		st.Chapter, st.Topic = "", ""
	})
	return c.fetch(ctx, gen, true)
}

// SetChapter resets topic and refetches the question list.
func (c *Cascade) SetChapter(ctx context.Context, chapter string) CascadeState {
	ctx, gen := c.begin(ctx, func(st *CascadeState) {
		st.Chapter = chapter
		st.Topic = ""
	})
	return c.fetch(ctx, gen, false)
}

// SetTopic refetches the question list.
func (c *Cascade) SetTopic(ctx context.Context, topic string) CascadeState {
	ctx, gen := c.begin(ctx, func(st *CascadeState) {
		st.Topic = topic
	})
	return c.fetch(ctx, gen, false)
}

// Refresh refetches options and questions for the current selection.
func (c *Cascade) Refresh(ctx context.Context) CascadeState {
	ctx, gen := c.begin(ctx, func(*CascadeState) {})
	return c.fetch(ctx, gen, true)
}

// begin applies the selection mutation, bumps the generation and cancels any
// in-flight fetch.
func (c *Cascade) begin(ctx context.Context, mutate func(*CascadeState)) (context.Context, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	mutate(&c.state)
	c.gen++
	if c.cancel != nil {
		c.cancel()
	}
	ctx, c.cancel = context.WithCancel(ctx)
	return ctx, c.gen
}

func (c *Cascade) fetch(ctx context.Context, gen uint64, withOptions bool) CascadeState {
	c.mu.Lock()
	st := c.state
	c.mu.Unlock()

	var opts FilterOptions
	var optErr error
	if withOptions {
		opts, optErr = c.src.FilterOptions(ctx, st.ClassLevel, st.Subject)
	}
	questions, listErr := c.src.ListQuestions(ctx, ListOpts{
		ClassLevel: st.ClassLevel,
		Subject:    st.Subject,
		Chapter:    st.Chapter,
		Topic:      st.Topic,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		// A newer selection superseded this fetch; drop the result.
		return c.snapshotLocked()
	}
	if withOptions {
		if optErr != nil {
			c.state.Options = FilterOptions{}
			c.state.LastErr = optErr
		} else {
			c.state.Options = opts
			c.state.LastErr = nil
		}
	}
	if listErr != nil {
		// Failure clears the list; no automatic retry.
		c.state.Questions = nil
		c.state.LastErr = listErr
	} else {
		c.state.Questions = questions
		if optErr == nil {
			c.state.LastErr = nil
		}
	}
	return c.snapshotLocked()
}

func (c *Cascade) snapshotLocked() CascadeState {
	st := c.state
	st.Questions = append([]Question(nil), c.state.Questions...)
	return st
}

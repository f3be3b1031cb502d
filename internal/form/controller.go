package form

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// CommitFunc persists a candidate entity and returns the stored version.
type CommitFunc[E any] func(ctx context.Context, candidate E) (E, error)

// Controller drives a live form. At most one commit runs at a time.
type Controller[E any, P Pending[E, P]] struct {
	commit CommitFunc[E]

	mu    sync.Mutex
	state State[E, P]
}

func NewController[E any, P Pending[E, P]](entity E, commit CommitFunc[E]) *Controller[E, P] {
	return &Controller[E, P]{
		commit: commit,
		state:  State[E, P]{Phase: Viewing, Entity: entity},
	}
}

func (c *Controller[E, P]) State() State[E, P] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dispatch applies a user action. Submit and Retry go through Submit and
// Retry; Success and Failure are produced by the commit.
func (c *Controller[E, P]) Dispatch(a Action) (State[E, P], error) {
	switch a.(type) {
	case Submit, Retry, Success[E], Failure:
		return c.State(), fmt.Errorf("%w: %s cannot be dispatched", ErrInvalidTransition, a.name())
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := Reduce(c.state, a)
	if err != nil {
		return c.state, err
	}
	c.state = next
	return next, nil
}

// Submit commits the pending edit.
func (c *Controller[E, P]) Submit(ctx context.Context) (State[E, P], error) {
	return c.run(ctx, Submit{})
}

// Retry commits the pending edit again after a failure.
func (c *Controller[E, P]) Retry(ctx context.Context) (State[E, P], error) {
	return c.run(ctx, Retry{})
}

type outcome[E any, P Pending[E, P]] struct {
	state State[E, P]
	err   error
}

// run enters Submitting and commits the candidate. The commit is detached
// from ctx: when ctx ends first, run returns ctx.Err() and the commit
// still completes and settles the state.
func (c *Controller[E, P]) run(ctx context.Context, a Action) (State[E, P], error) {
	c.mu.Lock()
	if c.state.Phase == Submitting {
		current := c.state
		c.mu.Unlock()
		return current, ErrSubmitInFlight
	}
	next, err := Reduce(c.state, a)
	if err != nil {
		current := c.state
		c.mu.Unlock()
		return current, err
	}
	c.state = next
	candidate := next.Candidate()
	c.mu.Unlock()

	done := make(chan outcome[E, P], 1)
	go func() {
		stored, commitErr := c.commit(context.WithoutCancel(ctx), candidate)

		var settle Action = Success[E]{Entity: stored}
		if commitErr != nil {
			settle = Failure{Err: commitErr}
		}

		c.mu.Lock()
		settled, err := Reduce(c.state, settle)
		if err != nil {
			log.Error().Err(err).Msg("form commit settled in unexpected phase")
		}
		c.state = settled
		c.mu.Unlock()

		done <- outcome[E, P]{state: settled, err: commitErr}
	}()

	select {
	case out := <-done:
		return out.state, out.err
	case <-ctx.Done():
		return c.State(), ctx.Err()
	}
}

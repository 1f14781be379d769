// Package deploy is the boundary to the production system. Approval
// and deployment are two independent steps: by the time a push runs,
// the status change is already committed, and a failed push never
// rolls it back.
package deploy

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// Gateway delivers approved changes to production.
type Gateway interface {
	// Push sends one task's change; it may block on network latency.
	Push(ctx context.Context, taskID int) error
	// PushBatch pushes ids sequentially, awaiting each before the
	// next. The first failure aborts the remaining sequence; ids
	// already pushed stay pushed.
	PushBatch(ctx context.Context, taskIDs []int) error
}

// Simulated is the stand-in gateway: it sleeps a fixed latency per
// push and succeeds unless a failure hook says otherwise.
type Simulated struct {
	Latency time.Duration
	// Fail, when non-nil, marks individual pushes as failed. Used by
	// tests and demo setups.
	Fail func(taskID int) bool
}

// NewSimulated returns a gateway with the reference 1s push latency.
func NewSimulated() *Simulated {
	return &Simulated{Latency: time.Second}
}

func (g *Simulated) Push(ctx context.Context, taskID int) error {
	attempt := uuid.NewString()
	select {
	case <-time.After(g.Latency):
	case <-ctx.Done():
		return ctx.Err()
	}
	if g.Fail != nil && g.Fail(taskID) {
		log.Printf("production push failed task=%d attempt=%s", taskID, attempt)
		return fmt.Errorf("production push rejected task %d", taskID)
	}
	log.Printf("task %d changes pushed to production attempt=%s", taskID, attempt)
	return nil
}

func (g *Simulated) PushBatch(ctx context.Context, taskIDs []int) error {
	for _, id := range taskIDs {
		if err := g.Push(ctx, id); err != nil {
			return fmt.Errorf("push task %d: %w", id, err)
		}
	}
	return nil
}

// Package schedule registers one-shot timers that invoke a follow-up handler
// once and then delete themselves.
package schedule

import (
	"context"
	"errors"
	"time"
)

var (
	ErrEmptyName   = errors.New("schedule name is required")
	ErrEmptyTarget = errors.New("schedule target is required")
)

// ExpressionLayout is the timestamp layout inside at(...) expressions. It
// carries no zone; the zone travels separately.
const ExpressionLayout = "2006-01-02T15:04:05"

type ScheduledNotification struct {
	Name        string
	Description string
	FireAt      time.Time
	Target      string
	Payload     []byte
	// Purpose is the lifecycle suffix, used for logs and metrics only.
	Purpose string
}

func (n ScheduledNotification) validate() error {
	if n.Name == "" {
		return ErrEmptyName
	}
	if n.Target == "" {
		return ErrEmptyTarget
	}
	return nil
}

type Scheduler interface {
	CreateOneShot(ctx context.Context, n ScheduledNotification) error
}

// AtExpression formats t as a one-shot expression using t's own location.
func AtExpression(t time.Time) string {
	return "at(" + t.Format(ExpressionLayout) + ")"
}

package ports

import (
	"context"
	"time"

	"github.com/smartclinic/clinic-portal/internal/core/domain"
)

// ConfirmationStore holds armed two-step actions until they are confirmed,
// cancelled or expire.
type ConfirmationStore interface {
	Arm(ctx context.Context, action domain.PendingAction, ttl time.Duration) error
	// Take atomically removes and returns the armed action, or fails with
	// domain.ErrNotFound when nothing is armed under token.
	Take(ctx context.Context, token string) (*domain.PendingAction, error)
	// MarkDone leaves a tombstone so later confirmations can tell a completed
	// action from an expired one.
	MarkDone(ctx context.Context, token string, ttl time.Duration) error
	Done(ctx context.Context, token string) (bool, error)
}

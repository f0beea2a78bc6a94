package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smartclinic/clinic-portal/internal/core/domain"
)

// ConfirmationStore keeps armed actions under confirm:<token> and completed
// ones under confirm:done:<token>, both expiring.
type ConfirmationStore struct {
	client *redis.Client
}

func NewConfirmationStore(client *redis.Client) *ConfirmationStore {
	return &ConfirmationStore{client: client}
}

func (s *ConfirmationStore) Arm(ctx context.Context, action domain.PendingAction, ttl time.Duration) error {
	payload, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("arm: encode: %w", err)
	}
	if err := s.client.Set(ctx, s.armKey(action.Token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("arm: %w", err)
	}
	return nil
}

// Take uses GETDEL so two concurrent confirmations cannot both obtain the
// same armed action.
func (s *ConfirmationStore) Take(ctx context.Context, token string) (*domain.PendingAction, error) {
	raw, err := s.client.GetDel(ctx, s.armKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("take: %w", err)
	}

	var action domain.PendingAction
	if err := json.Unmarshal(raw, &action); err != nil {
		return nil, fmt.Errorf("take: decode: %w", err)
	}
	return &action, nil
}

func (s *ConfirmationStore) MarkDone(ctx context.Context, token string, ttl time.Duration) error {
	return s.client.Set(ctx, s.doneKey(token), "1", ttl).Err()
}

func (s *ConfirmationStore) Done(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, s.doneKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("done check: %w", err)
	}
	return n > 0, nil
}

func (s *ConfirmationStore) armKey(token string) string {
	return "confirm:" + token
}

func (s *ConfirmationStore) doneKey(token string) string {
	return "confirm:done:" + token
}

package ports

import "context"

// SessionStore persists the two session entries: role tag and token.
// A missing entry loads as "". Writes are last-write-wins.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (role, token string, err error)
	// Save writes both entries; an empty token removes the token entry.
	Save(ctx context.Context, sessionID, role, token string) error
	Clear(ctx context.Context, sessionID string) error
}

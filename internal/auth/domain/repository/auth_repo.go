package repository

import (
	"context"
	"time"

	"inkq/internal/auth/domain/model"
)

// UserRepository defines the read/write surface the auth core uses against
// user records. The account-management subsystem owns the records; the auth
// core only creates them at signup and reads them afterwards.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	// GetUserByLogin looks the user up by email OR username in one query.
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// SessionRepository defines the persistent session store. Implementations
// must support concurrent inserts, reads and deletes; ordinary row-level
// transactionality is all the isolation the callers rely on.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetSessionByToken(ctx context.Context, token string) (*model.Session, error)
	// TouchSession updates last_seen_at only. Races between concurrent
	// requests bearing the same token are last-write-wins.
	TouchSession(ctx context.Context, token string, seenAt time.Time) error
	// DeleteSession is idempotent: deleting an absent token is not an error.
	DeleteSession(ctx context.Context, token string) error
	// DeleteUserSessions removes every session owned by a user, upholding
	// the cascade-on-user-delete invariant.
	DeleteUserSessions(ctx context.Context, userID string) error
	// DeleteExpired sweeps rows past their expiry. Stores with native TTL
	// eviction may make this a no-op.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

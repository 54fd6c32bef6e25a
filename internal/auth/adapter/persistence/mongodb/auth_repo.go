package mongodb

import (
	"context"
	"strings"
	"time"

	"inkq/internal/auth/domain/model"
	"inkq/internal/auth/domain/repository"
	"inkq/internal/auth/usecase"
	apperrors "inkq/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAuthRepository implements the user and session repositories on
// MongoDB. Sessions live in their own collection keyed by token; a TTL
// index on expires_at garbage-collects expired rows in the background,
// while validity is still checked at resolution time regardless.
type MongoAuthRepository struct {
	db                 *mongo.Database
	usersCollection    *mongo.Collection
	sessionsCollection *mongo.Collection
}

// NewMongoAuthRepository creates a new MongoDB auth repository
func NewMongoAuthRepository(db *mongo.Database) (*MongoAuthRepository, error) {
	repo := &MongoAuthRepository{
		db:                 db,
		usersCollection:    db.Collection("users"),
		sessionsCollection: db.Collection("sessions"),
	}

	ctx := context.Background()

	// Email index for users (unique)
	emailIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := repo.usersCollection.Indexes().CreateOne(ctx, emailIndex); err != nil {
		return nil, err
	}

	// Username index for users (unique)
	usernameIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := repo.usersCollection.Indexes().CreateOne(ctx, usernameIndex); err != nil {
		return nil, err
	}

	// Owner index for sessions (cascade deletes)
	userIDIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	}
	if _, err := repo.sessionsCollection.Indexes().CreateOne(ctx, userIDIndex); err != nil {
		return nil, err
	}

	// TTL index for sessions
	expiresAtIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	if _, err := repo.sessionsCollection.Indexes().CreateOne(ctx, expiresAtIndex); err != nil {
		return nil, err
	}

	return repo, nil
}

// storeError wraps a raw driver failure into the infrastructure error
// taxonomy. Sentinel outcomes (not found, duplicates) never pass through
// here.
func storeError(op string, err error) error {
	return apperrors.NewInfrastructureError("mongodb "+op+" failed").
		WithCause(err).
		WithComponent("mongo-auth-repo")
}

// CreateUser creates a new user. A duplicate email or username maps to the
// single generic account-exists error so callers cannot tell which field
// collided.
func (r *MongoAuthRepository) CreateUser(ctx context.Context, user *model.User) error {
	if user == nil {
		return usecase.ErrInvalidCredentials
	}

	_, err := r.usersCollection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return usecase.ErrAccountExists
		}
		return storeError("insert user", err)
	}
	return nil
}

// GetUserByLogin retrieves a user whose email or username matches login.
// Email is matched on its stored lowercase form; username is exact.
func (r *MongoAuthRepository) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	filter := bson.M{"$or": []bson.M{
		{"email": strings.ToLower(login)},
		{"username": login},
	}}

	var user model.User
	err := r.usersCollection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, usecase.ErrUserNotFound
		}
		return nil, storeError("query user by login", err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (r *MongoAuthRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.usersCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, usecase.ErrUserNotFound
		}
		return nil, storeError("query user by id", err)
	}
	return &user, nil
}

// CreateSession inserts a session row. The token is the document _id, so a
// colliding token surfaces as a duplicate key and maps to the retryable
// conflict error.
func (r *MongoAuthRepository) CreateSession(ctx context.Context, session *model.Session) error {
	_, err := r.sessionsCollection.InsertOne(ctx, session)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return usecase.ErrTokenConflict
		}
		return storeError("insert session", err)
	}
	return nil
}

// GetSessionByToken retrieves a session by its opaque token
func (r *MongoAuthRepository) GetSessionByToken(ctx context.Context, token string) (*model.Session, error) {
	var session model.Session
	err := r.sessionsCollection.FindOne(ctx, bson.M{"_id": token}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, storeError("query session", err)
	}
	return &session, nil
}

// TouchSession updates last_seen_at only. Concurrent touches race
// last-write-wins, which is fine for telemetry.
func (r *MongoAuthRepository) TouchSession(ctx context.Context, token string, seenAt time.Time) error {
	_, err := r.sessionsCollection.UpdateOne(ctx,
		bson.M{"_id": token},
		bson.M{"$set": bson.M{"last_seen_at": seenAt}},
	)
	if err != nil {
		return storeError("touch session", err)
	}
	return nil
}

// DeleteSession removes a session row. Deleting an absent token succeeds.
func (r *MongoAuthRepository) DeleteSession(ctx context.Context, token string) error {
	_, err := r.sessionsCollection.DeleteOne(ctx, bson.M{"_id": token})
	if err != nil {
		return storeError("delete session", err)
	}
	return nil
}

// DeleteUserSessions removes every session owned by a user
func (r *MongoAuthRepository) DeleteUserSessions(ctx context.Context, userID string) error {
	_, err := r.sessionsCollection.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return storeError("delete user sessions", err)
	}
	return nil
}

// DeleteExpired sweeps sessions past their expiry. The TTL index covers
// steady-state cleanup; this exists for explicit sweeps and tests.
func (r *MongoAuthRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.sessionsCollection.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": now}})
	if err != nil {
		return 0, storeError("sweep expired sessions", err)
	}
	return res.DeletedCount, nil
}

// Compile-time interface checks
var (
	_ repository.UserRepository    = (*MongoAuthRepository)(nil)
	_ repository.SessionRepository = (*MongoAuthRepository)(nil)
)

package testutil

import (
	"crypto/sha256"
	"time"

	"inkq/internal/auth/domain/model"

	"golang.org/x/crypto/bcrypt"
)

// UserFixture provides test data for User model
type UserFixture struct{}

// NewUserFixture creates a new UserFixture instance
func NewUserFixture() *UserFixture {
	return &UserFixture{}
}

// hashPassword mirrors the production scheme: bcrypt over the SHA-256
// digest of the plaintext. Min cost keeps suites fast.
func hashPassword(password string) string {
	digest := sha256.Sum256([]byte(password))
	hashed, _ := bcrypt.GenerateFromPassword(digest[:], bcrypt.MinCost)
	return string(hashed)
}

// ValidArtist returns a fully onboarded artist account
func (f *UserFixture) ValidArtist() *model.User {
	return &model.User{
		ID:                  "test-user-id-123",
		Email:               "artist@example.com",
		Username:            "test_artist",
		PasswordHash:        hashPassword("password123"),
		Role:                model.RoleArtist,
		OnboardingCompleted: true,
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}
}

// FreshSignup returns an account that has not completed onboarding yet
func (f *UserFixture) FreshSignup(role model.Role) *model.User {
	return &model.User{
		ID:           "fresh-" + string(role),
		Email:        string(role) + "@example.com",
		Username:     "fresh_" + string(role),
		PasswordHash: hashPassword("password123"),
		Role:         role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// UserWithCredentials returns a user with specific email and password
func (f *UserFixture) UserWithCredentials(email, password string) *model.User {
	return &model.User{
		ID:           "user-" + email,
		Email:        email,
		Username:     "u_" + email,
		PasswordHash: hashPassword(password),
		Role:         model.RoleArtist,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// SessionFixture provides test data for Session model
type SessionFixture struct{}

// NewSessionFixture creates a new SessionFixture instance
func NewSessionFixture() *SessionFixture {
	return &SessionFixture{}
}

// LiveSession returns a session well inside its 7-day window
func (f *SessionFixture) LiveSession(userID string) *model.Session {
	now := time.Now()
	return &model.Session{
		Token:      "session-token-" + userID,
		UserID:     userID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(7 * 24 * time.Hour),
		LastSeenAt: now,
	}
}

// ExpiredSession returns a session past its fixed window
func (f *SessionFixture) ExpiredSession(userID string) *model.Session {
	now := time.Now()
	return &model.Session{
		Token:      "expired-token-" + userID,
		UserID:     userID,
		CreatedAt:  now.Add(-8 * 24 * time.Hour),
		ExpiresAt:  now.Add(-24 * time.Hour),
		LastSeenAt: now.Add(-25 * time.Hour),
	}
}

// TestData provides all fixtures
type TestData struct {
	Users    *UserFixture
	Sessions *SessionFixture
}

// NewTestData creates a new TestData instance with all fixtures
func NewTestData() *TestData {
	return &TestData{
		Users:    NewUserFixture(),
		Sessions: NewSessionFixture(),
	}
}

// Common test inputs for validation testing
var (
	ValidEmails = []string{
		"test@example.com",
		"user.name@domain.co.uk",
		"user+tag@example.org",
	}

	InvalidEmails = []string{
		"",
		"invalid-email",
		"@example.com",
		"test@",
		"test space@example.com",
	}

	ValidRoles = []string{"artist", "studio", "model"}

	InvalidRoles = []string{"", "admin", "Artist", "customer"}
)

package model

import (
	"fmt"
	"time"
)

// Role is the closed set of account kinds. A role determines which
// onboarding and dashboard path variant applies to the account; the path
// segment and the stored value are the same string by construction, so the
// mapping below is the single place that ties a role to its routes.
type Role string

const (
	RoleArtist Role = "artist"
	RoleStudio Role = "studio"
	RoleModel  Role = "model"
)

// Roles lists every valid role.
var Roles = []Role{RoleArtist, RoleStudio, RoleModel}

// ParseRole converts a raw string into a Role, rejecting anything outside
// the closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleArtist, RoleStudio, RoleModel:
		return Role(s), nil
	}
	return "", fmt.Errorf("invalid role %q: must be one of artist, studio, model", s)
}

// Valid reports whether the role is one of the three known values.
func (r Role) Valid() bool {
	switch r {
	case RoleArtist, RoleStudio, RoleModel:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// OnboardingPath returns the locale-prefixed onboarding path for this role.
func (r Role) OnboardingPath(locale string) string {
	return "/" + locale + "/onboarding/" + string(r)
}

// DashboardPath returns the locale-prefixed dashboard path for this role.
func (r Role) DashboardPath(locale string) string {
	return "/" + locale + "/dashboard/" + string(r)
}

// User represents an account in the system. The auth core reads it; the
// account-management side owns it.
type User struct {
	ID                  string    `json:"id" bson:"_id,omitempty"`
	Email               string    `json:"email" bson:"email"`
	Username            string    `json:"username" bson:"username"`
	PasswordHash        string    `json:"-" bson:"password_hash"`
	Role                Role      `json:"account_type" bson:"account_type"`
	OnboardingCompleted bool      `json:"onboarding_completed" bson:"onboarding_completed"`
	AvatarURL           string    `json:"avatar_url,omitempty" bson:"avatar_url,omitempty"`
	BannerURL           string    `json:"banner_url,omitempty" bson:"banner_url,omitempty"`
	CreatedAt           time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" bson:"updated_at"`
}

// HomePath returns the path a freshly signed-in user should land on:
// onboarding until completed, the role dashboard afterwards.
func (u *User) HomePath(locale string) string {
	if !u.OnboardingCompleted {
		return u.Role.OnboardingPath(locale)
	}
	return u.Role.DashboardPath(locale)
}

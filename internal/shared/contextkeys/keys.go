package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "inkq context key " + string(c)
}

// UserKey is the key for the resolved *model.User in context.Context. It is
// attached by the request gate once per request and is the only sanctioned way
// for downstream handlers to learn who the caller is.
const UserKey = contextKey("user")

// UserIDKey is the key for the authenticated user's ID in context.Context.
const UserIDKey = contextKey("userID")

// RoleKey is the key for the authenticated user's role in context.Context.
const RoleKey = contextKey("role")

// SessionTokenKey is the key for the raw session token in context.Context.
const SessionTokenKey = contextKey("sessionToken")

// LocaleKey is the key for the request's locale segment in context.Context.
const LocaleKey = contextKey("locale")

// RequestIDKey is the key for the request ID in context.Context.
const RequestIDKey = contextKey("requestID")

// ComponentKey is the key for the component name in context.Context.
const ComponentKey = contextKey("component")

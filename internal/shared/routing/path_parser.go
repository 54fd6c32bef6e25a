package routing

import (
	"regexp"
	"strings"
)

// PathClass classifies a request path for the request gate. Every path maps
// to exactly one class.
type PathClass string

const (
	// ClassBypassed covers infrastructure paths the gate must not
	// intercept at all: API endpoints, static assets, health and metrics.
	ClassBypassed PathClass = "bypassed"
	// ClassPublic covers pages reachable regardless of authentication
	// state: home pages, sign-in/sign-up, catalog browsing.
	ClassPublic PathClass = "public"
	// ClassProtectedOnboarding covers /{locale}/onboarding/{role} pages.
	ClassProtectedOnboarding PathClass = "protected_onboarding"
	// ClassProtectedDashboard covers /{locale}/dashboard/{role} pages.
	ClassProtectedDashboard PathClass = "protected_dashboard"
)

// RouteInfo is the parsed shape of a request path.
type RouteInfo struct {
	Class PathClass
	// Locale is the 2-letter locale segment, or empty when the path has
	// none (the gate substitutes the configured default).
	Locale string
	// RoleSegment is the raw role path segment of a protected path. It is
	// not validated here; the gate compares it against the resolved user's
	// actual role.
	RoleSegment string
	// AuthPage marks the sign-in and sign-up pages, which bounce
	// already-authenticated users to their role path.
	AuthPage bool
}

var localePattern = regexp.MustCompile(`^[a-z]{2}$`)

// bypassPrefixes are first path segments the gate forwards immediately,
// without attempting session resolution.
var bypassPrefixes = map[string]bool{
	"api":         true,
	"auth":        true,
	"static":      true,
	"assets":      true,
	"uploads":     true,
	"media":       true,
	"favicon.ico": true,
	"robots.txt":  true,
	"health":      true,
	"metrics":     true,
}

// protectedAreas maps a path segment to its protected class.
var protectedAreas = map[string]PathClass{
	"onboarding": ClassProtectedOnboarding,
	"dashboard":  ClassProtectedDashboard,
}

// ParseRoutePath classifies a request path and extracts its locale and role
// segments. It never fails: anything it does not recognize is public, which
// keeps the gate fail-open only for pages that render without identity.
func ParseRoutePath(path string) RouteInfo {
	segments := splitSegments(path)
	if len(segments) == 0 {
		return RouteInfo{Class: ClassPublic}
	}

	if bypassPrefixes[segments[0]] {
		return RouteInfo{Class: ClassBypassed}
	}

	info := RouteInfo{Class: ClassPublic}
	if localePattern.MatchString(segments[0]) {
		info.Locale = segments[0]
		segments = segments[1:]
	}

	if len(segments) == 0 {
		// Locale-rooted home page.
		return info
	}

	switch segments[0] {
	case "signin", "signup":
		info.AuthPage = true
		return info
	}

	if class, ok := protectedAreas[segments[0]]; ok {
		info.Class = class
		if len(segments) > 1 {
			info.RoleSegment = segments[1]
		}
		return info
	}

	return info
}

func splitSegments(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// SignInPath returns the locale-prefixed sign-in page path.
func SignInPath(locale string) string {
	return "/" + locale + "/signin"
}

// SignUpPath returns the locale-prefixed sign-up page path.
func SignUpPath(locale string) string {
	return "/" + locale + "/signup"
}

// HomePath returns the locale-rooted home page path.
func HomePath(locale string) string {
	return "/" + locale
}

package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRoutePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want RouteInfo
	}{
		{"root", "/", RouteInfo{Class: ClassPublic}},
		{"locale home", "/en", RouteInfo{Class: ClassPublic, Locale: "en"}},
		{"locale home trailing slash", "/ru/", RouteInfo{Class: ClassPublic, Locale: "ru"}},
		{"signin", "/en/signin", RouteInfo{Class: ClassPublic, Locale: "en", AuthPage: true}},
		{"signup", "/de/signup", RouteInfo{Class: ClassPublic, Locale: "de", AuthPage: true}},
		{"signin no locale", "/signin", RouteInfo{Class: ClassPublic, AuthPage: true}},
		{"onboarding", "/en/onboarding/artist", RouteInfo{Class: ClassProtectedOnboarding, Locale: "en", RoleSegment: "artist"}},
		{"onboarding no role", "/en/onboarding", RouteInfo{Class: ClassProtectedOnboarding, Locale: "en"}},
		{"dashboard", "/ru/dashboard/model", RouteInfo{Class: ClassProtectedDashboard, Locale: "ru", RoleSegment: "model"}},
		{"dashboard subpage", "/en/dashboard/studio/settings", RouteInfo{Class: ClassProtectedDashboard, Locale: "en", RoleSegment: "studio"}},
		{"catalog is public", "/en/artists", RouteInfo{Class: ClassPublic, Locale: "en"}},
		{"api bypassed", "/api/v1/artists", RouteInfo{Class: ClassBypassed}},
		{"auth bypassed", "/auth/signin", RouteInfo{Class: ClassBypassed}},
		{"static bypassed", "/static/css/site.css", RouteInfo{Class: ClassBypassed}},
		{"uploads bypassed", "/uploads/portfolio/1.jpg", RouteInfo{Class: ClassBypassed}},
		{"favicon bypassed", "/favicon.ico", RouteInfo{Class: ClassBypassed}},
		{"health bypassed", "/health", RouteInfo{Class: ClassBypassed}},
		{"metrics bypassed", "/metrics", RouteInfo{Class: ClassBypassed}},
		{"three letter segment is not locale", "/eng/dashboard", RouteInfo{Class: ClassPublic}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRoutePath(tt.path))
		})
	}
}

func TestPathBuilders(t *testing.T) {
	assert.Equal(t, "/en/signin", SignInPath("en"))
	assert.Equal(t, "/ru/signup", SignUpPath("ru"))
	assert.Equal(t, "/en", HomePath("en"))
}

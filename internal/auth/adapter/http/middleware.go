package http

import (
	"context"
	"net/url"
	"time"

	"inkq/internal/auth/domain/model"
	"inkq/internal/auth/usecase"
	"inkq/internal/shared/contextkeys"
	"inkq/internal/shared/logger"
	"inkq/internal/shared/metrics"
	"inkq/internal/shared/routing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// visitor states, derived once per request from the session cookie.
type visitorState int

const (
	stateUnauthenticated visitorState = iota
	stateAuthenticated
	stateInvalidated
)

// RequestGate decides, for every incoming page request, whether it is
// forwarded, redirected or rewritten. It resolves the session cookie at
// most once per request and stamps the result into the request context for
// downstream handlers.
type RequestGate struct {
	usecase        usecase.AuthUsecaseInterface
	cookies        CookieOptions
	defaultLocale  string
	resolveTimeout time.Duration
	metrics        *metrics.Metrics
	log            logger.Logger
}

// NewRequestGate creates a new request gate middleware
func NewRequestGate(
	uc usecase.AuthUsecaseInterface,
	cookies CookieOptions,
	defaultLocale string,
	resolveTimeout time.Duration,
	m *metrics.Metrics,
	log logger.Logger,
) *RequestGate {
	return &RequestGate{
		usecase:        uc,
		cookies:        cookies,
		defaultLocale:  defaultLocale,
		resolveTimeout: resolveTimeout,
		metrics:        m,
		log:            log.WithComponent("request-gate"),
	}
}

// Handler returns the gate as a Fiber middleware. Route classes:
//
//   - bypassed paths (api, static assets, health) are forwarded untouched,
//     no session work at all
//   - public pages are forwarded; a signed-in visitor landing on a
//     sign-in/sign-up page bounces to their home page instead
//   - protected pages require a live session; dashboards additionally
//     require completed onboarding and the visitor's own role segment
func (g *RequestGate) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		route := routing.ParseRoutePath(c.Path())
		if route.Class == routing.ClassBypassed {
			return c.Next()
		}

		locale := route.Locale
		if locale == "" {
			locale = g.defaultLocale
		}
		c.SetUserContext(context.WithValue(c.UserContext(), contextkeys.LocaleKey, locale))

		state, user := g.resolveVisitor(c)

		switch route.Class {
		case routing.ClassPublic:
			if state == stateAuthenticated && route.AuthPage {
				g.count(route.Class, "redirect")
				return c.Redirect(user.HomePath(locale), fiber.StatusSeeOther)
			}
			g.count(route.Class, "forward")
			return c.Next()

		case routing.ClassProtectedOnboarding, routing.ClassProtectedDashboard:
			switch state {
			case stateUnauthenticated:
				g.count(route.Class, "redirect")
				return g.redirectToSignIn(c, locale, false)
			case stateInvalidated:
				g.count(route.Class, "redirect")
				g.cookies.Clear(c)
				return g.redirectToSignIn(c, locale, true)
			}

			if route.Class == routing.ClassProtectedDashboard {
				if !user.OnboardingCompleted {
					g.count(route.Class, "redirect")
					return c.Redirect(user.Role.OnboardingPath(locale), fiber.StatusSeeOther)
				}
				if route.RoleSegment != "" && route.RoleSegment != string(user.Role) {
					g.count(route.Class, "rewrite")
					return c.Redirect(user.Role.DashboardPath(locale), fiber.StatusSeeOther)
				}
			}

			g.injectUser(c, user)
			g.count(route.Class, "forward")
			return c.Next()
		}

		g.count(route.Class, "forward")
		return c.Next()
	}
}

// resolveVisitor classifies the request's session cookie. A resolution
// error, including a timeout against the session store, is treated the
// same as a dead session so the visitor gets a clean cookie reset instead
// of an opaque 500.
func (g *RequestGate) resolveVisitor(c *fiber.Ctx) (visitorState, *model.User) {
	token := c.Cookies(g.cookies.Name)
	if token == "" {
		return stateUnauthenticated, nil
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), g.resolveTimeout)
	defer cancel()

	start := time.Now()
	res, err := g.usecase.ResolveToken(ctx, token)
	g.metrics.ResolveDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		g.log.WithContext(c.UserContext()).Warnf("session resolution failed: %v", err)
		g.metrics.ResolutionsTotal.WithLabelValues("error").Inc()
		return stateInvalidated, nil
	}
	if !res.Authenticated() {
		g.metrics.ResolutionsTotal.WithLabelValues(string(res.Reason)).Inc()
		return stateInvalidated, nil
	}

	g.metrics.ResolutionsTotal.WithLabelValues("ok").Inc()
	return stateAuthenticated, res.User
}

// redirectToSignIn sends the visitor to the locale's sign-in page. A
// never-signed-in visitor gets a neutral reason; a dead session gets the
// explicit expiry message.
func (g *RequestGate) redirectToSignIn(c *fiber.Ctx, locale string, invalidated bool) error {
	var q url.Values
	if invalidated {
		q = url.Values{"error": {hintSessionExpired}}
	} else {
		q = url.Values{"reason": {reasonAuthRequired}}
	}
	return c.Redirect(routing.SignInPath(locale)+"?"+q.Encode(), fiber.StatusSeeOther)
}

func (g *RequestGate) injectUser(c *fiber.Ctx, user *model.User) {
	ctx := c.UserContext()
	ctx = context.WithValue(ctx, contextkeys.UserKey, user)
	ctx = context.WithValue(ctx, contextkeys.UserIDKey, user.ID)
	ctx = context.WithValue(ctx, contextkeys.RoleKey, string(user.Role))
	ctx = context.WithValue(ctx, contextkeys.SessionTokenKey, c.Cookies(g.cookies.Name))
	c.SetUserContext(ctx)
}

func (g *RequestGate) count(class routing.PathClass, action string) {
	g.metrics.GateDecisionsTotal.WithLabelValues(string(class), action).Inc()
}

// UserFromContext returns the user the gate resolved for this request, or
// nil for anonymous requests.
func UserFromContext(ctx context.Context) *model.User {
	user, _ := ctx.Value(contextkeys.UserKey).(*model.User)
	return user
}

// CORS middleware with credentials enabled for the browser app
func CORS() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000,http://localhost:3001",
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	})
}

// SecurityHeaders adds security headers
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		return c.Next()
	}
}

// RequestID adds request ID tracking
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     "X-Request-ID",
		ContextKey: string(contextkeys.RequestIDKey),
	})
}

package http

import (
	"errors"
	"net/url"
	"strings"

	"inkq/internal/auth/domain/model"
	"inkq/internal/auth/usecase"
	"inkq/internal/shared/logger"
	"inkq/internal/shared/metrics"
	"inkq/internal/shared/routing"

	"github.com/gofiber/fiber/v2"
)

// Human-readable redirect hints. Every browser-facing failure funnels
// through failureHint so the non-enumeration property holds in one place
// instead of per handler.
const (
	hintInvalidCredentials = "Invalid login or password"
	hintAccountExists      = "Account already exists"
	hintValidation         = "Please check the form and try again"
	hintServerError        = "Something went wrong, please try again"
	hintSessionExpired     = "Session expired"

	reasonAuthRequired = "auth_required"
)

// failureHint maps an internal failure to its user-facing redirect hint.
// Unknown errors collapse into the generic server hint; nothing internal
// leaks into the query string.
func failureHint(err error) string {
	switch {
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return hintInvalidCredentials
	case errors.Is(err, usecase.ErrAccountExists):
		return hintAccountExists
	case errors.Is(err, usecase.ErrInvalidEmailFormat),
		errors.Is(err, usecase.ErrInvalidUsername),
		errors.Is(err, usecase.ErrInvalidRole),
		errors.Is(err, usecase.ErrPasswordRequired):
		return hintValidation
	}
	return hintServerError
}

// AuthHTTPHandler handles the browser-facing auth endpoints. Sign-in,
// sign-up and sign-out always answer with a redirect; /auth/me is the one
// machine endpoint and answers 200 or 401.
type AuthHTTPHandler struct {
	usecase       usecase.AuthUsecaseInterface
	cookies       CookieOptions
	defaultLocale string
	metrics       *metrics.Metrics
	log           logger.Logger
}

// NewAuthHTTPHandler creates a new authentication HTTP handler
func NewAuthHTTPHandler(
	uc usecase.AuthUsecaseInterface,
	cookies CookieOptions,
	defaultLocale string,
	m *metrics.Metrics,
	log logger.Logger,
) *AuthHTTPHandler {
	return &AuthHTTPHandler{
		usecase:       uc,
		cookies:       cookies,
		defaultLocale: defaultLocale,
		metrics:       m,
		log:           log.WithComponent("auth-router"),
	}
}

// SetupAuthRoutes registers the auth endpoints on the given router.
func (h *AuthHTTPHandler) SetupAuthRoutes(router fiber.Router) {
	router.Post("/signin", h.SignIn)
	router.Post("/signup", h.SignUp)
	router.Post("/signout", h.SignOut)
	router.Get("/me", h.Me)
}

// SignIn handles the sign-in form submission
func (h *AuthHTTPHandler) SignIn(c *fiber.Ctx) error {
	locale := h.requestLocale(c)

	var req usecase.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return h.redirectWithError(c, routing.SignInPath(locale), hintValidation)
	}

	user, token, err := h.usecase.SignIn(c.UserContext(), req, clientInfo(c))
	if err != nil {
		if !errors.Is(err, usecase.ErrInvalidCredentials) {
			h.log.WithContext(c.UserContext()).Errorf("sign-in failed: %v", err)
		}
		h.metrics.SignInsTotal.WithLabelValues("failure").Inc()
		return h.redirectWithError(c, routing.SignInPath(locale), failureHint(err))
	}

	h.metrics.SignInsTotal.WithLabelValues("success").Inc()
	h.cookies.Set(c, token)
	return c.Redirect(user.HomePath(locale), fiber.StatusSeeOther)
}

// SignUp handles the sign-up form submission. On success the account is
// signed in automatically and lands on its role's onboarding page.
func (h *AuthHTTPHandler) SignUp(c *fiber.Ctx) error {
	locale := h.requestLocale(c)

	var req usecase.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return h.redirectWithError(c, routing.SignUpPath(locale), hintValidation)
	}

	user, token, err := h.usecase.SignUp(c.UserContext(), req, clientInfo(c))
	if err != nil {
		if !errors.Is(err, usecase.ErrAccountExists) && failureHint(err) == hintServerError {
			h.log.WithContext(c.UserContext()).Errorf("sign-up failed: %v", err)
		}
		h.metrics.SignUpsTotal.WithLabelValues("failure").Inc()
		return h.redirectWithError(c, routing.SignUpPath(locale), failureHint(err))
	}

	h.metrics.SignUpsTotal.WithLabelValues("success").Inc()
	h.cookies.Set(c, token)
	return c.Redirect(user.HomePath(locale), fiber.StatusSeeOther)
}

// SignOut clears the cookie and best-effort revokes the server-side
// session. It redirects to the locale home page even when revocation fails
// or no session existed.
func (h *AuthHTTPHandler) SignOut(c *fiber.Ctx) error {
	locale := h.requestLocale(c)

	token := c.Cookies(h.cookies.Name)
	if token != "" {
		if err := h.usecase.SignOut(c.UserContext(), token); err != nil {
			h.log.WithContext(c.UserContext()).Warnf("session revocation failed: %v", err)
		}
	}

	h.cookies.Clear(c)
	return c.Redirect(routing.HomePath(locale), fiber.StatusSeeOther)
}

// Me resolves the caller's token and returns the user as JSON. This is the
// server-to-server surface: Authorization: Bearer <token>, with a cookie
// fallback for browser callers.
func (h *AuthHTTPHandler) Me(c *fiber.Ctx) error {
	token := extractBearerToken(c, h.cookies.Name)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Missing authorization token",
		})
	}

	res, err := h.usecase.ResolveToken(c.UserContext(), token)
	if err != nil {
		h.log.WithContext(c.UserContext()).Errorf("token resolution failed: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Missing authorization token",
		})
	}
	if !res.Authenticated() {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Missing authorization token",
		})
	}

	return c.JSON(res.User)
}

// requestLocale determines the locale for redirect targets: an explicit
// form field wins, then the Referer page's locale, then the default.
func (h *AuthHTTPHandler) requestLocale(c *fiber.Ctx) string {
	if locale := c.FormValue("locale"); isLocale(locale) {
		return locale
	}
	if referer := c.Get("Referer"); referer != "" {
		if u, err := url.Parse(referer); err == nil {
			if info := routing.ParseRoutePath(u.Path); info.Locale != "" {
				return info.Locale
			}
		}
	}
	return h.defaultLocale
}

func isLocale(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

func (h *AuthHTTPHandler) redirectWithError(c *fiber.Ctx, path, hint string) error {
	q := url.Values{"error": {hint}}
	return c.Redirect(path+"?"+q.Encode(), fiber.StatusSeeOther)
}

func clientInfo(c *fiber.Ctx) model.ClientInfo {
	ip := c.Get("X-Forwarded-For")
	if ip == "" {
		ip = c.IP()
	} else if idx := strings.IndexByte(ip, ','); idx >= 0 {
		ip = strings.TrimSpace(ip[:idx])
	}
	return model.ClientInfo{
		IP:        ip,
		UserAgent: c.Get("User-Agent"),
	}
}

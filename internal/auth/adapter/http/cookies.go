package http

import (
	"strings"
	"time"

	"inkq/internal/auth/config"

	"github.com/gofiber/fiber/v2"
)

// CookieOptions is the single definition of the session cookie contract.
// The clear call mirrors the set call's flags exactly: browsers silently
// ignore a clear whose path or flags differ from the cookie that was set.
type CookieOptions struct {
	Name     string
	Path     string
	Domain   string
	MaxAge   int
	Secure   bool
	HTTPOnly bool
	SameSite string
}

// CookieOptionsFromConfig derives the cookie contract from the auth config.
// Max-Age mirrors the session TTL.
func CookieOptionsFromConfig(cfg *config.Config) CookieOptions {
	return CookieOptions{
		Name:     cfg.CookieName,
		Path:     cfg.CookiePath,
		Domain:   cfg.CookieDomain,
		MaxAge:   int(cfg.SessionTTL.Seconds()),
		Secure:   cfg.CookieSecure,
		HTTPOnly: cfg.CookieHTTPOnly,
		SameSite: cfg.CookieSameSite,
	}
}

// Set writes the session cookie carrying the opaque token.
func (o CookieOptions) Set(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     o.Name,
		Value:    token,
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   o.MaxAge,
		Secure:   o.Secure,
		HTTPOnly: o.HTTPOnly,
		SameSite: o.SameSite,
		Expires:  time.Now().Add(time.Duration(o.MaxAge) * time.Second),
	})
}

// Clear expires the session cookie using the same path and flags it was
// set with.
//
// fasthttp only serializes Max-Age when it is positive, so a literal
// Max-Age=0 never reaches the wire; the negative MaxAge here suppresses the
// attribute and the past Expires is what actually deletes the cookie.
func (o CookieOptions) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     o.Name,
		Value:    "",
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   -1,
		Secure:   o.Secure,
		HTTPOnly: o.HTTPOnly,
		SameSite: o.SameSite,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}

// extractBearerToken pulls the opaque token from an Authorization header,
// falling back to the session cookie for browser callers.
func extractBearerToken(c *fiber.Ctx, cookieName string) string {
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return c.Cookies(cookieName)
}

package middleware

import (
	"net/http"

	"mediastore/internal/service"

	"github.com/labstack/echo/v4"
)

const (
	AdminSessionCookie = "admin_session"
	UserSessionCookie  = "user_session"
	CartCookie         = "cart"

	// UserIDKey is set on the echo context when a valid user session is present.
	UserIDKey = "user_id"
)

// RequireAdmin gates a route group on a valid admin session cookie. All
// failures collapse into the same forbidden response.
func RequireAdmin(auth service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(AdminSessionCookie)
			if err != nil || auth.VerifyAdminSession(cookie.Value) != nil {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}

// WithUser resolves an optional user session cookie into a user id on the
// context. Requests without a valid session proceed anonymously.
func WithUser(auth service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cookie, err := c.Cookie(UserSessionCookie); err == nil {
				if userID, err := auth.VerifyUserSession(cookie.Value); err == nil {
					c.Set(UserIDKey, userID)
				}
			}
			return next(c)
		}
	}
}

// UserID returns the authenticated user id from the context, if any.
func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(UserIDKey).(uint)
	return id, ok
}

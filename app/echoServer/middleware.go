// app/echoServer/middleware.go
package echoServer

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/app/echoServer/jwtx"
	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/model"
	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/policy"
)

func RegisterMiddlewares(e *echo.Echo) {

	e.Use(middleware.Recover())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))

	e.Use(Slog())
}

func Slog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			lat := time.Since(start).Milliseconds()

			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			slog.Info("http",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"latency_ms", lat,
				"req_id", rid,
				"ip", c.RealIP(),
			)
			return err
		}
	}
}

// RoleLoader resolves the caller's role set for every authenticated request
// and stashes a policy.Caller in the context. Loading per request (rather
// than baking roles into the token) means grants and revokes apply
// immediately. The lookup is privileged: it is the one read that policy
// decisions depend on, so it cannot itself be policy-gated.
type RoleLoader interface {
	RolesFor(ctx context.Context, userID int64) ([]model.Role, error)
}

func LoadCaller(roles RoleLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, err := jwtx.UserIDFromContext(c)
			if err != nil {
				return c.JSON(401, echo.Map{"message": "unauthorized"})
			}
			email, _ := jwtx.EmailFromContext(c)

			rs, err := roles.RolesFor(c.Request().Context(), uid)
			if err != nil {
				slog.Error("role lookup failed", "user_id", uid, "err", err)
				return c.JSON(500, echo.Map{"message": "internal error"})
			}

			c.Set("caller", policy.Caller{ID: uid, Email: email, Roles: rs})
			return next(c)
		}
	}
}

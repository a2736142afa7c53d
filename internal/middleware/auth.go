package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/raqtkosh/backend/internal/reqctx"
)

// TokenVerifier checks a Firebase ID token. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// RoleLookup answers whether uid may use admin routes.
type RoleLookup interface {
	IsAdmin(ctx context.Context, uid string) (bool, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(ctx context.Context, projectID string) (*AuthMiddleware, error) {
	if projectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID is not set")
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}
	return &AuthMiddleware{verifier: client}, nil
}

func NewAuthMiddlewareWithVerifier(v TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: v}
}

func deny(c echo.Context, status int, code string) error {
	return c.JSON(status, map[string]string{"error": code, "code": code})
}

func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authz := c.Request().Header.Get("Authorization")
		if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
			return deny(c, http.StatusUnauthorized, "unauthorized")
		}
		tokenStr := strings.TrimPrefix(authz, "Bearer ")
		token, err := m.verifier.VerifyIDToken(c.Request().Context(), tokenStr)
		if err != nil {
			return deny(c, http.StatusUnauthorized, "invalid_token")
		}
		c.Set("uid", token.UID)
		if email, ok := token.Claims["email"].(string); ok {
			c.Set("email", email)
		}
		if name, ok := token.Claims["name"].(string); ok {
			c.Set("name", name)
		}
		if phone, ok := token.Claims["phone_number"].(string); ok {
			c.Set("phone", phone)
		}
		ctx := reqctx.WithUID(c.Request().Context(), token.UID)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin(roles RoleLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, _ := c.Get("uid").(string)
			if uid == "" {
				return deny(c, http.StatusUnauthorized, "unauthorized")
			}
			ok, err := roles.IsAdmin(c.Request().Context(), uid)
			if err != nil {
				return deny(c, http.StatusInternalServerError, "internal_error")
			}
			if !ok {
				return deny(c, http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}

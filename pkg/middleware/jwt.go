package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"PicadeBackend/internal/auth"
)

// JWTMiddleware validates the bearer token and then checks the referenced
// session is still live, so logout and password reset revoke access
// immediately even while the token itself is unexpired.
func JWTMiddleware(authService *auth.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing token"})
			}

			tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			claims, err := auth.ValidateJWT(tokenString)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
			}

			if _, err := authService.GetSession(c.Request().Context(), claims.SessionID); err != nil {
				if errors.Is(err, auth.ErrSessionNotFound) {
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Session expired"})
				}
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Session check failed"})
			}

			c.Set("user", claims)
			return next(c)
		}
	}
}

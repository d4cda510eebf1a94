package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	service *AuthService
}

func NewAuthHandler(service *AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Login(c echo.Context) error {
	var cred Credential
	if err := c.Bind(&cred); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Solicitud inválida"})
	}
	if err := c.Validate(&cred); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Usuario y contraseña son obligatorios"})
	}

	session, err := h.service.Authenticate(c.Request().Context(), cred)
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, ErrAccountDisabled) {
			status = http.StatusForbidden
		}
		return c.JSON(status, map[string]string{"error": err.Error()})
	}

	duration := 12 * time.Hour
	if cred.Remember {
		duration = 30 * 24 * time.Hour
	}
	token, err := GenerateJWT(session, duration)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "No fue posible generar el token"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"token": token,
		"role":  session.Role.String(),
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	claims, ok := c.Get("user").(*JWTClaims)
	if !ok || claims == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Sesión inválida"})
	}
	if err := h.service.Logout(c.Request().Context(), claims.SessionID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "No fue posible cerrar la sesión"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Sesión cerrada"})
}

func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Solicitud inválida"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "El correo es obligatorio"})
	}

	if err := h.service.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		if errors.Is(err, ErrEmailNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Revise su bandeja de entrada"})
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Solicitud inválida"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Correo, código y contraseña nueva son obligatorios"})
	}

	if err := h.service.ResetPassword(c.Request().Context(), req.Email, req.Token, req.NewPassword); err != nil {
		if errors.Is(err, ErrResetTokenInvalid) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Contraseña restablecida"})
}

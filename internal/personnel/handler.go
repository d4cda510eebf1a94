package personnel

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"PicadeBackend/internal/alerts"
	"PicadeBackend/internal/auth"
)

type LifecycleHandler struct {
	service *LifecycleService
}

func NewLifecycleHandler(service *LifecycleService) *LifecycleHandler {
	return &LifecycleHandler{service: service}
}

// renderFailure writes a classified lifecycle failure: the message plus its
// severity so the client can pick the right presentation.
func renderFailure(c echo.Context, err error) error {
	if errors.Is(err, ErrInvalidDate) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	var lifecycleErr *LifecycleError
	if errors.As(err, &lifecycleErr) {
		status := http.StatusUnprocessableEntity
		if lifecycleErr.Severity == alerts.SeverityWarning {
			status = http.StatusConflict
		}
		return c.JSON(status, map[string]string{
			"error":    lifecycleErr.Message,
			"severity": string(lifecycleErr.Severity),
		})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": alerts.FallbackMessage})
}

func claimsFrom(c echo.Context) (*auth.JWTClaims, bool) {
	claims, ok := c.Get("user").(*auth.JWTClaims)
	return claims, ok && claims != nil
}

func targetIDFrom(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// Register is the public self-registration endpoint. On success the new
// Participant is logged in immediately.
func (h *LifecycleHandler) Register(c echo.Context) error {
	var req PublicRegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Solicitud inválida"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":  "Revise los campos del formulario",
			"fields": req, // original values preserved for re-entry
		})
	}

	id, session, err := h.service.RegisterPublic(c.Request().Context(), req)
	if err != nil {
		return renderFailure(c, err)
	}

	token, err := auth.GenerateJWT(session, 12*time.Hour)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "No fue posible generar el token"})
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"id":    id,
		"token": token,
	})
}

func (h *LifecycleHandler) AdminCreate(c echo.Context) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Sesión inválida"})
	}
	var req AdminCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Solicitud inválida"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Revise los campos del formulario"})
	}

	id, err := h.service.RegisterByAdmin(c.Request().Context(), claims.AccountID, req)
	if err != nil {
		return renderFailure(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"id": id})
}

func (h *LifecycleHandler) AdminGet(c echo.Context) error {
	id, err := targetIDFrom(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Identificador inválido"})
	}
	account, err := h.service.GetAccountFull(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "El usuario indicado no existe"})
		}
		return renderFailure(c, err)
	}
	return c.JSON(http.StatusOK, account)
}

func (h *LifecycleHandler) AdminUpdate(c echo.Context) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Sesión inválida"})
	}
	targetID, err := targetIDFrom(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Identificador inválido"})
	}
	var req AdminUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Solicitud inválida"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Revise los campos del formulario"})
	}

	result, err := h.service.UpdateByAdmin(c.Request().Context(), claims.AccountID, targetID, req)
	if err != nil {
		return renderFailure(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *LifecycleHandler) SetStatus(c echo.Context) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Sesión inválida"})
	}
	targetID, err := targetIDFrom(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Identificador inválido"})
	}
	var req StatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Solicitud inválida"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "El estatus es obligatorio"})
	}

	result, err := h.service.SetStatus(c.Request().Context(), claims.AccountID, targetID, *req.Active)
	if err != nil {
		return renderFailure(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *LifecycleHandler) AdminDelete(c echo.Context) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Sesión inválida"})
	}
	targetID, err := targetIDFrom(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Identificador inválido"})
	}

	message, err := h.service.DeleteForensic(c.Request().Context(), claims.AccountID, targetID)
	if err != nil {
		return renderFailure(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": message})
}

func (h *LifecycleHandler) Profile(c echo.Context) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Sesión inválida"})
	}
	profile, err := h.service.GetOwnProfile(c.Request().Context(), claims.AccountID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "El perfil indicado no existe"})
		}
		return renderFailure(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *LifecycleHandler) UpdateProfile(c echo.Context) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Sesión inválida"})
	}
	var req SelfUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Solicitud inválida"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Revise los campos del formulario"})
	}

	result, err := h.service.UpdateSelf(c.Request().Context(), claims.AccountID, req)
	if err != nil {
		return renderFailure(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// UpdateCredentials changes the acting user's email and/or password. When
// something changed, the session is rotated and a fresh token returned.
func (h *LifecycleHandler) UpdateCredentials(c echo.Context) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Sesión inválida"})
	}
	var req CredentialsUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Solicitud inválida"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Revise los campos del formulario"})
	}

	result, err := h.service.UpdateCredentials(c.Request().Context(), claims.AccountID, req)
	if err != nil {
		if errors.Is(err, ErrNoCredentialChanges) || errors.Is(err, ErrWrongCurrentPassword) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return renderFailure(c, err)
	}

	response := map[string]interface{}{
		"action":  result.Action,
		"message": result.Message,
	}
	if result.Action == ActionUpdated {
		session, err := h.service.authService.RegenerateSession(c.Request().Context(), claims.SessionID)
		if err == nil {
			if token, tokenErr := auth.GenerateJWT(session, 12*time.Hour); tokenErr == nil {
				response["token"] = token
			}
		}
	}
	return c.JSON(http.StatusOK, response)
}

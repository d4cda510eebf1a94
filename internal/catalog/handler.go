package catalog

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	repo *Repository
}

func NewCatalogHandler(repo *Repository) *CatalogHandler {
	return &CatalogHandler{repo: repo}
}

// respondChildren applies the three-tier failure classification: bad input,
// parent validation failure, unexpected error.
func respondChildren(c echo.Context, list func(ctx context.Context, parentID int64) ([]Option, error)) error {
	parentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || parentID <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Identificador inválido"})
	}

	options, err := list(c.Request().Context(), parentID)
	if err != nil {
		if errors.Is(err, ErrParentNotFound) {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "El elemento padre no existe o no está vigente"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Ocurrió un error inesperado"})
	}
	return c.JSON(http.StatusOK, options)
}

func (h *CatalogHandler) States(c echo.Context) error {
	return respondChildren(c, h.repo.ListStates)
}

func (h *CatalogHandler) Municipalities(c echo.Context) error {
	return respondChildren(c, h.repo.ListMunicipalities)
}

func (h *CatalogHandler) Subdirectorates(c echo.Context) error {
	return respondChildren(c, h.repo.ListSubdirectorates)
}

func (h *CatalogHandler) ManagementUnits(c echo.Context) error {
	return respondChildren(c, h.repo.ListManagementUnits)
}

func (h *CatalogHandler) InstructorsActive(c echo.Context) error {
	options, err := h.repo.ListInstructorsActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Ocurrió un error inesperado"})
	}
	return c.JSON(http.StatusOK, options)
}

func (h *CatalogHandler) InstructorsHistory(c echo.Context) error {
	options, err := h.repo.ListInstructorsHistory(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Ocurrió un error inesperado"})
	}
	return c.JSON(http.StatusOK, options)
}

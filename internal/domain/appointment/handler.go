package appointment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/meditrack/api/internal/platform/auth"
	"github.com/meditrack/api/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the appointment endpoints onto the authenticated group.
// Role checks at the route level are a first gate; the service re-checks role
// and ownership on every mutation.
func (h *Handler) RegisterRoutes(authed *echo.Group) {
	authed.POST("/appointments", h.Book, auth.RequireRole(auth.RolePatient))
	authed.GET("/appointments", h.List)
	authed.PUT("/appointments/:id/status", h.SetStatus, auth.RequireRole(auth.RoleDoctor))
	authed.PUT("/appointments/:id/cancel", h.Cancel, auth.RequireRole(auth.RolePatient))
	authed.PUT("/appointments/:id/clinical", h.SetClinical, auth.RequireRole(auth.RoleDoctor))
}

func (h *Handler) Book(c echo.Context) error {
	p := auth.PrincipalFromContext(c.Request().Context())
	var in BookInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Book(c.Request().Context(), p, in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) List(c echo.Context) error {
	p := auth.PrincipalFromContext(c.Request().Context())
	page := pagination.FromContext(c)
	items, total, err := h.svc.ListFor(c.Request().Context(), p, page.Limit, page.Offset)
	if err != nil {
		return httpError(err)
	}
	if items == nil {
		items = []*Appointment{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, page.Limit, page.Offset))
}

func (h *Handler) SetStatus(c echo.Context) error {
	p := auth.PrincipalFromContext(c.Request().Context())
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	var in struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.SetStatus(c.Request().Context(), p, id, in.Status)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Cancel(c echo.Context) error {
	p := auth.PrincipalFromContext(c.Request().Context())
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	a, err := h.svc.Cancel(c.Request().Context(), p, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) SetClinical(c echo.Context) error {
	p := auth.PrincipalFromContext(c.Request().Context())
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	var patch ClinicalPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.SetClinical(c.Request().Context(), p, id, patch)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

// httpError maps domain errors onto transport status codes.
func httpError(err error) error {
	switch {
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDoctorNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrAlreadyCancelled), errors.Is(err, ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

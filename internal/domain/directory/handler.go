package directory

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/meditrack/api/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(authed *echo.Group) {
	authed.GET("/doctors", h.ListDoctors)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	page := pagination.FromContext(c)
	doctors, total, err := h.svc.ListDoctors(c.Request().Context(), page.Limit, page.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if doctors == nil {
		doctors = []Doctor{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(doctors, total, page.Limit, page.Offset))
}

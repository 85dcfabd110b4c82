package identity

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/meditrack/api/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the auth endpoints. Register and login are public; the
// profile and password endpoints require a valid token.
func (h *Handler) RegisterRoutes(public *echo.Group, authed *echo.Group) {
	public.POST("/auth/register", h.Register)
	public.POST("/auth/login", h.Login)
	authed.PUT("/auth/profile", h.UpdateProfile)
	authed.PUT("/auth/password", h.ChangePassword)
}

// sessionResponse is the identity summary plus a bearer token, returned by
// every operation that establishes or refreshes a session.
type sessionResponse struct {
	Summary
	Token string `json:"token"`
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	u, token, err := h.svc.Register(c.Request().Context(), in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, sessionResponse{Summary: u.Summary(), Token: token})
}

func (h *Handler) Login(c echo.Context) error {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	u, token, err := h.svc.Login(c.Request().Context(), in.Email, in.Password)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, sessionResponse{Summary: u.Summary(), Token: token})
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	p := auth.PrincipalFromContext(c.Request().Context())
	var patch ProfilePatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	u, token, err := h.svc.UpdateProfile(c.Request().Context(), p.ID, patch)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, sessionResponse{Summary: u.Summary(), Token: token})
}

func (h *Handler) ChangePassword(c echo.Context) error {
	p := auth.PrincipalFromContext(c.Request().Context())
	var in struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.ChangePassword(c.Request().Context(), p.ID, in.CurrentPassword, in.NewPassword); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "password updated"})
}

// httpError maps domain errors onto transport status codes.
func httpError(err error) error {
	switch {
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

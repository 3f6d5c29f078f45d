package workflow

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinichq/clinic/internal/domain/appointment"
	"github.com/clinichq/clinic/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the continuation endpoint. Any staff member can
// reach it; per-action role checks happen in the service since the
// allowed roles differ by action.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/appointments/:id/continue", h.Continue,
		auth.RequireRole(auth.RoleNurse, auth.RoleDoctor))
}

func (h *Handler) Continue(c echo.Context) error {
	apptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in ContinueInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	callerID := auth.UserIDFromContext(ctx)
	callerRole := auth.RoleFromContext(ctx)

	result, err := h.svc.Continue(ctx, apptID, in, callerID, callerRole)
	if err != nil {
		switch {
		case errors.Is(err, ErrRoleNotAllowed):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		case errors.Is(err, appointment.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Appointment continued successfully",
		"result":  result,
	})
}

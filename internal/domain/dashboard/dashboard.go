package dashboard

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"github.com/clinichq/clinic/internal/platform/auth"
)

// Stats is the clinic-wide dashboard summary.
type Stats struct {
	TotalPatients       int `json:"totalPatients"`
	TotalAppointments   int `json:"totalAppointments"`
	PendingAppointments int `json:"pendingAppointments"`
	TotalLabRequests    int `json:"totalLabRequests"`
	PendingLabRequests  int `json:"pendingLabRequests"`
	CompletedToday      int `json:"completedToday"`
}

// Repository computes dashboard stats.
type Repository interface {
	Stats(ctx context.Context) (*Stats, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM patients),
			(SELECT COUNT(*) FROM appointments),
			(SELECT COUNT(*) FROM appointments WHERE status = 'pending'),
			(SELECT COUNT(*) FROM lab_requests),
			(SELECT COUNT(*) FROM lab_requests WHERE status = 'pending'),
			(SELECT COUNT(*) FROM lab_requests
				WHERE status = 'completed' AND completed_at >= date_trunc('day', NOW()))`).
		Scan(&s.TotalPatients, &s.TotalAppointments, &s.PendingAppointments,
			&s.TotalLabRequests, &s.PendingLabRequests, &s.CompletedToday)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/dashboard/stats", h.Stats,
		auth.RequireRole(auth.RoleNurse, auth.RoleDoctor))
}

func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.repo.Stats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"stats": stats})
}

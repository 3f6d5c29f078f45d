package druglookup

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinichq/clinic/internal/platform/auth"
)

// Handler exposes the drug directory search endpoint.
type Handler struct {
	client *Client
	logger zerolog.Logger
}

func NewHandler(client *Client, logger zerolog.Logger) *Handler {
	return &Handler{client: client, logger: logger}
}

// RegisterRoutes mounts drug search under the given group. Only doctors
// prescribe, so the endpoint is doctor-only.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/drugs/search", h.Search, auth.RequireRole(auth.RoleDoctor))
}

// Search handles GET /drugs/search?q=<name>&limit=<n>.
func (h *Handler) Search(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	// Lookup is advisory only; upstream failures degrade to an empty list
	// rather than blocking prescription entry.
	drugs, err := h.client.Search(c.Request().Context(), query, limit)
	if err != nil {
		h.logger.Warn().Err(err).Str("query", query).Msg("drug lookup failed")
		drugs = []Drug{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"drugs": drugs})
}

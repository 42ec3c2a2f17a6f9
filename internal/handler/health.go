package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Root is the liveness endpoint at GET /. It never touches a dependency and
// always answers 200 with a fixed plain text message.
func Root(c echo.Context) error {
	return c.String(http.StatusOK, "Server is running!")
}

// PingFunc checks one dependency.
type PingFunc func(ctx context.Context) error

// HealthHandler reports dependency reachability at GET /healthz.
type HealthHandler struct {
	env      string
	database PingFunc
	redis    PingFunc // nil when the service runs without Redis
}

// NewHealthHandler builds the readiness handler. redis may be nil.
func NewHealthHandler(env string, database, redis PingFunc) *HealthHandler {
	return &HealthHandler{env: env, database: database, redis: redis}
}

type checkResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time,omitempty"`
	Error        string `json:"error,omitempty"`
}

type healthResp struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]checkResult `json:"checks"`
}

// Check answers 200 when the datastore is reachable and 503 otherwise.
// Redis only degrades caching and rate limiting, so its failure is
// reported without failing the check.
func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	resp := healthResp{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.env,
		Checks:      map[string]checkResult{},
	}

	db := runCheck(ctx, h.database)
	resp.Checks["database"] = db
	if db.Status != "healthy" {
		resp.Status = "unhealthy"
	}

	if h.redis == nil {
		resp.Checks["redis"] = checkResult{Status: "disabled"}
	} else {
		resp.Checks["redis"] = runCheck(ctx, h.redis)
	}

	status := http.StatusOK
	if resp.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, resp)
}

func runCheck(ctx context.Context, ping PingFunc) checkResult {
	start := time.Now()
	if err := ping(ctx); err != nil {
		return checkResult{Status: "unhealthy", ResponseTime: time.Since(start).String(), Error: err.Error()}
	}
	return checkResult{Status: "healthy", ResponseTime: time.Since(start).String()}
}

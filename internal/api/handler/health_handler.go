package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthHandler handles GET /self and GET /health.
type HealthHandler struct {
	env       string
	startedAt time.Time
}

func NewHealthHandler(env string) *HealthHandler {
	return &HealthHandler{env: env, startedAt: time.Now()}
}

// Self is a bare liveness endpoint: 200 means the process is alive.
func (h *HealthHandler) Self(c echo.Context) error {
	return respond(c, http.StatusOK, nil)
}

type applicationHealth struct {
	Environment string `json:"environment"`
	Uptime      string `json:"uptime"`
	MemoryUsage struct {
		HeapTotal string `json:"heapTotal"`
		HeapUsed  string `json:"heapUsed"`
	} `json:"memoryUsage"`
}

type systemHealth struct {
	CPUs        int    `json:"cpus"`
	Goroutines  int    `json:"goroutines"`
	TotalMemory string `json:"totalMemory"`
}

type healthData struct {
	Application applicationHealth `json:"application"`
	System      systemHealth      `json:"system"`
	Timestamp   int64             `json:"timestamp"`
}

// Health reports application and runtime health.
func (h *HealthHandler) Health(c echo.Context) error {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	app := applicationHealth{
		Environment: h.env,
		Uptime:      fmt.Sprintf("%.2f Second", time.Since(h.startedAt).Seconds()),
	}
	app.MemoryUsage.HeapTotal = formatMB(ms.HeapSys)
	app.MemoryUsage.HeapUsed = formatMB(ms.HeapAlloc)

	return respond(c, http.StatusOK, healthData{
		Application: app,
		System: systemHealth{
			CPUs:        runtime.NumCPU(),
			Goroutines:  runtime.NumGoroutine(),
			TotalMemory: formatMB(ms.Sys),
		},
		Timestamp: time.Now().UnixMilli(),
	})
}

func formatMB(bytes uint64) string {
	return fmt.Sprintf("%.2f MB", float64(bytes)/1024/1024)
}

// ReadinessHandler handles GET /health/ready. It checks MongoDB and Redis
// connectivity before declaring the service ready.
type ReadinessHandler struct {
	mongo *mongo.Database
	redis *redis.Client
}

func NewReadinessHandler(db *mongo.Database, rdb *redis.Client) *ReadinessHandler {
	return &ReadinessHandler{mongo: db, redis: rdb}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessData struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	healthy := true

	if err := h.mongo.Client().Ping(ctx, nil); err != nil {
		deps["mongodb"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["mongodb"] = dependencyStatus{Status: "ok"}
	}

	if _, err := h.redis.Ping(ctx).Result(); err != nil {
		deps["redis"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["redis"] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	message := successMessage
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
		message = "one or more dependencies are unavailable"
	}

	return c.JSON(httpStatus, apiResponse{
		Success:    healthy,
		StatusCode: httpStatus,
		Message:    message,
		Data:       readinessData{Status: status, Dependencies: deps},
	})
}

// Package handlers provides HTTP API handlers for yasem.
package handlers

import (
	"context"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jmylchreest/yasem/pkg/httpclient"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
	"gorm.io/gorm"
)

// SessionCounter reports the number of live emulation sessions.
type SessionCounter interface {
	Count() int
}

// BreakerSource reports the proxy's per-host circuit breakers.
type BreakerSource interface {
	BreakerStats() map[string]httpclient.BreakerStats
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	version   string
	startTime time.Time
	db        *gorm.DB
	sessions  SessionCounter
	breakers  BreakerSource
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{
		version:   version,
		startTime: time.Now(),
	}
}

// WithDB sets the database connection for health checks.
func (h *HealthHandler) WithDB(db *gorm.DB) *HealthHandler {
	h.db = db
	return h
}

// WithSessions sets the session counter reported by /health.
func (h *HealthHandler) WithSessions(sessions SessionCounter) *HealthHandler {
	h.sessions = sessions
	return h
}

// WithBreakers sets the circuit breaker source reported by /health.
func (h *HealthHandler) WithBreakers(breakers BreakerSource) *HealthHandler {
	h.breakers = breakers
	return h
}

// Register registers the health routes with the API.
func (h *HealthHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getHealth",
		Method:      "GET",
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns service health including system metrics, database, sessions and portal circuits",
		Tags:        []string{"System"},
	}, h.GetHealth)

	huma.Register(api, huma.Operation{
		OperationID: "getLivez",
		Method:      "GET",
		Path:        "/livez",
		Summary:     "Liveness probe",
		Tags:        []string{"System"},
	}, h.GetLivez)

	huma.Register(api, huma.Operation{
		OperationID: "getReadyz",
		Method:      "GET",
		Path:        "/readyz",
		Summary:     "Readiness probe",
		Description: "Reports ready once the profile store answers",
		Tags:        []string{"System"},
	}, h.GetReadyz)
}

// HealthInput is the input for the health check endpoint.
type HealthInput struct{}

// HealthOutput is the output for the health check endpoint.
type HealthOutput struct {
	Body HealthResponse
}

// GetHealth returns the health status of the service.
func (h *HealthHandler) GetHealth(ctx context.Context, _ *HealthInput) (*HealthOutput, error) {
	now := time.Now()
	uptime := now.Sub(h.startTime)

	db := h.getDatabaseHealth(ctx)

	var circuits []CircuitBreakerStatus
	if h.breakers != nil {
		for host, s := range h.breakers.BreakerStats() {
			circuits = append(circuits, CircuitBreakerStatus{
				Name:     host,
				State:    s.State.String(),
				Failures: s.Failures,
			})
		}
		sort.Slice(circuits, func(i, j int) bool { return circuits[i].Name < circuits[j].Name })
	}

	sessions := 0
	if h.sessions != nil {
		sessions = h.sessions.Count()
	}

	status := "healthy"
	if db.Status == "error" {
		status = "degraded"
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:        status,
			Timestamp:     now.UTC().Format(time.RFC3339),
			Version:       h.version,
			Uptime:        uptime.Round(time.Second).String(),
			UptimeSeconds: uptime.Seconds(),
			CPUInfo:       h.getCPUInfo(),
			Memory:        h.getMemoryInfo(),
			Components: HealthComponents{
				Database:        db,
				Sessions:        SessionsHealth{Active: sessions},
				CircuitBreakers: circuits,
			},
			Checks: map[string]string{
				"database": db.Status,
			},
		},
	}, nil
}

// LivezInput is the input for the liveness probe.
type LivezInput struct{}

// LivezOutput is the output for the liveness probe.
type LivezOutput struct {
	Body struct {
		Status string `json:"status"`
	}
}

// GetLivez reports that the process is serving requests.
func (h *HealthHandler) GetLivez(_ context.Context, _ *LivezInput) (*LivezOutput, error) {
	out := &LivezOutput{}
	out.Body.Status = "ok"
	return out, nil
}

// ReadyzInput is the input for the readiness probe.
type ReadyzInput struct{}

// ReadyzOutput is the output for the readiness probe.
type ReadyzOutput struct {
	Body struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	}
}

// GetReadyz reports whether the profile store is reachable.
func (h *HealthHandler) GetReadyz(ctx context.Context, _ *ReadyzInput) (*ReadyzOutput, error) {
	out := &ReadyzOutput{}
	out.Body.Components = map[string]string{"sessions": "ok"}

	switch {
	case h.db == nil:
		out.Body.Components["database"] = "not_configured"
	case h.getDatabaseHealth(ctx).Status != "ok":
		out.Body.Components["database"] = "error"
	default:
		out.Body.Components["database"] = "ok"
	}

	out.Body.Status = "ready"
	if out.Body.Components["database"] != "ok" {
		out.Body.Status = "not_ready"
	}
	return out, nil
}

func (h *HealthHandler) getCPUInfo() CPUInfo {
	cores := runtime.NumCPU()
	info := CPUInfo{Cores: cores}

	loadAvg, err := load.Avg()
	if err == nil && loadAvg != nil {
		info.Load1Min = loadAvg.Load1
		info.Load5Min = loadAvg.Load5
		info.Load15Min = loadAvg.Load15
		if cores > 0 {
			info.LoadPercentage1Min = loadAvg.Load1 / float64(cores) * 100
		}
	}
	return info
}

func (h *HealthHandler) getMemoryInfo() MemoryInfo {
	info := MemoryInfo{}

	vmStat, err := mem.VirtualMemory()
	if err == nil && vmStat != nil {
		info.TotalMemoryMB = toMB(vmStat.Total)
		info.UsedMemoryMB = toMB(vmStat.Used)
		info.AvailableMemoryMB = toMB(vmStat.Available)
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return info
	}
	if m, err := proc.MemoryInfo(); err == nil && m != nil {
		info.ProcessMB = toMB(m.RSS)
		if info.TotalMemoryMB > 0 {
			info.ProcessPercentage = info.ProcessMB / info.TotalMemoryMB * 100
		}
	}
	if n, err := proc.NumThreads(); err == nil {
		info.ProcessThreads = int(n)
	}
	info.Goroutines = runtime.NumGoroutine()
	return info
}

func (h *HealthHandler) getDatabaseHealth(ctx context.Context) DatabaseHealth {
	health := DatabaseHealth{Status: "ok", ResponseTimeStatus: "healthy"}

	if h.db == nil {
		health.Status = "unknown"
		return health
	}

	sqlDB, err := h.db.DB()
	if err != nil {
		health.Status = "error"
		return health
	}

	stats := sqlDB.Stats()
	health.ConnectionPoolSize = stats.MaxOpenConnections
	health.ActiveConnections = stats.InUse
	health.IdleConnections = stats.Idle

	start := time.Now()
	err = sqlDB.PingContext(ctx)
	health.ResponseTimeMS = float64(time.Since(start).Microseconds()) / 1000

	switch {
	case err != nil:
		health.Status = "error"
		health.ResponseTimeStatus = "error"
	case health.ResponseTimeMS > 100:
		health.ResponseTimeStatus = "slow"
	}
	return health
}

func toMB(b uint64) float64 {
	return float64(b) / 1024 / 1024
}

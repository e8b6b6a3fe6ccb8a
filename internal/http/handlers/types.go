package handlers

import (
	"time"

	"github.com/jmylchreest/yasem/internal/emulation"
	"github.com/jmylchreest/yasem/internal/models"
	"github.com/jmylchreest/yasem/internal/session"
)

// Health types

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status        string            `json:"status"`
	Timestamp     string            `json:"timestamp"`
	Version       string            `json:"version"`
	Uptime        string            `json:"uptime"`
	UptimeSeconds float64           `json:"uptime_seconds"`
	CPUInfo       CPUInfo           `json:"cpu_info"`
	Memory        MemoryInfo        `json:"memory"`
	Components    HealthComponents  `json:"components"`
	Checks        map[string]string `json:"checks,omitempty"`
}

// CPUInfo holds load averages.
type CPUInfo struct {
	Cores              int     `json:"cores"`
	Load1Min           float64 `json:"load_1min"`
	Load5Min           float64 `json:"load_5min"`
	Load15Min          float64 `json:"load_15min"`
	LoadPercentage1Min float64 `json:"load_percentage_1min"`
}

// MemoryInfo holds system and process memory usage.
type MemoryInfo struct {
	TotalMemoryMB     float64 `json:"total_memory_mb"`
	UsedMemoryMB      float64 `json:"used_memory_mb"`
	AvailableMemoryMB float64 `json:"available_memory_mb"`
	ProcessMB         float64 `json:"process_mb"`
	ProcessPercentage float64 `json:"process_percentage"`
	ProcessThreads    int     `json:"process_threads"`
	Goroutines        int     `json:"goroutines"`
}

// HealthComponents groups per-component health.
type HealthComponents struct {
	Database        DatabaseHealth         `json:"database"`
	Sessions        SessionsHealth         `json:"sessions"`
	CircuitBreakers []CircuitBreakerStatus `json:"circuit_breakers"`
}

// DatabaseHealth describes the profile store.
type DatabaseHealth struct {
	Status             string  `json:"status"`
	ConnectionPoolSize int     `json:"connection_pool_size"`
	ActiveConnections  int     `json:"active_connections"`
	IdleConnections    int     `json:"idle_connections"`
	ResponseTimeMS     float64 `json:"response_time_ms"`
	ResponseTimeStatus string  `json:"response_time_status"`
}

// SessionsHealth counts live emulation sessions.
type SessionsHealth struct {
	Active int `json:"active"`
}

// CircuitBreakerStatus is one portal host's circuit.
type CircuitBreakerStatus struct {
	Name     string `json:"name"`
	State    string `json:"state"`
	Failures int    `json:"failures"`
}

// Profile types

// ProfileResponse represents a device profile in API responses.
type ProfileResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	ClassID   string            `json:"class_id"`
	Submodel  string            `json:"submodel,omitempty"`
	Portal    string            `json:"portal,omitempty"`
	Config    map[string]string `json:"config,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ProfileFromModel converts a model to a response.
func ProfileFromModel(p *models.Profile) ProfileResponse {
	return ProfileResponse{
		ID:        p.ID,
		Name:      p.Name,
		ClassID:   p.ClassID,
		Submodel:  p.SubmodelName(),
		Portal:    p.PortalURL(),
		Config:    p.Config,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ProfileRequest is the body for creating or replacing a profile.
type ProfileRequest struct {
	Name     string            `json:"name,omitempty" doc:"Display name" maxLength:"128"`
	ClassID  string            `json:"class_id" doc:"Device family" enum:"mag,dunehd,samsung"`
	Submodel string            `json:"submodel,omitempty" doc:"Family submodel"`
	Portal   string            `json:"portal,omitempty" doc:"Portal start URL"`
	Config   map[string]string `json:"config,omitempty" doc:"Namespaced profile configuration"`
}

// ToModel converts the request into a profile with the given id.
func (r ProfileRequest) ToModel(id string) *models.Profile {
	return &models.Profile{
		ID:       id,
		Name:     r.Name,
		ClassID:  r.ClassID,
		Submodel: r.Submodel,
		Portal:   r.Portal,
		Config:   r.Config,
	}
}

// Family types

// FamilyResponse describes one emulated device family.
type FamilyResponse struct {
	ClassID    string            `json:"class_id"`
	Name       string            `json:"name"`
	Submodels  []string          `json:"submodels"`
	Objects    []string          `json:"objects"`
	Operations int               `json:"operations"`
	// UserAgents maps each submodel to the User-Agent sent upstream.
	UserAgents map[string]string `json:"user_agents"`
}

// FamilyFromEmulation converts a family to a response.
func FamilyFromEmulation(f emulation.Family, userAgents map[string]string) FamilyResponse {
	return FamilyResponse{
		ClassID:    f.ClassID(),
		Name:       f.Name(),
		Submodels:  f.Submodels(),
		Objects:    f.Catalog().Objects(),
		Operations: f.Catalog().Len(),
		UserAgents: userAgents,
	}
}

// Session types

// SessionResponse summarises a live session.
type SessionResponse = session.Info

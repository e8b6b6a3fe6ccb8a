package handlers

import (
	"context"
	"sort"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jmylchreest/yasem/pkg/httpclient"
)

// CircuitBreakerHandler reports and resets the per-portal breakers of the
// proxy's upstream client.
type CircuitBreakerHandler struct {
	client *httpclient.Client
}

// NewCircuitBreakerHandler creates a new circuit breaker handler.
func NewCircuitBreakerHandler(client *httpclient.Client) *CircuitBreakerHandler {
	return &CircuitBreakerHandler{client: client}
}

// Register registers the circuit breaker routes with the API.
func (h *CircuitBreakerHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listCircuitBreakers",
		Method:      "GET",
		Path:        "/api/v1/circuit-breakers",
		Summary:     "List circuit breakers",
		Description: "Returns one breaker per portal host the proxy has contacted",
		Tags:        []string{"Circuit Breakers"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "resetCircuitBreaker",
		Method:      "POST",
		Path:        "/api/v1/circuit-breakers/{host}/reset",
		Summary:     "Reset a circuit breaker",
		Description: "Closes the breaker for a portal host and clears its failure count",
		Tags:        []string{"Circuit Breakers"},
	}, h.Reset)
}

// CircuitBreakerStatusData is the API view of one breaker.
type CircuitBreakerStatusData struct {
	Host     string `json:"host"`
	State    string `json:"state" enum:"closed,open,half-open"`
	Failures int    `json:"failures"`
}

// ListCircuitBreakersInput is the input for listing breakers.
type ListCircuitBreakersInput struct{}

// ListCircuitBreakersOutput is the output for listing breakers.
type ListCircuitBreakersOutput struct {
	Body struct {
		Breakers []CircuitBreakerStatusData `json:"breakers"`
	}
}

// List returns every breaker sorted by host.
func (h *CircuitBreakerHandler) List(ctx context.Context, input *ListCircuitBreakersInput) (*ListCircuitBreakersOutput, error) {
	stats := h.client.BreakerStats()
	out := make([]CircuitBreakerStatusData, 0, len(stats))
	for host, s := range stats {
		out = append(out, CircuitBreakerStatusData{Host: host, State: s.State.String(), Failures: s.Failures})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Host < out[j].Host })

	resp := &ListCircuitBreakersOutput{}
	resp.Body.Breakers = out
	return resp, nil
}

// ResetCircuitBreakerInput is the input for resetting one breaker.
type ResetCircuitBreakerInput struct {
	Host string `path:"host" doc:"Portal host, including the port when not default"`
}

// ResetCircuitBreakerOutput is the output for resetting one breaker.
type ResetCircuitBreakerOutput struct {
	Body CircuitBreakerStatusData
}

// Reset closes the named breaker. Hosts the proxy has never contacted are 404.
func (h *CircuitBreakerHandler) Reset(ctx context.Context, input *ResetCircuitBreakerInput) (*ResetCircuitBreakerOutput, error) {
	if _, ok := h.client.BreakerStats()[input.Host]; !ok {
		return nil, huma.Error404NotFound("no circuit breaker for host " + input.Host)
	}

	cb := h.client.Breaker(input.Host)
	cb.Reset()

	return &ResetCircuitBreakerOutput{Body: CircuitBreakerStatusData{
		Host:     input.Host,
		State:    cb.State().String(),
		Failures: cb.Failures(),
	}}, nil
}

package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jmylchreest/yasem/internal/emulation"
	"github.com/jmylchreest/yasem/internal/portalproxy"
)

// FamilyHandler lists the emulated device families.
type FamilyHandler struct{}

// NewFamilyHandler creates a new family handler.
func NewFamilyHandler() *FamilyHandler {
	return &FamilyHandler{}
}

// Register registers the family routes with the API.
func (h *FamilyHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listFamilies",
		Method:      "GET",
		Path:        "/api/v1/families",
		Summary:     "List device families",
		Description: "Returns each emulated family with its submodels, legacy objects and catalog size",
		Tags:        []string{"Emulation"},
	}, h.List)
}

// ListFamiliesInput is the input for listing families.
type ListFamiliesInput struct{}

// ListFamiliesOutput is the output for listing families.
type ListFamiliesOutput struct {
	Body struct {
		Families []FamilyResponse `json:"families"`
	}
}

// List returns every registered family, sorted by class id.
func (h *FamilyHandler) List(_ context.Context, _ *ListFamiliesInput) (*ListFamiliesOutput, error) {
	families := emulation.Families()

	out := &ListFamiliesOutput{}
	out.Body.Families = make([]FamilyResponse, 0, len(families))
	for _, f := range families {
		uas := make(map[string]string, len(f.Submodels()))
		for _, sub := range f.Submodels() {
			uas[sub] = portalproxy.UserAgentFor(&emulation.DeviceProfile{ClassID: f.ClassID(), Submodel: sub})
		}
		out.Body.Families = append(out.Body.Families, FamilyFromEmulation(f, uas))
	}
	return out, nil
}

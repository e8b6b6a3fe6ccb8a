package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jmylchreest/yasem/internal/models"
	"github.com/jmylchreest/yasem/internal/service"
)

// ProfileHandler handles device profile API endpoints.
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Register registers the profile routes with the API.
func (h *ProfileHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listProfiles",
		Method:      "GET",
		Path:        "/api/v1/profiles",
		Summary:     "List device profiles",
		Tags:        []string{"Profiles"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "exportProfiles",
		Method:      "GET",
		Path:        "/api/v1/profiles/export",
		Summary:     "Export device profiles",
		Description: "Returns every profile as a JSON attachment suitable for import",
		Tags:        []string{"Profiles"},
	}, h.Export)

	huma.Register(api, huma.Operation{
		OperationID: "importProfiles",
		Method:      "POST",
		Path:        "/api/v1/profiles/import",
		Summary:     "Import device profiles",
		Description: "Adds profiles whose id is not taken. Incomplete entries and unknown families are skipped.",
		Tags:        []string{"Profiles"},
	}, h.Import)

	huma.Register(api, huma.Operation{
		OperationID: "getProfile",
		Method:      "GET",
		Path:        "/api/v1/profiles/{id}",
		Summary:     "Get a device profile",
		Tags:        []string{"Profiles"},
	}, h.GetByID)

	huma.Register(api, huma.Operation{
		OperationID:   "createProfile",
		Method:        "POST",
		Path:          "/api/v1/profiles",
		Summary:       "Create a device profile",
		Tags:          []string{"Profiles"},
		DefaultStatus: 201,
	}, h.Create)

	huma.Register(api, huma.Operation{
		OperationID: "updateProfile",
		Method:      "PUT",
		Path:        "/api/v1/profiles/{id}",
		Summary:     "Replace a device profile",
		Tags:        []string{"Profiles"},
	}, h.Update)

	huma.Register(api, huma.Operation{
		OperationID:   "deleteProfile",
		Method:        "DELETE",
		Path:          "/api/v1/profiles/{id}",
		Summary:       "Delete a device profile",
		Tags:          []string{"Profiles"},
		DefaultStatus: 204,
	}, h.Delete)
}

// ListProfilesInput is the input for listing profiles.
type ListProfilesInput struct{}

// ListProfilesOutput is the output for listing profiles.
type ListProfilesOutput struct {
	Body struct {
		Profiles []ProfileResponse `json:"profiles"`
	}
}

// List returns every stored profile.
func (h *ProfileHandler) List(ctx context.Context, _ *ListProfilesInput) (*ListProfilesOutput, error) {
	profiles, err := h.profileService.GetAll(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list profiles", err)
	}

	out := &ListProfilesOutput{}
	out.Body.Profiles = make([]ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		out.Body.Profiles = append(out.Body.Profiles, ProfileFromModel(p))
	}
	return out, nil
}

// ProfileIDInput identifies one profile.
type ProfileIDInput struct {
	ID string `path:"id" doc:"Profile ID" maxLength:"64"`
}

// ProfileOutput wraps one profile.
type ProfileOutput struct {
	Body ProfileResponse
}

// GetByID returns one profile.
func (h *ProfileHandler) GetByID(ctx context.Context, input *ProfileIDInput) (*ProfileOutput, error) {
	p, err := h.profileService.GetByID(ctx, input.ID)
	if err != nil {
		return nil, profileError(err, "failed to get profile")
	}
	return &ProfileOutput{Body: ProfileFromModel(p)}, nil
}

// CreateProfileInput is the input for creating a profile.
type CreateProfileInput struct {
	Body ProfileRequest
}

// Create stores a new profile. The ID is generated.
func (h *ProfileHandler) Create(ctx context.Context, input *CreateProfileInput) (*ProfileOutput, error) {
	p := input.Body.ToModel("")
	if err := h.profileService.Create(ctx, p); err != nil {
		return nil, profileError(err, "failed to create profile")
	}
	return &ProfileOutput{Body: ProfileFromModel(p)}, nil
}

// UpdateProfileInput is the input for replacing a profile.
type UpdateProfileInput struct {
	ID   string `path:"id" doc:"Profile ID" maxLength:"64"`
	Body ProfileRequest
}

// Update replaces a stored profile.
func (h *ProfileHandler) Update(ctx context.Context, input *UpdateProfileInput) (*ProfileOutput, error) {
	p := input.Body.ToModel(input.ID)
	if err := h.profileService.Update(ctx, p); err != nil {
		return nil, profileError(err, "failed to update profile")
	}
	stored, err := h.profileService.GetByID(ctx, input.ID)
	if err != nil {
		return nil, profileError(err, "failed to get profile")
	}
	return &ProfileOutput{Body: ProfileFromModel(stored)}, nil
}

// DeleteProfileOutput is the empty output for deletes.
type DeleteProfileOutput struct{}

// Delete removes a profile.
func (h *ProfileHandler) Delete(ctx context.Context, input *ProfileIDInput) (*DeleteProfileOutput, error) {
	if err := h.profileService.Delete(ctx, input.ID); err != nil {
		return nil, profileError(err, "failed to delete profile")
	}
	return &DeleteProfileOutput{}, nil
}

// ExportProfilesInput is the input for exporting profiles.
type ExportProfilesInput struct{}

// ExportProfilesOutput is the exported profile list.
type ExportProfilesOutput struct {
	ContentDisposition string `header:"Content-Disposition"`
	Body               []ProfileResponse
}

// Export returns every profile as a download.
func (h *ProfileHandler) Export(ctx context.Context, _ *ExportProfilesInput) (*ExportProfilesOutput, error) {
	profiles, err := h.profileService.GetAll(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to export profiles", err)
	}

	out := &ExportProfilesOutput{
		ContentDisposition: fmt.Sprintf(`attachment; filename="yasem-profiles-%d.json"`, time.Now().UnixMilli()),
		Body:               make([]ProfileResponse, 0, len(profiles)),
	}
	for _, p := range profiles {
		out.Body = append(out.Body, ProfileFromModel(p))
	}
	return out, nil
}

// ImportProfile is one entry of an import. Every field is optional so that
// incomplete entries are skipped rather than failing the whole request.
type ImportProfile struct {
	ID       string            `json:"id,omitempty"`
	Name     string            `json:"name,omitempty"`
	ClassID  string            `json:"class_id,omitempty"`
	Submodel string            `json:"submodel,omitempty"`
	Portal   string            `json:"portal,omitempty"`
	Config   map[string]string `json:"config,omitempty"`
}

// ImportProfilesInput is the input for importing profiles.
type ImportProfilesInput struct {
	Body []ImportProfile
}

// ImportProfilesOutput reports the import counts.
type ImportProfilesOutput struct {
	Body struct {
		Added   int `json:"added"`
		Skipped int `json:"skipped"`
	}
}

// Import adds new profiles from an export.
func (h *ProfileHandler) Import(ctx context.Context, input *ImportProfilesInput) (*ImportProfilesOutput, error) {
	profiles := make([]*models.Profile, 0, len(input.Body))
	for _, p := range input.Body {
		profiles = append(profiles, &models.Profile{
			ID:       p.ID,
			Name:     p.Name,
			ClassID:  p.ClassID,
			Submodel: p.Submodel,
			Portal:   p.Portal,
			Config:   p.Config,
		})
	}

	added, skipped, err := h.profileService.Import(ctx, profiles)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to import profiles", err)
	}

	out := &ImportProfilesOutput{}
	out.Body.Added = added
	out.Body.Skipped = skipped
	return out, nil
}

func profileError(err error, msg string) error {
	var verr models.ErrValidation
	switch {
	case errors.Is(err, models.ErrProfileNotFound):
		return huma.Error404NotFound("profile not found")
	case errors.As(err, &verr):
		return huma.Error422UnprocessableEntity(fmt.Sprintf("%s %s", verr.Field, verr.Message))
	default:
		return huma.Error500InternalServerError(msg, err)
	}
}

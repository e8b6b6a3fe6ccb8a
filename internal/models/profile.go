package models

import (
	"strings"

	"github.com/jmylchreest/yasem/internal/urlutil"
	"gorm.io/gorm"
)

// Well-known profile configuration keys. Keys are namespaced "<group>/<key>".
const (
	ConfigKeySubmodel = "profile/submodel"
	ConfigKeyPortal   = "profile/portal"
)

// Profile is a persisted device profile: one emulated device bound to a portal.
type Profile struct {
	ID       string            `gorm:"primarykey;type:varchar(64)" json:"id"`
	Name     string            `gorm:"not null;default:''" json:"name"`
	ClassID  string            `gorm:"not null;index;type:varchar(32)" json:"class_id"`
	Submodel string            `gorm:"type:varchar(64)" json:"submodel,omitempty"`
	Portal   string            `gorm:"type:text" json:"portal,omitempty"`
	Config   map[string]string `gorm:"serializer:json;type:text" json:"config,omitempty"`
	Timestamps
}

// TableName returns the table name for profiles.
func (Profile) TableName() string {
	return "profiles"
}

// BeforeCreate generates an ID if none was supplied.
func (p *Profile) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	return nil
}

// Validate checks required fields.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.ClassID) == "" {
		return ErrValidation{Field: "class_id", Message: "is required"}
	}
	if p.Portal != "" {
		if _, err := urlutil.ParseHTTPURL(p.Portal); err != nil {
			return ErrValidation{Field: "portal", Message: "must be an absolute http(s) URL"}
		}
	}
	return nil
}

// EffectiveConfig returns the flat config map with the submodel and portal
// columns folded in under their well-known keys. Explicit config entries win.
func (p *Profile) EffectiveConfig() map[string]string {
	out := make(map[string]string, len(p.Config)+2)
	if p.Submodel != "" {
		out[ConfigKeySubmodel] = p.Submodel
	}
	if p.Portal != "" {
		out[ConfigKeyPortal] = p.Portal
	}
	for k, v := range p.Config {
		out[k] = v
	}
	return out
}

// PortalURL returns the portal column, falling back to the profile/portal config key.
func (p *Profile) PortalURL() string {
	if p.Portal != "" {
		return p.Portal
	}
	return p.Config[ConfigKeyPortal]
}

// SubmodelName returns the submodel column, falling back to the profile/submodel config key.
func (p *Profile) SubmodelName() string {
	if p.Submodel != "" {
		return p.Submodel
	}
	return p.Config[ConfigKeySubmodel]
}

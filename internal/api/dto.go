package api

import (
	"github.com/veslatte/clipdex/internal/catalog"
	"github.com/veslatte/clipdex/internal/settings"
)

// CatalogResponse wraps one derived view over the catalog.
type CatalogResponse struct {
	Records []catalog.ViewRecord `json:"records"`
	Total   int                  `json:"total"`
	Status  catalog.Status       `json:"status"`
}

// SetReadRequest is the request body for the read-state toggle.
type SetReadRequest struct {
	Path string `json:"path" example:"clips/article.md" validate:"required"`
	Read bool   `json:"read"`
}

// ExclusionRequest carries one exclusion rule.
type ExclusionRequest struct {
	Rule string `json:"rule" example:"work/expenses" validate:"required"`
}

// ExclusionsResponse lists the current exclusion rules in order.
type ExclusionsResponse struct {
	Rules []string `json:"rules"`
}

// SettingsBody is the settings get/put payload (aliased from the domain layer).
type SettingsBody = settings.Settings

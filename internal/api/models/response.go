package models

import (
	"time"

	"energy-dashboard/internal/model"
)

// RecordsResponse lists decision records in the requested order.
type RecordsResponse struct {
	Order   string                 `json:"order"`
	Count   int                    `json:"count"`
	Records []model.DecisionRecord `json:"records"`
}

// DatasetInfo describes one decision dataset known to the server.
type DatasetInfo struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Variant   string    `json:"variant"`
	Records   int       `json:"records"`
	Units     []string  `json:"units"`
	FirstStep string    `json:"first_step,omitempty"`
	LastStep  string    `json:"last_step,omitempty"`
	AddedAt   time.Time `json:"added_at,omitempty"`
	// Active marks the dataset the playback engine is serving.
	Active bool `json:"active"`
}

// StorageUnitInfo describes a configured storage unit.
type StorageUnitInfo struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Capacity float64 `json:"capacity"`
	Field    string  `json:"field"`
}

// StrategyInfo represents information about a strategy
type StrategyInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterInfo `json:"parameters"`
}

// ParameterInfo describes a strategy parameter
type ParameterInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Default     any    `json:"default,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error codes returned by the API.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInvalidConfig  = "INVALID_CONFIG"
	CodeNoDataset      = "NO_DATASET"
	CodeCatalogError   = "CATALOG_LOAD_ERROR"
	CodeInternal       = "INTERNAL_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeSchema         = "SCHEMA_VIOLATION"
)

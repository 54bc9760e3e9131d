package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"energy-dashboard/internal/api/models"
	"energy-dashboard/internal/data"
)

// DatasetHandler lists the decision datasets in the catalog.
type DatasetHandler struct {
	catalogPath string
	// active is the dataset the playback engine serves, if any.
	active *data.DatasetEntry
}

func NewDatasetHandler(catalogPath string, active *data.DatasetEntry) *DatasetHandler {
	if catalogPath == "" {
		catalogPath = data.DefaultCatalogPath()
	}
	return &DatasetHandler{catalogPath: catalogPath, active: active}
}

// ListDatasets handles GET /api/v1/datasets
func (h *DatasetHandler) ListDatasets(c *gin.Context) {
	catalog, err := data.LoadCatalog(h.catalogPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    models.CodeCatalogError,
				Message: fmt.Sprintf("Failed to load catalog: %v", err),
			},
		})
		return
	}

	datasets := make([]models.DatasetInfo, 0, len(catalog.Datasets)+1)
	activeListed := false
	for _, e := range catalog.Datasets {
		info := datasetInfo(e)
		if h.active != nil && (e.ID == h.active.ID || e.Path == h.active.Path) {
			info.Active = true
			activeListed = true
		}
		datasets = append(datasets, info)
	}
	// A dataset given on the command line need not be catalogued.
	if h.active != nil && !activeListed {
		info := datasetInfo(*h.active)
		info.Active = true
		datasets = append(datasets, info)
	}

	c.JSON(http.StatusOK, gin.H{
		"datasets":   datasets,
		"updated_at": catalog.UpdatedAt,
		"count":      len(datasets),
	})
}

func datasetInfo(e data.DatasetEntry) models.DatasetInfo {
	return models.DatasetInfo{
		ID:        e.ID,
		Path:      e.Path,
		Variant:   string(e.Variant),
		Records:   e.Records,
		Units:     e.Units,
		FirstStep: e.FirstStep,
		LastStep:  e.LastStep,
		AddedAt:   e.AddedAt,
	}
}

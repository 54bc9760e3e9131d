package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"energy-dashboard/internal/api/models"
	"energy-dashboard/internal/model"
	"energy-dashboard/internal/strategy"
)

var strategyInfo = map[string]models.StrategyInfo{
	"rule": {
		Name:        "rule",
		Description: "Stores surplus while any unit has room and covers deficits from storage while any unit holds energy. The remainder is traded with the grid.",
		Parameters:  []models.ParameterInfo{},
	},
	"schedule": {
		Name:        "schedule",
		Description: "Time-based schedule. Surplus is stored only inside the charge window and deficits are covered from storage only inside the discharge window.",
		Parameters: []models.ParameterInfo{
			{Name: "charge_start", Type: "string", Description: "Start of the charge window (HH:MM)", Default: "10:00"},
			{Name: "charge_end", Type: "string", Description: "End of the charge window (HH:MM), defaults to discharge_start", Default: "17:00"},
			{Name: "discharge_start", Type: "string", Description: "Start of the discharge window (HH:MM)", Default: "17:00"},
			{Name: "discharge_end", Type: "string", Description: "End of the discharge window (HH:MM)", Default: "22:00"},
		},
	},
}

// StrategyHandler handles strategy and storage unit listings
type StrategyHandler struct {
	units []model.StorageUnit
}

func NewStrategyHandler(units []model.StorageUnit) *StrategyHandler {
	return &StrategyHandler{units: units}
}

// ListStrategies handles GET /api/v1/strategies
func (h *StrategyHandler) ListStrategies(c *gin.Context) {
	names := strategy.Names()
	strategies := make([]models.StrategyInfo, 0, len(names))
	for _, name := range names {
		info, ok := strategyInfo[name]
		if !ok {
			info = models.StrategyInfo{Name: name, Parameters: []models.ParameterInfo{}}
		}
		strategies = append(strategies, info)
	}
	c.JSON(http.StatusOK, gin.H{"strategies": strategies})
}

// ListStorageUnits handles GET /api/v1/storage-units
func (h *StrategyHandler) ListStorageUnits(c *gin.Context) {
	units := make([]models.StorageUnitInfo, 0, len(h.units))
	for _, u := range h.units {
		units = append(units, models.StorageUnitInfo{
			ID:       u.ID,
			Name:     u.Name,
			Capacity: u.Capacity,
			Field:    model.StorageField(u.ID),
		})
	}
	c.JSON(http.StatusOK, gin.H{"storage_units": units})
}

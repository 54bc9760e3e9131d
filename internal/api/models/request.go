package models

// DashboardQuery carries the GET /api/v1/dashboard query string. Empty
// selectors fall back to the server configuration; a nil Seed draws a
// fresh, uncached dashboard.
type DashboardQuery struct {
	Granularity string `form:"granularity"`
	Comparison  string `form:"comparison"`
	Seed        *int64 `form:"seed"`
}

// SeekRequest is the body of POST /api/v1/playback/seek.
type SeekRequest struct {
	Index *int `json:"index" binding:"required"`
}

// RecordsQuery carries GET /api/v1/playback/records.
type RecordsQuery struct {
	Order string `form:"order" binding:"omitempty,oneof=asc desc"`
}

// BacktestRequest is the body of POST /api/v1/backtest: generate a
// series and fold it into a mock decision dataset.
type BacktestRequest struct {
	Granularity string         `json:"granularity,omitempty"`
	Seed        *int64         `json:"seed,omitempty"`
	Variant     string         `json:"variant,omitempty" binding:"omitempty,oneof=strict relaxed"`
	Strategy    StrategyConfig `json:"strategy"`
}

// StrategyConfig defines strategy and its parameters
type StrategyConfig struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

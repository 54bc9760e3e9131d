package model

import "time"

// ConsumptionSample is demand for one timestamp, split by sector.
type ConsumptionSample struct {
	Timestamp   time.Time `json:"timestamp" cbor:"timestamp"`
	Residential float64   `json:"residential" cbor:"residential"`
	Commercial  float64   `json:"commercial" cbor:"commercial"`
	Industrial  float64   `json:"industrial" cbor:"industrial"`
	Total       float64   `json:"total" cbor:"total"`
}

// ProductionSample is generation for one timestamp, split by source.
type ProductionSample struct {
	Timestamp time.Time `json:"timestamp" cbor:"timestamp"`
	Solar     float64   `json:"solar" cbor:"solar"`
	Wind      float64   `json:"wind" cbor:"wind"`
	Hydro     float64   `json:"hydro" cbor:"hydro"`
	Thermal   float64   `json:"thermal" cbor:"thermal"`
	Total     float64   `json:"total" cbor:"total"`
}

// StorageSample is the battery state after one step.
// ChargingRate and DischargingRate are the energy actually absorbed or
// released after clamping; the Requested* fields hold the pre-clamp values.
type StorageSample struct {
	Timestamp                time.Time `json:"timestamp" cbor:"timestamp"`
	BatteryLevel             float64   `json:"batteryLevel" cbor:"battery_level"`
	BatteryCapacity          float64   `json:"batteryCapacity" cbor:"battery_capacity"`
	ChargingRate             float64   `json:"chargingRate" cbor:"charging_rate"`
	DischargingRate          float64   `json:"dischargingRate" cbor:"discharging_rate"`
	RequestedChargingRate    float64   `json:"requestedChargingRate" cbor:"requested_charging_rate"`
	RequestedDischargingRate float64   `json:"requestedDischargingRate" cbor:"requested_discharging_rate"`
}

// GridSample is the grid exchange for one timestamp. At most one of
// Import and Export is non-zero.
type GridSample struct {
	Timestamp   time.Time `json:"timestamp" cbor:"timestamp"`
	Import      float64   `json:"import" cbor:"import"`
	Export      float64   `json:"export" cbor:"export"`
	NetExchange float64   `json:"netExchange" cbor:"net_exchange"`
	Price       float64   `json:"price" cbor:"price"`
}

// TokenSample is one step of the token ledger.
type TokenSample struct {
	Timestamp        time.Time `json:"timestamp" cbor:"timestamp"`
	TokenBalance     float64   `json:"tokenBalance" cbor:"token_balance"`
	TokensEarned     float64   `json:"tokensEarned" cbor:"tokens_earned"`
	TokensBurned     float64   `json:"tokensBurned" cbor:"tokens_burned"`
	GridTokensBurned float64   `json:"gridTokensBurned" cbor:"grid_tokens_burned"`
	TokenPrice       float64   `json:"tokenPrice" cbor:"token_price"`
}

// Series bundles every generated per-timestamp series. All slices have
// the same length and share timestamps index by index.
type Series struct {
	Timestamps  []time.Time         `json:"timestamps" cbor:"timestamps"`
	Consumption []ConsumptionSample `json:"consumption" cbor:"consumption"`
	Production  []ProductionSample  `json:"production" cbor:"production"`
	Storage     []StorageSample     `json:"storage" cbor:"storage"`
	Grid        []GridSample        `json:"grid" cbor:"grid"`
	Tokens      []TokenSample       `json:"tokens" cbor:"tokens"`
}

func (s Series) Len() int { return len(s.Timestamps) }

package simulation

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"energy-dashboard/internal/model"
)

func WriteSeriesCSV(path string, s model.Series) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return EncodeSeriesCSV(f, s)
}

// EncodeSeriesCSV writes one row per timestamp joining every series.
func EncodeSeriesCSV(out io.Writer, s model.Series) error {
	n := s.Len()
	if len(s.Consumption) != n || len(s.Production) != n || len(s.Storage) != n || len(s.Grid) != n || len(s.Tokens) != n {
		return fmt.Errorf("series lengths differ")
	}

	w := csv.NewWriter(out)
	defer w.Flush()

	header := []string{
		"index",
		"timestamp",
		"consumption_residential",
		"consumption_commercial",
		"consumption_industrial",
		"consumption_total",
		"production_solar",
		"production_wind",
		"production_hydro",
		"production_thermal",
		"production_total",
		"battery_level",
		"charging_rate",
		"discharging_rate",
		"grid_import",
		"grid_export",
		"net_exchange",
		"price",
		"tokens_earned",
		"tokens_burned",
		"grid_tokens_burned",
		"token_balance",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		c, p, st, g, tk := s.Consumption[i], s.Production[i], s.Storage[i], s.Grid[i], s.Tokens[i]
		row := []string{
			strconv.Itoa(i),
			fmtTime(s.Timestamps[i]),
			fmtFloat(c.Residential),
			fmtFloat(c.Commercial),
			fmtFloat(c.Industrial),
			fmtFloat(c.Total),
			fmtFloat(p.Solar),
			fmtFloat(p.Wind),
			fmtFloat(p.Hydro),
			fmtFloat(p.Thermal),
			fmtFloat(p.Total),
			fmtFloat(st.BatteryLevel),
			fmtFloat(st.ChargingRate),
			fmtFloat(st.DischargingRate),
			fmtFloat(g.Import),
			fmtFloat(g.Export),
			fmtFloat(g.NetExchange),
			fmtFloat(g.Price),
			fmtFloat(tk.TokensEarned),
			fmtFloat(tk.TokensBurned),
			fmtFloat(tk.GridTokensBurned),
			fmtFloat(tk.TokenBalance),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

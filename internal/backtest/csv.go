package backtest

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"energy-dashboard/internal/model"
)

// WriteLedgerCSV writes one row per step with a level column per unit,
// in bank order.
func WriteLedgerCSV(path string, ledger []LedgerRow, units []model.StorageUnit) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return EncodeLedgerCSV(f, ledger, units)
}

func EncodeLedgerCSV(out io.Writer, ledger []LedgerRow, units []model.StorageUnit) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	header := []string{
		"index",
		"timestamp",
		"consumption",
		"production",
		"action",
		"amount",
		"stored",
		"discharged",
		"bought",
		"sold",
		"cost",
		"tokens_gained",
		"tokens_burned",
		"token_balance",
	}
	for _, u := range units {
		header = append(header, model.StorageField(u.ID))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range ledger {
		row := []string{
			strconv.Itoa(r.Index),
			fmtTime(r.Timestamp),
			fmtFloat(r.Consumption),
			fmtFloat(r.Production),
			string(r.Action),
			fmtFloat(r.Amount),
			fmtFloat(r.Stored),
			fmtFloat(r.Discharged),
			fmtFloat(r.Bought),
			fmtFloat(r.Sold),
			fmtFloat(r.Cost),
			fmtFloat(r.TokensGained),
			fmtFloat(r.TokensBurned),
			fmtFloat(r.TokenBalance),
		}
		for _, u := range units {
			row = append(row, fmtFloat(r.Levels[u.ID]))
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

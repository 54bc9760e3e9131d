package dashboard

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"energy-dashboard/internal/simulation"
)

// Format is a dashboard export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatCBOR Format = "cbor"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatCSV, FormatCBOR:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q (want json, csv or cbor)", s)
}

// cborEncMode uses Core Deterministic Encoding with RFC 3339 times, so
// equal dashboards always produce identical bytes.
func cborEncMode() (cbor.EncMode, error) {
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	return opts.EncMode()
}

// Export writes d in the given format. CSV carries the raw series only,
// one row per timestamp.
func Export(w io.Writer, d Dashboard, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	case FormatCSV:
		return simulation.EncodeSeriesCSV(w, d.Series)
	case FormatCBOR:
		mode, err := cborEncMode()
		if err != nil {
			return fmt.Errorf("cbor encoder: %w", err)
		}
		return mode.NewEncoder(w).Encode(d)
	}
	return fmt.Errorf("unknown export format %q", format)
}

// DecodeCBOR reads a dashboard written by Export in CBOR format.
func DecodeCBOR(raw []byte) (Dashboard, error) {
	var d Dashboard
	if err := cbor.Unmarshal(raw, &d); err != nil {
		return Dashboard{}, fmt.Errorf("decode dashboard: %w", err)
	}
	return d, nil
}

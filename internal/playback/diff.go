package playback

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"energy-dashboard/internal/model"
)

// DefaultThreshold is the relative change above which a field is highlighted.
const DefaultThreshold = 0.05

// RelativeChange is |cur-prev|/|prev|, defined as 0 when prev is 0.
func RelativeChange(cur, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	return math.Abs(cur-prev) / math.Abs(prev)
}

// Highlights returns, sorted, the numeric fields present in both records
// whose relative change strictly exceeds threshold.
func Highlights(cur, prev model.DecisionRecord, threshold float64) []string {
	out := []string{}
	prevFields := prev.NumericFields()
	for name, c := range cur.NumericFields() {
		p, ok := prevFields[name]
		if !ok {
			continue
		}
		if RelativeChange(c, p) > threshold {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Deltas returns cur-prev for every numeric field present in both records.
func Deltas(cur, prev model.DecisionRecord) map[string]float64 {
	out := map[string]float64{}
	prevFields := prev.NumericFields()
	for name, c := range cur.NumericFields() {
		if p, ok := prevFields[name]; ok {
			out[name] = c - p
		}
	}
	return out
}

// Domain is a [lo, hi] axis range.
type Domain struct {
	Lo float64
	Hi float64
}

func (d Domain) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{d.Lo, d.Hi})
}

func (d *Domain) UnmarshalJSON(raw []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(raw, &pair); err != nil {
		return fmt.Errorf("domain: %w", err)
	}
	d.Lo, d.Hi = pair[0], pair[1]
	return nil
}

// AxisDomain pads [min, max] of values by 10% of their range on each
// side, rounding outward to integers. ok is false for no values.
func AxisDomain(values []float64) (d Domain, ok bool) {
	if len(values) == 0 {
		return Domain{}, false
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	pad := 0.1 * (hi - lo)
	return Domain{Lo: math.Floor(lo - pad), Hi: math.Ceil(hi + pad)}, true
}

// TokenBalanceDomain is AxisDomain over the token balance of records.
func TokenBalanceDomain(records []model.DecisionRecord) (Domain, bool) {
	values := make([]float64, 0, len(records))
	for _, r := range records {
		values = append(values, r.TokenBalance)
	}
	return AxisDomain(values)
}

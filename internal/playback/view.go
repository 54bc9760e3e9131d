package playback

import "energy-dashboard/internal/model"

// View is the derived state a renderer shows for the current cursor.
type View struct {
	Index    int                   `json:"index"`
	Length   int                   `json:"length"`
	State    State                 `json:"state"`
	Current  model.DecisionRecord  `json:"current"`
	Previous *model.DecisionRecord `json:"previous"`
	// Highlighted lists fields whose change versus Previous exceeds the
	// threshold. Empty at index 0.
	Highlighted []string           `json:"highlighted"`
	Deltas      map[string]float64 `json:"deltas"`
	// Domain is the token balance axis over records [0, Index].
	Domain Domain `json:"domain"`
}

func (v View) IsPlaying() bool { return v.State == StatePlaying }

func (v View) IsHighlighted(field string) bool {
	for _, f := range v.Highlighted {
		if f == field {
			return true
		}
	}
	return false
}

// View returns the current derived state.
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view()
}

// view builds the View. Caller holds mu.
func (e *Engine) view() View {
	v := View{
		Index:       e.index,
		Length:      len(e.records),
		State:       e.state,
		Current:     e.records[e.index],
		Highlighted: []string{},
		Deltas:      map[string]float64{},
	}
	if e.index > 0 {
		prev := e.records[e.index-1]
		v.Previous = &prev
		v.Highlighted = Highlights(v.Current, prev, e.threshold)
		v.Deltas = Deltas(v.Current, prev)
	}
	v.Domain, _ = TokenBalanceDomain(e.records[:e.index+1])
	return v
}

// Records returns every record, ascending by step.
func (e *Engine) Records() []model.DecisionRecord {
	return append([]model.DecisionRecord(nil), e.records...)
}

// LogView returns every record, newest first.
func (e *Engine) LogView() []model.DecisionRecord {
	out := make([]model.DecisionRecord, 0, len(e.records))
	for i := len(e.records) - 1; i >= 0; i-- {
		out = append(out, e.records[i])
	}
	return out
}

// Visible returns the records up to and including the cursor, the
// prefix a chart draws.
func (e *Engine) Visible() []model.DecisionRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]model.DecisionRecord(nil), e.records[:e.index+1]...)
}

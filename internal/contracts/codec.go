package contracts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/riteshk28/Lighthouse/internal/catalog"
)

var (
	// ErrMalformed marks a blob that is not a structurally valid scorecard state.
	ErrMalformed = errors.New("malformed scorecard state")

	// ErrMissingFields marks a blob lacking gridData, labels or metricUnits.
	ErrMissingFields = errors.New("missing required fields")
)

// Top-level blob keys. They match the browser client's save payload.
const (
	KeyGridData    = "gridData"
	KeyLabels      = "labels"
	KeyMetricUnits = "metricUnits"
)

type wireState struct {
	GridData    Dataset       `json:"gridData"`
	Labels      PeriodLabels  `json:"labels"`
	MetricUnits UnitOverrides `json:"metricUnits"`
}

// EncodeState serializes the full state blob.
func EncodeState(s State) ([]byte, error) {
	data, err := json.Marshal(wireState{
		GridData:    s.Dataset,
		Labels:      s.Labels,
		MetricUnits: s.Units,
	})
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return data, nil
}

// DecodeState parses a full state blob.
// Absent top-level parts yield ErrMissingFields, anything else that does not
// match the catalog yields ErrMalformed.
func DecodeState(data []byte) (State, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var missing []string
	for _, key := range []string{KeyGridData, KeyLabels, KeyMetricUnits} {
		if isAbsent(top[key]) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return State{}, fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}

	var s State
	if err := json.Unmarshal(top[KeyGridData], &s.Dataset); err != nil {
		return State{}, fmt.Errorf("%w: gridData: %v", ErrMalformed, err)
	}
	if err := json.Unmarshal(top[KeyLabels], &s.Labels); err != nil {
		return State{}, fmt.Errorf("%w: labels: %v", ErrMalformed, err)
	}
	if err := json.Unmarshal(top[KeyMetricUnits], &s.Units); err != nil {
		return State{}, fmt.Errorf("%w: metricUnits: %v", ErrMalformed, err)
	}
	return s, nil
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// MarshalJSON implements json.Marshaler.
func (s State) MarshalJSON() ([]byte, error) {
	return EncodeState(s)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *State) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeState(data)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}

// MarshalJSON writes pages in display order.
func (d Dataset) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range d.Pages {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(p.Name)
		if err != nil {
			return nil, err
		}
		rec, err := p.Metrics.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(rec)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads pages keeping their document order.
func (d *Dataset) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object of pages, got %v", tok)
	}

	var out Dataset
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)

		var rec PageRecord
		if err := dec.Decode(&rec); err != nil {
			return fmt.Errorf("page %q: %w", name, err)
		}
		if err := out.AddPage(name, rec); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*d = out
	return nil
}

// MarshalJSON writes metrics in catalog order.
func (r PageRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, def := range catalog.All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		sample, err := json.Marshal(r[def.ID])
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "%q:", def.Key)
		buf.Write(sample)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON requires exactly one sample per catalog metric.
func (r *PageRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return errors.New("page record must be an object")
	}

	var out PageRecord
	var seen [catalog.MetricCount]bool
	for key, value := range raw {
		id, err := catalog.Parse(key)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(value, &out[id]); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		seen[id] = true
	}
	for _, id := range catalog.IDs() {
		if !seen[id] {
			return fmt.Errorf("missing metric %s", id)
		}
	}

	*r = out
	return nil
}

// MarshalJSON writes the {"June","July"} keys the browser client reads.
func (s Sample) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		June float64 `json:"June"`
		July float64 `json:"July"`
	}{June: s.Start, July: s.End})
}

// UnmarshalJSON accepts {"June","July"} and the {"start","end"} keys.
func (s *Sample) UnmarshalJSON(data []byte) error {
	var raw struct {
		Start *float64 `json:"start"`
		End   *float64 `json:"end"`
		June  *float64 `json:"June"`
		July  *float64 `json:"July"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	start, end := raw.Start, raw.End
	if start == nil {
		start = raw.June
	}
	if end == nil {
		end = raw.July
	}
	if start == nil || end == nil {
		return errors.New("sample requires start and end")
	}

	s.Start, s.End = *start, *end
	return nil
}

// UnmarshalJSON requires both labels.
func (l *PeriodLabels) UnmarshalJSON(data []byte) error {
	var raw struct {
		Start *string `json:"start"`
		End   *string `json:"end"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Start == nil || raw.End == nil {
		return errors.New("labels require start and end")
	}
	l.Start, l.End = *raw.Start, *raw.End
	return nil
}

// MarshalJSON writes units keyed by metric id in catalog order.
func (u UnitOverrides) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, def := range catalog.All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		unit, err := json.Marshal(u[def.ID])
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "%q:", def.Key)
		buf.Write(unit)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON requires exactly one unit string per catalog metric.
func (u *UnitOverrides) UnmarshalJSON(data []byte) error {
	var raw map[string]*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return errors.New("metric units must be an object")
	}

	var out UnitOverrides
	var seen [catalog.MetricCount]bool
	for key, unit := range raw {
		id, err := catalog.Parse(key)
		if err != nil {
			return err
		}
		if unit == nil {
			return fmt.Errorf("unit for %s is null", key)
		}
		out[id] = *unit
		seen[id] = true
	}
	for _, id := range catalog.IDs() {
		if !seen[id] {
			return fmt.Errorf("missing unit for %s", id)
		}
	}

	*u = out
	return nil
}

package contracts

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riteshk28/Lighthouse/internal/catalog"
)

func record(start, end float64) PageRecord {
	var r PageRecord
	for i := range r {
		r[i] = Sample{Start: start + float64(i), End: end + float64(i)}
	}
	return r
}

func sampleState(t *testing.T) State {
	t.Helper()
	ds, err := NewDataset(
		Page{Name: "Homepage", Metrics: record(85, 71)},
		Page{Name: "Cart", Metrics: record(25, 66)},
		Page{Name: "About", Metrics: record(1.5, 2.25)},
	)
	require.NoError(t, err)
	return State{
		Dataset: ds,
		Labels:  PeriodLabels{Start: "June", End: "July"},
		Units:   DefaultUnitOverrides(),
	}
}

func pageJSON(keys []string, sample string) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = `"` + k + `":` + sample
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func unitsJSON(keys []string) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = `"` + k + `":"u"`
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	s := sampleState(t)
	s.Units[catalog.LCP] = "sec"
	s.Units[catalog.SEO] = ""

	data, err := EncodeState(s)
	require.NoError(t, err)

	got, err := DecodeState(data)
	require.NoError(t, err)
	assert.True(t, s.Equal(got), "decoded state differs: %+v", got)
	assert.Equal(t, []string{"Homepage", "Cart", "About"}, got.Dataset.Names())
}

func TestEncodeState_WireShape(t *testing.T) {
	data, err := EncodeState(sampleState(t))
	require.NoError(t, err)

	var top map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &top))
	assert.Contains(t, top, "gridData")
	assert.Contains(t, top, "labels")
	assert.Contains(t, top, "metricUnits")

	// page order follows the dataset, not key order
	grid := string(top["gridData"])
	assert.Less(t, strings.Index(grid, `"Homepage"`), strings.Index(grid, `"Cart"`))
	assert.Less(t, strings.Index(grid, `"Cart"`), strings.Index(grid, `"About"`))
	assert.Contains(t, grid, `"Performance":{"June":85,"July":71}`)
	assert.NotContains(t, grid, `"start"`)
	assert.JSONEq(t, `{"start":"June","end":"July"}`, string(top["labels"]))
}

func TestSample_JSONKeys(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Sample
	}{
		{"client keys", `{"June":1.5,"July":2}`, Sample{Start: 1.5, End: 2}},
		{"start end keys", `{"start":3,"end":4}`, Sample{Start: 3, End: 4}},
		{"start end win over client keys", `{"start":3,"end":4,"June":1,"July":2}`, Sample{Start: 3, End: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Sample
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)

			out, err := json.Marshal(got)
			require.NoError(t, err)
			assert.JSONEq(t, fmt.Sprintf(`{"June":%v,"July":%v}`, tt.want.Start, tt.want.End), string(out))
		})
	}
}

// A blob saved in the client's shape comes back in that shape.
func TestEncodeState_KeepsClientSampleKeys(t *testing.T) {
	page := pageJSON(catalog.Keys(), `{"June":1,"July":2}`)
	blob := `{"gridData":{"Home":` + page + `},"labels":{"start":"a","end":"b"},"metricUnits":` + unitsJSON(catalog.Keys()) + `}`

	st, err := DecodeState([]byte(blob))
	require.NoError(t, err)
	out, err := EncodeState(st)
	require.NoError(t, err)
	assert.JSONEq(t, blob, string(out))
}

func TestEncodeState_EmptyDataset(t *testing.T) {
	data, err := EncodeState(State{Units: DefaultUnitOverrides()})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"gridData":{}`)

	got, err := DecodeState(data)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Dataset.Len())
}

func TestDecodeState_LegacySampleKeys(t *testing.T) {
	page := pageJSON(catalog.Keys(), `{"June":1,"July":2}`)
	blob := `{"gridData":{"Home":` + page + `},"labels":{"start":"a","end":"b"},"metricUnits":` + unitsJSON(catalog.Keys()) + `}`

	got, err := DecodeState([]byte(blob))
	require.NoError(t, err)
	rec, ok := got.Dataset.Lookup("Home")
	require.True(t, ok)
	assert.Equal(t, Sample{Start: 1, End: 2}, rec.Get(catalog.INP))
	assert.Equal(t, "u", got.Units.Unit(catalog.TBT))
}

func TestDecodeState_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"empty object", `{}`},
		{"no labels", `{"gridData":{},"metricUnits":{}}`},
		{"null units", `{"gridData":{},"labels":{"start":"a","end":"b"},"metricUnits":null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeState([]byte(tt.blob))
			assert.ErrorIs(t, err, ErrMissingFields)
		})
	}
}

func TestDecodeState_Malformed(t *testing.T) {
	keys := catalog.Keys()
	good := pageJSON(keys, `{"start":1,"end":2}`)
	units := unitsJSON(keys)
	labels := `{"start":"a","end":"b"}`

	wrap := func(grid, labels, units string) string {
		return `{"gridData":` + grid + `,"labels":` + labels + `,"metricUnits":` + units + `}`
	}

	tests := []struct {
		name string
		blob string
	}{
		{"not json", `{"gridData":`},
		{"array top level", `[]`},
		{"grid not object", wrap(`[]`, labels, units)},
		{"missing metric", wrap(`{"Home":`+pageJSON(keys[:7], `{"start":1,"end":2}`)+`}`, labels, units)},
		{"unknown metric", wrap(`{"Home":`+pageJSON(append(keys[:8:8], "CLS"), `{"start":1,"end":2}`)+`}`, labels, units)},
		{"sample missing end", wrap(`{"Home":`+pageJSON(keys, `{"start":1}`)+`}`, labels, units)},
		{"sample non numeric", wrap(`{"Home":`+pageJSON(keys, `{"start":"x","end":2}`)+`}`, labels, units)},
		{"duplicate page", wrap(`{"Home":`+good+`,"Home":`+good+`}`, labels, units)},
		{"empty page name", wrap(`{"":`+good+`}`, labels, units)},
		{"labels missing end", wrap(`{"Home":`+good+`}`, `{"start":"a"}`, units)},
		{"units missing key", wrap(`{"Home":`+good+`}`, labels, unitsJSON(keys[1:]))},
		{"units unknown key", wrap(`{"Home":`+good+`}`, labels, unitsJSON(append(keys[:8:8], "CLS")))},
		{"unit not string", wrap(`{"Home":`+good+`}`, labels, `{"Performance":1}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeState([]byte(tt.blob))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestDecodeState_IgnoresExtraTopLevelKeys(t *testing.T) {
	data, err := EncodeState(sampleState(t))
	require.NoError(t, err)

	var top map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &top))
	top["editMode"] = json.RawMessage(`true`)
	data, err = json.Marshal(top)
	require.NoError(t, err)

	got, err := DecodeState(data)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Dataset.Len())
}

func TestState_JSONInterfaces(t *testing.T) {
	s := sampleState(t)
	data, err := json.Marshal(s)
	require.NoError(t, err)

	var got State
	require.NoError(t, json.Unmarshal(data, &got))
	assert.True(t, s.Equal(got))
}

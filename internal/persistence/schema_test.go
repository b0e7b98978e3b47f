package persistence

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/riteshk28/Lighthouse/internal/catalog"
	"github.com/riteshk28/Lighthouse/internal/contracts"
)

func samplePage(sample string) string {
	parts := make([]string, 0, catalog.MetricCount)
	for _, k := range catalog.Keys() {
		parts = append(parts, `"`+k+`":`+sample)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func units() string {
	parts := make([]string, 0, catalog.MetricCount)
	for _, k := range catalog.Keys() {
		parts = append(parts, `"`+k+`":"s"`)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func TestValidateBlob_Factory(t *testing.T) {
	assert.NoError(t, ValidateBlob(factoryBlob(t)))
}

func TestValidateBlob_LegacySampleKeys(t *testing.T) {
	body := `{"gridData":{"Home":` + samplePage(`{"June":1,"July":2.5}`) + `},"labels":{"start":"a","end":"b"},"metricUnits":` + units() + `}`
	assert.NoError(t, ValidateBlob([]byte(body)))
}

func TestValidateBlob_MissingFields(t *testing.T) {
	tests := []string{
		`{}`,
		`{"gridData":{},"labels":{"start":"a","end":"b"}}`,
		`{"gridData":null,"labels":{"start":"a","end":"b"},"metricUnits":{}}`,
	}
	for _, body := range tests {
		err := ValidateBlob([]byte(body))
		assert.ErrorIs(t, err, contracts.ErrMissingFields, body)
	}
}

func TestValidateBlob_Malformed(t *testing.T) {
	labels := `{"start":"a","end":"b"}`
	wrap := func(grid, labels, units string) string {
		return `{"gridData":` + grid + `,"labels":` + labels + `,"metricUnits":` + units + `}`
	}
	good := samplePage(`{"start":1,"end":2}`)

	tests := map[string]string{
		"not json":          `{"gridData":`,
		"array":             `[1,2]`,
		"grid not object":   wrap(`[]`, labels, units()),
		"unknown metric":    wrap(`{"Home":`+strings.Replace(good, `"SEO"`, `"CLS"`, 1)+`}`, labels, units()),
		"missing end":       wrap(`{"Home":`+samplePage(`{"start":1}`)+`}`, labels, units()),
		"string value":      wrap(`{"Home":`+samplePage(`{"start":"1","end":2}`)+`}`, labels, units()),
		"label not string":  wrap(`{"Home":`+good+`}`, `{"start":1,"end":"b"}`, units()),
		"labels missing":    wrap(`{"Home":`+good+`}`, `{"start":"a"}`, units()),
		"units missing key": wrap(`{"Home":`+good+`}`, labels, `{"LCP":"s"}`),
		"empty page name":   wrap(`{"":`+good+`}`, labels, units()),
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, ValidateBlob([]byte(body)), contracts.ErrMalformed)
		})
	}
}

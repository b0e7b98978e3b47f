package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riteshk28/Lighthouse/internal/catalog"
	"github.com/riteshk28/Lighthouse/internal/contracts"
)

const header = `<tr><th>Page</th><th>Performance</th><th>Accessibility</th><th>Best Practices</th><th>SEO</th>` +
	`<th>LCP (s)</th><th>TBT (ms)</th><th>INP</th><th>Load Time</th></tr>`

func table(rows ...string) string {
	return `<html><body><p>Report</p><table><thead>` + header + `</thead><tbody>` +
		strings.Join(rows, "") + `</tbody></table></body></html>`
}

func row(name string, cells ...string) string {
	var b strings.Builder
	b.WriteString("<tr><td>" + name + "</td>")
	for _, c := range cells {
		b.WriteString("<td>" + c + "</td>")
	}
	b.WriteString("</tr>")
	return b.String()
}

func TestParseHTMLTable(t *testing.T) {
	html := table(
		row("Homepage", "85 → 71", "85/92", "74 52", "85 → 85", "2.4 → 1.8", "1,200 → 950", "220/180", "3.2 2.8"),
		row(" Cart ", "60 → 70", "90/91", "80 80", "90 → 95", "3.0 → 2.0", "800 → 350", "300/250", "5 4"),
	)

	ds, err := ParseHTMLTable(strings.NewReader(html))
	require.NoError(t, err)

	assert.Equal(t, []string{"Homepage", "Cart"}, ds.Names())

	home, ok := ds.Lookup("Homepage")
	require.True(t, ok)
	assert.Equal(t, contracts.Sample{Start: 85, End: 71}, home.Get(catalog.Performance))
	assert.Equal(t, contracts.Sample{Start: 2.4, End: 1.8}, home.Get(catalog.LCP))
	assert.Equal(t, contracts.Sample{Start: 1200, End: 950}, home.Get(catalog.TBT))
	assert.Equal(t, contracts.Sample{Start: 3.2, End: 2.8}, home.Get(catalog.LoadTime))
}

func TestParseHTMLTable_ColumnOrderFollowsHeader(t *testing.T) {
	html := `<table><tr><th>Page</th><th>LoadTime</th><th>INP</th><th>TBT</th><th>LCP</th>` +
		`<th>SEO</th><th>BestPractices</th><th>Accessibility</th><th>Performance</th></tr>` +
		row("Home", "1 2", "3 4", "5 6", "7 8", "9 10", "11 12", "13 14", "15 16") + `</table>`

	ds, err := ParseHTMLTable(strings.NewReader(html))
	require.NoError(t, err)

	rec, _ := ds.Lookup("Home")
	assert.Equal(t, contracts.Sample{Start: 1, End: 2}, rec.Get(catalog.LoadTime))
	assert.Equal(t, contracts.Sample{Start: 15, End: 16}, rec.Get(catalog.Performance))
}

func TestParseHTMLTable_Errors(t *testing.T) {
	full := []string{"1 2", "1 2", "1 2", "1 2", "1 2", "1 2", "1 2", "1 2"}

	tests := []struct {
		name string
		html string
		want error
	}{
		{"no table", `<p>nothing here</p>`, ErrNoTable},
		{
			"missing metric column",
			`<table><tr><th>Page</th><th>Performance</th></tr>` + row("Home", "1 2") + `</table>`,
			ErrMissingMetric,
		},
		{
			"unknown metric column",
			strings.Replace(table(row("Home", full...)), "<th>INP</th>", "<th>CLS</th>", 1),
			catalog.ErrUnknownMetric,
		},
		{"single number", table(row("Home", append([]string{"85"}, full[1:]...)...)), ErrBadCell},
		{"sparse row", table(row("Home", full[:7]...)), ErrBadCell},
		{"duplicate page", table(row("Home", full...), row("Home", full...)), contracts.ErrDuplicatePage},
		{"empty page name", table(row("", full...)), contracts.ErrEmptyPageName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHTMLTable(strings.NewReader(tt.html))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestResolveMetric(t *testing.T) {
	tests := map[string]catalog.MetricID{
		"Performance":     catalog.Performance,
		"best practices":  catalog.BestPractices,
		"BestPractices":   catalog.BestPractices,
		"Load Time (s)":   catalog.LoadTime,
		"  tbt (ms)  ":    catalog.TBT,
		"Accessibility  ": catalog.Accessibility,
	}
	for text, want := range tests {
		got, err := resolveMetric(text)
		require.NoError(t, err, text)
		assert.Equal(t, want, got, text)
	}
}

// Package importer reads a scorecard dataset out of an HTML table, such as
// one copied from a Lighthouse report or a spreadsheet export.
package importer

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/riteshk28/Lighthouse/internal/catalog"
	"github.com/riteshk28/Lighthouse/internal/contracts"
)

var (
	// ErrNoTable is returned when the document has no <table>.
	ErrNoTable = errors.New("no table found")

	// ErrMissingMetric is returned when the header lacks a catalog metric.
	ErrMissingMetric = errors.New("missing metric column")

	// ErrBadCell is returned for a body cell without two numbers.
	ErrBadCell = errors.New("cell must hold a start and an end value")
)

var (
	numberPattern    = regexp.MustCompile(`[-+]?(?:\d+\.?\d*|\.\d+)`)
	thousandsPattern = regexp.MustCompile(`(\d),(\d{3})`)
	captionPattern   = regexp.MustCompile(`\s*\(.*\)\s*$`)
)

// ParseHTMLTable reads the first table of an HTML document.
// The first column holds page names, the header row names one catalog
// metric per remaining column (by key or label, unit captions allowed),
// and every body cell holds two numbers such as "85 → 71" or "2.4/1.8".
func ParseHTMLTable(r io.Reader) (contracts.Dataset, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return contracts.Dataset{}, fmt.Errorf("parse html: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return contracts.Dataset{}, ErrNoTable
	}

	rows := table.Find("tr")
	if rows.Length() < 1 {
		return contracts.Dataset{}, fmt.Errorf("%w: table has no rows", ErrNoTable)
	}

	columns, err := headerColumns(rows.First())
	if err != nil {
		return contracts.Dataset{}, err
	}

	var ds contracts.Dataset
	var parseErr error
	rows.Slice(1, rows.Length()).EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := row.Find("td, th")
		if cells.Length() == 0 {
			return true
		}

		name := cellText(cells.First())
		var rec contracts.PageRecord
		for col, id := range columns {
			cell := cells.Eq(col + 1)
			if cell.Length() == 0 {
				parseErr = fmt.Errorf("%w: page %q has no %s column", ErrBadCell, name, id)
				return false
			}
			sample, err := parseSample(cellText(cell))
			if err != nil {
				parseErr = fmt.Errorf("page %q, %s: %w", name, id, err)
				return false
			}
			rec[id] = sample
		}

		if err := ds.AddPage(name, rec); err != nil {
			parseErr = fmt.Errorf("row %d: %w", i+2, err)
			return false
		}
		return true
	})
	if parseErr != nil {
		return contracts.Dataset{}, parseErr
	}
	return ds, nil
}

// headerColumns maps body columns (after the page column) to metric ids.
func headerColumns(header *goquery.Selection) ([]catalog.MetricID, error) {
	cells := header.Find("th, td")
	if cells.Length() < 2 {
		return nil, fmt.Errorf("%w: header has no metric columns", ErrMissingMetric)
	}

	var seen [catalog.MetricCount]bool
	columns := make([]catalog.MetricID, 0, cells.Length()-1)

	var err error
	cells.Slice(1, cells.Length()).EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		var id catalog.MetricID
		if id, err = resolveMetric(cellText(cell)); err != nil {
			return false
		}
		if seen[id] {
			err = fmt.Errorf("duplicate column for %s", id)
			return false
		}
		seen[id] = true
		columns = append(columns, id)
		return true
	})
	if err != nil {
		return nil, err
	}

	for _, id := range catalog.IDs() {
		if !seen[id] {
			return nil, fmt.Errorf("%w: %s", ErrMissingMetric, id)
		}
	}
	return columns, nil
}

// resolveMetric accepts a metric key or label, ignoring case, spaces and a
// trailing unit caption like "(ms)".
func resolveMetric(text string) (catalog.MetricID, error) {
	name := captionPattern.ReplaceAllString(text, "")
	norm := normalize(name)
	for _, def := range catalog.All() {
		if norm == normalize(def.Key) || norm == normalize(def.Label) {
			return def.ID, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", catalog.ErrUnknownMetric, text)
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

func cellText(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}

func parseSample(text string) (contracts.Sample, error) {
	text = thousandsPattern.ReplaceAllString(text, "$1$2")
	nums := numberPattern.FindAllString(text, -1)
	if len(nums) < 2 {
		return contracts.Sample{}, fmt.Errorf("%w: %q", ErrBadCell, text)
	}

	start, err := strconv.ParseFloat(nums[0], 64)
	if err != nil {
		return contracts.Sample{}, fmt.Errorf("%w: %q", ErrBadCell, text)
	}
	end, err := strconv.ParseFloat(nums[1], 64)
	if err != nil {
		return contracts.Sample{}, fmt.Errorf("%w: %q", ErrBadCell, text)
	}
	return contracts.Sample{Start: start, End: end}, nil
}

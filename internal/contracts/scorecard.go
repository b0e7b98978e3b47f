package contracts

import (
	"errors"
	"fmt"

	"github.com/riteshk28/Lighthouse/internal/catalog"
)

var (
	// ErrDuplicatePage is returned when a dataset would hold the same page twice.
	ErrDuplicatePage = errors.New("duplicate page")

	// ErrEmptyPageName is returned for a blank page name.
	ErrEmptyPageName = errors.New("empty page name")
)

// Field selects one side of a sample.
type Field string

const (
	FieldStart Field = "start"
	FieldEnd   Field = "end"
)

// ParseField validates a field name.
func ParseField(s string) (Field, error) {
	switch Field(s) {
	case FieldStart, FieldEnd:
		return Field(s), nil
	default:
		return "", fmt.Errorf("invalid field %q (valid: start, end)", s)
	}
}

// Sample holds the start and end period values for one (page, metric).
// On the wire they are the June and July keys the browser client reads.
type Sample struct {
	Start float64
	End   float64
}

// Delta returns End - Start.
func (s Sample) Delta() float64 {
	return s.End - s.Start
}

// Value returns the value of one field.
func (s Sample) Value(f Field) float64 {
	if f == FieldStart {
		return s.Start
	}
	return s.End
}

// With returns a copy of s with one field replaced.
func (s Sample) With(f Field, v float64) Sample {
	if f == FieldStart {
		s.Start = v
	} else {
		s.End = v
	}
	return s
}

// PageRecord holds one sample per catalog metric, indexed by metric id.
type PageRecord [catalog.MetricCount]Sample

// Get returns the sample for id.
func (r PageRecord) Get(id catalog.MetricID) Sample {
	return r[id]
}

// Page is one named row of the scorecard.
type Page struct {
	Name    string
	Metrics PageRecord
}

// Dataset is the ordered page -> metric -> sample mapping.
// Page order is display order.
type Dataset struct {
	Pages []Page
}

// NewDataset builds a dataset, rejecting blank or repeated page names.
func NewDataset(pages ...Page) (Dataset, error) {
	var ds Dataset
	for _, p := range pages {
		if err := ds.AddPage(p.Name, p.Metrics); err != nil {
			return Dataset{}, err
		}
	}
	return ds, nil
}

// AddPage appends a page.
func (d *Dataset) AddPage(name string, rec PageRecord) error {
	if name == "" {
		return ErrEmptyPageName
	}
	if d.Index(name) >= 0 {
		return fmt.Errorf("%w: %q", ErrDuplicatePage, name)
	}
	d.Pages = append(d.Pages, Page{Name: name, Metrics: rec})
	return nil
}

// Len returns the number of pages.
func (d Dataset) Len() int {
	return len(d.Pages)
}

// Names returns page names in display order.
func (d Dataset) Names() []string {
	names := make([]string, len(d.Pages))
	for i, p := range d.Pages {
		names[i] = p.Name
	}
	return names
}

// Index returns the position of a page, or -1.
func (d Dataset) Index(name string) int {
	for i, p := range d.Pages {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Lookup returns the record of a page.
func (d Dataset) Lookup(name string) (PageRecord, bool) {
	i := d.Index(name)
	if i < 0 {
		return PageRecord{}, false
	}
	return d.Pages[i].Metrics, true
}

// Clone returns a deep copy.
func (d Dataset) Clone() Dataset {
	if d.Pages == nil {
		return Dataset{}
	}
	pages := make([]Page, len(d.Pages))
	copy(pages, d.Pages)
	return Dataset{Pages: pages}
}

// Equal reports structural equality, including page order.
func (d Dataset) Equal(o Dataset) bool {
	if len(d.Pages) != len(o.Pages) {
		return false
	}
	for i := range d.Pages {
		if d.Pages[i] != o.Pages[i] {
			return false
		}
	}
	return true
}

// PeriodLabels are the display names of the two compared periods.
type PeriodLabels struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// UnitOverrides holds the current unit string of every metric, indexed by id.
type UnitOverrides [catalog.MetricCount]string

// DefaultUnitOverrides returns each metric's default unit.
func DefaultUnitOverrides() UnitOverrides {
	return UnitOverrides(catalog.DefaultUnits())
}

// Unit returns the unit of id.
func (u UnitOverrides) Unit(id catalog.MetricID) string {
	return u[id]
}

// State is the whole scorecard aggregate. It is always replaced wholesale.
type State struct {
	Dataset Dataset
	Labels  PeriodLabels
	Units   UnitOverrides
}

// Clone returns a deep copy.
func (s State) Clone() State {
	return State{
		Dataset: s.Dataset.Clone(),
		Labels:  s.Labels,
		Units:   s.Units,
	}
}

// Equal reports structural equality.
func (s State) Equal(o State) bool {
	return s.Labels == o.Labels && s.Units == o.Units && s.Dataset.Equal(o.Dataset)
}

// Package artifact writes the pipeline's on-disk outputs: the raw dasha
// text, the nested JSON document consumers read, and the birth-info summary.
// Layout follows the convention downstream tooling expects:
// <base>/<Name>_<HHMM>/DataSet/<files>.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jatakam/dashatree/internal/chart"
	"github.com/jatakam/dashatree/internal/dasha"
)

// Nested is the JSON artifact for one chart and one dasha system. The person
// and birth blocks are opaque passthrough; only dasas is produced here.
type Nested struct {
	PersonName      string                `json:"person_name"`
	BirthParameters chart.Birth           `json:"birth_parameters_used"`
	DashaSystemName string                `json:"dasha_system_name"`
	SourceFile      string                `json:"source_file"`
	Dasas           []*dasha.ParsedPeriod `json:"dasas"`
}

// NewNested assembles the artifact from a parsed document.
func NewNested(c *chart.Chart, doc *dasha.Document, sourceID string) *Nested {
	name := doc.SystemName
	if name == "" {
		name = "Unknown Dasha System"
	}
	return &Nested{
		PersonName:      c.Person.Name,
		BirthParameters: c.Birth,
		DashaSystemName: name,
		SourceFile:      sourceID,
		Dasas:           doc.Dasas,
	}
}

// WriteFile marshals the artifact as indented JSON.
func (n *Nested) WriteFile(path string) error {
	data, err := json.MarshalIndent(n, "", "  ")
	if err != nil {
		return fmt.Errorf("artifact: marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("artifact: write %s: %w", path, err)
	}
	return nil
}

var unsafeNameChars = regexp.MustCompile(`[^\w_.)( -]`)

// SafeName sanitizes a person name for use in directory and file names.
func SafeName(name string) string {
	return unsafeNameChars.ReplaceAllString(strings.ReplaceAll(name, " ", "_"), "")
}

var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]`)

// SystemSlug compacts a dasha system name for file names:
// "K.N. Rao Chara Dasa" becomes "KNRaoCharaDasa".
func SystemSlug(systemName string) string {
	return nonAlnum.ReplaceAllString(systemName, "")
}

// Layout computes artifact paths under a base output directory.
type Layout struct {
	Base string
}

// PersonDir returns <base>/<SafeName>_<HHMM> for the chart.
func (l Layout) PersonDir(c *chart.Chart) string {
	return filepath.Join(l.Base, fmt.Sprintf("%s_%s", SafeName(c.Person.Name), c.Epoch().Format("1504")))
}

// DataSetDir returns the DataSet subdirectory for the chart, creating it
// (and parents) if needed.
func (l Layout) DataSetDir(c *chart.Chart) (string, error) {
	dir := filepath.Join(l.PersonDir(c), "DataSet")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("artifact: create %s: %w", dir, err)
	}
	return dir, nil
}

// RawTextPath returns the raw-text file path for a system within the
// chart's DataSet directory.
func (l Layout) RawTextPath(c *chart.Chart, systemName string) string {
	return filepath.Join(l.PersonDir(c), "DataSet",
		fmt.Sprintf("%s_%s_RawText.txt", SafeName(c.Person.Name), SystemSlug(systemName)))
}

// NestedJSONPath returns the nested-JSON file path for a system within the
// chart's DataSet directory.
func (l Layout) NestedJSONPath(c *chart.Chart, systemName string) string {
	return filepath.Join(l.PersonDir(c), "DataSet",
		fmt.Sprintf("%s-%s-Master_Nested.json", SafeName(c.Person.Name), SystemSlug(systemName)))
}

// BirthInfoPath returns the birth-info summary file path.
func (l Layout) BirthInfoPath(c *chart.Chart) string {
	return filepath.Join(l.PersonDir(c), SafeName(c.Person.Name)+"_BirthInfo.txt")
}

// WriteBirthInfo renders the chart's resolved birth parameters as a small
// human-readable summary next to the DataSet directory.
func WriteBirthInfo(path string, c *chart.Chart) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Birth information for: %s\n", c.Person.Name)
	fmt.Fprintf(&b, "Birth Datetime: %s\n", c.Birth.Datetime)
	fmt.Fprintf(&b, "City: %s\n", c.Birth.City)
	fmt.Fprintf(&b, "Country: %s\n", c.Birth.Country)
	fmt.Fprintf(&b, "Latitude: %.6f\n", c.Birth.Latitude)
	fmt.Fprintf(&b, "Longitude: %.6f\n", c.Birth.Longitude)
	fmt.Fprintf(&b, "IANA Timezone: %s\n", c.Birth.IANATimezone)
	fmt.Fprintf(&b, "Timezone Offset (hours from UTC): %g\n", c.Birth.TimezoneOffset)
	if c.Person.Gender != "" {
		fmt.Fprintf(&b, "Gender: %s\n", c.Person.Gender)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("artifact: write birth info: %w", err)
	}
	return nil
}

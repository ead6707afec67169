// Package export renders the comparison matrix as CSV.
package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"licensing-map/internal/aggregate"
	"licensing-map/internal/catalog"
)

// FileName returns the download name for an export taken at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("m365_comparison_%s.csv", t.UTC().Format("2006-01-02"))
}

// Header returns the column titles for the selected bundles.
func Header(bundles []catalog.Bundle) []string {
	header := []string{"Category", "Feature", "Description"}
	for _, b := range bundles {
		header = append(header, fmt.Sprintf("%s (%s/%s)", b.Name, b.MonthlyPriceUSD, b.MonthlyPriceINR))
	}
	return header
}

// Records builds one record per (category, capability) pair included by at
// least one selected bundle.
func Records(bundles []catalog.Bundle, capabilities []catalog.Capability) [][]string {
	m := aggregate.BuildMatrix(bundles, capabilities, aggregate.Filter{})
	rows := m.Rows()
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		rec := []string{string(row.Category), row.Capability.Name, row.Capability.Description}
		for _, cell := range row.Cells {
			rec = append(rec, cell.Cell())
		}
		records = append(records, rec)
	}
	return records
}

// WriteCSV writes the header and records with every field quoted.
func WriteCSV(w io.Writer, bundles []catalog.Bundle, capabilities []catalog.Capability) error {
	if err := writeRecord(w, Header(bundles)); err != nil {
		return err
	}
	for _, rec := range Records(bundles, capabilities) {
		if err := writeRecord(w, rec); err != nil {
			return err
		}
	}
	return nil
}

// Render returns the CSV document as bytes.
func Render(bundles []catalog.Bundle, capabilities []catalog.Capability) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, bundles, capabilities); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRecord(w io.Writer, fields []string) error {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	if _, err := io.WriteString(w, strings.Join(quoted, ",")+"\n"); err != nil {
		return fmt.Errorf("failed to write csv record: %w", err)
	}
	return nil
}

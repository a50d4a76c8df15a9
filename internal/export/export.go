// Package export renders dashboard datasets as downloadable CSV files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"sealevel/internal/report"
	"sealevel/internal/series"
)

const dateLayout = "2006-01-02"

// Table is a header row plus data rows, ready for CSV encoding.
type Table struct {
	Header []string
	Rows   [][]string
}

// Encode writes t as UTF-8, comma separated CSV with a header row.
func Encode(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

// FromSeries renders a resolved series as (date, value).
func FromSeries(points []series.Point) Table {
	t := Table{Header: []string{"date", "value"}, Rows: make([][]string, 0, len(points))}
	for _, p := range points {
		t.Rows = append(t.Rows, []string{p.Date.Format(dateLayout), formatFloat(p.Value)})
	}
	return t
}

// FromUserTimeSeries renders the user time series with its smoothed columns when present.
func FromUserTimeSeries(ts report.UserTimeSeries) Table {
	t := Table{Header: ts.Columns(), Rows: make([][]string, 0, len(ts.Rows))}
	for _, r := range ts.Rows {
		row := []string{r.Date.Format(dateLayout), formatFloat(r.Temp), formatFloat(r.Sea)}
		if ts.Smoothed {
			row = append(row, formatFloat(r.TempSmooth), formatFloat(r.SeaSmooth))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// FromLabeled renders a categorical set under its own column headers.
func FromLabeled(set report.LabeledSet) Table {
	t := Table{Header: []string{set.LabelColumn, set.ValueColumn}, Rows: make([][]string, 0, len(set.Items))}
	for _, item := range set.Items {
		t.Rows = append(t.Rows, []string{item.Label, formatFloat(item.Value)})
	}
	return t
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

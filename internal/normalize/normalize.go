// Package normalize turns raw tables with unknown column names into
// canonical (date, value) series.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"sealevel/internal/series"
)

// Normalize selects the date and value columns of t using rules and returns
// the rows as points. Rows with a missing date or value are dropped, as are
// rows dated after cutoff. The result is sorted ascending by date.
// A non-empty date that cannot be parsed fails the whole table.
func Normalize(t *Table, rules RuleSet, cutoff time.Time) ([]series.Point, error) {
	if t == nil {
		return nil, ErrEmptyBody
	}
	sel, err := SelectColumns(t.Columns, rules)
	if err != nil {
		return nil, err
	}

	points := make([]series.Point, 0, len(t.Rows))
	for i := range t.Rows {
		raw := t.Cell(i, sel.Date)
		if strings.TrimSpace(raw) == "" {
			continue
		}
		date, err := ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", t.Columns[sel.Date], i+1, err)
		}
		value, ok := parseValue(t.Cell(i, sel.Value))
		if !ok {
			continue
		}
		if date.After(cutoff) {
			continue
		}
		points = append(points, series.Point{Date: date, Value: value})
	}

	series.Sort(points)
	return points, nil
}

// FromPoints builds a canonical (date, value) table, the inverse of Normalize.
func FromPoints(points []series.Point) *Table {
	t := &Table{Columns: []string{string(FieldDate), string(FieldValue)}}
	for _, p := range points {
		t.Rows = append(t.Rows, []string{
			p.Date.Format("2006-01-02"),
			formatFloat(p.Value),
		})
	}
	return t
}

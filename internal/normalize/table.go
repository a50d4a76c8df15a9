package normalize

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/gjson"
)

// Table is a raw tabular payload with columns in their original order.
type Table struct {
	Columns []string
	Rows    [][]string
}

var (
	// ErrEmptyBody is returned when a payload carries no header at all.
	ErrEmptyBody = errors.New("empty body")
	// ErrTooFewColumns is returned when a table cannot hold a date and a value.
	ErrTooFewColumns = errors.New("table needs at least two columns")
	// ErrNoRows is returned when nothing survives normalization.
	ErrNoRows = errors.New("no usable rows")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Cell returns the value of column col in row, or "" when the row is short.
func (t *Table) Cell(row, col int) string {
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// ParseCSV reads a comma-separated body with a header row.
// Rows may have fewer or more fields than the header.
func ParseCSV(body []byte) (*Table, error) {
	body = bytes.TrimPrefix(body, utf8BOM)
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyBody
	}

	r := csv.NewReader(bytes.NewReader(body))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	t := &Table{Columns: trimAll(header)}

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(t.Rows)+2, err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		t.Rows = append(t.Rows, trimAll(rec))
	}
	return t, nil
}

// recordPaths are the envelope locations searched, in order, for the record
// array when the body is an object.
var recordPaths = []string{"data", "result", "items", "response.body.items.item"}

// ErrAPIStatus reports an envelope whose status marks the request as failed.
var ErrAPIStatus = errors.New("api returned error status")

// ParseJSON reads an array of flat objects, or an object holding one in a
// known envelope. Column order follows the key order of the first record;
// later keys are appended.
func ParseJSON(body []byte) (*Table, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("invalid json")
	}
	root := gjson.ParseBytes(body)
	records := root
	if root.IsObject() {
		if err := envelopeStatus(root); err != nil {
			return nil, err
		}
		records = gjson.Result{}
		for _, path := range recordPaths {
			if r := root.Get(path); r.Exists() {
				records = r
				break
			}
		}
	}
	if !records.IsArray() {
		return nil, errors.New("json body is not an array of records")
	}

	t := &Table{}
	index := map[string]int{}
	var rows []map[string]string

	records.ForEach(func(_, rec gjson.Result) bool {
		if !rec.IsObject() {
			return true
		}
		row := map[string]string{}
		rec.ForEach(func(k, v gjson.Result) bool {
			name := strings.TrimSpace(k.String())
			if _, ok := index[name]; !ok {
				index[name] = len(t.Columns)
				t.Columns = append(t.Columns, name)
			}
			if v.Type != gjson.Null {
				row[name] = strings.TrimSpace(v.String())
			}
			return true
		})
		rows = append(rows, row)
		return true
	})

	if len(t.Columns) == 0 {
		return nil, ErrEmptyBody
	}
	for _, row := range rows {
		cells := make([]string, len(t.Columns))
		for name, v := range row {
			cells[index[name]] = v
		}
		t.Rows = append(t.Rows, cells)
	}
	return t, nil
}

// envelopeStatus rejects {"status":"0","message":...} and data.go.kr style
// {"response":{"header":{"resultCode":...}}} envelopes that report failure.
func envelopeStatus(root gjson.Result) error {
	if status := root.Get("status"); status.Exists() && status.String() == "0" {
		return fmt.Errorf("%w: %s", ErrAPIStatus, root.Get("message").String())
	}
	if code := root.Get("response.header.resultCode"); code.Exists() && code.String() != "00" {
		return fmt.Errorf("%w: %s %s", ErrAPIStatus, code.String(), root.Get("response.header.resultMsg").String())
	}
	return nil
}

// Parse picks the decoder from the content type, falling back to sniffing the body.
func Parse(contentType string, body []byte) (*Table, error) {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(body, utf8BOM))
	if strings.Contains(strings.ToLower(contentType), "json") ||
		(len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{')) {
		return ParseJSON(trimmed)
	}
	return ParseCSV(body)
}

func trimAll(fields []string) []string {
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}

package normalize

import "strings"

// Field is the canonical column a rule selects for.
type Field string

const (
	FieldDate  Field = "date"
	FieldValue Field = "value"
)

// Match controls how a rule compares keywords with column names.
// Comparison is always case-insensitive.
type Match int

const (
	// MatchExact requires the whole column name to equal a keyword.
	MatchExact Match = iota
	// MatchContains requires the column name to contain a keyword.
	MatchContains
)

// Rule maps columns whose name matches one of Keywords to Field.
type Rule struct {
	Field    Field
	Match    Match
	Keywords []string
}

func (r Rule) matches(column string) bool {
	name := strings.ToLower(strings.TrimSpace(column))
	for _, kw := range r.Keywords {
		kw = strings.ToLower(kw)
		switch r.Match {
		case MatchExact:
			if name == kw {
				return true
			}
		case MatchContains:
			if strings.Contains(name, kw) {
				return true
			}
		}
	}
	return false
}

// RuleSet is a ranked list of rules, evaluated in order.
type RuleSet []Rule

// DateRules locate the date column of any dataset.
var DateRules = RuleSet{
	{Field: FieldDate, Match: MatchExact, Keywords: []string{"date", "datetime"}},
	{Field: FieldDate, Match: MatchContains, Keywords: []string{"year", "ym", "month"}},
}

// GlobalRules select columns of global mean sea level tables.
var GlobalRules = append(RuleSet{
	{Field: FieldValue, Match: MatchExact, Keywords: []string{"value"}},
	{Field: FieldValue, Match: MatchContains, Keywords: []string{"gmsl", "sea", "level"}},
}, DateRules...)

// RegionalRules select columns of Korean coastal sea level tables.
var RegionalRules = append(RuleSet{
	{Field: FieldValue, Match: MatchExact, Keywords: []string{"value"}},
	{Field: FieldValue, Match: MatchContains, Keywords: []string{"sea", "수면", "height"}},
	{Field: FieldValue, Match: MatchExact, Keywords: []string{"m"}},
}, DateRules...)

// Selection is the pair of column indexes chosen for a table.
type Selection struct {
	Date  int
	Value int
}

// SelectColumns picks the date and value columns. Date rules are applied
// before value rules so a column used as the date is never reused as the value.
// Within a rule the first matching column in original order wins.
// Without a match, the date falls back to the first column and the value to
// the second (or the first column that is not the date).
func SelectColumns(columns []string, rules RuleSet) (Selection, error) {
	if len(columns) < 2 {
		return Selection{}, ErrTooFewColumns
	}

	sel := Selection{Date: -1, Value: -1}
	sel.Date = firstMatch(columns, rules, FieldDate, -1)
	if sel.Date < 0 {
		sel.Date = 0
	}
	sel.Value = firstMatch(columns, rules, FieldValue, sel.Date)
	if sel.Value < 0 {
		sel.Value = 1
		if sel.Date == 1 {
			sel.Value = 0
		}
	}
	return sel, nil
}

func firstMatch(columns []string, rules RuleSet, field Field, skip int) int {
	for _, rule := range rules {
		if rule.Field != field {
			continue
		}
		for i, c := range columns {
			if i == skip {
				continue
			}
			if rule.matches(c) {
				return i
			}
		}
	}
	return -1
}

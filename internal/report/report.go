// Package report holds the built-in report datasets shown beside the
// resolved sea level series: a synthetic temperature/sea level time series,
// survey summaries and per-country trend figures.
package report

// Options are the viewer toggles for the user time series.
type Options struct {
	Smooth   bool
	ShowTemp bool
	ShowSea  bool
}

// DefaultOptions turns everything on.
var DefaultOptions = Options{Smooth: true, ShowTemp: true, ShowSea: true}

// Labeled is one category and its percentage.
type Labeled struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// LabeledSet is a small categorical table with its column headers.
type LabeledSet struct {
	Name        string    `json:"name"`
	Title       string    `json:"title"`
	LabelColumn string    `json:"label_column"`
	ValueColumn string    `json:"value_column"`
	Items       []Labeled `json:"items"`
}

// Labels returns the category labels in order.
func (s LabeledSet) Labels() []string {
	out := make([]string, len(s.Items))
	for i, item := range s.Items {
		out[i] = item.Label
	}
	return out
}

// Values returns the percentages in order.
func (s LabeledSet) Values() []float64 {
	out := make([]float64, len(s.Items))
	for i, item := range s.Items {
		out[i] = item.Value
	}
	return out
}

const ratioColumn = "비율"

// Survey is the climate anxiety survey of low-income children and teenagers.
var Survey = LabeledSet{
	Name:        "survey",
	Title:       "기후위기로 인한 불안감 응답 비율",
	LabelColumn: "항목",
	ValueColumn: ratioColumn,
	Items: []Labeled{
		{Label: "기후위기 불안(매우 그렇다)", Value: 24.8},
		{Label: "기후위기 불안(그렇다)", Value: 51.5},
		{Label: "불안감 없음", Value: 23.7},
	},
}

// AgeDistribution is the age split of the survey respondents.
var AgeDistribution = LabeledSet{
	Name:        "age",
	Title:       "조사 대상 연령대 분포",
	LabelColumn: "연령대",
	ValueColumn: ratioColumn,
	Items: []Labeled{
		{Label: "만 5~12세", Value: 63.4},
		{Label: "만 13~18세", Value: 36.6},
	},
}

// JobsOpinion is how strongly teenagers expect the climate crisis to affect their future jobs.
var JobsOpinion = LabeledSet{
	Name:        "jobs",
	Title:       "청소년의 기후위기 영향 인식 (예시)",
	LabelColumn: "영향인식",
	ValueColumn: ratioColumn,
	Items: []Labeled{
		{Label: "높음", Value: 55},
		{Label: "보통", Value: 30},
		{Label: "낮음", Value: 15},
	},
}

// Country is a per-country sea level trend in mm per year.
type Country struct {
	Name           string  `json:"country"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	TrendMMPerYear float64 `json:"sea_level_trend_mm_per_year"`
}

// CountryTrends are summary figures used where gridded satellite data is unavailable.
var CountryTrends = []Country{
	{Name: "대한민국", Lat: 36.5, Lon: 127.5, TrendMMPerYear: 3.06},
	{Name: "오스트레일리아", Lat: -25.0, Lon: 133.0, TrendMMPerYear: 4.0},
	{Name: "미국", Lat: 37.1, Lon: -95.7, TrendMMPerYear: 3.3},
	{Name: "몰디브", Lat: 3.2, Lon: 73.5, TrendMMPerYear: 6.5},
	{Name: "방글라데시", Lat: 23.7, Lon: 90.4, TrendMMPerYear: 5.0},
}
